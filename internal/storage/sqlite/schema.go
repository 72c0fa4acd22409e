package sqlite

const schemaSQL = `
CREATE TABLE IF NOT EXISTS clients (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    wallet_total TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS client_allocations (
    client_id    TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
    class        TEXT NOT NULL,
    percentage   TEXT NOT NULL,
    PRIMARY KEY (client_id, class)
);

CREATE TABLE IF NOT EXISTS client_events (
    client_id    TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
    position     INTEGER NOT NULL,
    type         TEXT NOT NULL,
    value        TEXT NOT NULL,
    frequency    TEXT NOT NULL,
    event_date   TEXT,
    PRIMARY KEY (client_id, position)
);

CREATE TABLE IF NOT EXISTS client_goals (
    client_id    TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
    position     INTEGER NOT NULL,
    goal_id      TEXT NOT NULL,
    type         TEXT NOT NULL,
    amount       TEXT NOT NULL,
    target_at    TEXT NOT NULL,
    PRIMARY KEY (client_id, position)
);

CREATE TABLE IF NOT EXISTS simulations (
    id                   TEXT PRIMARY KEY,
    client_id            TEXT NOT NULL,
    name                 TEXT NOT NULL,
    description          TEXT NOT NULL DEFAULT '',
    parameters_json      TEXT NOT NULL,
    results_final_value  TEXT NOT NULL,
    results_total_return TEXT NOT NULL,
    projection_years     INTEGER NOT NULL,
    projection_json      TEXT,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS simulation_tags (
    simulation_id TEXT NOT NULL REFERENCES simulations(id) ON DELETE CASCADE,
    position      INTEGER NOT NULL,
    tag           TEXT NOT NULL,
    PRIMARY KEY (simulation_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_simulations_client ON simulations(client_id);
CREATE INDEX IF NOT EXISTS idx_simulations_client_created ON simulations(client_id, created_at);
CREATE INDEX IF NOT EXISTS idx_simulation_tags_tag ON simulation_tags(tag);
`
