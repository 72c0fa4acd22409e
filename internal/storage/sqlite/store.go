// Package sqlite persists clients and saved simulations in a single SQLite
// database file. Amounts are stored as decimal strings to keep them exact;
// value-ordered listings cast to REAL inside the query.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wpgo/wealth-planner/internal/domain"

	_ "modernc.org/sqlite" // register sqlite driver
)

// timeFormat is RFC3339 with fixed-width nanoseconds so the TEXT columns sort
// chronologically under the plain lexicographic ORDER BY.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store is the SQLite-backed persistence layer.
type Store struct {
	db *sql.DB
}

var _ domain.Store = (*Store)(nil)

// Open opens or creates the database at the given path and applies the
// schema.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Client loads one client with wallet, events and goals populated.
func (s *Store) Client(ctx context.Context, id string) (*domain.Client, error) {
	client := &domain.Client{ID: id}
	var total string
	err := s.db.QueryRowContext(ctx, "SELECT name, wallet_total FROM clients WHERE id = ?", id).
		Scan(&client.Name, &total)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("client", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading client %s: %w", id, err)
	}
	if client.Wallet.TotalValue, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("client %s wallet total: %w", id, err)
	}

	if client.Wallet.Allocation, err = s.loadAllocation(ctx, id); err != nil {
		return nil, fmt.Errorf("client %s allocation: %w", id, err)
	}
	if client.Events, err = s.loadEvents(ctx, id); err != nil {
		return nil, fmt.Errorf("client %s events: %w", id, err)
	}
	if client.Goals, err = s.loadGoals(ctx, id); err != nil {
		return nil, fmt.Errorf("client %s goals: %w", id, err)
	}
	return client, nil
}

// ClientIDs lists all stored client ids in lexical order.
func (s *Store) ClientIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM clients ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PutClient inserts or fully replaces a client record, including its
// allocation, events and goals.
func (s *Store) PutClient(ctx context.Context, client *domain.Client) error {
	if client == nil || client.ID == "" {
		return domain.NewValidation("client id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO clients (id, name, wallet_total)
		VALUES (?, ?, ?)`, client.ID, client.Name, client.Wallet.TotalValue.String())
	if err != nil {
		return fmt.Errorf("saving client %s: %w", client.ID, err)
	}

	// Replacing the parent row cascades the children away; the explicit
	// deletes also cover a plain update path.
	for _, table := range []string{"client_allocations", "client_events", "client_goals"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE client_id = ?", client.ID); err != nil {
			return err
		}
	}

	for class, pct := range client.Wallet.Allocation {
		_, err := tx.ExecContext(ctx, `INSERT INTO client_allocations (client_id, class, percentage)
			VALUES (?, ?, ?)`, client.ID, class, pct.String())
		if err != nil {
			return err
		}
	}
	for i, ev := range client.Events {
		var date interface{}
		if ev.Date != nil {
			date = ev.Date.UTC().Format(timeFormat)
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO client_events (client_id, position, type, value, frequency, event_date)
			VALUES (?, ?, ?, ?, ?, ?)`, client.ID, i, ev.Type, ev.Value.String(), string(ev.Frequency), date)
		if err != nil {
			return err
		}
	}
	for i, goal := range client.Goals {
		_, err := tx.ExecContext(ctx, `INSERT INTO client_goals (client_id, position, goal_id, type, amount, target_at)
			VALUES (?, ?, ?, ?, ?, ?)`, client.ID, i, goal.ID, goal.Type, goal.Amount.String(), goal.TargetAt.UTC().Format(timeFormat))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveSimulation inserts a simulation record with its projection payload and
// tags.
func (s *Store) SaveSimulation(ctx context.Context, sim *domain.SimulationMetadata) error {
	if sim == nil || sim.ID == "" {
		return domain.NewValidation("simulation id is required")
	}

	params, err := json.Marshal(sim.Parameters)
	if err != nil {
		return fmt.Errorf("encoding parameters: %w", err)
	}
	var payload interface{}
	if sim.Projection != nil {
		raw, err := json.Marshal(sim.Projection)
		if err != nil {
			return fmt.Errorf("encoding projection: %w", err)
		}
		payload = string(raw)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO simulations
		(id, client_id, name, description, parameters_json,
		 results_final_value, results_total_return, projection_years,
		 projection_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sim.ID, sim.ClientID, sim.Name, sim.Description, string(params),
		sim.Results.FinalValue.String(), sim.Results.TotalReturn.String(), sim.Results.ProjectionYears,
		payload, sim.CreatedAt.UTC().Format(timeFormat), sim.UpdatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("saving simulation %s: %w", sim.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM simulation_tags WHERE simulation_id = ?", sim.ID); err != nil {
		return err
	}
	if err := insertTags(ctx, tx, sim.ID, sim.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// Simulation loads one simulation including its projection payload.
func (s *Store) Simulation(ctx context.Context, id string) (*domain.SimulationMetadata, error) {
	row := s.db.QueryRowContext(ctx, `SELECT client_id, name, description, parameters_json,
		results_final_value, results_total_return, projection_years,
		projection_json, created_at, updated_at
		FROM simulations WHERE id = ?`, id)

	sim := domain.SimulationMetadata{ID: id}
	var params, final, total, created, updated string
	var payload sql.NullString
	err := row.Scan(&sim.ClientID, &sim.Name, &sim.Description, &params,
		&final, &total, &sim.Results.ProjectionYears, &payload, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("simulation", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading simulation %s: %w", id, err)
	}

	if err := decodeRow(&sim, params, final, total, created, updated); err != nil {
		return nil, fmt.Errorf("decoding simulation %s: %w", id, err)
	}
	if payload.Valid && payload.String != "" {
		sim.Projection = &domain.WealthProjection{}
		if err := json.Unmarshal([]byte(payload.String), sim.Projection); err != nil {
			return nil, fmt.Errorf("decoding simulation %s projection: %w", id, err)
		}
	}

	rows, err := s.db.QueryContext(ctx, "SELECT tag FROM simulation_tags WHERE simulation_id = ? ORDER BY position", id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		sim.Tags = append(sim.Tags, tag)
	}
	return &sim, rows.Err()
}

// Simulations returns one page of a client's simulations ordered inside the
// query, payloads omitted, plus the total count after tag filtering.
func (s *Store) Simulations(ctx context.Context, clientID string, opts domain.ListOptions) ([]domain.SimulationMetadata, int, error) {
	opts = opts.Normalize()

	where := "client_id = ?"
	args := []interface{}{clientID}
	if len(opts.Tags) > 0 {
		where += " AND id IN (SELECT simulation_id FROM simulation_tags WHERE tag IN (" + placeholders(len(opts.Tags)) + "))"
		for _, tag := range opts.Tags {
			args = append(args, tag)
		}
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM simulations WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting simulations: %w", err)
	}

	query := `SELECT id, client_id, name, description, parameters_json,
		results_final_value, results_total_return, projection_years, created_at, updated_at
		FROM simulations WHERE ` + where + " ORDER BY " + orderClause(opts) + " LIMIT ? OFFSET ?"
	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing simulations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sims := make([]domain.SimulationMetadata, 0, opts.Limit)
	for rows.Next() {
		var sim domain.SimulationMetadata
		var params, final, totalReturn, created, updated string
		err := rows.Scan(&sim.ID, &sim.ClientID, &sim.Name, &sim.Description, &params,
			&final, &totalReturn, &sim.Results.ProjectionYears, &created, &updated)
		if err != nil {
			return nil, 0, err
		}
		if err := decodeRow(&sim, params, final, totalReturn, created, updated); err != nil {
			return nil, 0, fmt.Errorf("decoding simulation %s: %w", sim.ID, err)
		}
		sims = append(sims, sim)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := s.attachTags(ctx, sims); err != nil {
		return nil, 0, fmt.Errorf("loading tags: %w", err)
	}
	return sims, total, nil
}

// UpdateSimulation replaces the stored name, description, tags and updatedAt
// of an existing record.
func (s *Store) UpdateSimulation(ctx context.Context, sim *domain.SimulationMetadata) error {
	if sim == nil || sim.ID == "" {
		return domain.NewValidation("simulation id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "UPDATE simulations SET name = ?, description = ?, updated_at = ? WHERE id = ?",
		sim.Name, sim.Description, sim.UpdatedAt.UTC().Format(timeFormat), sim.ID)
	if err != nil {
		return fmt.Errorf("updating simulation %s: %w", sim.ID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.NewNotFound("simulation", sim.ID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM simulation_tags WHERE simulation_id = ?", sim.ID); err != nil {
		return err
	}
	if err := insertTags(ctx, tx, sim.ID, sim.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteSimulation removes a simulation by id; tags cascade away.
func (s *Store) DeleteSimulation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM simulations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting simulation %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.NewNotFound("simulation", id)
	}
	return nil
}

func (s *Store) loadAllocation(ctx context.Context, clientID string) (map[string]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT class, percentage FROM client_allocations WHERE client_id = ?", clientID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var allocation map[string]decimal.Decimal
	for rows.Next() {
		var class, pct string
		if err := rows.Scan(&class, &pct); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(pct)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", class, err)
		}
		if allocation == nil {
			allocation = make(map[string]decimal.Decimal)
		}
		allocation[class] = d
	}
	return allocation, rows.Err()
}

func (s *Store) loadEvents(ctx context.Context, clientID string) ([]domain.ClientEvent, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT type, value, frequency, event_date
		FROM client_events WHERE client_id = ? ORDER BY position`, clientID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []domain.ClientEvent
	for rows.Next() {
		var ev domain.ClientEvent
		var value, frequency string
		var date sql.NullString
		if err := rows.Scan(&ev.Type, &value, &frequency, &date); err != nil {
			return nil, err
		}
		if ev.Value, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("event %s value: %w", ev.Type, err)
		}
		ev.Frequency = domain.Frequency(frequency)
		if date.Valid && date.String != "" {
			t, err := time.Parse(time.RFC3339Nano, date.String)
			if err != nil {
				return nil, fmt.Errorf("event %s date: %w", ev.Type, err)
			}
			ev.Date = &t
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *Store) loadGoals(ctx context.Context, clientID string) ([]domain.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT goal_id, type, amount, target_at
		FROM client_goals WHERE client_id = ? ORDER BY position`, clientID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var goals []domain.Goal
	for rows.Next() {
		var goal domain.Goal
		var amount, target string
		if err := rows.Scan(&goal.ID, &goal.Type, &amount, &target); err != nil {
			return nil, err
		}
		if goal.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("goal %s amount: %w", goal.ID, err)
		}
		if goal.TargetAt, err = time.Parse(time.RFC3339Nano, target); err != nil {
			return nil, fmt.Errorf("goal %s target: %w", goal.ID, err)
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// attachTags batch-loads the tags for one result page and attaches them in
// stored order.
func (s *Store) attachTags(ctx context.Context, sims []domain.SimulationMetadata) error {
	if len(sims) == 0 {
		return nil
	}
	ids := make([]interface{}, 0, len(sims))
	index := make(map[string]int, len(sims))
	for i, sim := range sims {
		ids = append(ids, sim.ID)
		index[sim.ID] = i
	}

	rows, err := s.db.QueryContext(ctx, "SELECT simulation_id, tag FROM simulation_tags WHERE simulation_id IN ("+
		placeholders(len(ids))+") ORDER BY simulation_id, position", ids...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var simID, tag string
		if err := rows.Scan(&simID, &tag); err != nil {
			return err
		}
		if i, ok := index[simID]; ok {
			sims[i].Tags = append(sims[i].Tags, tag)
		}
	}
	return rows.Err()
}

// decodeRow fills the decimal and time fields scanned as strings.
func decodeRow(sim *domain.SimulationMetadata, params, final, total, created, updated string) error {
	if err := json.Unmarshal([]byte(params), &sim.Parameters); err != nil {
		return fmt.Errorf("parameters: %w", err)
	}
	var err error
	if sim.Results.FinalValue, err = decimal.NewFromString(final); err != nil {
		return fmt.Errorf("final value: %w", err)
	}
	if sim.Results.TotalReturn, err = decimal.NewFromString(total); err != nil {
		return fmt.Errorf("total return: %w", err)
	}
	if sim.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return fmt.Errorf("created at: %w", err)
	}
	if sim.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return fmt.Errorf("updated at: %w", err)
	}
	return nil
}

func insertTags(ctx context.Context, tx *sql.Tx, simID string, tags []string) error {
	for i, tag := range tags {
		if _, err := tx.ExecContext(ctx, "INSERT INTO simulation_tags (simulation_id, position, tag) VALUES (?, ?, ?)",
			simID, i, tag); err != nil {
			return err
		}
	}
	return nil
}

// orderClause maps normalized list options onto SQL. The value columns hold
// decimal strings, so they order numerically through a REAL cast; id breaks
// ties to keep pagination deterministic.
func orderClause(opts domain.ListOptions) string {
	dir := "DESC"
	if opts.SortOrder == domain.SortAsc {
		dir = "ASC"
	}
	switch opts.SortBy {
	case domain.SortByFinalValue:
		return "CAST(results_final_value AS REAL) " + dir + ", id ASC"
	case domain.SortByTotalReturn:
		return "CAST(results_total_return AS REAL) " + dir + ", id ASC"
	default:
		return "created_at " + dir + ", id ASC"
	}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
