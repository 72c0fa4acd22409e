package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key builders used across the engine. Keys are deterministic for identical
// inputs so independent callers converge on the same cache entries, and every
// client-scoped key doubles as the tag used to invalidate that client's
// entries in bulk.

// ClientTag is the invalidation tag covering everything cached for a client.
func ClientTag(clientID string) string {
	return "client:" + clientID
}

// ClientKey caches the client record itself.
func ClientKey(clientID string) string {
	return "client:" + clientID
}

// ProjectionKey caches a projection computed for one client under one
// parameter set. The parameters are serialized and hashed so any change in
// rate or horizon produces a distinct key.
func ProjectionKey(clientID string, params interface{}) string {
	return "projection:" + clientID + ":" + hashParams(params)
}

// SuggestionsKey caches the generated suggestion list for a client.
func SuggestionsKey(clientID string) string {
	return "suggestions:" + clientID
}

// InsuranceSummaryKey caches the coverage summary derived for a client.
func InsuranceSummaryKey(clientID string) string {
	return "insurance-summary:" + clientID
}

// hashParams returns the first 12 hex characters of the SHA-256 of the
// JSON-serialized parameters. Falls back to fmt formatting for values JSON
// cannot express; key stability only matters per parameter type.
func hashParams(params interface{}) string {
	raw, err := json.Marshal(params)
	if err != nil {
		raw = []byte(fmt.Sprintf("%#v", params))
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])[:12]
}
