package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// isUniqueConstraintError checks if an error is a unique constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "unique") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "already exists")
}

// encodeDocument converts a domain entity into a SurrealDB CONTENT document.
// Entity IDs render as their canonical strings via their text marshalers, so
// the stored document matches the wire format byte for byte.
func encodeDocument(entity interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return doc, nil
}

// decodeDocument converts a raw SurrealDB result into a domain entity. Driver
// types (record IDs, datetimes) are normalized to their string forms first so
// the entity's own unmarshalers take over from there.
func decodeDocument(raw interface{}, out interface{}) error {
	data, err := json.Marshal(normalizeValue(raw))
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// normalizeValue rewrites SurrealDB driver types into plain JSON-friendly
// values, recursively.
func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case models.CustomDateTime:
		return t.Time.UTC().Format(time.RFC3339Nano)
	case *models.CustomDateTime:
		if t == nil {
			return nil
		}
		return t.Time.UTC().Format(time.RFC3339Nano)
	case models.RecordID:
		return recordKey(t)
	case *models.RecordID:
		if t == nil {
			return nil
		}
		return recordKey(*t)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = normalizeValue(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = normalizeValue(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	default:
		return v
	}
}

// recordKey extracts the bare key from a record ID, dropping the table half
// of "table:key".
func recordKey(id models.RecordID) string {
	if s, ok := id.ID.(string); ok {
		return s
	}
	full := id.String()
	if i := strings.IndexByte(full, ':'); i >= 0 {
		return strings.Trim(full[i+1:], "⟨⟩")
	}
	return full
}

// extractQueryResults extracts the result array from a SurrealDB response
func extractQueryResults(result interface{}) ([]interface{}, bool) {
	if results, ok := result.([]interface{}); ok {
		if len(results) > 0 {
			if firstResult, ok := results[0].(map[string]interface{}); ok {
				if resultArray, ok := firstResult["result"].([]interface{}); ok {
					return resultArray, true
				}
			}
			// Direct array format
			return results, true
		}
	}
	return nil, false
}
