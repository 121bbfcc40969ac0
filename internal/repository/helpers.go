package repository

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// safeFieldPattern matches field names that may be interpolated into a
// query. Field names reaching the repository already passed a resource
// allow-list; this is the backstop.
var safeFieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func isSafeField(name string) bool {
	return safeFieldPattern.MatchString(name)
}

// extractRecordID converts the driver's record-id representations to the
// canonical "table:id" string form.
func extractRecordID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return v.String()
	case *models.RecordID:
		if v != nil {
			return v.String()
		}
	case map[string]interface{}:
		if tb, ok := v["tb"].(string); ok {
			if inner, ok := v["id"].(string); ok {
				return tb + ":" + inner
			}
		}
	}

	// Fallback via JSON round trip
	if data, err := json.Marshal(id); err == nil {
		var recordID models.RecordID
		if err := json.Unmarshal(data, &recordID); err == nil {
			return recordID.String()
		}
	}

	return ""
}

// ensureRecordID qualifies a bare id with its table name so callers may pass
// either "dukaan:abc" or just "abc".
func ensureRecordID(table, id string) string {
	if strings.Contains(id, ":") {
		return id
	}
	return table + ":" + id
}

// normalizeDoc converts driver-specific value types in a record to plain
// JSON-friendly values: record links become "table:id" strings and
// datetimes become RFC 3339 strings.
func normalizeDoc(doc map[string]interface{}) map[string]interface{} {
	for key, value := range doc {
		switch v := value.(type) {
		case models.RecordID:
			doc[key] = v.String()
		case *models.RecordID:
			if v != nil {
				doc[key] = v.String()
			}
		case models.CustomDateTime:
			doc[key] = v.Time.UTC().Format(time.RFC3339)
		case *models.CustomDateTime:
			if v != nil {
				doc[key] = v.Time.UTC().Format(time.RFC3339)
			}
		}
	}
	return doc
}

// recordsFromResults unwraps the database layer's {status, result} response
// wrappers into a flat, normalized slice of documents.
func recordsFromResults(results []interface{}) []map[string]interface{} {
	docs := make([]map[string]interface{}, 0)
	for _, r := range results {
		wrapper, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		resultData, ok := wrapper["result"].([]interface{})
		if !ok {
			continue
		}
		for _, item := range resultData {
			if record, ok := item.(map[string]interface{}); ok {
				docs = append(docs, normalizeDoc(record))
			}
		}
	}
	return docs
}

// recordFromResult normalizes a single QueryOne result into a document.
func recordFromResult(result interface{}) map[string]interface{} {
	if record, ok := result.(map[string]interface{}); ok {
		return normalizeDoc(record)
	}
	return nil
}

// extractCount extracts the count value from a count query result.
func extractCount(result interface{}) int {
	if record, ok := result.(map[string]interface{}); ok {
		return toInt(record["count"])
	}
	return toInt(result)
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// nilIfEmpty maps empty strings to nil so optional fields store as NONE
func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func toInt(v interface{}) int {
	switch c := v.(type) {
	case float64:
		return int(c)
	case float32:
		return int(c)
	case int:
		return c
	case int64:
		return int(c)
	case uint64:
		return int(c)
	}
	return 0
}
