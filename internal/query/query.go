// Package query defines the read-only execution surface for
// model-generated SQL. All dynamic SQL in the service flows through
// one Executor implementation; nothing else may run query text.
package query

import (
	"context"
	"strings"
)

// Result is the decoded value returned by the read-only entry point:
// nil, a scalar, a single row (map keyed by column alias), or an
// ordered slice of row maps. Numbers are json.Number so the renderer
// can format them without float drift.
type Result struct {
	Value any
}

// Rows normalizes the result to a row slice. A single row map becomes
// a one-element slice; scalars and nil return nil, false.
func (r Result) Rows() ([]map[string]any, bool) {
	switch value := r.Value.(type) {
	case map[string]any:
		return []map[string]any{value}, true
	case []any:
		rows := make([]map[string]any, 0, len(value))
		for _, item := range value {
			row, ok := item.(map[string]any)
			if !ok {
				return nil, false
			}
			rows = append(rows, row)
		}
		return rows, true
	default:
		return nil, false
	}
}

type Executor interface {
	Execute(ctx context.Context, sqlText string) (Result, error)
}

// IsReadOnly reports whether sqlText is a single SELECT or WITH
// statement. Statement separators anywhere but a trailing position are
// rejected, so stacked statements never reach the database even if
// the model ignores its instructions.
func IsReadOnly(sqlText string) bool {
	normalized := strings.TrimSpace(sqlText)
	normalized = strings.TrimSuffix(normalized, ";")
	if normalized == "" {
		return false
	}
	if strings.ContainsRune(normalized, ';') {
		return false
	}
	lowered := strings.ToLower(normalized)
	return strings.HasPrefix(lowered, "select") || strings.HasPrefix(lowered, "with")
}
