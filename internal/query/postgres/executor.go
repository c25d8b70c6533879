package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/genycrm/genycrm/internal/query"
)

// Executor runs model-generated SQL through the execute_readonly_query
// database function. The function runs under a role restricted to read
// access; the allow-list in the pipeline is the application-side half
// of that contract.
type Executor struct {
	db *sql.DB
}

func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db}
}

func (e *Executor) Execute(ctx context.Context, sqlText string) (query.Result, error) {
	var payload sql.NullString
	row := e.db.QueryRowContext(ctx, `SELECT execute_readonly_query($1)`, sqlText)
	if err := row.Scan(&payload); err != nil {
		return query.Result{}, fmt.Errorf("execute readonly query: %w", err)
	}
	if !payload.Valid || payload.String == "" {
		return query.Result{}, nil
	}

	value, err := decodeJSON([]byte(payload.String))
	if err != nil {
		return query.Result{}, fmt.Errorf("decode query result: %w", err)
	}
	return query.Result{Value: value}, nil
}

func decodeJSON(raw []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}
