package query

import (
	"encoding/json"
	"testing"
)

func TestIsReadOnly(t *testing.T) {
	cases := []struct {
		sql  string
		want bool
	}{
		{"SELECT 1", true},
		{"  select sum(valor_final) from orders;", true},
		{"WITH t AS (SELECT 1) SELECT * FROM t", true},
		{"DELETE FROM orders", false},
		{"UPDATE orders SET valor_final = 0", false},
		{"SELECT 1; DROP TABLE orders", false},
		{"", false},
		{";", false},
		{"INSERT INTO orders VALUES (1)", false},
	}
	for _, tc := range cases {
		if got := IsReadOnly(tc.sql); got != tc.want {
			t.Fatalf("IsReadOnly(%q) = %v, want %v", tc.sql, got, tc.want)
		}
	}
}

func TestResultRowsSingleRow(t *testing.T) {
	result := Result{Value: map[string]any{"faturamento": json.Number("12345.6")}}
	rows, ok := result.Rows()
	if !ok {
		t.Fatal("expected row normalization")
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
}

func TestResultRowsSequencePreservesOrder(t *testing.T) {
	result := Result{Value: []any{
		map[string]any{"vendedor": "Ana"},
		map[string]any{"vendedor": "Bruno"},
	}}
	rows, ok := result.Rows()
	if !ok {
		t.Fatal("expected row normalization")
	}
	if rows[0]["vendedor"] != "Ana" || rows[1]["vendedor"] != "Bruno" {
		t.Fatalf("rows out of order: %v", rows)
	}
}

func TestResultRowsScalar(t *testing.T) {
	if _, ok := (Result{Value: json.Number("42")}).Rows(); ok {
		t.Fatal("scalar should not normalize to rows")
	}
	if _, ok := (Result{Value: nil}).Rows(); ok {
		t.Fatal("nil should not normalize to rows")
	}
}
