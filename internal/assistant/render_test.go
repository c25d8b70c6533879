package assistant

import (
	"encoding/json"
	"testing"

	"github.com/genycrm/genycrm/internal/query"
)

func TestRenderWithoutSQLReturnsExplanationVerbatim(t *testing.T) {
	reply := ModelReply{Explanation: "Olá! Como posso ajudar?"}
	got := RenderAnswer(reply, query.Result{Value: map[string]any{"ignored": "x"}})
	if got != "Olá! Como posso ajudar?" {
		t.Fatalf("RenderAnswer() = %q", got)
	}
}

func TestRenderSingleRowCurrency(t *testing.T) {
	reply := ModelReply{
		SQL:         "SELECT SUM(valor_final) AS faturamento FROM orders",
		Explanation: "O faturamento deste mês é {{faturamento}}.",
	}
	result := query.Result{Value: map[string]any{"faturamento": json.Number("12345.6")}}
	got := RenderAnswer(reply, result)
	if got != "O faturamento deste mês é R$ 12.345,60." {
		t.Fatalf("RenderAnswer() = %q", got)
	}
	if UnresolvedPlaceholders(got) != 0 {
		t.Fatalf("unresolved placeholders in %q", got)
	}
}

func TestRenderSingleRowWholeNumberAsCount(t *testing.T) {
	reply := ModelReply{
		SQL:         "SELECT COUNT(*) AS pedidos FROM orders",
		Explanation: "Você tem {{pedidos}} pedidos.",
	}
	result := query.Result{Value: map[string]any{"pedidos": json.Number("1234")}}
	got := RenderAnswer(reply, result)
	if got != "Você tem 1.234 pedidos." {
		t.Fatalf("RenderAnswer() = %q", got)
	}
}

func TestRenderSingleRowResolvesEveryKey(t *testing.T) {
	reply := ModelReply{
		SQL:         "SELECT 'Ana' AS nome, 3 AS vendas",
		Explanation: "{{nome}} fez {{vendas}} vendas.",
	}
	result := query.Result{Value: map[string]any{
		"nome":   "Ana",
		"vendas": json.Number("3"),
	}}
	got := RenderAnswer(reply, result)
	if got != "Ana fez 3 vendas." {
		t.Fatalf("RenderAnswer() = %q", got)
	}
}

func TestRenderMissingKeyFallsBackToZero(t *testing.T) {
	reply := ModelReply{
		SQL:         "SELECT SUM(valor_final) AS total FROM orders",
		Explanation: "O total é {{faturamento}}.",
	}
	result := query.Result{Value: map[string]any{"total": json.Number("10")}}
	got := RenderAnswer(reply, result)
	if got != "O total é 0." {
		t.Fatalf("RenderAnswer() = %q", got)
	}
}

func TestRenderNullValueFallsBackToZero(t *testing.T) {
	reply := ModelReply{
		SQL:         "SELECT SUM(valor_final) AS faturamento FROM orders WHERE false",
		Explanation: "O faturamento é {{faturamento}}.",
	}
	result := query.Result{Value: map[string]any{"faturamento": nil}}
	got := RenderAnswer(reply, result)
	if got != "O faturamento é 0." {
		t.Fatalf("RenderAnswer() = %q", got)
	}
}

func TestRenderNilResultFallsBackToZero(t *testing.T) {
	reply := ModelReply{
		SQL:         "SELECT SUM(valor_final) AS faturamento FROM orders",
		Explanation: "O faturamento é {{faturamento}}.",
	}
	got := RenderAnswer(reply, query.Result{})
	if got != "O faturamento é 0." {
		t.Fatalf("RenderAnswer() = %q", got)
	}
}

func TestRenderRowSequenceJoinsInRowOrder(t *testing.T) {
	reply := ModelReply{
		SQL:         "SELECT nome FROM sellers ORDER BY total DESC",
		Explanation: "Os melhores vendedores são: {{nome}}.",
	}
	result := query.Result{Value: []any{
		map[string]any{"nome": "Carla"},
		map[string]any{"nome": "Ana"},
		map[string]any{"nome": "Bruno"},
	}}
	got := RenderAnswer(reply, result)
	if got != "Os melhores vendedores são: Carla, Ana, Bruno." {
		t.Fatalf("RenderAnswer() = %q", got)
	}
}

func TestRenderRowSequenceUnknownKeyStaysLiteral(t *testing.T) {
	reply := ModelReply{
		SQL:         "SELECT nome FROM sellers",
		Explanation: "Vendedores: {{vendedor}}.",
	}
	result := query.Result{Value: []any{
		map[string]any{"nome": "Ana"},
		map[string]any{"nome": "Bruno"},
	}}
	got := RenderAnswer(reply, result)
	if got != "Vendedores: {{vendedor}}." {
		t.Fatalf("RenderAnswer() = %q", got)
	}
	if UnresolvedPlaceholders(got) != 1 {
		t.Fatalf("UnresolvedPlaceholders(%q) = %d", got, UnresolvedPlaceholders(got))
	}
}

func TestRenderScalarBindsSinglePlaceholder(t *testing.T) {
	reply := ModelReply{
		SQL:         "SELECT COUNT(*) FROM customers",
		Explanation: "Existem {{clientes}} clientes.",
	}
	got := RenderAnswer(reply, query.Result{Value: json.Number("87")})
	if got != "Existem 87 clientes." {
		t.Fatalf("RenderAnswer() = %q", got)
	}
}

func TestRenderScalarWithTwoPlaceholdersStaysLiteral(t *testing.T) {
	reply := ModelReply{
		SQL:         "SELECT 1",
		Explanation: "{{a}} e {{b}}",
	}
	got := RenderAnswer(reply, query.Result{Value: json.Number("1")})
	if got != "{{a}} e {{b}}" {
		t.Fatalf("RenderAnswer() = %q", got)
	}
}

func TestRenderEmptyExplanationUsesValueFallback(t *testing.T) {
	reply := ModelReply{SQL: "SELECT 5 AS valor"}
	result := query.Result{Value: map[string]any{"valor": json.Number("5")}}
	got := RenderAnswer(reply, result)
	if got != "Resultado: 5" {
		t.Fatalf("RenderAnswer() = %q", got)
	}
}

func TestRenderBooleanPassesThrough(t *testing.T) {
	reply := ModelReply{
		SQL:         "SELECT true AS ativo",
		Explanation: "Ativo: {{ativo}}",
	}
	result := query.Result{Value: map[string]any{"ativo": true}}
	if got := RenderAnswer(reply, result); got != "Ativo: true" {
		t.Fatalf("RenderAnswer() = %q", got)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	reply := ModelReply{
		SQL:         "SELECT SUM(valor_final) AS faturamento FROM orders",
		Explanation: "Faturamento: {{faturamento}}",
	}
	result := query.Result{Value: map[string]any{"faturamento": json.Number("99.5")}}
	first := RenderAnswer(reply, result)
	second := RenderAnswer(reply, result)
	if first != second {
		t.Fatalf("render not idempotent: %q vs %q", first, second)
	}
}
