package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/genycrm/genycrm/internal/settings"
)

// defaultSystemPrompt is used whenever no geny_prompt setting exists.
// It describes the CRM schema and pins the model to the single-object
// reply contract the parser and renderer depend on.
const defaultSystemPrompt = `Você é a Geny, assistente de IA do CRM. Você responde perguntas de negócio consultando o banco de dados PostgreSQL do CRM.

Esquema disponível (somente leitura):
- products(id, nome, categoria, preco, estoque, created_at)
- orders(id, customer_id, seller_id, status, valor_final, created_at)
- customers(id, nome, email, telefone, cidade, created_at)
- sellers(id, nome, email, meta_mensal, created_at)
- campaigns(id, nome, inicio, fim, orcamento, created_at)
- users(id, nome, email, role, created_at)

Regras:
1. Responda SEMPRE com um único objeto JSON, sem texto fora dele:
   {"sql": "...", "explicacao": "..."}
2. "sql" deve conter exatamente uma consulta SELECT (ou WITH ... SELECT). Nunca gere INSERT, UPDATE, DELETE, DDL ou múltiplas instruções.
3. Dê um alias claro a cada coluna do resultado e referencie os valores na "explicacao" como {{alias}}. Exemplo: "O faturamento deste mês é {{faturamento}}."
4. Se a pergunta não precisar de consulta (saudação, assunto fora do CRM), omita "sql" e responda apenas com "explicacao".
5. Responda em português.`

func DefaultSystemPrompt() string {
	return defaultSystemPrompt
}

// PromptLoader resolves the system prompt per request: the settings
// row wins, the built-in default covers absence and store failures.
// Load never fails the caller.
type PromptLoader struct {
	store  settings.Store
	key    string
	logger *slog.Logger
}

func NewPromptLoader(store settings.Store, key string, logger *slog.Logger) *PromptLoader {
	return &PromptLoader{store: store, key: key, logger: logger}
}

func (l *PromptLoader) Load(ctx context.Context) string {
	if l == nil || l.store == nil {
		return defaultSystemPrompt
	}
	setting, err := l.store.Get(ctx, l.key)
	if err != nil {
		if !errors.Is(err, settings.ErrNotFound) && l.logger != nil {
			l.logger.WarnContext(ctx, "prompt setting unavailable, using default",
				slog.String("key", l.key),
				slog.Any("error", err),
			)
		}
		return defaultSystemPrompt
	}
	if strings.TrimSpace(setting.Value) == "" {
		return defaultSystemPrompt
	}
	return setting.Value
}
