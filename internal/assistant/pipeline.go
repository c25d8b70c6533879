package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/genycrm/genycrm/internal/observability"
	"github.com/genycrm/genycrm/internal/query"
)

// Stage names the pipeline states. A turn walks from init through
// prompted, generated and parsed to either no_query or executed and
// finally rendered; any stage may end in failed.
type Stage string

const (
	StageInit      Stage = "init"
	StagePrompted  Stage = "prompted"
	StageGenerated Stage = "generated"
	StageParsed    Stage = "parsed"
	StageNoQuery   Stage = "no_query"
	StageExecuted  Stage = "executed"
	StageRendered  Stage = "rendered"
	StageFailed    Stage = "failed"
)

const (
	generationFailedAnswer = "Desculpe, ocorreu um erro ao processar sua pergunta. Tente novamente em instantes."
	queryRejectedAnswer    = "Desculpe, só posso executar consultas de leitura sobre os dados do CRM."
	noQueryFallbackAnswer  = "Não consegui gerar uma consulta para essa pergunta."
)

// Turn is the outcome of one chat question. Response always carries
// renderable text, even when the turn failed internally.
type Turn struct {
	Stage    Stage
	Response string
	Reply    *ModelReply
	Result   any
	Err      string
}

func (t Turn) Failed() bool {
	return t.Stage == StageFailed
}

type Pipeline struct {
	Prompts      *PromptLoader
	Generator    Generator
	Executor     query.Executor
	Logger       *slog.Logger
	QueryTimeout time.Duration
}

// Run executes one chat turn. Failures degrade per stage: prompt-store
// problems fall back to the default prompt, unparsable model output
// becomes the explanation, and query failures become an apology
// embedding the database error. Only the generation call is fatal to
// the turn, and even that yields a Portuguese sentence, never an
// error across the boundary.
func (p *Pipeline) Run(ctx context.Context, question string) Turn {
	systemPrompt := p.Prompts.Load(ctx)

	generationStart := time.Now()
	raw, err := p.Generator.Generate(ctx, systemPrompt, question)
	observability.ObserveGeneration(time.Since(generationStart))
	if err != nil {
		observability.ObserveStageFailure(string(StageGenerated))
		observability.ObserveChatTurn("generation_failed")
		p.log(ctx, slog.LevelError, "model generation failed", slog.Any("error", err))
		return Turn{Stage: StageFailed, Response: generationFailedAnswer, Err: err.Error()}
	}

	reply := ParseModelReply(raw)
	if reply.SQL == "" && reply.Explanation == "" {
		// Defensive: ParseModelReply only yields this for empty input.
		observability.ObserveStageFailure(string(StageParsed))
		observability.ObserveChatTurn("generation_failed")
		return Turn{Stage: StageFailed, Response: generationFailedAnswer, Err: "model returned empty output"}
	}

	if reply.SQL == "" {
		answer := reply.Explanation
		if strings.TrimSpace(answer) == "" {
			answer = noQueryFallbackAnswer
		}
		observability.ObserveChatTurn("no_query")
		return Turn{Stage: StageRendered, Response: answer, Reply: &reply}
	}

	if !query.IsReadOnly(reply.SQL) {
		observability.ObserveStageFailure(string(StageExecuted))
		observability.ObserveChatTurn("query_rejected")
		p.log(ctx, slog.LevelWarn, "generated query rejected by allow-list", slog.String("sql", reply.SQL))
		return Turn{
			Stage:    StageFailed,
			Response: queryRejectedAnswer,
			Reply:    &reply,
			Err:      "generated query is not a read-only statement",
		}
	}

	queryCtx := ctx
	if p.QueryTimeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, p.QueryTimeout)
		defer cancel()
	}
	queryStart := time.Now()
	result, err := p.Executor.Execute(queryCtx, reply.SQL)
	observability.ObserveQuery(time.Since(queryStart))
	if err != nil {
		observability.ObserveStageFailure(string(StageExecuted))
		observability.ObserveChatTurn("execution_failed")
		p.log(ctx, slog.LevelError, "query execution failed",
			slog.String("sql", reply.SQL),
			slog.Any("error", err),
		)
		return Turn{
			Stage:    StageFailed,
			Response: fmt.Sprintf("Desculpe, ocorreu um erro ao consultar os dados: %s", err),
			Reply:    &reply,
			Err:      err.Error(),
		}
	}

	answer := RenderAnswer(reply, result)
	if unresolved := UnresolvedPlaceholders(answer); unresolved > 0 {
		observability.ObserveUnresolvedPlaceholders(unresolved)
		p.log(ctx, slog.LevelWarn, "rendered answer has unresolved placeholders",
			slog.Int("count", unresolved),
			slog.String("sql", reply.SQL),
		)
	}
	observability.ObserveChatTurn("answered")
	return Turn{Stage: StageRendered, Response: answer, Reply: &reply, Result: result.Value}
}

func (p *Pipeline) log(ctx context.Context, level slog.Level, msg string, attrs ...any) {
	if p.Logger == nil {
		return
	}
	p.Logger.Log(ctx, level, msg, attrs...)
}
