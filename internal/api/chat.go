package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/genycrm/genycrm/internal/assistant"
	"github.com/genycrm/genycrm/internal/auth"
)

type chatRequest struct {
	Message string `json:"message"`
}

// chatResponse is the envelope every handled turn returns with status
// 200. Response is always a renderable sentence; Error is populated
// alongside it when a stage failed, so clients can show the apology
// and still log the cause.
type chatResponse struct {
	Response    string                `json:"response"`
	AIResponse  *assistant.ModelReply `json:"ai_response,omitempty"`
	QueryResult any                   `json:"query_result,omitempty"`
	Error       string                `json:"error,omitempty"`
}

func handleChat(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if err := requireRole(r, auth.RoleChatUser); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}
	if deps.Pipeline == nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "ASSISTANT_NOT_CONFIGURED", "assistant credentials are not configured", false, nil)
		return
	}

	var request chatRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid chat request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.Message) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "MESSAGE_REQUIRED", "message is required", false, nil)
		return
	}

	ctx := r.Context()
	if deps.TurnBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deps.TurnBudget)
		defer cancel()
	}

	turn := deps.Pipeline.Run(ctx, request.Message)
	writeJSON(w, http.StatusOK, chatResponse{
		Response:    turn.Response,
		AIResponse:  turn.Reply,
		QueryResult: turn.Result,
		Error:       turn.Err,
	})
}
