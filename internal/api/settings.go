package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/genycrm/genycrm/internal/assistant"
	"github.com/genycrm/genycrm/internal/auth"
	"github.com/genycrm/genycrm/internal/settings"
)

type promptResponse struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Default bool   `json:"default"`
}

type promptUpdateRequest struct {
	Value string `json:"value"`
}

func handleGetPrompt(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if err := requireRole(r, auth.RoleSettingsAdmin); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}
	if deps.Settings == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "SETTINGS_NOT_CONFIGURED", "settings store is not configured", false, nil)
		return
	}

	setting, err := deps.Settings.Get(r.Context(), deps.PromptKey)
	if err != nil {
		if errors.Is(err, settings.ErrNotFound) {
			writeJSON(w, http.StatusOK, promptResponse{
				Key:     deps.PromptKey,
				Value:   assistant.DefaultSystemPrompt(),
				Default: true,
			})
			return
		}
		writeError(r.Context(), w, http.StatusInternalServerError, "SETTINGS_ERROR", "failed to load prompt setting", true, map[string]any{"details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, promptResponse{Key: setting.Key, Value: setting.Value})
}

func handlePutPrompt(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if err := requireRole(r, auth.RoleSettingsAdmin); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}
	if deps.Settings == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "SETTINGS_NOT_CONFIGURED", "settings store is not configured", false, nil)
		return
	}

	var request promptUpdateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid prompt update body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.Value) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "VALUE_REQUIRED", "value is required", false, nil)
		return
	}

	setting, err := deps.Settings.Upsert(r.Context(), deps.PromptKey, request.Value)
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "SETTINGS_ERROR", "failed to store prompt setting", true, map[string]any{"details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, promptResponse{Key: setting.Key, Value: setting.Value})
}
