package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type AssistantConfig struct {
	BaseURL      string
	APIKey       string
	AssistantID  string
	Timeout      time.Duration
	PollInterval time.Duration
	PollAttempts int
}

// AssistantGenerator drives the assistants API: create a thread with
// the question, start a run, poll at a fixed interval until the run
// settles, then read the first assistant message. Runs that do not
// settle within the attempt budget fail with ErrGenerationTimeout.
type AssistantGenerator struct {
	baseURL      string
	apiKey       string
	assistantID  string
	pollInterval time.Duration
	pollAttempts int
	client       *http.Client
}

func NewAssistantGenerator(cfg AssistantConfig) (*AssistantGenerator, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if strings.TrimSpace(cfg.AssistantID) == "" {
		return nil, fmt.Errorf("assistant id is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	pollAttempts := cfg.PollAttempts
	if pollAttempts <= 0 {
		pollAttempts = 30
	}
	return &AssistantGenerator{
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:       strings.TrimSpace(cfg.APIKey),
		assistantID:  strings.TrimSpace(cfg.AssistantID),
		pollInterval: pollInterval,
		pollAttempts: pollAttempts,
		client:       &http.Client{Timeout: timeout},
	}, nil
}

type assistantRun struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
	Status   string `json:"status"`
	LastErr  *struct {
		Message string `json:"message"`
	} `json:"last_error"`
}

func (g *AssistantGenerator) Generate(ctx context.Context, systemPrompt, question string) (string, error) {
	run, err := g.createRun(ctx, systemPrompt, question)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < g.pollAttempts; attempt++ {
		switch run.Status {
		case "completed":
			return g.latestAssistantMessage(ctx, run.ThreadID)
		case "failed", "cancelled", "expired", "incomplete":
			detail := run.Status
			if run.LastErr != nil && run.LastErr.Message != "" {
				detail = fmt.Sprintf("%s: %s", run.Status, run.LastErr.Message)
			}
			return "", fmt.Errorf("assistant run did not complete: %s", detail)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(g.pollInterval):
		}

		run, err = g.getRun(ctx, run.ThreadID, run.ID)
		if err != nil {
			return "", err
		}
	}
	return "", ErrGenerationTimeout
}

func (g *AssistantGenerator) createRun(ctx context.Context, systemPrompt, question string) (assistantRun, error) {
	payload := map[string]any{
		"assistant_id": g.assistantID,
		"instructions": systemPrompt,
		"thread": map[string]any{
			"messages": []map[string]string{
				{"role": "user", "content": strings.TrimSpace(question)},
			},
		},
	}
	var run assistantRun
	if err := g.doJSON(ctx, http.MethodPost, "/v1/threads/runs", payload, &run); err != nil {
		return assistantRun{}, err
	}
	if run.ID == "" || run.ThreadID == "" {
		return assistantRun{}, fmt.Errorf("assistant run response missing identifiers")
	}
	return run, nil
}

func (g *AssistantGenerator) getRun(ctx context.Context, threadID, runID string) (assistantRun, error) {
	var run assistantRun
	path := fmt.Sprintf("/v1/threads/%s/runs/%s", threadID, runID)
	if err := g.doJSON(ctx, http.MethodGet, path, nil, &run); err != nil {
		return assistantRun{}, err
	}
	return run, nil
}

func (g *AssistantGenerator) latestAssistantMessage(ctx context.Context, threadID string) (string, error) {
	var parsed struct {
		Data []struct {
			Role    string `json:"role"`
			Content []struct {
				Text struct {
					Value string `json:"value"`
				} `json:"text"`
			} `json:"content"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/v1/threads/%s/messages?order=desc&limit=5", threadID)
	if err := g.doJSON(ctx, http.MethodGet, path, nil, &parsed); err != nil {
		return "", err
	}
	for _, message := range parsed.Data {
		if message.Role != "assistant" {
			continue
		}
		for _, part := range message.Content {
			if value := strings.TrimSpace(part.Text.Value); value != "" {
				return value, nil
			}
		}
	}
	return "", fmt.Errorf("assistant thread has no assistant message")
}

func (g *AssistantGenerator) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal assistant payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build assistant request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("OpenAI-Beta", "assistants=v2")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request assistant endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	rawRespBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read assistant response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return &GenerationError{Status: resp.StatusCode, Body: string(rawRespBody)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rawRespBody, out); err != nil {
		return fmt.Errorf("decode assistant response: %w", err)
	}
	return nil
}
