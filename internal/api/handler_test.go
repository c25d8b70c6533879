package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/genycrm/genycrm/internal/config"
)

func mapLookup(values map[string]string) config.LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func testConfig(t *testing.T, values map[string]string) config.Config {
	t.Helper()
	cfg, err := config.Load("geny-api", mapLookup(values))
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}
	return cfg
}

func TestHealthEndpoint(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestReadyEndpointReturns503WhenDependencyFails(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{
		Readiness: func(context.Context) error {
			return errors.New("dependency down")
		},
	})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/ready", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestReadyEndpointWithoutChecksReportsReady(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/ready", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestMetricsEndpointIsExposed(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestAuthRequiredWithoutMiddlewareFailsClosed(t *testing.T) {
	cfg := testConfig(t, map[string]string{"GENY_AUTH_REQUIRED": "true"})
	h := NewHandler(cfg, Dependencies{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/geny-chat", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestCombineReadinessChecksStopsOnFirstFailure(t *testing.T) {
	order := make([]int, 0, 3)
	combined := CombineReadinessChecks(
		func(context.Context) error {
			order = append(order, 1)
			return nil
		},
		func(context.Context) error {
			order = append(order, 2)
			return errors.New("boom")
		},
		func(context.Context) error {
			order = append(order, 3)
			return nil
		},
	)

	if err := combined(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("execution order = %#v", order)
	}
}

func TestCheckAIConfig(t *testing.T) {
	cfg := testConfig(t, nil)
	if err := CheckAIConfig(cfg)(context.Background()); err == nil {
		t.Fatal("expected error without api key")
	}

	cfg = testConfig(t, map[string]string{"GENY_AI_API_KEY": "sk-test"})
	if err := CheckAIConfig(cfg)(context.Background()); err != nil {
		t.Fatalf("CheckAIConfig: %v", err)
	}
}

func TestCheckDatabaseWithoutStore(t *testing.T) {
	if err := CheckDatabase(nil)(context.Background()); err == nil {
		t.Fatal("expected error without store")
	}
}
