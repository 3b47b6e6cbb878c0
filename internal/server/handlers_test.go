package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/maskd-io/maskd/internal/config"
	"github.com/maskd-io/maskd/internal/logger"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.GetDefaults()
	cfg.Cache.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}
	s, err := New(cfg, logger.Nop())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	return s
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("Body = %s", rec.Body.String())
	}
}

func TestInfoEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest("GET", "/info", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	var info map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if info["name"] != "maskd" {
		t.Errorf("name = %v", info["name"])
	}
	if info["strategy"] != "replace" {
		t.Errorf("strategy = %v", info["strategy"])
	}
	if rules, ok := info["rules"].(float64); !ok || rules < 12 {
		t.Errorf("rules = %v", info["rules"])
	}
}

func TestMaskEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("MasksDetectedPII", func(t *testing.T) {
		body := `{"email":"a@b.com","note":"nothing here"}`
		req := httptest.NewRequest("POST", "/v1/mask", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, body %s", rec.Code, rec.Body.String())
		}

		var masked map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &masked); err != nil {
			t.Fatalf("Invalid JSON response: %v", err)
		}
		if masked["email"] != "█@b.com" {
			t.Errorf("email = %v", masked["email"])
		}
		if masked["note"] != "nothing here" {
			t.Errorf("clean value modified: %v", masked["note"])
		}
	})

	t.Run("StringPayload", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/mask", strings.NewReader(`"SSN: 123-45-6789"`))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d", rec.Code)
		}
		var masked string
		if err := json.Unmarshal(rec.Body.Bytes(), &masked); err != nil {
			t.Fatalf("Invalid JSON response: %v", err)
		}
		if masked != "SSN: ███-██-████" {
			t.Errorf("masked = %q", masked)
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/mask", strings.NewReader(`{"broken":`))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want 400", rec.Code)
		}
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/mask", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("Status = %d, want 405", rec.Code)
		}
	})
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	body := `{"email":"a@b.com","ssn":"123-45-6789"}`
	req := httptest.NewRequest("POST", "/v1/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, body %s", rec.Code, rec.Body.String())
	}

	var report struct {
		TotalMatches int            `json:"total_matches"`
		Patterns     map[string]int `json:"patterns"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if report.TotalMatches < 2 {
		t.Errorf("total_matches = %d, want at least 2", report.TotalMatches)
	}
	if report.Patterns["email"] == 0 {
		t.Error("email pattern missing from report")
	}
	if report.Patterns["ssn"] == 0 {
		t.Error("ssn pattern missing from report")
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.RateLimit.Enabled = true
		cfg.Server.RateLimit.RequestsPerMin = 60
		cfg.Server.RateLimit.Burst = 2
	})

	var limited bool
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("POST", "/v1/analyze", strings.NewReader(`"hello"`))
		req.RemoteAddr = "10.9.8.7:1234"
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	if !limited {
		t.Error("Burst of requests was never rate limited")
	}
}

func TestReload(t *testing.T) {
	s := newTestServer(t, nil)

	mc := config.GetDefaults().Masking
	mc.Strategy = config.StrategyRedact
	if err := s.Reload(mc); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	req := httptest.NewRequest("POST", "/v1/mask", strings.NewReader(`"write to a@b.com"`))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var masked string
	if err := json.Unmarshal(rec.Body.Bytes(), &masked); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if masked != "write to [REDACTED]" {
		t.Errorf("masked = %q after reload", masked)
	}

	t.Run("SnapshotPairsMaskerWithOptions", func(t *testing.T) {
		_, opts := s.snapshot()
		if opts.Strategy != config.StrategyRedact {
			t.Errorf("Snapshot options strategy = %q, want redact", opts.Strategy)
		}
	})

	t.Run("InvalidOptionsRejected", func(t *testing.T) {
		bad := config.GetDefaults().Masking
		bad.MaskCharacter = "##"
		if err := s.Reload(bad); err == nil {
			t.Error("Reload accepted invalid options")
		}
	})
}

// Reloads race against in-flight requests; every response must come from
// one of the two configurations, never a mix.
func TestReloadDuringRequests(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.RateLimit.Enabled = false
	})

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		strategies := []config.Strategy{config.StrategyRedact, config.StrategyReplace}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			mc := config.GetDefaults().Masking
			mc.Strategy = strategies[i%len(strategies)]
			if err := s.Reload(mc); err != nil {
				t.Errorf("Reload failed: %v", err)
				return
			}
		}
	}()
	defer wg.Wait()
	defer close(stop)

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest("POST", "/v1/mask", strings.NewReader(`"write to a@b.com"`))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, body %s", rec.Code, rec.Body.String())
		}
		var masked string
		if err := json.Unmarshal(rec.Body.Bytes(), &masked); err != nil {
			t.Fatalf("Invalid JSON response: %v", err)
		}
		if masked != "write to [REDACTED]" && masked != "write to █@b.com" {
			t.Errorf("masked = %q, not produced by either active configuration", masked)
		}
	}
}
