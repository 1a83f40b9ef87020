package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lifesim/internal/auth"
	"lifesim/internal/config"
	"lifesim/internal/game"
	"lifesim/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st := store.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gameSvc := game.NewService(st, game.NewPriceBook(nil), logger)
	authSvc := auth.NewService(st, "test-secret", time.Hour)
	cfg := config.APIConfig{Addr: ":0", RequestTimeout: 10 * time.Second}
	srv := httptest.NewServer(New(cfg, logger, authSvc, gameSvc).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && err != io.EOF {
		t.Fatalf("decode: %v", err)
	}
	return resp, out
}

func signup(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()
	resp, out := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/signup", "", map[string]any{
		"email":    email,
		"password": "hunter22222",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status: got %d body %v", resp.StatusCode, out)
	}
	token, _ := out["access_token"].(string)
	if token == "" {
		t.Fatalf("signup returned no token: %v", out)
	}
	return token
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, out := doJSON(t, http.MethodGet, srv.URL+"/healthz", "", nil)
	if resp.StatusCode != http.StatusOK || out["ok"] != true {
		t.Fatalf("got %d %v", resp.StatusCode, out)
	}
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/v1/account", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("got %d want 401", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v1/account", "not-a-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token: got %d want 401", resp.StatusCode)
	}
}

func TestSignupLoginAccountFlow(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "alice@example.com")

	resp, out := doJSON(t, http.MethodGet, srv.URL+"/v1/account", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("account status: got %d", resp.StatusCode)
	}
	if bal, _ := out["balance"].(float64); int64(bal) != store.StartingBalance {
		t.Fatalf("starting balance: got %v", out["balance"])
	}

	resp, out = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "hunter22222",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: got %d body %v", resp.StatusCode, out)
	}
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	srv := newTestServer(t)
	signup(t, srv, "alice@example.com")
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/signup", "", map[string]any{
		"email":    "alice@example.com",
		"password": "hunter22222",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("got %d want 409", resp.StatusCode)
	}
}

func TestDepositAndWithdraw(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "alice@example.com")

	resp, out := doJSON(t, http.MethodPost, srv.URL+"/v1/account/deposit", token, map[string]any{"amount": "200"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("deposit status: got %d body %v", resp.StatusCode, out)
	}
	if bank, _ := out["bank"].(float64); int64(bank) != 200 {
		t.Fatalf("bank after deposit: got %v", out["bank"])
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/account/withdraw", token, map[string]any{"amount": "half"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("withdraw status: got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/account/deposit", token, map[string]any{"amount": "-5"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad amount: got %d want 400", resp.StatusCode)
	}
}

func TestDomainErrorMapping(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "alice@example.com")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/v1/crimes/arson", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown crime: got %d want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/account/daily", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first daily: got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/account/daily", token, nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second daily: got %d want 429", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/casino/play", token, map[string]any{
		"game": "coinflip", "bet": 1, "choice": "heads",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("below table minimum: got %d want 400", resp.StatusCode)
	}
}

func TestStrictRequestDecoding(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "alice@example.com")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/v1/account/transfer", token, map[string]any{
		"to": "someone", "amount": 50, "extra": true,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown field: got %d want 400", resp.StatusCode)
	}
}
