package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const loginBody = `{"accessToken":"token-1","tokenType":"Bearer","expiresIn":86400,"refreshToken":"refresh-1"}`

func setHealthyHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Plenty-Route-Calls-Left", "100")
	w.Header().Set("X-Plenty-Route-Decay", "10")
	w.Header().Set("X-Plenty-Global-Short-Period-Calls-Left", "100")
	w.Header().Set("X-Plenty-Global-Short-Period-Decay", "10")
	w.Header().Set("X-Plenty-Global-Long-Period-Calls-Left", "10000")
	w.Header().Set("X-Plenty-Global-Long-Period-Decay", "300")
}

// newTestClient builds a client against the given server with sleep
// and clock seams captured for assertions.
func newTestClient(t *testing.T, server *httptest.Server) (*Client, *[]time.Duration) {
	t.Helper()

	c, err := New(Config{
		Domain:   strings.TrimPrefix(server.URL, "http://"),
		Username: "user",
		Password: "pass",
		Protocol: "http",
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	var sleeps []time.Duration
	c.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return c, &sleeps
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Domain: "shop.example.com", Username: "u", Password: "p"}, false},
		{"missing domain", Config{Username: "u", Password: "p"}, true},
		{"missing credentials", Config{Domain: "shop.example.com"}, true},
		{"bad protocol", Config{Domain: "shop.example.com", Username: "u", Password: "p", Protocol: "ftp"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogin_StoresTokenPair(t *testing.T) {
	var loginCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login call must not carry a bearer token")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		if r.PostForm.Get("username") != "user" || r.PostForm.Get("password") != "pass" {
			t.Errorf("credentials not posted, form = %v", r.PostForm)
		}
		loginCalls++
		setHealthyHeaders(w)
		w.Write([]byte(loginBody))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)
	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}

	if loginCalls != 1 {
		t.Errorf("login calls = %d, want 1", loginCalls)
	}
	if got := c.Session().AccessToken(); got != "token-1" {
		t.Errorf("access token = %q, want token-1", got)
	}
	if got := c.Session().RefreshToken(); got != "refresh-1" {
		t.Errorf("refresh token = %q, want refresh-1", got)
	}
}

func TestLogin_MissingTokenIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setHealthyHeaders(w)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)
	err := c.Login(context.Background())
	if err == nil {
		t.Fatal("Login() should fail without an access token")
	}
	if !IsFatal(err) {
		t.Errorf("error class = %v, want fatal", ClassOf(err))
	}
}

func TestLogin_FlipsSchemeOnFailure(t *testing.T) {
	// The client starts on https against an http-only server; the first
	// attempt cannot connect and the alternate scheme must be probed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setHealthyHeaders(w)
		w.Write([]byte(loginBody))
	}))
	defer server.Close()

	c, err := New(Config{
		Domain:   strings.TrimPrefix(server.URL, "http://"),
		Username: "user",
		Password: "pass",
		Protocol: "https",
		Timeout:  2 * time.Second,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	c.sleep = func(time.Duration) {}

	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login() failed after scheme flip: %v", err)
	}
	if got := c.Session().Scheme(); got != "http" {
		t.Errorf("scheme = %q, want http after flip", got)
	}
}

func TestCall_RetriesUpToBound(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/login" {
			setHealthyHeaders(w)
			w.Write([]byte(loginBody))
			return
		}
		calls++
		setHealthyHeaders(w)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c, sleeps := newTestClient(t, server)
	_, err := c.call(context.Background(), http.MethodGet, "items", nil, nil)
	if err == nil {
		t.Fatal("call() should fail after exhausting retries")
	}

	if calls != retryCount {
		t.Errorf("attempts = %d, want %d", calls, retryCount)
	}
	if ClassOf(err) != ClassRecoverable {
		t.Errorf("error class = %v, want recoverable", ClassOf(err))
	}
	if !errors.Is(err, ErrRetryExhausted) {
		t.Error("exhausted call should wrap ErrRetryExhausted")
	}
	if !strings.Contains(err.Error(), "/rest/items") {
		t.Errorf("error should name the failing URL, got %q", err.Error())
	}

	// One fixed delay between each pair of attempts.
	var delays int
	for _, d := range *sleeps {
		if d == retryDelay {
			delays++
		}
	}
	if delays != retryCount-1 {
		t.Errorf("retry delays = %d, want %d", delays, retryCount-1)
	}
}

func TestCall_SucceedsAfterTransientFailures(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/login" {
			setHealthyHeaders(w)
			w.Write([]byte(loginBody))
			return
		}
		calls++
		setHealthyHeaders(w)
		if calls <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"page":1}`))
	}))
	defer server.Close()

	c, sleeps := newTestClient(t, server)
	body, err := c.call(context.Background(), http.MethodGet, "items", nil, nil)
	if err != nil {
		t.Fatalf("call() should succeed once the server recovers, got: %v", err)
	}

	if calls != 3 {
		t.Errorf("attempts = %d, want 3 (two failures, one success)", calls)
	}
	if !strings.Contains(string(body), `"page":1`) {
		t.Errorf("body = %q, want the successful response", body)
	}

	var delays int
	for _, d := range *sleeps {
		if d == retryDelay {
			delays++
		}
	}
	if delays != 2 {
		t.Errorf("retry delays = %d, want 2", delays)
	}
}

func TestCall_UnauthorizedIsFatalAndNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/login" {
			setHealthyHeaders(w)
			w.Write([]byte(loginBody))
			return
		}
		calls++
		setHealthyHeaders(w)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)
	_, err := c.call(context.Background(), http.MethodGet, "items", nil, nil)
	if !IsFatal(err) {
		t.Fatalf("401 must be fatal, got class %v", ClassOf(err))
	}
	if calls != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on 401)", calls)
	}
}

func TestCall_GlobalThrottleStopsWithoutRetry(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/login" {
			setHealthyHeaders(w)
			w.Write([]byte(loginBody))
			return
		}
		calls++
		w.Header().Set("X-Plenty-Global-Long-Period-Calls-Left", "0")
		w.Header().Set("X-Plenty-Global-Long-Period-Decay", "300")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)
	_, err := c.call(context.Background(), http.MethodGet, "items", nil, nil)
	if !IsThrottled(err) {
		t.Fatalf("exhausted long global budget must be throttled, got class %v", ClassOf(err))
	}
	if calls != 1 {
		t.Errorf("attempts = %d, want 1 (no retry once throttled)", calls)
	}
}

func TestCall_CooldownSleepBeforeNextCall(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/login" {
			setHealthyHeaders(w)
			w.Write([]byte(loginBody))
			return
		}
		calls++
		if calls == 1 {
			// Route budget nearly exhausted: schedule a cooldown.
			w.Header().Set("X-Plenty-Route-Calls-Left", "1")
			w.Header().Set("X-Plenty-Route-Decay", "10")
			w.Header().Set("X-Plenty-Global-Long-Period-Calls-Left", "10000")
		} else {
			setHealthyHeaders(w)
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, sleeps := newTestClient(t, server)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	ctx := context.Background()
	if _, err := c.call(ctx, http.MethodGet, "items", nil, nil); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if !c.Session().CooldownPending() {
		t.Fatal("cooldown should be pending after the near-limit response")
	}

	// Four seconds of processing pass before the next call.
	c.now = func() time.Time { return base.Add(4 * time.Second) }
	if _, err := c.call(ctx, http.MethodGet, "items", nil, nil); err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	// wait = 10s - 4s elapsed + 1s margin
	want := 7 * time.Second
	var found bool
	for _, d := range *sleeps {
		if d == want {
			found = true
		}
	}
	if !found {
		t.Errorf("sleeps = %v, want one of %s", *sleeps, want)
	}
	if c.Session().CooldownPending() {
		t.Error("cooldown should be cleared after waiting")
	}
}

func TestCall_PaginationOverridesAppliedOnceAndReset(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/login" {
			setHealthyHeaders(w)
			w.Write([]byte(loginBody))
			return
		}
		queries = append(queries, r.URL.RawQuery)
		setHealthyHeaders(w)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)
	ctx := context.Background()

	c.SetItemsPerPage(100).SetPage(3)
	if _, err := c.call(ctx, http.MethodGet, "items", nil, nil); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if _, err := c.call(ctx, http.MethodGet, "items", nil, nil); err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if len(queries) != 2 {
		t.Fatalf("calls = %d, want 2", len(queries))
	}
	if !strings.Contains(queries[0], "page=3") || !strings.Contains(queries[0], "itemsPerPage=100") {
		t.Errorf("first query = %q, want pagination overrides", queries[0])
	}
	if strings.Contains(queries[1], "page=") {
		t.Errorf("second query = %q, overrides must be cleared after every call", queries[1])
	}
}

func TestCall_LazyLoginBeforeFirstCall(t *testing.T) {
	var order []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, r.URL.Path)
		setHealthyHeaders(w)
		if r.URL.Path == "/rest/login" {
			w.Write([]byte(loginBody))
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Errorf("Authorization = %q, want Bearer token-1", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)
	if _, err := c.call(context.Background(), http.MethodGet, "items", nil, nil); err != nil {
		t.Fatalf("call failed: %v", err)
	}

	if len(order) != 2 || order[0] != "/rest/login" || order[1] != "/rest/items" {
		t.Errorf("request order = %v, want login first", order)
	}
}

func TestRefreshLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setHealthyHeaders(w)
		switch r.URL.Path {
		case "/rest/login":
			w.Write([]byte(loginBody))
		case "/rest/login/refresh":
			if err := r.ParseForm(); err != nil {
				t.Fatalf("ParseForm failed: %v", err)
			}
			if got := r.PostForm.Get("refresh_token"); got != "refresh-1" {
				t.Errorf("refresh_token = %q, want refresh-1", got)
			}
			w.Write([]byte(`{"accessToken":"token-2","refreshToken":"refresh-2"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)
	ctx := context.Background()
	if err := c.Login(ctx); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if err := c.RefreshLogin(ctx); err != nil {
		t.Fatalf("RefreshLogin() failed: %v", err)
	}

	if got := c.Session().AccessToken(); got != "token-2" {
		t.Errorf("access token = %q, want token-2", got)
	}
}

func TestRefreshLogin_WithoutRefreshToken(t *testing.T) {
	c, err := New(Config{Domain: "shop.example.com", Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := c.RefreshLogin(context.Background()); !IsFatal(err) {
		t.Errorf("RefreshLogin() without token should be fatal, got %v", err)
	}
}
