// Package testutil provides a configurable mock Plentymarkets REST API
// for tests.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// MockResponse defines the behavior of one mock endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// MockPlenty is a configurable mock Plentymarkets server. Handlers are
// keyed by REST path ("/rest/items"); unknown paths get a default 200
// response carrying healthy throttle headers.
type MockPlenty struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	RequestCount      int
	LoginCount        int
	LastRequestHeader http.Header
}

// NewMockPlenty creates a mock server with a working login endpoint.
func NewMockPlenty() *MockPlenty {
	mock := &MockPlenty{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		if strings.HasPrefix(r.URL.Path, "/rest/login") {
			mock.LoginCount++
		}
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}
		mock.defaultHandler(w, r)
	}))

	mock.SetResponse("/rest/login", NewLoginResponse())
	return mock
}

// URL returns the mock server URL.
func (m *MockPlenty) URL() string {
	return m.server.URL
}

// Domain returns the host:port part, usable as a client domain with
// the http protocol.
func (m *MockPlenty) Domain() string {
	return strings.TrimPrefix(m.server.URL, "http://")
}

// Close shuts down the mock server.
func (m *MockPlenty) Close() {
	m.server.Close()
}

// Reset clears the tracking counters.
func (m *MockPlenty) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LoginCount = 0
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for one REST path.
func (m *MockPlenty) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for one REST path.
func (m *MockPlenty) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if len(resp.Headers) == 0 {
			setHealthyThrottleHeaders(w)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetResponseSequence serves the given responses in order for one REST
// path, repeating the last one once the sequence is exhausted.
func (m *MockPlenty) SetResponseSequence(path string, responses ...MockResponse) {
	var calls int
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		idx := calls
		if idx >= len(responses) {
			idx = len(responses) - 1
		}
		calls++
		m.mu.Unlock()

		resp := responses[idx]
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if len(resp.Headers) == 0 {
			setHealthyThrottleHeaders(w)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of requests seen so far.
func (m *MockPlenty) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

func (m *MockPlenty) defaultHandler(w http.ResponseWriter, r *http.Request) {
	setHealthyThrottleHeaders(w)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"page":1,"totalsCount":0,"isLastPage":true,"entries":[]}`))
}

func setHealthyThrottleHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Plenty-Route-Calls-Left", "100")
	w.Header().Set("X-Plenty-Route-Decay", "10")
	w.Header().Set("X-Plenty-Global-Short-Period-Calls-Left", "100")
	w.Header().Set("X-Plenty-Global-Short-Period-Decay", "10")
	w.Header().Set("X-Plenty-Global-Long-Period-Calls-Left", "10000")
	w.Header().Set("X-Plenty-Global-Long-Period-Decay", "300")
}

// NewLoginResponse creates a 200 login response with a token pair.
func NewLoginResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"accessToken":"test-access-token","tokenType":"Bearer","expiresIn":86400,"refreshToken":"test-refresh-token"}`,
	}
}

// NewPageResponse creates a 200 paginated response.
func NewPageResponse(page, totalsCount int, isLastPage bool, entries string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body: fmt.Sprintf(`{"page":%d,"totalsCount":%d,"isLastPage":%t,"entries":[%s]}`,
			page, totalsCount, isLastPage, entries),
	}
}

// NewThrottledResponse creates a response whose long global window is
// exhausted, which must stop the run without retrying.
func NewThrottledResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error":"throttled"}`,
		Headers: map[string]string{
			"X-Plenty-Route-Calls-Left":               "0",
			"X-Plenty-Route-Decay":                    "10",
			"X-Plenty-Global-Short-Period-Calls-Left": "0",
			"X-Plenty-Global-Short-Period-Decay":      "10",
			"X-Plenty-Global-Long-Period-Calls-Left":  "0",
			"X-Plenty-Global-Long-Period-Decay":       "300",
		},
	}
}

// NewServerErrorResponse creates a 500 response with healthy throttle
// headers, so retries are exercised without touching cooldown state.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error":"internal server error"}`,
	}
}

// NewUnauthorizedResponse creates a 401 response.
func NewUnauthorizedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusUnauthorized,
		Body:       `{"error":"unauthorized"}`,
	}
}
