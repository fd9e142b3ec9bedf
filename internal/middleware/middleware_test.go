package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestForceHTTPS(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		tls      bool
		proto    string
		status   int
		location string
	}{
		{"plain http redirects", "example.com", false, "", http.StatusPermanentRedirect, "https://example.com/x?y=1"},
		{"tls passes", "example.com", true, "", http.StatusOK, ""},
		{"proxy https passes", "example.com", false, "https", http.StatusOK, ""},
		{"localhost passes", "localhost:8080", false, "", http.StatusOK, ""},
		{"loopback ip passes", "127.0.0.1:8080", false, "", http.StatusOK, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://"+tc.host+"/x?y=1", nil)
			req.Host = tc.host
			if tc.tls {
				req.TLS = &tls.ConnectionState{}
			}
			if tc.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tc.proto)
			}
			rr := httptest.NewRecorder()
			ForceHTTPS(ok).ServeHTTP(rr, req)

			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			if got := rr.Header().Get("Location"); got != tc.location {
				t.Fatalf("Location = %q, want %q", got, tc.location)
			}
		})
	}
}

func TestSecurity_SetsHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	Security(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, h := range []string{"Strict-Transport-Security", "Content-Security-Policy", "X-Frame-Options"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("header %s missing", h)
		}
	}
}

func TestRecover(t *testing.T) {
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	log := zap.NewNop().Sugar()

	rr := httptest.NewRecorder()
	Recover(log, true, nil)(boom).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError || !strings.Contains(rr.Body.String(), "panic: boom") {
		t.Fatalf("dev: status=%d body=%q", rr.Code, rr.Body)
	}

	errorPage := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("sorry"))
	})
	rr = httptest.NewRecorder()
	Recover(log, false, errorPage)(boom).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError || rr.Body.String() != "sorry" {
		t.Fatalf("prod: status=%d body=%q", rr.Code, rr.Body)
	}
}

func TestRequestLog_PassesThrough(t *testing.T) {
	rr := httptest.NewRecorder()
	RequestLog(zap.NewNop().Sugar())(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}
