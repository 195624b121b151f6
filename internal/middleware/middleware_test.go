package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"majestic-dominion/internal/middleware"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte(middleware.GetRequestID(r.Context())))
})

func TestRequestID(t *testing.T) {
	h := middleware.RequestID(zerolog.Nop())(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	id := rec.Header().Get("X-Request-ID")
	require.NotEmpty(t, id)
	assert.Equal(t, id, rec.Body.String())
	assert.Equal(t, http.StatusTeapot, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "given")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "given", rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	h := middleware.RateLimit(middleware.NewIPRateLimiter(0.001, 2))(ok)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusTeapot, http.StatusTeapot, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code, "other clients keep their own bucket")
}

func TestAdminToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		sent  string
		want  int
	}{
		{name: "match", token: "s3cret", sent: "s3cret", want: http.StatusTeapot},
		{name: "wrong", token: "s3cret", sent: "guess", want: http.StatusUnauthorized},
		{name: "missing", token: "s3cret", want: http.StatusUnauthorized},
		{name: "unset token locks", token: "", sent: "", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.sent != "" {
				req.Header.Set(middleware.AdminTokenHeader, tt.sent)
			}
			rec := httptest.NewRecorder()
			middleware.AdminToken(tt.token)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
