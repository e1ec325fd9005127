package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shoplist/api/internal/auth"
	"github.com/shoplist/api/internal/models"
	"github.com/shoplist/api/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

var signingKey = []byte("0123456789abcdef0123456789abcdef")

func protected(tokens TokenParser) http.Handler {
	return Auth(tokens)(WithIdentity(func(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
		_ = json.NewEncoder(w).Encode(caller)
	}))
}

func TestAuthAcceptsValidBearer(t *testing.T) {
	tokens := auth.NewTokenService(signingKey, "shoplist", "")
	tok, err := tokens.Issue(models.User{UserID: 3, Username: "carol"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.Header.Set("Authorization", "bearer "+tok.Value)
	rr := httptest.NewRecorder()
	protected(tokens).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got auth.Identity
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Equal(t, auth.Identity{UserID: 3, Username: "carol"}, got)
}

func TestAuthRejects(t *testing.T) {
	tokens := auth.NewTokenService(signingKey, "shoplist", "")
	expired := auth.NewTokenService(signingKey, "shoplist", "").
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	old, err := expired.Issue(models.User{UserID: 3, Username: "carol"})
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":      "",
		"basic scheme": "Basic YWxpY2U6c2VjcmV0",
		"empty bearer": "Bearer ",
		"garbage":      "Bearer abc.def.ghi",
		"expired":      "Bearer " + old.Value,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rr := httptest.NewRecorder()
			protected(tokens).ServeHTTP(rr, req)

			require.Equal(t, http.StatusUnauthorized, rr.Code)
			require.JSONEq(t, `{"code":"unauthorized","message":"Token is missing or invalid."}`, rr.Body.String())
		})
	}
}

func TestWithIdentityWithoutAuth(t *testing.T) {
	h := WithIdentity(func(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
		t.Fatal("handler must not run without identity")
	})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	require.Equal(t, seen, rr.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, "abc-123", seen)
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestLoggingRecordsStatus(t *testing.T) {
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTeapot, rr.Code)
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := RateLimit(ctx, 1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	require.Equal(t, []int{200, 200, http.StatusTooManyRequests}, codes)

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimitDisabled(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := RateLimit(context.Background(), 0, 1)(next)
	for i := 0; i < 50; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestLimiterSweep(t *testing.T) {
	l := &ipLimiter{visitors: map[string]*limiterEntry{}, rps: 1, burst: 1}
	now := time.Now()
	l.allow("a", now.Add(-time.Hour))
	l.allow("b", now)
	l.sweep(10*time.Minute, now)
	require.Len(t, l.visitors, 1)
	require.Contains(t, l.visitors, "b")
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	require.Equal(t, "192.0.2.1", getIP(req))
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	require.Equal(t, "192.0.2.1", getIP(req))

	// RealIP leaves a bare address
	req.RemoteAddr = "203.0.113.5"
	require.Equal(t, "203.0.113.5", getIP(req))
}

func TestRateLimitIgnoresForwardedFor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := RateLimit(ctx, 1, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	require.Equal(t, []int{200, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}
