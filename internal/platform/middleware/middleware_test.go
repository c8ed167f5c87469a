package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestID(t *testing.T) {
	t.Run("generates an ID when none supplied", func(t *testing.T) {
		var seen string
		handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))
	})

	t.Run("propagates a supplied ID", func(t *testing.T) {
		var seen string
		handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-123")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "req-123", seen)
	})
}

func TestRecovery(t *testing.T) {
	handler := Recovery(discardLogger())(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestContentTypeJSON(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("rejects a non-JSON body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("<xml/>"))
		req.Header.Set("Content-Type", "text/xml")

		rr := httptest.NewRecorder()
		ContentTypeJSON(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
	})

	t.Run("allows JSON and body-less requests", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		rr := httptest.NewRecorder()
		ContentTypeJSON(next).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = httptest.NewRecorder()
		ContentTypeJSON(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestDevice(t *testing.T) {
	t.Run("summarizes the user agent", func(t *testing.T) {
		var seen string
		handler := Device(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = GetDevice(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Contains(t, seen, "Chrome")
		assert.Contains(t, seen, "on Linux")
	})

	t.Run("missing user agent reads as unknown", func(t *testing.T) {
		var seen string
		handler := Device(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = GetDevice(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Del("User-Agent")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "unknown", seen)
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("missing header is unauthorized", func(t *testing.T) {
		handler := RequireAuth(&staticValidator{}, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token stores the subject in context", func(t *testing.T) {
		var subject string
		handler := RequireAuth(&staticValidator{subject: "operator"}, discardLogger())(
			http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				subject = GetSubject(r.Context())
			}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer any-token")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "operator", subject)
	})
}

type staticValidator struct {
	subject string
}

func (v *staticValidator) ValidateToken(_ string) (*JWTClaims, error) {
	if v.subject == "" {
		return nil, errors.New("invalid token")
	}
	return &JWTClaims{Subject: v.subject}, nil
}
