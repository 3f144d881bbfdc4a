package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/productscraper/backend/internal/monitoring"
)

const (
	panelOrigin = "https://painel.lojadoricardo.com.br"
	devOrigin   = "http://localhost:5173"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"open default admits the panel", panelOrigin, []string{"*"}, true},
		{"open default admits a local dev server", devOrigin, []string{"*"}, true},
		{"configured frontend url", panelOrigin, []string{panelOrigin}, true},
		{"second entry of the list", devOrigin, []string{panelOrigin, devOrigin}, true},
		{"any port on localhost", "http://localhost:3001", []string{"http://localhost:*"}, true},
		{"http scheme of the panel is a different origin", "http://painel.lojadoricardo.com.br", []string{panelOrigin}, false},
		{"lookalike host", "https://painel.lojadoricardo.com.br.evil.io", []string{panelOrigin}, false},
		{"no origin header", "", []string{"*"}, false},
		{"nothing configured", panelOrigin, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isAllowedOrigin(tt.origin, tt.allowed))
		})
	}
}

func newCORSRouter(allowed []string) *gin.Engine {
	router := gin.New()
	router.Use(CORSMiddleware(allowed))
	router.POST("/api/scrape-batch", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestCORSMiddleware(t *testing.T) {
	router := newCORSRouter([]string{panelOrigin})

	t.Run("reflects the frontend origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/scrape-batch", strings.NewReader(`{"urls":[]}`))
		req.Header.Set("Origin", panelOrigin)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, panelOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Values("Vary"), "Origin")
	})

	t.Run("foreign origin gets no cors headers but is still served", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/scrape-batch", strings.NewReader(`{"urls":[]}`))
		req.Header.Set("Origin", devOrigin)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("server to server calls carry no origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/scrape-batch", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	router := newCORSRouter([]string{panelOrigin, devOrigin})

	req := httptest.NewRequest(http.MethodOptions, "/api/scrape-batch", nil)
	req.Header.Set("Origin", devOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, devOrigin, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, w.Body.String())
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		id := w.Header().Get(requestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagates incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
		assert.Equal(t, "abc-123", w.Body.String())
	})
}

func TestBodyLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(BodyLimitMiddleware(8))
	router.POST("/test", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too large")
			return
		}
		c.String(http.StatusOK, "OK")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("well over eight bytes")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

// stubLimitStore allows the first n calls per key
type stubLimitStore struct {
	limit  int
	counts map[string]int
	err    error
}

func (s *stubLimitStore) Allow(ctx context.Context, key string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.counts[key]++
	return s.counts[key] <= s.limit, nil
}

func TestRateLimitMiddleware(t *testing.T) {
	store := &stubLimitStore{limit: 2, counts: make(map[string]int)}
	metrics := monitoring.NewMetrics()

	router := gin.New()
	router.Use(RateLimitMiddleware(store, metrics, zap.NewNop()))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Muitas requisições da sua IP, tente novamente em 15 minutos.", body.Error)
}

func TestRateLimitMiddleware_FailsOpen(t *testing.T) {
	store := &stubLimitStore{err: errors.New("connection refused")}

	router := gin.New()
	router.Use(RateLimitMiddleware(store, nil, zap.NewNop()))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		exposeDetails bool
		wantMessage   string
	}{
		{"development exposes panic", true, "kaboom"},
		{"production hides panic", false, "Algo deu errado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RecoveryMiddleware(zap.NewNop(), tt.exposeDetails))
			router.GET("/panic", func(c *gin.Context) {
				panic("kaboom")
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

			require.Equal(t, http.StatusInternalServerError, w.Code)
			var body envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, "Erro interno do servidor", body.Error)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}
