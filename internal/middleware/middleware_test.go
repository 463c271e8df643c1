package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cyphera/gator-permissions/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name                 string
		requestCorrelationID string
		preserved            bool
	}{
		{name: "New ID generated when header not present"},
		{name: "Existing ID preserved when header present", requestCorrelationID: "test-correlation-id-123", preserved: true},
		{name: "Malformed ID replaced", requestCorrelationID: "id with spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(middleware.CorrelationIDMiddleware())

			var fromGin, fromContext string
			router.GET("/test", func(c *gin.Context) {
				fromGin = middleware.GetCorrelationID(c)
				fromContext = middleware.CorrelationIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.requestCorrelationID != "" {
				req.Header.Set(middleware.CorrelationIDHeader, tt.requestCorrelationID)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			header := w.Header().Get(middleware.CorrelationIDHeader)
			if tt.preserved {
				assert.Equal(t, tt.requestCorrelationID, header)
			} else {
				assert.Len(t, header, 36)
			}
			assert.Equal(t, header, fromGin)
			assert.Equal(t, header, fromContext)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(rl *middleware.RateLimiter, trustedProxies []string) *gin.Engine {
		router := gin.New()
		require.NoError(t, router.SetTrustedProxies(trustedProxies))
		router.Use(rl.Middleware())
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
		router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}
	do := func(router *gin.Engine, path, remoteAddr, forwardedFor string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = remoteAddr
		if forwardedFor != "" {
			req.Header.Set("X-Forwarded-For", forwardedFor)
		}
		router.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("blocks requests beyond the burst", func(t *testing.T) {
		rl := middleware.NewRateLimiter(1, 2)
		defer rl.Stop()
		router := newRouter(rl, nil)

		assert.Equal(t, http.StatusOK, do(router, "/test", "192.168.1.2:4000", ""))
		assert.Equal(t, http.StatusOK, do(router, "/test", "192.168.1.2:4001", ""))
		assert.Equal(t, http.StatusTooManyRequests, do(router, "/test", "192.168.1.2:4002", ""))
		assert.Equal(t, http.StatusOK, do(router, "/test", "192.168.1.3:4000", ""))
		assert.Equal(t, http.StatusOK, do(router, "/healthz", "192.168.1.2:4003", ""))
	})

	t.Run("forwarded header from an untrusted peer is ignored", func(t *testing.T) {
		rl := middleware.NewRateLimiter(1, 1)
		defer rl.Stop()
		router := newRouter(rl, nil)

		allowed := 0
		for i := 0; i < 20; i++ {
			if do(router, "/test", "10.0.0.1:5000", fmt.Sprintf("1.2.3.%d", i)) == http.StatusOK {
				allowed++
			}
		}
		assert.Equal(t, 1, allowed)
	})

	t.Run("forwarded header from a trusted proxy identifies the client", func(t *testing.T) {
		rl := middleware.NewRateLimiter(1, 1)
		defer rl.Stop()
		router := newRouter(rl, []string{"10.0.0.1"})

		assert.Equal(t, http.StatusOK, do(router, "/test", "10.0.0.1:5000", "1.2.3.4"))
		assert.Equal(t, http.StatusOK, do(router, "/test", "10.0.0.1:5000", "1.2.3.5"))
		assert.Equal(t, http.StatusTooManyRequests, do(router, "/test", "10.0.0.1:5000", "1.2.3.4"))
	})

	t.Run("zero rate disables limiting", func(t *testing.T) {
		rl := middleware.NewRateLimiter(0, 0)
		defer rl.Stop()
		router := newRouter(rl, nil)

		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, do(router, "/test", "192.168.1.4:4000", ""))
		}
	})
}

type recordingObserver struct {
	route  string
	status int
}

func (r *recordingObserver) ObserveAPI(method, route string, status int, duration time.Duration) {
	r.route = route
	r.status = status
}

func TestRequestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	observer := &recordingObserver{}
	router := gin.New()
	router.Use(middleware.CorrelationIDMiddleware(), middleware.RequestLoggingMiddleware(observer))
	router.GET("/v1/permissions/:context", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/permissions/0xab", nil))

	assert.Equal(t, "/v1/permissions/:context", observer.route)
	assert.Equal(t, http.StatusNotFound, observer.status)
}
