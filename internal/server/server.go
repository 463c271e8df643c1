// Package server wires configuration, storage, clients and services into the HTTP API.
package server

import (
	"net/http"
	"strings"

	"github.com/cyphera/gator-permissions/internal/handlers"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies are the services the routes are served from
type Dependencies struct {
	Store        interfaces.PermissionStore
	Grants       interfaces.GrantService
	Revocations  interfaces.RevocationService
	Tokens       interfaces.TokenMetadataService
	Prices       interfaces.DataAPIClient
	GrantContext interfaces.GrantContextService

	Observer middleware.APIObserver
	Gatherer prometheus.Gatherer
}

// RouterOptions configure the cross-cutting middleware
type RouterOptions struct {
	CORSAllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For / X-Real-IP; empty trusts no peer
	TrustedProxies []string
	RateLimiter    *middleware.RateLimiter
}

// NewRouter builds the gin engine with every route of the API
func NewRouter(deps Dependencies, opts RouterOptions) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(opts.TrustedProxies); err != nil {
		logger.Component("server").Error("Invalid trusted proxies, trusting none",
			zap.Strings("trusted_proxies", opts.TrustedProxies),
			zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(deps.Observer))
	router.Use(configureCORS(opts.CORSAllowedOrigins))
	if opts.RateLimiter != nil {
		router.Use(opts.RateLimiter.Middleware())
	}

	InitializeRoutes(router, deps)
	return router
}

// InitializeRoutes registers the API routes on router
func InitializeRoutes(router *gin.Engine, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	permissionsHandler := handlers.NewPermissionsHandler(deps.Store, deps.Grants, deps.Revocations)
	tokenHandler := handlers.NewTokenHandler(deps.Tokens, deps.Prices, deps.GrantContext)

	router.GET("/healthz", healthHandler.Health)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("/v1")
	{
		permissions := v1.Group("/permissions")
		{
			permissions.GET("", permissionsHandler.ListPermissions)
			permissions.GET("/:context", permissionsHandler.GetPermission)
			permissions.POST("/grant", permissionsHandler.GrantPermissions)
			permissions.POST("/revoke", permissionsHandler.RevokePermission)
		}

		v1.GET("/tokens/balance", tokenHandler.GetBalance)
		v1.GET("/prices/spot", tokenHandler.GetSpotPrice)
		v1.GET("/grant-context", tokenHandler.GetGrantContext)
	}
}

// configureCORS returns a configured CORS middleware
func configureCORS(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.CorrelationIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.CorrelationIDHeader}

	allowAll := len(origins) == 0
	trimmed := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			allowAll = true
		}
		if origin != "" {
			trimmed = append(trimmed, origin)
		}
	}
	if allowAll {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = trimmed
	}

	return cors.New(corsConfig)
}
