package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cyphera/gator-permissions/internal/client/chain"
	"github.com/cyphera/gator-permissions/internal/client/dataapi"
	httpClient "github.com/cyphera/gator-permissions/internal/client/http"
	"github.com/cyphera/gator-permissions/internal/config"
	"github.com/cyphera/gator-permissions/internal/constants"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/metrics"
	"github.com/cyphera/gator-permissions/internal/middleware"
	"github.com/cyphera/gator-permissions/internal/services"
	"github.com/cyphera/gator-permissions/internal/storage"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// App is the assembled service: its state store, chain connections and the services
// built on them
type App struct {
	Config       *config.Config
	State        storage.StateStore
	Pool         *chain.Pool
	DataAPI      *dataapi.Client
	ChainClient  *chain.Client
	Metrics      *metrics.Metrics
	Registry     *prometheus.Registry
	Store        *services.PermissionStore
	Grants       *services.GrantService
	Revocations  *services.RevocationService
	Tokens       *services.TokenMetadataService
	GrantContext *services.GrantContextService

	limiter *middleware.RateLimiter
	logger  *zap.Logger
}

// Build connects every backend named in cfg and constructs the services
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		Config:   cfg,
		Registry: prometheus.NewRegistry(),
		logger:   logger.Component("server"),
	}
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.Metrics = metrics.New(app.Registry)

	state, err := OpenStateStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	app.State = state

	pool, err := chain.DialPool(ctx, cfg.RPCEndpoints, cfg.RPCTimeout())
	if err != nil {
		_ = state.Close()
		return nil, errors.Wrap(err, "failed to connect chain RPC endpoints")
	}
	app.Pool = pool

	retryOptions := cfg.RetryOptions()
	app.DataAPI = dataapi.NewClient(dataapi.Config{
		AccountsAPIBaseURL:   cfg.DataAPI.AccountsURL,
		TokensAPIBaseURL:     cfg.DataAPI.TokensURL,
		PriceAPIBaseURL:      cfg.DataAPI.PriceURL,
		Timeout:              cfg.HTTPTimeout(),
		MaxResponseSizeBytes: cfg.DataAPI.MaxResponseSizeBytes,
		Retry:                retryOptions,
	},
		httpClient.WithMetricsCollector(app.Metrics),
		httpClient.WithMiddleware(httpClient.LoggingMiddleware()),
	)
	app.ChainClient = chain.NewClient()

	supported := services.DefaultSupportedChains()
	if len(cfg.SupportedChains) > 0 {
		supported = services.NewSupportedChains(cfg.SupportedChains)
	}

	app.Store = services.NewPermissionStore(state, services.WithStoreMetrics(app.Metrics))
	app.Tokens = services.NewTokenMetadataService(
		services.NewAPIBalanceSource(app.DataAPI, retryOptions),
		services.NewChainBalanceSource(pool, app.ChainClient, retryOptions),
		supported,
	)
	app.GrantContext = services.NewGrantContextService(app.Tokens, app.DataAPI, app.ChainClient, pool, retryOptions)
	app.Revocations = services.NewRevocationService(app.Store, app.ChainClient, pool,
		services.WithReceiptVerification(cfg.VerifyRevocationReceipt),
		services.WithRevocationMetrics(app.Metrics),
		services.WithRevocationRetry(retryOptions),
	)

	presigned := services.NewPresignedPermissionHandler()
	app.Grants = services.NewGrantService(app.Store, map[string]interfaces.PermissionHandler{
		services.PermissionNativeTokenStream:   presigned,
		services.PermissionNativeTokenPeriodic: presigned,
		services.PermissionERC20TokenStream:    presigned,
		services.PermissionERC20TokenPeriodic:  presigned,
	}, app.Metrics)

	app.logger.Info("Application initialized",
		zap.String("stage", cfg.Stage),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.Uint64s("rpc_chains", pool.Chains()),
		zap.Uint64s("api_supported_chains", supported.IDs()))
	return app, nil
}

// OpenStateStore opens the configured storage backend
func OpenStateStore(ctx context.Context, cfg config.StorageConfig) (storage.StateStore, error) {
	switch cfg.Backend {
	case constants.StorageMemory, "":
		return storage.NewMemoryStore(), nil
	case constants.StoragePostgres:
		store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open postgres state store")
		}
		return store, nil
	case constants.StorageLevelDB:
		store, err := storage.NewLevelDBStore(cfg.LevelDBPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open leveldb state store")
		}
		return store, nil
	default:
		return nil, errors.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Router returns the gin engine serving the app. The rate limiter is created on first call.
func (a *App) Router() http.Handler {
	if a.limiter == nil {
		a.limiter = middleware.NewRateLimiter(a.Config.RateLimit.RPS, a.Config.RateLimit.Burst)
	}
	return NewRouter(Dependencies{
		Store:        a.Store,
		Grants:       a.Grants,
		Revocations:  a.Revocations,
		Tokens:       a.Tokens,
		Prices:       a.DataAPI,
		GrantContext: a.GrantContext,
		Observer:     a.Metrics,
		Gatherer:     a.Registry,
	}, RouterOptions{
		CORSAllowedOrigins: a.Config.CORSAllowedOrigins,
		TrustedProxies:     a.Config.TrustedProxies,
		RateLimiter:        a.limiter,
	})
}

// Run serves the API on cfg.HTTPAddr until ctx is cancelled, then shuts down gracefully
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.HTTPAddr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "failed to start server")
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}
	a.logger.Info("Server exiting")
	return nil
}

// Close releases the rate limiter, chain connections and state store
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.State != nil {
		return a.State.Close()
	}
	return nil
}
