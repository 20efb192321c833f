// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pearlfi/sponsorgate/adapters/clock"
	apihttp "github.com/pearlfi/sponsorgate/adapters/http"
	"github.com/pearlfi/sponsorgate/adapters/idgen"
	"github.com/pearlfi/sponsorgate/adapters/memory"
	"github.com/pearlfi/sponsorgate/adapters/metrics"
	"github.com/pearlfi/sponsorgate/adapters/provider"
	"github.com/pearlfi/sponsorgate/adapters/sui"
	"github.com/pearlfi/sponsorgate/app"
	"github.com/pearlfi/sponsorgate/config"
	"github.com/pearlfi/sponsorgate/domain/sponsor"
	"github.com/pearlfi/sponsorgate/ports"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	HTTPServer *http.Server
	Metrics    *metrics.Collector
	Holder     *config.Holder

	service  *app.SponsorService
	provider ports.SponsorshipProvider
	chain    ports.ChainClient
}

// New creates and initializes the application from a loaded config.
func New(cfg *config.Config) (*App, error) {
	logger := setupLogger(cfg.Logging)

	logger.Info().
		Str("provider", cfg.Provider.Mode).
		Str("network", cfg.Provider.Network).
		Msg("initializing sponsorgate")

	a := &App{Logger: logger}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	}

	sponsorProvider, err := provider.New(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("init provider: %w", err)
	}
	a.provider = sponsorProvider

	chainClient, err := sui.NewClient(sui.ClientConfig{
		URL:     cfg.Fullnode.URL,
		Timeout: cfg.Fullnode.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init fullnode client: %w", err)
	}
	a.chain = chainClient

	a.service = app.NewSponsorService(app.SponsorDeps{
		Store:    memory.NewUsageStore(),
		Provider: sponsorProvider,
		Clock:    clock.Real{},
		IDGen:    idgen.UUID{},
		Logger:   logger,
		Metrics:  a.Metrics,
	}, sponsorLimits(cfg.Sponsorship))

	a.initHTTPServer(cfg)

	return a, nil
}

// NewWithHotReload creates the application with config hot reload enabled.
// Limit changes in the config file take effect without a restart.
func NewWithHotReload(path string) (*App, error) {
	bootLogger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	holder, err := config.NewHolder(path, bootLogger)
	if err != nil {
		return nil, err
	}

	a, err := New(holder.Get())
	if err != nil {
		return nil, err
	}
	a.Holder = holder

	holder.OnChange(func(cfg *config.Config) {
		a.service.UpdateLimits(sponsorLimits(cfg.Sponsorship))
		if a.Metrics != nil {
			a.Metrics.ConfigReloads.Inc()
			a.Metrics.ConfigLastReload.SetToCurrentTime()
		}
	})

	if err := holder.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("config file watch unavailable")
	}
	holder.WatchSignals()

	return a, nil
}

// Service returns the sponsor service. Exposed for tests and CLI commands.
func (a *App) Service() *app.SponsorService {
	return a.service
}

func (a *App) initHTTPServer(cfg *config.Config) {
	sponsorHandler := apihttp.NewSponsorHandler(a.service, a.Logger)
	healthHandler := apihttp.NewHealthHandler(a.provider, a.chain)

	router := apihttp.NewRouterWithConfig(sponsorHandler, healthHandler, a.Logger, apihttp.RouterConfig{
		Metrics:       a.Metrics,
		MetricsPath:   cfg.Metrics.Path,
		EnableOpenAPI: cfg.OpenAPI.Enabled,
	})

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// Run starts the HTTP server and blocks until interrupted.
func (a *App) Run() error {
	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.Holder != nil {
		a.Holder.Stop()
	}

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

// sponsorLimits converts configured sponsorship settings to domain limits.
func sponsorLimits(c config.SponsorshipConfig) sponsor.Config {
	return sponsor.Config{
		DailyPositions:   c.DailyPositions,
		MonthlyPositions: c.MonthlyPositions,
		TotalValueUSD:    c.TotalValueUSD,
		CostPerOperation: c.CostPerOperation,
	}
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
