package commands

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	goboot "github.com/centraunit/goboot"
	"github.com/centraunit/goboot/metrics"
	"github.com/centraunit/goboot/telemetry"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the startup orchestration and serve",
	Long: `Run the three-phase startup orchestration over the registered components.
On success the HTTP server starts serving /healthz and /metrics; on any
orchestration failure the process exits non-zero without serving.

Examples:
  # Run with the default config location
  gobootd run

  # Run with a custom config file
  gobootd run --config /etc/gobootd/gobootd.yaml

  # Override config through the environment
  GOBOOTD_LOGGING_LEVEL=debug gobootd run`,
	RunE: runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "gobootd",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Error().Err(err).Msg("telemetry shutdown error")
		}
	}()

	var bootMetrics *metrics.BootMetrics
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		bootMetrics = metrics.NewBootMetrics()
	}

	orch := goboot.New(goboot.Config{
		Logger:       log,
		Metrics:      bootMetrics,
		DenyPrefixes: cfg.Components.DenyPrefixes,
	})

	if err := orch.Configure(demoComponents(log)...); err != nil {
		log.Error().Err(err).Msg("startup configuration failed")
		return err
	}
	if err := orch.Run(ctx); err != nil {
		log.Error().Err(err).Msg("startup orchestration failed, refusing to serve")
		return err
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
			"state":  orch.State().String(),
		})
	}).Methods(http.MethodGet)
	if cfg.Metrics.Enabled {
		router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()
	log.Info().Str("addr", cfg.Server.Addr).Msg("serving")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
			return err
		}
		log.Info().Msg("server stopped")
		return nil
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			return err
		}
		return nil
	}
}

// newLogger builds the process logger from configuration. Console format is
// for humans; anything else is zerolog's default JSON.
func newLogger(cfg *Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	var log zerolog.Logger
	if cfg.Logging.Format == "console" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger(), nil
}
