// Package main initializes and starts the leaderboard HTTP server,
// setting up configuration, logging, the key-value store, secrets,
// services, handlers, and optional TLS.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/leaderboard/internal/config"
	"github.com/atinyakov/leaderboard/internal/db"
	"github.com/atinyakov/leaderboard/internal/logger"
	"github.com/atinyakov/leaderboard/internal/metrics"
	"github.com/atinyakov/leaderboard/internal/profanity"
	"github.com/atinyakov/leaderboard/internal/repository"
	"github.com/atinyakov/leaderboard/internal/secrets"
	"github.com/atinyakov/leaderboard/internal/server/handler/http"
	"github.com/atinyakov/leaderboard/internal/service"
	"github.com/atinyakov/leaderboard/internal/tlsconf"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse command-line, config file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	if _, err := maxprocs.Set(maxprocs.Logger(zapLogger.Sugar().Infof)); err != nil {
		zapLogger.Warn("failed to set GOMAXPROCS", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options, zapLogger); err != nil {
		zapLogger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, options *config.Options, zapLogger *zap.Logger) error {
	// Connect to the key-value store.
	valkeyOpts := db.ValkeyOptions{
		Addr:     options.ValkeyServer,
		Username: options.ValkeyUsername,
		Password: options.ValkeyPassword,
	}
	if options.ValkeyTLS {
		tlsCfg, err := tlsconf.Client(options.ValkeyHost(), options.ValkeyCAFile)
		if err != nil {
			return fmt.Errorf("valkey tls: %w", err)
		}
		valkeyOpts.TLS = tlsCfg
	}

	client, err := db.InitValkey(ctx, valkeyOpts)
	if err != nil {
		return fmt.Errorf("cannot init store: %w", err)
	}
	defer func() { _ = client.Close() }()
	zapLogger.Info("connected to store",
		zap.String("addr", options.ValkeyServer),
		zap.Bool("tls", options.ValkeyTLS),
	)

	m := metrics.New()
	m.Registry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if options.StoreProbeInterval > 0 {
		db.StartStoreProbe(ctx, client, options.StoreProbeInterval, m.StoreUp, zapLogger)
	}

	// The password itself is fetched per reset request.
	secretProvider, err := secrets.NewSecretsManagerProvider(ctx, options.AWSRegion, options.ResetSecretKey)
	if err != nil {
		return fmt.Errorf("cannot init secrets provider: %w", err)
	}
	zapLogger.Info("reset secret configured",
		zap.String("region", options.AWSRegion),
		zap.String("secret_id", options.ResetSecretKey),
	)

	repo := repository.NewRedisLeaderboardRepository(client)
	leaderboardService := service.NewLeaderboardService(repo, secretProvider)

	scoreHandler := &http.ScoreHandler{Service: leaderboardService, Metrics: m, Logger: zapLogger}
	nameChecker := profanity.New(options.ProfanityExtraWords...)
	profanityHandler := &http.ProfanityHandler{Check: nameChecker.Check, Metrics: m}

	router := http.NewRouter(scoreHandler, profanityHandler, zapLogger, http.RouterOptions{
		CORSOrigin: options.CORSOrigin,
		StaticDir:  options.StaticDir,
		Metrics:    m,
	})

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	useTLS := options.TLSCertFile != ""
	if useTLS {
		tlsCfg, err := tlsconf.Server(options.TLSCertFile, options.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("server tls: %w", err)
		}
		server.TLSConfig = tlsCfg
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("starting server",
			zap.String("addr", options.Addr),
			zap.Bool("tls", useTLS),
			zap.String("cors_origin", options.CORSOrigin),
		)
		var err error
		if useTLS {
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}
		if !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
