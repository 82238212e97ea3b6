package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/disc-ucn/firma"
	"github.com/disc-ucn/firma/internal/config"
	"github.com/disc-ucn/firma/internal/editor"
	"github.com/disc-ucn/firma/internal/handlers"
	"github.com/disc-ucn/firma/internal/views"
	"github.com/disc-ucn/firma/middlewares"
	"github.com/disc-ucn/firma/pkg/clipboard"
	"github.com/disc-ucn/firma/pkg/i18n"
	"github.com/disc-ucn/firma/pkg/logger"
	"github.com/disc-ucn/firma/pkg/mailer"
	"github.com/disc-ucn/firma/pkg/mailer/resend"
	"github.com/disc-ucn/firma/pkg/metrics"
	"github.com/disc-ucn/firma/pkg/redis"
	"github.com/disc-ucn/firma/pkg/session"
)

const (
	requestTimeout = 15 * time.Second
	sendTimeout    = 30 * time.Second
	publishTimeout = 2 * time.Second
	redisTimeout   = 10 * time.Second
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the signature editor web server",
		Long: `Serve runs the interactive editor.

Configuration is read from FIRMA_ prefixed environment variables and,
when present, from the file given with --env-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			addr, _ := cmd.Flags().GetString("addr")

			cfg, err := config.Load(config.WithDotenv(envFile))
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().String("env-file", ".env", "Dotenv file loaded before the environment")
	cmd.Flags().String("addr", "", "Listen address, overrides FIRMA_ADDR")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	cfg.Log.Sentry.Release = "firma@" + version
	log := logger.New(cfg.Log, middlewares.RequestIDExtractor()).With(slog.String("component", "firma"))
	defer logger.Flush(2 * time.Second)

	catalog, err := i18n.Default()
	if err != nil {
		return fmt.Errorf("loading translations: %w", err)
	}

	m := metrics.New()

	pub := clipboard.NewPool(clipboard.NewMemory(),
		clipboard.WithFallback(clipboard.ParseFallback(cfg.Fallback)),
		clipboard.WithLogger(log),
		clipboard.WithTimeout(publishTimeout),
		clipboard.WithRecorder(m),
	)
	svc := editor.NewService(pub,
		editor.WithCopiedWindow(cfg.CopiedWindow),
		editor.WithMetrics(m),
	)

	var editorOpts []handlers.EditorOption
	if cfg.Resend.Enabled() {
		editorOpts = append(editorOpts, handlers.WithMailer(mailer.New(resend.New(cfg.Resend), nil, cfg.Mail)))
	} else {
		log.Info("resend api key not set, sending signatures by email is disabled")
	}
	editorHandler, err := handlers.NewEditor(svc, catalog, editorOpts...)
	if err != nil {
		return fmt.Errorf("building editor handler: %w", err)
	}

	secret := cfg.CookieSecret
	if secret == "" {
		if secret, err = randomSecret(); err != nil {
			return err
		}
		log.Warn("FIRMA_COOKIE_SECRET not set, using a random secret; sessions will not survive a restart")
	}

	healthOpts := []firma.HealthOption{firma.WithHealthVersion(version)}
	runOpts := []firma.RunOption{
		firma.Logger(log),
		firma.ShutdownTimeout(cfg.ShutdownTimeout),
		firma.WithContext(ctx),
	}

	var store firma.SessionStore
	switch cfg.SessionBackend {
	case config.BackendRedis:
		rctx, cancel := context.WithTimeout(ctx, redisTimeout)
		client, err := redis.Open(rctx, cfg.RedisURL, redis.WithLogger(log))
		cancel()
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		store = session.NewRedis(client)
		healthOpts = append(healthOpts, firma.WithReadinessCheck("redis", redis.Healthcheck(client)))
		runOpts = append(runOpts, firma.ShutdownHook(redis.Shutdown(client)))
	default:
		mem := session.NewMemory()
		store = mem
		runOpts = append(runOpts, firma.ShutdownHook(func(context.Context) error { return mem.Close() }))
	}

	app := firma.New(
		firma.WithCustomLogger(log),
		firma.WithCookieOptions(
			firma.WithCookieSecret(secret),
			firma.WithCookieSecure(cfg.CookieSecure || cfg.IsProduction()),
		),
		firma.WithSession(store, firma.WithSessionTTL(cfg.SessionTTL)),
		firma.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.Timeout(requestTimeout, middlewares.WithRouteTimeout("/send", sendTimeout)),
			middlewares.I18n(catalog),
			middlewares.Metrics(m),
		),
		firma.WithStaticFiles("/static", views.Assets, "static"),
		firma.WithHandlers(editorHandler),
		firma.WithErrorHandler(handlers.ErrorHandler(catalog.Languages()...)),
		firma.WithNotFoundHandler(handlers.NotFound),
		firma.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),
		firma.WithHealthChecks(healthOpts...),
		firma.WithMount("/metrics", m.Handler()),
	)

	log.Info("starting firma",
		slog.String("addr", cfg.Addr),
		slog.String("env", cfg.Env),
		slog.String("sessions", cfg.SessionBackend),
		slog.String("version", version),
	)
	return app.Run(cfg.Addr, runOpts...)
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating cookie secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
