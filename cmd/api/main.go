package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"

	amize "gitlab.com/amize/amize-backend"
	"gitlab.com/amize/amize-backend/internal/adapters/repos/postgres"
	"gitlab.com/amize/amize-backend/internal/adapters/services/mailer"
	"gitlab.com/amize/amize-backend/internal/adapters/services/s3"
	authapp "gitlab.com/amize/amize-backend/internal/application/auth"
	"gitlab.com/amize/amize-backend/internal/application/mail"
	profileapp "gitlab.com/amize/amize-backend/internal/application/profile"
	"gitlab.com/amize/amize-backend/internal/config"
	httpport "gitlab.com/amize/amize-backend/internal/ports/http"
	watermillport "gitlab.com/amize/amize-backend/internal/ports/watermill"
	"gitlab.com/amize/amize-backend/pkg/env"
	"gitlab.com/amize/amize-backend/pkg/httpx"
	"gitlab.com/amize/amize-backend/pkg/logging"
	pgpkg "gitlab.com/amize/amize-backend/pkg/postgres"
	"gitlab.com/amize/amize-backend/pkg/watermillx"
)

// Application holds all the application dependencies
type Application struct {
	Auth    *authapp.App
	Profile *profileapp.App
	Mail    *mail.App
}

type Repositories struct {
	Account *postgres.AccountRepo
	Profile *postgres.ProfileRepo
	Follow  *postgres.FollowRepo
}

func main() {
	if err := run(); err != nil {
		slog.Error("amize backend stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mode := cfg.EnvMode()
	env.SetMode(mode)
	logging.Setup(mode)

	shutdownOTel, err := setupOTelSDK(ctx, cfg.OTel.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to set up OpenTelemetry SDK: %w", err)
	}
	defer func() {
		if err := shutdownOTel(context.Background()); err != nil {
			slog.Error("failed to shutdown OpenTelemetry SDK", "error", err)
		}
	}()

	slog.InfoContext(ctx, "starting amize backend", "mode", mode, "addr", cfg.HTTP.Addr())

	pool, err := setupDatabase(ctx, cfg, mode)
	if err != nil {
		return err
	}
	defer pool.Close()

	repos := setupRepositories(pool)

	blobs, err := setupBlobStore(ctx, cfg)
	if err != nil {
		return err
	}

	apps, err := setupApplications(cfg, repos, blobs)
	if err != nil {
		return err
	}

	eventRouter, wmport, err := setupEventProcessing(ctx, cfg, pool, apps)
	if err != nil {
		return err
	}
	go wmport.PurgeOutbox(ctx, cfg.Mail.OutboxPurgeInterval, cfg.Mail.OutboxRetention)
	routerErr := make(chan error, 1)
	go func() {
		routerErr <- eventRouter.Run(ctx)
	}()
	defer func() {
		if err := eventRouter.Close(); err != nil {
			slog.Error("failed to close event router", "error", err)
		}
	}()

	httpServer, err := setupHTTPServer(cfg, apps)
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "starting HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case err := <-routerErr:
		if err != nil {
			return fmt.Errorf("event router: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exited")
	return nil
}

func setupDatabase(ctx context.Context, cfg *config.Config, mode env.Mode) (*pgxpool.Pool, error) {
	pool, err := pgpkg.NewPgxPool(ctx, cfg.Database.URL, mode, pgpkg.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := pgpkg.Migrate(pgpkg.MigrationDSN(cfg.Database.URL), amize.Migrations); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return pool, nil
}

func setupRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Account: postgres.NewAccountRepo(pool, nil, nil),
		Profile: postgres.NewProfileRepo(pool, nil, nil),
		Follow:  postgres.NewFollowRepo(pool, nil, nil),
	}
}

func setupBlobStore(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	client, err := s3.NewClient(ctx, s3.Args{
		Endpoint:      cfg.S3.Endpoint,
		Region:        cfg.S3.Region,
		AccessKey:     cfg.S3.AccessKey,
		SecretKey:     cfg.S3.SecretKey,
		Bucket:        cfg.S3.Bucket,
		PublicBaseURL: cfg.S3.PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	// self hosted object stores start empty
	if cfg.S3.Endpoint != "" {
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure bucket %q: %w", cfg.S3.Bucket, err)
		}
	}

	return client, nil
}

func setupApplications(cfg *config.Config, repos *Repositories, blobs *s3.Client) (*Application, error) {
	sender, err := mailer.New(mailer.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}

	return &Application{
		Auth: authapp.NewApp(authapp.Args{
			Repo:             repos.Account,
			DefaultAvatarURL: cfg.App.DefaultAvatarURL,
		}),
		Profile: profileapp.NewApp(profileapp.Args{
			Repo:          repos.Profile,
			AccountGetter: repos.Account,
			FollowChecker: repos.Follow,
			BlobStore:     blobs,
			UploadTimeout: cfg.S3.UploadTimeout,
		}),
		Mail: mail.NewApp(mail.Args{
			Mailsender:  sender,
			FrontendURL: cfg.App.FrontendURL,
			SendTimeout: cfg.Mail.SendTimeout,
		}),
	}, nil
}

func setupEventProcessing(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, apps *Application) (*message.Router, *watermillport.Port, error) {
	wlogger := watermillx.NewSlogLogger(slog.Default(), env.Current().SlogLevel())

	router, err := message.NewRouter(message.RouterConfig{}, wlogger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create watermill router: %w", err)
	}

	if err := watermillx.InitializeEventSchema(ctx, pool, wlogger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize event schema: %w", err)
	}

	wmport, err := watermillport.NewPort(router, pool, wlogger, cfg.Mail.MaxRetries)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create watermill port: %w", err)
	}
	if err := wmport.Run(ctx, watermillport.AppEventHandlers{Mail: apps.Mail}); err != nil {
		return nil, nil, fmt.Errorf("failed to register event handlers: %w", err)
	}

	slog.InfoContext(ctx, "event processing setup completed")
	return router, wmport, nil
}

func setupHTTPServer(cfg *config.Config, apps *Application) (*http.Server, error) {
	errhandler, err := httpx.NewErrorHandler(amize.Locales, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create error handler: %w", err)
	}

	router := httpport.NewPort(httpport.Args{
		AuthApp:     apps.Auth,
		ProfileApp:  apps.Profile,
		Errhandler:  errhandler,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	}).Route(nil)

	return &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, nil
}

// setupOTelSDK bootstraps the OpenTelemetry pipeline. Signals go to the OTLP
// gRPC collector at endpoint, or to stdout when endpoint is empty.
// If it does not return an error, make sure to call shutdown for proper cleanup.
func setupOTelSDK(ctx context.Context, endpoint string) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error

	// shutdown calls cleanup functions registered via shutdownFuncs.
	// The errors from the calls are joined.
	// Each registered cleanup will be invoked once.
	shutdown = func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	// handleErr calls shutdown for cleanup and makes sure that all errors are returned.
	handleErr := func(inErr error) {
		err = errors.Join(inErr, shutdown(ctx))
	}

	otel.SetTextMapPropagator(newPropagator())

	tracerProvider, err := newTracerProvider(ctx, endpoint)
	if err != nil {
		handleErr(err)
		return
	}
	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)

	meterProvider, err := newMeterProvider(ctx, endpoint)
	if err != nil {
		handleErr(err)
		return
	}
	shutdownFuncs = append(shutdownFuncs, meterProvider.Shutdown)
	otel.SetMeterProvider(meterProvider)

	loggerProvider, err := newLoggerProvider(ctx, endpoint)
	if err != nil {
		handleErr(err)
		return
	}
	shutdownFuncs = append(shutdownFuncs, loggerProvider.Shutdown)
	global.SetLoggerProvider(loggerProvider)

	return
}

func newPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

func newTracerProvider(ctx context.Context, endpoint string) (*trace.TracerProvider, error) {
	var (
		exporter trace.SpanExporter
		err      error
	)
	if endpoint != "" {
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
	} else {
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	if err != nil {
		return nil, err
	}

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter, trace.WithBatchTimeout(5*time.Second)),
	), nil
}

func newMeterProvider(ctx context.Context, endpoint string) (*metric.MeterProvider, error) {
	var (
		exporter metric.Exporter
		err      error
	)
	if endpoint != "" {
		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	} else {
		exporter, err = stdoutmetric.New()
	}
	if err != nil {
		return nil, err
	}

	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(time.Minute))),
	), nil
}

func newLoggerProvider(ctx context.Context, endpoint string) (*log.LoggerProvider, error) {
	var (
		exporter log.Exporter
		err      error
	)
	if endpoint != "" {
		exporter, err = otlploggrpc.New(ctx,
			otlploggrpc.WithEndpoint(endpoint),
			otlploggrpc.WithInsecure(),
		)
	} else {
		exporter, err = stdoutlog.New()
	}
	if err != nil {
		return nil, err
	}

	return log.NewLoggerProvider(
		log.WithProcessor(log.NewBatchProcessor(exporter)),
	), nil
}
