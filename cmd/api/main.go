package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"blogapi/internal/config"
	"blogapi/internal/db"
	"blogapi/internal/handlers"
	"blogapi/internal/middleware"
	"blogapi/internal/storage"
	"blogapi/internal/storage/inmemory"
	"blogapi/internal/storage/postgres"
	"blogapi/internal/storage/sqlite"
	"blogapi/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	slogger := logger.New(cfg.LogLevel)

	ctx := context.Background()

	if cfg.OTLPEndpoint != "" {
		shutdown := initTracing(ctx, cfg.OTLPEndpoint)
		defer func() {
			c, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			_ = shutdown(c)
		}()
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}
	defer closeStore()

	h := handlers.NewHandler(store)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(slogger))
	r.Use(middleware.Metrics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	h.Mount(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(r, "blogapi"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slogger.Info("listening", "addr", srv.Addr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("shutting down server...")

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

// openStore builds the configured PostStore. The returned func releases
// the underlying connection, a no-op for the memory driver.
func openStore(ctx context.Context, cfg config.Config) (storage.PostStore, func(), error) {
	switch cfg.StorageDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, nil, errors.New("DATABASE_URL is required for the postgres driver")
		}
		conn, err := db.Postgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store, err := postgres.NewPostStore(ctx, conn)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return store, func() { conn.Close() }, nil

	case "memory":
		return inmemory.NewPostStore(), func() {}, nil

	default:
		conn, err := db.SQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		store, err := sqlite.NewPostStore(ctx, conn)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return store, func() { conn.Close() }, nil
	}
}

func initTracing(ctx context.Context, endpoint string) func(context.Context) error {
	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		log.Fatalf("otel exporter: %v", err)
	}
	res, _ := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("blogapi"),
	))
	tp := trace.NewTracerProvider(trace.WithBatcher(exp), trace.WithResource(res))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown
}
