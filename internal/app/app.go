package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/aquavenda/pos/internal/dal/postgres"
	"github.com/aquavenda/pos/internal/dal/rabbitmq"
	"github.com/aquavenda/pos/internal/dal/recordstore"
	postgresstore "github.com/aquavenda/pos/internal/dal/recordstore/postgres"
	"github.com/aquavenda/pos/internal/jaeger"
	"github.com/aquavenda/pos/internal/service/services/ordersvc"
	httptransport "github.com/aquavenda/pos/internal/transport/http"
	outboxworker "github.com/aquavenda/pos/internal/worker/outbox"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	transport      *httptransport.HTTPTransport
	store          recordstore.Store
	rabbitClient   *rabbitmq.Client
	worker         *outboxworker.Worker
	tracerProvider *sdktrace.TracerProvider
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	tracerProvider := jaeger.MustSetup()

	store := mustNewStore()

	opts := []ordersvc.Option{ordersvc.WithStore(store)}

	var rabbitClient *rabbitmq.Client
	var worker *outboxworker.Worker
	if viper.GetString("rabbitmq.host") != "" {
		rabbitClient = rabbitmq.MustNewClient()
		opts = append(opts, ordersvc.WithMirror(ordersvc.MirrorConfig{
			Exchange:   viper.GetString("rabbitmq.mirror.exchange"),
			RoutingKey: viper.GetString("rabbitmq.mirror.routing_key"),
			MaxRetries: viper.GetInt("rabbitmq.outbox.max_retries"),
		}))
	}

	orderSvc := ordersvc.MustNewOrderService(opts...)

	if rabbitClient != nil {
		worker = outboxworker.NewWorker(orderSvc, rabbitClient)
	}

	transport := httptransport.NewHTTPTransport(orderSvc)
	transport.RegisterRoutes()

	return &App{
		orderSvc:       orderSvc,
		transport:      transport,
		store:          store,
		rabbitClient:   rabbitClient,
		worker:         worker,
		tracerProvider: tracerProvider,
	}
}

// mustNewStore selects the record store backend from configuration.
func mustNewStore() recordstore.Store {
	switch driver := viper.GetString("storage.driver"); driver {
	case "postgres":
		return postgresstore.NewStore(postgres.MustNewClient())
	case "file":
		store, err := recordstore.NewFileStore(
			viper.GetString("storage.file.path"),
			ordersvc.Collections()...,
		)
		if err != nil {
			panic(err)
		}

		return store
	case "", "memory":
		return recordstore.NewMemoryStore(ordersvc.Collections()...)
	default:
		panic("unknown storage driver: " + driver)
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	if a.worker != nil {
		go a.worker.Start(workerCtx)
	}

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	cancelWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		}
	}

	if err := a.store.Close(); err != nil {
		slog.Error("Store close error", "error", err)
	} else {
		slog.Info("Store closed gracefully")
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			slog.Error("Tracer provider shutdown error", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
}
