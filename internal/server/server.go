// Package server wires configuration, storage, repositories, services and
// routes into a running HTTP server.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"makers/app/controllers"
	"makers/app/repositories"
	"makers/app/routes"
	"makers/app/services"
	"makers/config"
	"makers/pkg/cache"
	"makers/pkg/database"
	"makers/pkg/event"
	"makers/pkg/logger"
	"makers/pkg/metrics"
	"makers/pkg/middleware"
	"makers/pkg/reqid"
	"makers/pkg/router"
	"makers/pkg/storage"
)

const shutdownGrace = 10 * time.Second

// Start boots every subsystem and serves until SIGINT or SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, db, err := database.Connect(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	var mongoSink *logger.MongoHandler
	if config.LogToMongo() {
		mongoSink = logger.NewMongoHandler(db.Collection(database.LogsCollection))
		logger.SetHandler(logger.NewMultiHandler(logger.L.Handler(), mongoSink))
		defer mongoSink.Close()
	}

	// Redis and object storage are optional; a miss degrades to
	// cache-free and local-disk operation.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
	}
	if err := storage.Connect(); err != nil {
		return err
	}

	registerListeners()
	r := NewRouter(db)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancelShutdown()

	return srv.Shutdown(shutdownCtx)
}

// NewRouter builds the fully wired route table on top of db. Split out from
// Start so tests can drive the exact production handler stack.
func NewRouter(db *mongo.Database) *router.Router {
	toolRepo := repositories.NewToolRepository(db)
	userRepo := repositories.NewUserRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	c := routes.Controllers{
		Catalog:  controllers.NewCatalogController(services.NewCatalogService(toolRepo)),
		Orders:   controllers.NewOrderController(services.NewOrderService(orderRepo, toolRepo)),
		Accounts: controllers.NewAccountController(services.NewAccountService(userRepo)),
	}

	r := router.New()
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)
	routes.RegisterAPI(r, c, userRepo)
	return r
}

func registerListeners() {
	event.Listen(event.OrderCreated, func(payload interface{}) {
		logger.Info("order created", "order", payload)
	})
	event.Listen(event.StockAdjusted, func(payload interface{}) {
		logger.Debug("stock adjusted", "tool_id", payload)
	})
	event.Listen(event.CatalogChanged, func(interface{}) {
		logger.Debug("catalog changed, cache invalidated")
	})
}
