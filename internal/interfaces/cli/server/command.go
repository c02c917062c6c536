// Package server implements the HTTP server command.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/zoobzio/hookz"

	"storepay/internal/application/payment/gateway"
	paymentUsecases "storepay/internal/application/payment/usecases"
	"storepay/internal/infrastructure/config"
	"storepay/internal/infrastructure/database"
	"storepay/internal/infrastructure/gateway/paystack"
	"storepay/internal/infrastructure/migration"
	"storepay/internal/infrastructure/ratelimit"
	"storepay/internal/infrastructure/repository"
	httpInterface "storepay/internal/interfaces/http"
	"storepay/internal/interfaces/http/handlers"
	"storepay/internal/shared/db"
	"storepay/internal/shared/goroutine"
	"storepay/internal/shared/keylock"
	"storepay/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the payment settlement server",
		Long:  `Start the HTTP server serving the payment intent endpoint and the gateway webhook endpoint.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := migration.NewManager(env).Migrate(database.Get()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	var limiter ratelimit.RateLimiter
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(cmd.Context()).Err(); err != nil {
		log.Warnw("redis unavailable, webhook rate limiting disabled", "error", err)
	} else {
		limiter = ratelimit.NewRedisRateLimiter(redisClient)
	}

	// Settlement hooks: downstream reactions (fulfilment kickoff, audit
	// trail) subscribe here without coupling to the settlement path.
	hooks := hookz.New[paymentUsecases.SettledEvent]()
	defer hooks.Close()

	_, err = hooks.Hook(paymentUsecases.EventOrderSettled,
		func(ctx context.Context, event paymentUsecases.SettledEvent) error {
			log.Infow("order settled",
				"order_code", event.OrderCode,
				"transaction_id", event.TransactionID,
				"amount_minor", event.AmountMinor,
				"currency", event.Currency,
			)
			return nil
		})
	if err != nil {
		return fmt.Errorf("failed to register settled hook: %w", err)
	}

	orderRepo := repository.NewOrderRepository(database.Get())
	channelRepo := repository.NewChannelRepository(database.Get())
	methodRepo := repository.NewPaymentMethodRepository(database.Get())
	txManager := db.NewTransactionManager(database.Get())

	var gatewayFactory gateway.Factory = paystack.NewFactory(&cfg.Gateway, log)

	resolveMethod := paymentUsecases.NewResolveMethodUseCase(methodRepo, log)
	createIntent := paymentUsecases.NewCreateIntentUseCase(orderRepo, channelRepo, resolveMethod, gatewayFactory, log)
	settle := paymentUsecases.NewSettlePaymentUseCase(channelRepo, resolveMethod, gatewayFactory,
		orderRepo, txManager, keylock.New(), hooks, log)
	ingest := paymentUsecases.NewIngestWebhookUseCase(settle, log)

	paymentHandler := handlers.NewPaymentHandler(createIntent, ingest, log)

	engine := httpInterface.NewRouter(httpInterface.RouterConfig{
		Mode:    cfg.Server.Mode,
		Webhook: &cfg.Webhook,
	}, paymentHandler, limiter, log)

	srv := &http.Server{
		Addr:              cfg.Server.GetAddr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	goroutine.SafeGo(log, "http-server", func() {
		log.Infow("server listening", "addr", srv.Addr, "env", env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Infow("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Infow("server stopped")
	return nil
}
