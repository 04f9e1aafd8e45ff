package components

import (
	"context"
	"log/slog"

	"arc-storefront/internal/infra/cartstore"
	"arc-storefront/internal/infra/events"
	"arc-storefront/internal/infra/mailer"
	"arc-storefront/internal/pkg/clock"
	"arc-storefront/internal/pkg/config"
	"arc-storefront/internal/usecase/delivery"
	"arc-storefront/internal/usecase/session"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var InfraModule = fx.Module("infra",
	fx.Provide(
		NewCartRepository,
		NewEventPublisher,
		fx.Annotate(
			NewTransportFactory,
			fx.As(new(delivery.TransportFactory)),
		),
	),
)

func NewTransportFactory(cfg config.Config, logger *slog.Logger) *mailer.TransportFactory {
	return mailer.NewTransportFactory(cfg.Breaker, logger)
}

// NewCartRepository persists carts in Redis when REDIS_ADDR is set and in process memory otherwise.
func NewCartRepository(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) (session.CartRepository, error) {
	if !cfg.Redis.Enabled() {
		logger.Info("cart persistence: in-memory", "ttl", cfg.Session.CartTTL)
		return cartstore.NewMemoryRepository(cfg.Session.CartTTL, clk), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("redis is not reachable yet, carts are saved best effort", "addr", cfg.Redis.Addr, "error", err)
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	logger.Info("cart persistence: redis", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CartTTL)
	return cartstore.NewRedisRepository(client, cfg.Redis.CartTTL, logger), nil
}

// NewEventPublisher announces delivery outcomes on RabbitMQ when AMQP_URL is set.
func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (delivery.EventPublisher, error) {
	if !cfg.AMQP.Enabled() {
		return events.NoopPublisher{}, nil
	}

	conn, ch, err := events.Connect(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if err := ch.Close(); err != nil {
				logger.Warn("failed to close amqp channel", "error", err)
			}
			return conn.Close()
		},
	})

	return events.NewRabbitPublisher(ch, cfg.AMQP.Exchange, logger), nil
}
