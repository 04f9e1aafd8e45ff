package components

import (
	"context"
	"log/slog"

	"arc-storefront/internal/domain/catalog"
	"arc-storefront/internal/domain/order"
	"arc-storefront/internal/infra/receiptclient"
	"arc-storefront/internal/pkg/clock"
	"arc-storefront/internal/pkg/config"
	"arc-storefront/internal/usecase/checkout"
	"arc-storefront/internal/usecase/delivery"
	"arc-storefront/internal/usecase/session"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		delivery.NewUseCase,
		NewCheckoutDeliverer,
		NewSessionManager,
	),
	fx.Invoke(RunSessionSweeper),
)

// NewCheckoutDeliverer sends checkout receipts through a remote receipt endpoint when
// RECEIPT_SERVICE_URL is set, and in process otherwise.
func NewCheckoutDeliverer(cfg config.Config, uc delivery.UseCase, logger *slog.Logger) checkout.Deliverer {
	if cfg.Receipt.ServiceURL != "" {
		logger.Info("checkout delivers through remote receipt endpoint", "url", cfg.Receipt.ServiceURL)
		return receiptclient.New(cfg.Receipt.ServiceURL, cfg.Receipt.ClientTimeout)
	}
	return uc
}

func NewSessionManager(
	cfg config.Config,
	cat *catalog.Catalog,
	repo session.CartRepository,
	deliverer checkout.Deliverer,
	refs order.ReferenceGenerator,
	clk clock.Clock,
	logger *slog.Logger,
) *session.Manager {
	return session.NewManager(cat, repo, deliverer, refs, clk, logger, session.Options{
		IdleTTL: cfg.Session.IdleTTL,
		Checkout: checkout.Options{
			ResetDelay:      cfg.Checkout.ResetDelay,
			TestSendEnabled: cfg.Checkout.TestSendEnabled,
		},
	})
}

func RunSessionSweeper(lc fx.Lifecycle, cfg config.Config, manager *session.Manager) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				manager.Run(ctx, cfg.Session.SweepInterval)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
