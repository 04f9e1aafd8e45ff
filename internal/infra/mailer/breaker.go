package mailer

import (
	"log/slog"

	"arc-storefront/internal/pkg/config"
	"arc-storefront/internal/pkg/errs"

	"github.com/sony/gobreaker/v2"
)

// newBreaker trips after consecutive unreachable dials. Provider rejections count as successes.
func newBreaker(cfg config.BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[struct{}] {
	if !cfg.Enabled {
		return nil
	}
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 1
	}
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errs.IsKind(err, errs.KindTransportUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}
