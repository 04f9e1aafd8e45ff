//go:build unit

package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/textproto"
	"testing"
	"time"

	"arc-storefront/internal/pkg/config"
	"arc-storefront/internal/pkg/errs"
	"arc-storefront/internal/usecase/delivery"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// closedPort returns a loopback port nothing listens on.
func closedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func mailConfig(port int) config.MailConfig {
	return config.MailConfig{
		Host:              "127.0.0.1",
		Port:              port,
		Username:          "shop@example.com",
		Password:          "secret",
		ConnectionTimeout: time.Second,
		Verify:            true,
		FromName:          "ARC APPAREL",
	}
}

func staticLoader(cfg config.MailConfig) ConfigLoader {
	return func() (config.MailConfig, error) { return cfg, nil }
}

func TestAcquire(t *testing.T) {
	breakerOff := config.BreakerConfig{Enabled: false}

	testCases := []struct {
		name   string
		loader ConfigLoader
	}{
		{
			name:   "loader error",
			loader: func() (config.MailConfig, error) { return config.MailConfig{}, errors.New("bad env") },
		},
		{
			name: "missing host",
			loader: func() (config.MailConfig, error) {
				cfg := mailConfig(587)
				cfg.Host = " "
				return cfg, nil
			},
		},
		{
			name: "missing username",
			loader: func() (config.MailConfig, error) {
				cfg := mailConfig(587)
				cfg.Username = ""
				return cfg, nil
			},
		},
		{
			name: "missing password",
			loader: func() (config.MailConfig, error) {
				cfg := mailConfig(587)
				cfg.Password = ""
				return cfg, nil
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := NewTransportFactoryWithLoader(tc.loader, breakerOff, discardLogger())
			_, err := f.Acquire(context.Background())
			require.Error(t, err)
			assert.True(t, errs.IsKind(err, errs.KindTransportUnavailable))
		})
	}

	t.Run("settings are re-read on every acquire", func(t *testing.T) {
		calls := 0
		loader := func() (config.MailConfig, error) {
			calls++
			return mailConfig(587), nil
		}
		f := NewTransportFactoryWithLoader(loader, breakerOff, discardLogger())
		for range 3 {
			tr, err := f.Acquire(context.Background())
			require.NoError(t, err)
			require.NoError(t, tr.Close())
		}
		assert.Equal(t, 3, calls)
	})
}

func TestVerify(t *testing.T) {
	t.Run("unreachable server is transport unavailable", func(t *testing.T) {
		f := NewTransportFactoryWithLoader(staticLoader(mailConfig(closedPort(t))), config.BreakerConfig{}, discardLogger())
		tr, err := f.Acquire(context.Background())
		require.NoError(t, err)
		defer tr.Close()

		err = tr.Verify(context.Background())
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindTransportUnavailable))
	})

	t.Run("disabled verify does not dial", func(t *testing.T) {
		cfg := mailConfig(closedPort(t))
		cfg.Verify = false
		f := NewTransportFactoryWithLoader(staticLoader(cfg), config.BreakerConfig{}, discardLogger())
		tr, err := f.Acquire(context.Background())
		require.NoError(t, err)

		assert.NoError(t, tr.Verify(context.Background()))
		assert.NoError(t, tr.Close())
	})

	t.Run("send without verify still fails as unavailable", func(t *testing.T) {
		cfg := mailConfig(closedPort(t))
		cfg.Verify = false
		f := NewTransportFactoryWithLoader(staticLoader(cfg), config.BreakerConfig{}, discardLogger())
		tr, err := f.Acquire(context.Background())
		require.NoError(t, err)
		defer tr.Close()

		id, err := tr.Send(context.Background(), delivery.Message{To: "juan@example.com", Subject: "Order Confirmation #1", HTML: "<p>hi</p>"})
		require.Error(t, err)
		assert.Empty(t, id)
		assert.True(t, errs.IsKind(err, errs.KindTransportUnavailable))
	})
}

func TestBreaker(t *testing.T) {
	cfg := config.BreakerConfig{Enabled: true, ConsecutiveFailures: 2, OpenTimeout: time.Minute}
	f := NewTransportFactoryWithLoader(staticLoader(mailConfig(closedPort(t))), cfg, discardLogger())

	verify := func() error {
		tr, err := f.Acquire(context.Background())
		require.NoError(t, err)
		defer tr.Close()
		return tr.Verify(context.Background())
	}

	for range 2 {
		err := verify()
		require.Error(t, err)
		assert.False(t, errors.Is(err, gobreaker.ErrOpenState))
	}

	err := verify()
	require.Error(t, err)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.True(t, errs.IsKind(err, errs.KindTransportUnavailable))
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		kind errs.Kind
	}{
		{name: "connection check", err: &mail.SendError{Reason: mail.ErrConnCheck}, kind: errs.KindTransportUnavailable},
		{name: "recipient refused", err: &mail.SendError{Reason: mail.ErrSMTPRcptTo}, kind: errs.KindDeliveryRejected},
		{name: "data refused", err: &mail.SendError{Reason: mail.ErrSMTPData}, kind: errs.KindDeliveryRejected},
		{name: "deadline", err: fmt.Errorf("dial: %w", context.DeadlineExceeded), kind: errs.KindTransportUnavailable},
		{name: "network", err: &net.OpError{Op: "dial", Net: "tcp", Err: timeoutErr{}}, kind: errs.KindTransportUnavailable},
		{name: "smtp reply", err: fmt.Errorf("auth: %w", &textproto.Error{Code: 535, Msg: "5.7.8 Username and Password not accepted"}), kind: errs.KindDeliveryRejected},
		{name: "unknown", err: errors.New("something odd"), kind: errs.KindTransportUnavailable},
		{name: "already kinded", err: errs.Validation("invalid recipient address"), kind: errs.KindValidation},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := classify(tc.err)
			kind, ok := errs.KindOf(got)
			require.True(t, ok)
			assert.Equal(t, tc.kind, kind)
			assert.ErrorIs(t, got, tc.err)
		})
	}

	assert.NoError(t, classify(nil))
}

func TestBuild(t *testing.T) {
	cfg := mailConfig(587)
	cfg.FromAddress = "orders@arc.example.com"
	tr := &transport{cfg: cfg}

	m, id, err := tr.build(delivery.Message{To: "juan@example.com", Subject: "Order Confirmation #7", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Regexp(t, `^<[0-9a-f-]{36}@arc\.example\.com>$`, id)
	assert.Equal(t, []string{id}, m.GetGenHeader(mail.HeaderMessageID))
	assert.Equal(t, []string{"Order Confirmation #7"}, m.GetGenHeader(mail.HeaderSubject))

	_, _, err = tr.build(delivery.Message{To: "not an address"})
	assert.True(t, errs.IsValidation(err))
}
