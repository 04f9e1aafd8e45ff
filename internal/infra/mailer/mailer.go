package mailer

import (
	"context"
	"log/slog"
	"strings"

	"arc-storefront/internal/pkg/config"
	"arc-storefront/internal/pkg/errs"
	"arc-storefront/internal/usecase/delivery"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"github.com/wneessen/go-mail"
)

// ConfigLoader returns the mail settings to use for the next transport.
type ConfigLoader func() (config.MailConfig, error)

// TransportFactory opens a go-mail client per delivery. Settings are re-read on every Acquire.
type TransportFactory struct {
	load    ConfigLoader
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *slog.Logger
}

func NewTransportFactory(breakerCfg config.BreakerConfig, logger *slog.Logger) *TransportFactory {
	return NewTransportFactoryWithLoader(config.LoadMailConfig, breakerCfg, logger)
}

func NewTransportFactoryWithLoader(load ConfigLoader, breakerCfg config.BreakerConfig, logger *slog.Logger) *TransportFactory {
	return &TransportFactory{
		load:    load,
		breaker: newBreaker(breakerCfg, logger),
		logger:  logger,
	}
}

func (f *TransportFactory) Acquire(_ context.Context) (delivery.Transport, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, errs.E(errs.KindTransportUnavailable, "mail configuration could not be read", err)
	}
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errs.E(errs.KindTransportUnavailable, "SMTP host is not configured", nil)
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errs.E(errs.KindTransportUnavailable, "SMTP credentials are not configured", nil)
	}

	opts := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(cfg.ConnectionTimeout),
	}
	// Without SMTP_SECURE the connection upgrades through STARTTLS when the server offers it.
	switch {
	case cfg.Secure:
		opts = append(opts, mail.WithSSL())
	case cfg.RequireTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	opts = append(opts, mail.WithPort(cfg.Port))

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errs.E(errs.KindTransportUnavailable, "invalid SMTP client settings", err)
	}

	return &transport{
		client:  client,
		cfg:     cfg,
		breaker: f.breaker,
	}, nil
}

type transport struct {
	client    *mail.Client
	cfg       config.MailConfig
	breaker   *gobreaker.CircuitBreaker[struct{}]
	connected bool
}

// Verify performs the dial, TLS and AUTH handshake. The connection is reused by Send.
// With SMTP_VERIFY=false it is a no-op and Send dials on demand.
func (t *transport) Verify(ctx context.Context) error {
	if !t.cfg.Verify {
		return nil
	}
	return t.dial(ctx)
}

func (t *transport) Send(ctx context.Context, msg delivery.Message) (string, error) {
	m, messageID, err := t.build(msg)
	if err != nil {
		return "", err
	}
	if !t.connected {
		if err := t.dial(ctx); err != nil {
			return "", err
		}
	}
	if err := t.client.Send(m); err != nil {
		return "", classify(err)
	}
	return messageID, nil
}

func (t *transport) Close() error {
	if !t.connected {
		return nil
	}
	t.connected = false
	return t.client.Close()
}

func (t *transport) dial(ctx context.Context) error {
	if t.breaker == nil {
		return t.dialOnce(ctx)
	}
	_, err := t.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, t.dialOnce(ctx)
	})
	if errs.Is(err, gobreaker.ErrOpenState) || errs.Is(err, gobreaker.ErrTooManyRequests) {
		return errs.E(errs.KindTransportUnavailable, "SMTP circuit is open", err)
	}
	return err
}

func (t *transport) dialOnce(ctx context.Context) error {
	if err := t.client.DialWithContext(ctx); err != nil {
		return classify(err)
	}
	t.connected = true
	return nil
}

func (t *transport) build(msg delivery.Message) (*mail.Msg, string, error) {
	sender := t.cfg.Sender()
	m := mail.NewMsg()
	if err := m.FromFormat(t.cfg.FromName, sender); err != nil {
		return nil, "", errs.E(errs.KindDeliveryRejected, "invalid sender address", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, "", errs.E(errs.KindValidation, "invalid recipient address", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)

	id := uuid.NewString() + "@" + domainOf(sender)
	m.SetMessageIDWithValue(id)
	return m, "<" + id + ">", nil
}

func domainOf(address string) string {
	if at := strings.LastIndex(address, "@"); at >= 0 && at < len(address)-1 {
		return address[at+1:]
	}
	return "localhost"
}
