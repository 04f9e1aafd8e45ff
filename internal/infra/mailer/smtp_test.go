//go:build unit

package mailer

import (
	"context"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"arc-storefront/internal/domain/order"
	"arc-storefront/internal/domain/receipt"
	"arc-storefront/internal/pkg/clock"
	"arc-storefront/internal/pkg/config"
	"arc-storefront/internal/pkg/errs"
	"arc-storefront/internal/usecase/delivery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smtpServer speaks just enough SMTP for one client: AUTH PLAIN, no STARTTLS.
type smtpServer struct {
	port       int
	rejectAuth bool
	rejectRcpt bool

	mu       sync.Mutex
	verbs    []string
	messages []string
	conns    []net.Conn
}

func startSMTPServer(t *testing.T, configure func(*smtpServer)) *smtpServer {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &smtpServer{port: l.Addr().(*net.TCPAddr).Port}
	if configure != nil {
		configure(srv)
	}
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			srv.mu.Lock()
			srv.conns = append(srv.conns, conn)
			srv.mu.Unlock()
			go srv.serve(conn)
		}
	}()
	t.Cleanup(func() {
		_ = l.Close()
		srv.mu.Lock()
		defer srv.mu.Unlock()
		for _, c := range srv.conns {
			_ = c.Close()
		}
	})
	return srv
}

func (s *smtpServer) serve(conn net.Conn) {
	defer conn.Close()
	tp := textproto.NewConn(conn)
	reply := func(line string) { _ = tp.PrintfLine("%s", line) }

	reply("220 fake.smtp ESMTP ready")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		s.mu.Lock()
		s.verbs = append(s.verbs, verb)
		s.mu.Unlock()

		switch verb {
		case "EHLO":
			reply("250-fake.smtp greets you")
			reply("250 AUTH PLAIN")
		case "HELO":
			reply("250 fake.smtp")
		case "AUTH":
			if s.rejectAuth {
				reply("535 5.7.8 Username and Password not accepted")
			} else {
				reply("235 2.7.0 Authentication successful")
			}
		case "MAIL", "RSET", "NOOP":
			reply("250 2.0.0 OK")
		case "RCPT":
			if s.rejectRcpt {
				reply("550 5.1.1 No such user here")
			} else {
				reply("250 2.1.5 OK")
			}
		case "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			body, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.messages = append(s.messages, string(body))
			s.mu.Unlock()
			reply("250 2.0.0 OK queued")
		case "*":
			reply("501 5.5.2 AUTH cancelled")
		case "QUIT":
			reply("221 2.0.0 Bye")
			return
		default:
			reply("502 5.5.2 Command not recognized")
		}
	}
}

func (s *smtpServer) sawVerb(verb string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.verbs {
		if v == verb {
			return true
		}
	}
	return false
}

func (s *smtpServer) delivered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func receiptSnapshot() order.Snapshot {
	return order.NewSnapshot(48213,
		order.CustomerInfo{FullName: "Juan Dela Cruz", Email: "juan@example.com", Phone: "0917", Address: "Manila"},
		[]order.Item{{ProductID: 2, Name: "ARC FUTURE TEE", Quantity: 2, UnitPrice: 599}},
		time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	)
}

func newDeliveryUseCase(cfg config.MailConfig) delivery.UseCase {
	factory := NewTransportFactoryWithLoader(staticLoader(cfg), config.BreakerConfig{}, discardLogger())
	renderer := receipt.NewRenderer(receipt.Brand{Name: "ARC APPAREL", CurrencyGlyph: "₱"})
	return delivery.NewUseCase(factory, renderer, nil, clock.NewMockClock(time.Now()), discardLogger())
}

func TestSMTPConversation(t *testing.T) {
	msg := delivery.Message{To: "juan@example.com", Subject: "Order Confirmation #7", HTML: "<p>thanks</p>"}

	t.Run("plain relay without STARTTLS verifies and sends", func(t *testing.T) {
		srv := startSMTPServer(t, nil)
		f := NewTransportFactoryWithLoader(staticLoader(mailConfig(srv.port)), config.BreakerConfig{}, discardLogger())
		tr, err := f.Acquire(context.Background())
		require.NoError(t, err)

		require.NoError(t, tr.Verify(context.Background()))
		id, err := tr.Send(context.Background(), msg)
		require.NoError(t, err)
		require.NoError(t, tr.Close())

		assert.Regexp(t, `^<[0-9a-f-]{36}@example\.com>$`, id)
		messages := srv.delivered()
		require.Len(t, messages, 1)
		assert.Contains(t, messages[0], "Message-ID: "+id)
		assert.Contains(t, messages[0], "juan@example.com")
		assert.True(t, srv.sawVerb("AUTH"))
		assert.True(t, srv.sawVerb("QUIT"))
	})

	t.Run("required TLS refuses a relay without STARTTLS", func(t *testing.T) {
		srv := startSMTPServer(t, nil)
		cfg := mailConfig(srv.port)
		cfg.RequireTLS = true
		f := NewTransportFactoryWithLoader(staticLoader(cfg), config.BreakerConfig{}, discardLogger())
		tr, err := f.Acquire(context.Background())
		require.NoError(t, err)
		defer tr.Close()

		err = tr.Verify(context.Background())
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindTransportUnavailable))
		assert.False(t, srv.sawVerb("AUTH"))
	})

	t.Run("recipient refused by the server is a rejection", func(t *testing.T) {
		srv := startSMTPServer(t, func(s *smtpServer) { s.rejectRcpt = true })
		f := NewTransportFactoryWithLoader(staticLoader(mailConfig(srv.port)), config.BreakerConfig{}, discardLogger())
		tr, err := f.Acquire(context.Background())
		require.NoError(t, err)
		defer tr.Close()

		require.NoError(t, tr.Verify(context.Background()))
		id, err := tr.Send(context.Background(), msg)
		require.Error(t, err)
		assert.Empty(t, id)
		assert.True(t, errs.IsKind(err, errs.KindDeliveryRejected))
		assert.Empty(t, srv.delivered())
	})
}

func TestDeliverOverSMTP(t *testing.T) {
	t.Run("success returns the message id", func(t *testing.T) {
		srv := startSMTPServer(t, nil)

		ack, err := newDeliveryUseCase(mailConfig(srv.port)).Deliver(context.Background(), receiptSnapshot())
		require.NoError(t, err)

		assert.Equal(t, 48213, ack.Reference)
		assert.Equal(t, "juan@example.com", ack.Recipient)
		assert.NotEmpty(t, ack.MessageID)
		messages := srv.delivered()
		require.Len(t, messages, 1)
		assert.Contains(t, messages[0], "Message-ID: "+ack.MessageID)
	})

	t.Run("rejected credentials fail verify as unavailable", func(t *testing.T) {
		srv := startSMTPServer(t, func(s *smtpServer) { s.rejectAuth = true })

		_, err := newDeliveryUseCase(mailConfig(srv.port)).Deliver(context.Background(), receiptSnapshot())
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindTransportUnavailable))
		assert.True(t, srv.sawVerb("AUTH"))
		assert.False(t, srv.sawVerb("MAIL"))
		assert.Empty(t, srv.delivered())
	})

	t.Run("recipient refused surfaces as a rejection", func(t *testing.T) {
		srv := startSMTPServer(t, func(s *smtpServer) { s.rejectRcpt = true })

		_, err := newDeliveryUseCase(mailConfig(srv.port)).Deliver(context.Background(), receiptSnapshot())
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindDeliveryRejected))
	})
}
