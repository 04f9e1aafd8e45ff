//go:build unit

package receiptclient_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"arc-storefront/internal/domain/order"
	"arc-storefront/internal/infra/receiptclient"
	"arc-storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot() order.Snapshot {
	customer := order.CustomerInfo{FullName: "Juan Dela Cruz", Email: "juan@example.com", Phone: "0917", Address: "Manila"}
	items := []order.Item{
		{ProductID: 2, Name: "ARC FUTURE TEE", Quantity: 2, UnitPrice: 599},
		{ProductID: 4, Name: "ARC FUTURE HOODIES", Quantity: 1, UnitPrice: 1399},
	}
	return order.NewSnapshot(4821, customer, items, time.Now())
}

func serve(t *testing.T, status int, body string, inspect func(*http.Request)) *receiptclient.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			inspect(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return receiptclient.New(srv.URL+"/", time.Second)
}

func TestDeliver(t *testing.T) {
	t.Run("success posts the snapshot", func(t *testing.T) {
		var got map[string]any
		c := serve(t, http.StatusOK, `{"success":true,"reference":4821,"messageId":"<id@arc>"}`, func(r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/send-receipt", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		})

		ack, err := c.Deliver(context.Background(), snapshot())
		require.NoError(t, err)
		assert.Equal(t, 4821, ack.Reference)
		assert.Equal(t, "<id@arc>", ack.MessageID)
		assert.Equal(t, "juan@example.com", ack.Recipient)

		assert.Equal(t, float64(2597), got["total"])
		assert.Equal(t, float64(4821), got["reference"])
		customer := got["customer"].(map[string]any)
		assert.Equal(t, "Juan Dela Cruz", customer["fullName"])
		items := got["items"].([]any)
		require.Len(t, items, 2)
		assert.Equal(t, float64(599), items[0].(map[string]any)["price"])
	})

	testCases := []struct {
		name   string
		status int
		body   string
		kind   errs.Kind
	}{
		{name: "missing recipient", status: http.StatusBadRequest, body: `{"error":"Recipient email is missing"}`, kind: errs.KindMissingRecipient},
		{name: "invalid request", status: http.StatusBadRequest, body: `{"error":"Invalid request format"}`, kind: errs.KindValidation},
		{name: "reported rejection", status: http.StatusInternalServerError, body: `{"error":"Failed to send email","details":"550 mailbox unavailable","kind":"DELIVERY_REJECTED"}`, kind: errs.KindDeliveryRejected},
		{name: "reported unavailability", status: http.StatusInternalServerError, body: `{"error":"Failed to send email","details":"SMTP Connection failed","kind":"TRANSPORT_UNAVAILABLE"}`, kind: errs.KindTransportUnavailable},
		{name: "no kind reported", status: http.StatusInternalServerError, body: `{"error":"Failed to send email","details":"SMTP Connection failed"}`, kind: errs.KindTransportUnavailable},
		{name: "non json gateway error", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, kind: errs.KindTransportUnavailable},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := serve(t, tc.status, tc.body, nil)
			_, err := c.Deliver(context.Background(), snapshot())
			require.Error(t, err)
			kind, ok := errs.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tc.kind, kind)
		})
	}

	t.Run("details become the reason", func(t *testing.T) {
		c := serve(t, http.StatusInternalServerError, `{"error":"Failed to send email","details":"550 mailbox unavailable","kind":"DELIVERY_REJECTED"}`, nil)
		_, err := c.Deliver(context.Background(), snapshot())
		assert.Equal(t, "550 mailbox unavailable", errs.ReasonOf(err))
	})

	t.Run("unreachable service", func(t *testing.T) {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := l.Addr().String()
		require.NoError(t, l.Close())

		c := receiptclient.New("http://"+addr, time.Second)
		_, err = c.Deliver(context.Background(), snapshot())
		assert.True(t, errs.IsKind(err, errs.KindTransportUnavailable))
	})
}
