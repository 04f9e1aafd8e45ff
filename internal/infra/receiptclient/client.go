package receiptclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"arc-storefront/internal/domain/order"
	"arc-storefront/internal/domain/receipt"
	"arc-storefront/internal/pkg/errs"
)

const maxErrorBody = 64 << 10

type customerPayload struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type itemPayload struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

type requestPayload struct {
	Customer  customerPayload `json:"customer"`
	Items     []itemPayload   `json:"items"`
	Total     int64           `json:"total"`
	Reference int             `json:"reference"`
}

type responsePayload struct {
	Success   bool   `json:"success"`
	Reference int    `json:"reference"`
	MessageID string `json:"messageId"`
	Error     string `json:"error"`
	Details   string `json:"details"`
	Kind      string `json:"kind"`
}

// Client delivers receipts through a remote /send-receipt endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/send-receipt",
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) Deliver(ctx context.Context, snap order.Snapshot) (receipt.Acknowledgment, error) {
	ctx = context.WithoutCancel(ctx)

	body, err := json.Marshal(toPayload(snap))
	if err != nil {
		return receipt.Acknowledgment{}, errs.Wrap(err, "failed to encode receipt request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return receipt.Acknowledgment{}, errs.E(errs.KindTransportUnavailable, "invalid receipt service URL", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return receipt.Acknowledgment{}, errs.E(errs.KindTransportUnavailable, "receipt service unreachable", err)
	}
	defer resp.Body.Close()

	var out responsePayload
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	decodeErr := json.Unmarshal(raw, &out)

	switch {
	case resp.StatusCode == http.StatusOK && decodeErr == nil && out.Success:
		ref := out.Reference
		if ref == 0 {
			ref = snap.Reference()
		}
		return receipt.Acknowledgment{Reference: ref, MessageID: out.MessageID, Recipient: snap.Customer().Email}, nil

	case resp.StatusCode == http.StatusBadRequest:
		if out.Error == order.MissingRecipientMessage {
			return receipt.Acknowledgment{}, errs.E(errs.KindMissingRecipient, order.MissingRecipientMessage, nil)
		}
		return receipt.Acknowledgment{}, errs.Validation(firstNonEmpty(out.Error, "receipt request rejected"))

	default:
		kind := errs.Kind(out.Kind)
		switch kind {
		case errs.KindTransportUnavailable, errs.KindDeliveryRejected:
		default:
			kind = errs.KindTransportUnavailable
		}
		msg := firstNonEmpty(out.Details, out.Error, fmt.Sprintf("receipt service returned %d", resp.StatusCode))
		return receipt.Acknowledgment{}, errs.E(kind, msg, nil)
	}
}

func toPayload(snap order.Snapshot) requestPayload {
	customer := snap.Customer()
	items := snap.Items()
	payload := requestPayload{
		Customer: customerPayload{
			Email:    customer.Email,
			FullName: customer.FullName,
			Phone:    customer.Phone,
			Address:  customer.Address,
		},
		Items:     make([]itemPayload, 0, len(items)),
		Total:     snap.Total(),
		Reference: snap.Reference(),
	}
	for _, it := range items {
		payload.Items = append(payload.Items, itemPayload{
			ID:       int(it.ProductID),
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.UnitPrice,
		})
	}
	return payload
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
