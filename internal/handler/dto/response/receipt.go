package response

import (
	"arc-storefront/internal/domain/receipt"
)

type SendReceiptResponse struct {
	Success   bool   `json:"success"`
	Reference int    `json:"reference"`
	MessageID string `json:"messageId"`
}

func FromAcknowledgment(ack receipt.Acknowledgment) SendReceiptResponse {
	return SendReceiptResponse{
		Success:   true,
		Reference: ack.Reference,
		MessageID: ack.MessageID,
	}
}

// SendReceiptErrorResponse keeps the flat error shape receipt clients already parse.
type SendReceiptErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Kind    string `json:"kind,omitempty"`
}
