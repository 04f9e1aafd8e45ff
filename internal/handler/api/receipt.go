package api

import (
	"log/slog"
	"net/http"

	"arc-storefront/internal/domain/order"
	reqdto "arc-storefront/internal/handler/dto/request"
	resdto "arc-storefront/internal/handler/dto/response"
	"arc-storefront/internal/pkg/errs"
	"arc-storefront/internal/pkg/patch"
	"arc-storefront/internal/usecase/delivery"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequestFormat = "Invalid request format"
	msgFailedToSendEmail    = "Failed to send email"
)

type ReceiptHandler struct {
	delivery  delivery.UseCase
	assembler *order.Assembler
	logger    *slog.Logger
}

func NewReceiptHandler(uc delivery.UseCase, assembler *order.Assembler, logger *slog.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		delivery:  uc,
		assembler: assembler,
		logger:    logger,
	}
}

// @Summary Send order receipt
// @Description Render the order receipt and email it to the customer
// @Tags receipt
// @Accept json
// @Produce json
// @Param request body reqdto.SendReceiptRequest true "Order to confirm"
// @Success 200 {object} resdto.SendReceiptResponse
// @Failure 400 {object} resdto.SendReceiptErrorResponse
// @Failure 500 {object} resdto.SendReceiptErrorResponse
// @Router /send-receipt [post]
func (h *ReceiptHandler) Send(c *gin.Context) {
	var req reqdto.SendReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, resdto.SendReceiptErrorResponse{Error: msgInvalidRequestFormat})
		return
	}

	customer := req.ToCustomer()
	if !customer.HasRecipient() {
		c.JSON(http.StatusBadRequest, resdto.SendReceiptErrorResponse{Error: order.MissingRecipientMessage})
		return
	}

	snap := h.assembler.FromItems(patch.Coalesce(req.Reference, 0), customer, req.ToItems())
	if claimed, ok := req.ClaimedTotal(); ok && claimed != snap.Total() {
		h.logger.WarnContext(c.Request.Context(), "client total does not match items, using computed total",
			"reference", snap.Reference(),
			"claimed_total", claimed,
			"computed_total", snap.Total(),
		)
	}

	ack, err := h.delivery.Deliver(c.Request.Context(), snap)
	if err != nil {
		_ = c.Error(err)
		if errs.IsValidation(err) {
			c.JSON(http.StatusBadRequest, resdto.SendReceiptErrorResponse{Error: errs.ReasonOf(err)})
			return
		}
		kind, _ := errs.KindOf(err)
		c.JSON(http.StatusInternalServerError, resdto.SendReceiptErrorResponse{
			Error:   msgFailedToSendEmail,
			Details: err.Error(),
			Kind:    string(kind),
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromAcknowledgment(ack))
}
