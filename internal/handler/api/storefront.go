package api

import (
	"net/http"
	"strconv"

	"arc-storefront/internal/domain/catalog"
	"arc-storefront/internal/domain/order"
	reqdto "arc-storefront/internal/handler/dto/request"
	resdto "arc-storefront/internal/handler/dto/response"
	"arc-storefront/internal/handler/httperr"
	"arc-storefront/internal/handler/middleware"
	"arc-storefront/internal/pkg/errs"
	"arc-storefront/internal/usecase/session"

	"github.com/gin-gonic/gin"
)

type StorefrontHandler struct {
	catalog  *catalog.Catalog
	sessions *session.Manager
	cookies  *middleware.SessionMiddleware
}

func NewStorefrontHandler(cat *catalog.Catalog, sessions *session.Manager, cookies *middleware.SessionMiddleware) *StorefrontHandler {
	return &StorefrontHandler{
		catalog:  cat,
		sessions: sessions,
		cookies:  cookies,
	}
}

// @Summary List products
// @Tags catalog
// @Produce json
// @Success 200 {array} resdto.ProductResponse
// @Router /api/catalog [get]
func (h *StorefrontHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, resdto.FromProducts(h.catalog.Products()))
}

// @Summary Get cart
// @Description Cart lines, totals, drawer flag and checkout status of the current session
// @Tags cart
// @Produce json
// @Success 200 {object} resdto.CartResponse
// @Router /api/cart [get]
func (h *StorefrontHandler) GetCart(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resdto.FromView(s.View()))
}

// @Summary Add item
// @Description Add one unit of a product and open the cart drawer
// @Tags cart
// @Accept json
// @Produce json
// @Param request body reqdto.AddItemRequest true "Product to add"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/cart/items [post]
func (h *StorefrontHandler) AddItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req reqdto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	if err := s.AddItem(c.Request.Context(), req.ToDomain()); err != nil {
		if errs.Is(err, errs.ErrProductNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Product not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to add item", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromView(s.View()))
}

// @Summary Change quantity
// @Description Adjust a line's quantity by delta. The quantity never drops below 1.
// @Tags cart
// @Accept json
// @Produce json
// @Param productId path int true "Product ID"
// @Param request body reqdto.UpdateQuantityRequest true "Quantity delta"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} httperr.Response
// @Router /api/cart/items/{productId} [patch]
func (h *StorefrontHandler) UpdateQuantity(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	var req reqdto.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	s.UpdateQuantity(c.Request.Context(), productID, *req.Delta)
	c.JSON(http.StatusOK, resdto.FromView(s.View()))
}

// @Summary Remove item
// @Tags cart
// @Produce json
// @Param productId path int true "Product ID"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} httperr.Response
// @Router /api/cart/items/{productId} [delete]
func (h *StorefrontHandler) RemoveItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	s.RemoveItem(c.Request.Context(), productID)
	c.JSON(http.StatusOK, resdto.FromView(s.View()))
}

// @Summary Open or close the cart drawer
// @Tags cart
// @Accept json
// @Produce json
// @Param request body reqdto.CartOpenRequest true "Drawer flag"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} httperr.Response
// @Router /api/cart/open [put]
func (h *StorefrontHandler) SetCartOpen(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req reqdto.CartOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	s.SetCartOpen(*req.Open)
	c.JSON(http.StatusOK, resdto.FromView(s.View()))
}

// @Summary Get checkout status
// @Tags checkout
// @Produce json
// @Success 200 {object} resdto.CheckoutResponse
// @Router /api/checkout [get]
func (h *StorefrontHandler) GetCheckout(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resdto.FromStatus(s.Checkout().Status()))
}

// @Summary Open checkout
// @Tags checkout
// @Produce json
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/checkout/open [post]
func (h *StorefrontHandler) OpenCheckout(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Checkout().Open(); err != nil {
		abortCheckoutError(c, err, s)
		return
	}
	c.JSON(http.StatusOK, resdto.FromStatus(s.Checkout().Status()))
}

// @Summary Cancel checkout
// @Tags checkout
// @Produce json
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 409 {object} httperr.Response
// @Router /api/checkout/cancel [post]
func (h *StorefrontHandler) CancelCheckout(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Checkout().Cancel(); err != nil {
		abortCheckoutError(c, err, s)
		return
	}
	c.JSON(http.StatusOK, resdto.FromStatus(s.Checkout().Status()))
}

// @Summary Save checkout form
// @Description Store the customer form without validating it
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body reqdto.CustomerRequest true "Customer form"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Router /api/checkout/customer [put]
func (h *StorefrontHandler) UpdateCustomer(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	info, ok := bindCustomer(c)
	if !ok {
		return
	}
	s.Checkout().UpdateCustomer(info)
	c.JSON(http.StatusOK, resdto.FromStatus(s.Checkout().Status()))
}

// @Summary Place order
// @Description Validate the customer form and email the receipt. Without a body the saved form is used.
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body reqdto.CustomerRequest false "Customer form"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/checkout [post]
func (h *StorefrontHandler) Submit(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	info := s.Checkout().Status().Customer
	if c.Request.ContentLength != 0 {
		if info, ok = bindCustomer(c); !ok {
			return
		}
	}
	st, err := s.Checkout().Submit(c.Request.Context(), info)
	if err != nil {
		abortCheckoutError(c, err, s)
		return
	}
	c.JSON(http.StatusOK, resdto.FromStatus(st))
}

// @Summary Send a test receipt
// @Description Deliver the current cart with the saved form and no validation. Disabled unless configured.
// @Tags checkout
// @Produce json
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/checkout/test-send [post]
func (h *StorefrontHandler) TestSend(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	st, err := s.Checkout().TestSend(c.Request.Context())
	if err != nil {
		abortCheckoutError(c, err, s)
		return
	}
	c.JSON(http.StatusOK, resdto.FromStatus(st))
}

// @Summary Forget session
// @Description Drop the session and its saved cart and expire the cookie
// @Tags session
// @Success 204
// @Failure 409 {object} httperr.Response
// @Router /api/session [delete]
func (h *StorefrontHandler) ForgetSession(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("session id missing from context"), "Internal server error", nil)
		return
	}
	if err := h.sessions.Forget(c.Request.Context(), sessionID); err != nil {
		if errs.Is(err, errs.ErrSubmissionInFlight) {
			httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to forget session", nil)
		return
	}
	h.cookies.ClearSession(c)
	c.Status(http.StatusNoContent)
}

func (h *StorefrontHandler) session(c *gin.Context) (*session.Session, bool) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("session id missing from context"), "Internal server error", nil)
		return nil, false
	}
	s, err := h.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load session", nil)
		return nil, false
	}
	return s, true
}

func productIDParam(c *gin.Context) (catalog.ProductID, bool) {
	id, err := strconv.Atoi(c.Param("productId"))
	if err != nil || id <= 0 {
		if err == nil {
			err = catalog.ErrInvalidProductID
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid product id", nil)
		return 0, false
	}
	return catalog.ProductID(id), true
}

func bindCustomer(c *gin.Context) (order.CustomerInfo, bool) {
	var req reqdto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return order.CustomerInfo{}, false
	}
	info, err := req.ToDomain()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return order.CustomerInfo{}, false
	}
	return info, true
}

// abortCheckoutError maps checkout failures to HTTP. The current checkout status is returned
// as detail so the client can render the failure without a second request.
func abortCheckoutError(c *gin.Context, err error, s *session.Session) {
	detail := resdto.FromStatus(s.Checkout().Status())
	switch {
	case errs.IsValidation(err):
		httperr.AbortWithError(c, http.StatusBadRequest, err, errs.ReasonOf(err), detail)
	case errs.Is(err, errs.ErrEmptyCart):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Your cart is empty", detail)
	case errs.Is(err, errs.ErrSubmissionInFlight), errs.Is(err, errs.ErrConfirmationPending):
		httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), detail)
	case errs.Is(err, errs.ErrTestSendDisabled):
		httperr.AbortWithError(c, http.StatusForbidden, err, err.Error(), nil)
	case errs.IsKind(err, errs.KindTransportUnavailable), errs.IsKind(err, errs.KindDeliveryRejected):
		httperr.AbortWithError(c, http.StatusBadGateway, err, msgFailedToSendEmail, detail)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", detail)
	}
}
