package httperr

import (
	"net/http"

	"arc-storefront/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// Storefront error codes. A kinded error uses its Kind as the code.
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeProductNotFound     = "PRODUCT_NOT_FOUND"
	CodeEmptyCart           = "EMPTY_CART"
	CodeSubmissionInFlight  = "SUBMISSION_IN_FLIGHT"
	CodeConfirmationPending = "CONFIRMATION_PENDING"
	CodeTestSendDisabled    = "TEST_SEND_DISABLED"
	CodeInternal            = "INTERNAL"
)

var sentinelCodes = []struct {
	err  error
	code string
}{
	{errs.ErrProductNotFound, CodeProductNotFound},
	{errs.ErrEmptyCart, CodeEmptyCart},
	{errs.ErrSubmissionInFlight, CodeSubmissionInFlight},
	{errs.ErrConfirmationPending, CodeConfirmationPending},
	{errs.ErrTestSendDisabled, CodeTestSendDisabled},
}

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

func NewResponse(status int, code, msg string, detail any) Response {
	resp := Response{Status: status, Detail: detail}
	resp.Error.Code = code
	resp.Error.Message = msg
	return resp
}

// CodeOf names err for clients. Unrecognised errors fall back on the status class.
func CodeOf(err error, status int) string {
	for _, s := range sentinelCodes {
		if errs.Is(err, s.err) {
			return s.code
		}
	}
	if kind, ok := errs.KindOf(err); ok {
		return string(kind)
	}
	if status >= http.StatusInternalServerError {
		return CodeInternal
	}
	return CodeInvalidRequest
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := NewResponse(status, CodeOf(err, status), msg, detail)

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
