package errs

import "errors"

// Sentinels shared by the storefront layers
var (
	// Catalog errors
	ErrProductNotFound = errors.New("product not found")

	// Checkout errors
	ErrEmptyCart           = errors.New("cart is empty")
	ErrSubmissionInFlight  = errors.New("a checkout submission is already in progress")
	ErrConfirmationPending = errors.New("order confirmation is still being shown")
	ErrTestSendDisabled    = errors.New("test send is disabled")
)
