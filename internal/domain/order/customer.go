package order

import (
	"strings"

	"arc-storefront/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

const MissingRecipientMessage = "Recipient email is missing"

type CustomerInfo struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}

// Normalize trims surrounding whitespace from every field.
func (c CustomerInfo) Normalize() CustomerInfo {
	return CustomerInfo{
		FullName: strings.TrimSpace(c.FullName),
		Email:    strings.TrimSpace(c.Email),
		Phone:    strings.TrimSpace(c.Phone),
		Address:  strings.TrimSpace(c.Address),
	}
}

func (c CustomerInfo) HasRecipient() bool {
	return strings.TrimSpace(c.Email) != ""
}

// Validate checks required-field presence and email shape. Nothing else is verified.
func (c CustomerInfo) Validate() error {
	c = c.Normalize()
	if c.Email == "" {
		return errs.E(errs.KindMissingRecipient, MissingRecipientMessage, nil)
	}
	if err := validate.Var(c.Email, "email"); err != nil {
		return errs.E(errs.KindValidation, "email address is malformed", err)
	}
	switch {
	case c.FullName == "":
		return errs.Validation("full name is required")
	case c.Phone == "":
		return errs.Validation("phone number is required")
	case c.Address == "":
		return errs.Validation("shipping address is required")
	}
	return nil
}
