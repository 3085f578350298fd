package http

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

var (
	reEthAddr = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	reUintStr = regexp.MustCompile(`^[0-9]+$`)
)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// 0x-prefixed 20-byte hex address
	_ = v.RegisterValidation("eth_addr", func(fl validator.FieldLevel) bool {
		return reEthAddr.MatchString(fl.Field().String())
	})
	// decimal id as emitted by the contract (uint256, so no Go int parse)
	_ = v.RegisterValidation("uint_str", func(fl validator.FieldLevel) bool {
		return reUintStr.MatchString(fl.Field().String())
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "eth_addr":
			out = append(out, FieldError{Field: field, Message: "must be a 0x-prefixed 40-char hex address"})
		case "uint_str":
			out = append(out, FieldError{Field: field, Message: "must be a decimal id"})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
