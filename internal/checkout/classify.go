package checkout

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/luxethreads/storefront-web/internal/api"
)

// ErrorType is the fixed taxonomy submission failures are classified
// into. It is client-assigned and not exhaustive of backend causes.
type ErrorType string

const (
	ErrorNetwork        ErrorType = "network_error"
	ErrorAuthentication ErrorType = "authentication_error"
	ErrorValidation     ErrorType = "validation_error"
	ErrorCheckout       ErrorType = "checkout_error"
	ErrorSystem         ErrorType = "system_error"
	ErrorUnknown        ErrorType = "unknown_error"
)

// ParseErrorType maps a backend-reported error_type string onto the
// taxonomy, falling back to unknown.
func ParseErrorType(s string) ErrorType {
	switch ErrorType(strings.TrimSpace(s)) {
	case ErrorNetwork, ErrorAuthentication, ErrorValidation, ErrorCheckout, ErrorSystem:
		return ErrorType(strings.TrimSpace(s))
	}
	return ErrorUnknown
}

// Classify buckets a submission error. Structured signals win: an
// APIError is classified by HTTP status, transport errors map to
// network. Message sniffing is kept only as a last resort for errors
// that carry no structure at all.
func Classify(err error) ErrorType {
	if err == nil {
		return ErrorUnknown
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden:
			return ErrorAuthentication
		case apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnprocessableEntity:
			return ErrorValidation
		case apiErr.Status >= 500:
			return ErrorSystem
		default:
			return ErrorUnknown
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrorNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401"):
		return ErrorAuthentication
	case strings.Contains(msg, "network"), strings.Contains(msg, "connection"), strings.Contains(msg, "timeout"):
		return ErrorNetwork
	}
	return ErrorUnknown
}

// Suggestion returns the fixed user-facing next step for an error
// type.
func Suggestion(t ErrorType) string {
	switch t {
	case ErrorNetwork:
		return "Check your internet connection and try again."
	case ErrorAuthentication:
		return "Your session has expired. Please log in again."
	case ErrorValidation:
		return "Please review the details you entered and try again."
	case ErrorCheckout:
		return "Review your cart for availability or price changes, then retry."
	case ErrorSystem:
		return "Something went wrong on our side. Try again later or contact support."
	default:
		return "Please try again. If the problem persists, contact support."
	}
}
