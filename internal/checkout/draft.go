package checkout

import (
	"strings"
	"unicode/utf8"

	"github.com/luxethreads/storefront-web/internal/api"
)

// PaymentMethod is one of the backend's accepted payment methods.
type PaymentMethod string

const (
	CreditCard PaymentMethod = "credit_card"
	DebitCard  PaymentMethod = "debit_card"
	NetBanking PaymentMethod = "net_banking"
	UPI        PaymentMethod = "upi"
	Wallet     PaymentMethod = "wallet"
)

// Methods lists every accepted payment method in display order.
func Methods() []PaymentMethod {
	return []PaymentMethod{CreditCard, DebitCard, UPI, Wallet, NetBanking}
}

// Valid reports whether the method is one the backend accepts.
func (m PaymentMethod) Valid() bool {
	switch m {
	case CreditCard, DebitCard, NetBanking, UPI, Wallet:
		return true
	}
	return false
}

// RequiresCard reports whether card details must accompany the method.
func (m PaymentMethod) RequiresCard() bool {
	return m == CreditCard || m == DebitCard
}

// CardDetails holds the card form fields for card payment methods.
type CardDetails struct {
	Number      string
	ExpiryMonth string
	ExpiryYear  string
	CVV         string
}

// Draft is the mutable, session-local checkout form state. It is
// created when the flow starts, mutated only by the owning session,
// and discarded on navigation away or successful submission.
type Draft struct {
	ShippingAddress string
	BillingAddress  string
	Notes           string
	Method          PaymentMethod
	Card            CardDetails
}

// minAddressLen matches the backend's min_length on address fields;
// checking here only saves a round-trip, the backend stays
// authoritative.
const minAddressLen = 10

// FieldErrors maps form field names to validation messages.
type FieldErrors map[string]string

func validateAddresses(shipping, billing string) FieldErrors {
	errs := FieldErrors{}
	if shipping == "" {
		errs["shipping_address"] = "Shipping address is required."
	} else if utf8.RuneCountInString(shipping) < minAddressLen {
		errs["shipping_address"] = "Shipping address must be at least 10 characters."
	}
	if billing == "" {
		errs["billing_address"] = "Billing address is required."
	} else if utf8.RuneCountInString(billing) < minAddressLen {
		errs["billing_address"] = "Billing address must be at least 10 characters."
	}
	return errs
}

func validatePayment(method PaymentMethod, card CardDetails) FieldErrors {
	errs := FieldErrors{}
	if !method.Valid() {
		errs["payment_method"] = "Choose a payment method."
		return errs
	}
	if !method.RequiresCard() {
		return errs
	}
	if digits := digitsOnly(card.Number); len(digits) != 16 {
		errs["card_number"] = "Card number must be 16 digits."
	}
	if cvv := digitsOnly(card.CVV); len(cvv) < 3 || len(cvv) > 4 {
		errs["cvv"] = "CVV must be 3 or 4 digits."
	}
	if strings.TrimSpace(card.ExpiryMonth) == "" {
		errs["expiry_month"] = "Expiry month is required."
	}
	if strings.TrimSpace(card.ExpiryYear) == "" {
		errs["expiry_year"] = "Expiry year is required."
	}
	return errs
}

// ValidatePayment checks a payment selection outside a flow, used when
// retrying payment on an already placed order.
func ValidatePayment(method PaymentMethod, card CardDetails) FieldErrors {
	return validatePayment(method, card)
}

// PaymentPayload builds the wire payment fields with the same
// normalization checkout submission applies: digits only for card
// number and CVV, trimmed expiry. Non-card methods carry no card.
func PaymentPayload(method PaymentMethod, card CardDetails) (string, *api.CardDetails) {
	if !method.RequiresCard() {
		return string(method), nil
	}
	return string(method), &api.CardDetails{
		Number:      digitsOnly(card.Number),
		ExpiryMonth: strings.TrimSpace(card.ExpiryMonth),
		ExpiryYear:  strings.TrimSpace(card.ExpiryYear),
		CVV:         digitsOnly(card.CVV),
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
