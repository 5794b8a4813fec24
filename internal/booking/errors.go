// Package booking implements the reservation and pricing pipeline: the
// pricing engine, promo validation, the draft store and the transition
// that promotes a draft (or a staff-entered walk-in request) into a
// confirmed booking with payment, promotion and inventory side effects.
package booking

import "errors"

// Kind is the closed set of domain failure kinds surfaced to callers.
// Handlers translate kinds into 400-class responses; anything that is
// not a *Error propagates as a generic failure.
type Kind string

const (
	KindDraftNotFound              Kind = "booking.draftNotFound"
	KindInsufficientInventory      Kind = "booking.insufficientInventory"
	KindInvalidPromoCode           Kind = "booking.invalidPromoCode"
	KindPromoCodeNotYetValid       Kind = "booking.promoCodeNotYetValid"
	KindPromoCodeExpired           Kind = "booking.promoCodeExpired"
	KindPromoCodeUsageLimitReached Kind = "booking.promoCodeUsageLimitReached"
	KindMissingGuestInfo           Kind = "booking.missingGuestInfo"
	KindInvalidDateRange           Kind = "booking.invalidDateRange"
	KindPricingUnavailable         Kind = "booking.pricingUnavailable"
	KindNoAvailability             Kind = "booking.noAvailability"
)

// Error is a typed domain error carrying one of the kinds above.  All
// kinds are terminal for the request; none is retried automatically.
type Error struct {
	Kind    Kind
	Message string
}

// Error returns the namespaced kind followed by the human message.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

// NewError builds a typed domain error.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the domain kind from an error chain.  The second
// return is false for infrastructure errors.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
