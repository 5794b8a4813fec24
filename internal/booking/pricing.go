package booking

import (
	"math"
	"strings"
	"time"

	"github.com/avralis/hotel-reservation/internal/model"
)

// Quote is the money breakdown of a stay.  The identity
// total = base + tax + fee - discount always holds and total is never
// negative; balance due is total minus succeeded payments, floored at
// zero.
type Quote struct {
	BaseAmountCents     int64 `json:"base_amount_cents"`
	TaxAmountCents      int64 `json:"tax_amount_cents"`
	FeeAmountCents      int64 `json:"fee_amount_cents"`
	DiscountAmountCents int64 `json:"discount_amount_cents"`
	TotalAmountCents    int64 `json:"total_amount_cents"`
	BalanceDueCents     int64 `json:"balance_due_cents"`
}

// NightPrice is one priced night of a stay.
type NightPrice struct {
	Date       time.Time `json:"date"`
	PriceCents int64     `json:"price_cents"`
}

// dateOnly truncates a timestamp to UTC midnight so stay arithmetic
// works on whole nights.
func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights returns the number of nights in [checkIn, checkOut).  Zero or
// negative means the range is invalid.
func Nights(checkIn, checkOut time.Time) int {
	return int(dateOnly(checkOut).Sub(dateOnly(checkIn)) / (24 * time.Hour))
}

// StayDates enumerates every night of [checkIn, checkOut) at UTC
// midnight, in order.
func StayDates(checkIn, checkOut time.Time) []time.Time {
	n := Nights(checkIn, checkOut)
	if n <= 0 {
		return nil
	}
	dates := make([]time.Time, 0, n)
	d := dateOnly(checkIn)
	for i := 0; i < n; i++ {
		dates = append(dates, d)
		d = d.AddDate(0, 0, 1)
	}
	return dates
}

// isTaxName reports whether a charge's display name denotes a tax.
func isTaxName(name string) bool {
	return strings.Contains(strings.ToLower(name), "tax")
}

// scopeMultiplier returns how many times a fixed charge applies.
func scopeMultiplier(scope string, nights, persons int) int64 {
	switch scope {
	case model.ChargeScopePerNight:
		return int64(nights)
	case model.ChargeScopePerPerson:
		return int64(persons)
	default:
		return 1
	}
}

// ComputeCharges applies every active hotel charge to the base amount.
// Percent charges round per charge (not per night) and count as tax
// when their name denotes one; fixed charges multiply by the scope
// multiplier and always count as fees.  Order of the charges does not
// affect the result.
func ComputeCharges(baseAmountCents int64, nights, persons int, charges []model.TaxFee) (taxCents, feeCents int64) {
	for _, ch := range charges {
		if !ch.IsActive {
			continue
		}
		switch ch.Type {
		case model.ChargeTypePercent:
			amount := int64(math.Round(float64(baseAmountCents) * ch.Value / 100))
			if isTaxName(ch.Name) {
				taxCents += amount
			} else {
				feeCents += amount
			}
		case model.ChargeTypeFixed:
			feeCents += int64(math.Round(ch.Value)) * scopeMultiplier(ch.Scope, nights, persons)
		}
	}
	return taxCents, feeCents
}

// FinalizeQuote assembles the final breakdown.  The discount is clamped
// so the total cannot go negative, and the balance due is the total
// minus prior succeeded payments, floored at zero.
func FinalizeQuote(baseCents, taxCents, feeCents, discountCents, paidCents int64) Quote {
	if discountCents < 0 {
		discountCents = 0
	}
	gross := baseCents + taxCents + feeCents
	if discountCents > gross {
		discountCents = gross
	}
	total := gross - discountCents
	balance := total - paidCents
	if balance < 0 {
		balance = 0
	}
	return Quote{
		BaseAmountCents:     baseCents,
		TaxAmountCents:      taxCents,
		FeeAmountCents:      feeCents,
		DiscountAmountCents: discountCents,
		TotalAmountCents:    total,
		BalanceDueCents:     balance,
	}
}

// apportion splits an amount across n items, front-loading the
// remainder so the parts always sum back to the whole.
func apportion(amountCents int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	parts := make([]int64, n)
	each := amountCents / int64(n)
	rem := amountCents - each*int64(n)
	for i := range parts {
		parts[i] = each
		if int64(i) < rem {
			parts[i]++
		}
	}
	return parts
}
