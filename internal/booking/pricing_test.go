package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avralis/hotel-reservation/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"single night", date(2026, 3, 10), date(2026, 3, 11), 1},
		{"week stay", date(2026, 3, 10), date(2026, 3, 17), 7},
		{"same day", date(2026, 3, 10), date(2026, 3, 10), 0},
		{"reversed range", date(2026, 3, 12), date(2026, 3, 10), -2},
		{"ignores time of day", time.Date(2026, 3, 10, 23, 45, 0, 0, time.UTC), time.Date(2026, 3, 11, 1, 0, 0, 0, time.UTC), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nights(tt.checkIn, tt.checkOut))
		})
	}
}

func TestStayDates(t *testing.T) {
	got := StayDates(date(2026, 3, 10), date(2026, 3, 13))
	require.Len(t, got, 3)
	assert.Equal(t, date(2026, 3, 10), got[0])
	assert.Equal(t, date(2026, 3, 11), got[1])
	assert.Equal(t, date(2026, 3, 12), got[2])

	assert.Nil(t, StayDates(date(2026, 3, 10), date(2026, 3, 10)))
	assert.Nil(t, StayDates(date(2026, 3, 12), date(2026, 3, 10)))
}

func TestComputeCharges(t *testing.T) {
	tests := []struct {
		name    string
		base    int64
		nights  int
		persons int
		charges []model.TaxFee
		wantTax int64
		wantFee int64
	}{
		{
			name: "percent tax rounds per charge",
			base: 10050, nights: 2, persons: 2,
			charges: []model.TaxFee{
				{Name: "City Tax", Type: model.ChargeTypePercent, Value: 7.5, IsActive: true},
			},
			wantTax: 754, // round(10050 * 0.075)
			wantFee: 0,
		},
		{
			name: "percent without tax in name is a fee",
			base: 10000, nights: 1, persons: 1,
			charges: []model.TaxFee{
				{Name: "Service Charge", Type: model.ChargeTypePercent, Value: 10, IsActive: true},
			},
			wantTax: 0,
			wantFee: 1000,
		},
		{
			name: "fixed per night and per person multiply",
			base: 10000, nights: 3, persons: 2,
			charges: []model.TaxFee{
				{Name: "Resort Fee", Type: model.ChargeTypeFixed, Value: 500, Scope: model.ChargeScopePerNight, IsActive: true},
				{Name: "Breakfast", Type: model.ChargeTypeFixed, Value: 1200, Scope: model.ChargeScopePerPerson, IsActive: true},
				{Name: "Cleaning", Type: model.ChargeTypeFixed, Value: 2000, Scope: model.ChargeScopePerStay, IsActive: true},
			},
			wantTax: 0,
			wantFee: 3*500 + 2*1200 + 2000,
		},
		{
			name: "inactive charges are skipped",
			base: 10000, nights: 1, persons: 1,
			charges: []model.TaxFee{
				{Name: "VAT Tax", Type: model.ChargeTypePercent, Value: 20, IsActive: false},
				{Name: "Resort Fee", Type: model.ChargeTypeFixed, Value: 999, Scope: model.ChargeScopePerStay, IsActive: false},
			},
			wantTax: 0,
			wantFee: 0,
		},
		{
			name: "mixed charges accumulate into both buckets",
			base: 20000, nights: 2, persons: 1,
			charges: []model.TaxFee{
				{Name: "Occupancy Tax", Type: model.ChargeTypePercent, Value: 5, IsActive: true},
				{Name: "Tourism tax", Type: model.ChargeTypePercent, Value: 1.5, IsActive: true},
				{Name: "Resort Fee", Type: model.ChargeTypeFixed, Value: 750, Scope: model.ChargeScopePerNight, IsActive: true},
			},
			wantTax: 1000 + 300,
			wantFee: 1500,
		},
		{
			name: "no charges",
			base: 10000, nights: 1, persons: 1,
			wantTax: 0, wantFee: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, fee := ComputeCharges(tt.base, tt.nights, tt.persons, tt.charges)
			assert.Equal(t, tt.wantTax, tax, "tax")
			assert.Equal(t, tt.wantFee, fee, "fee")
		})
	}
}

func TestFinalizeQuote(t *testing.T) {
	t.Run("total identity holds", func(t *testing.T) {
		q := FinalizeQuote(10000, 800, 500, 1500, 0)
		assert.Equal(t, q.BaseAmountCents+q.TaxAmountCents+q.FeeAmountCents-q.DiscountAmountCents, q.TotalAmountCents)
		assert.Equal(t, int64(9800), q.TotalAmountCents)
		assert.Equal(t, q.TotalAmountCents, q.BalanceDueCents)
	})

	t.Run("discount clamps at gross", func(t *testing.T) {
		q := FinalizeQuote(1000, 100, 0, 5000, 0)
		assert.Equal(t, int64(1100), q.DiscountAmountCents)
		assert.Equal(t, int64(0), q.TotalAmountCents)
	})

	t.Run("negative discount treated as zero", func(t *testing.T) {
		q := FinalizeQuote(1000, 0, 0, -50, 0)
		assert.Equal(t, int64(0), q.DiscountAmountCents)
		assert.Equal(t, int64(1000), q.TotalAmountCents)
	})

	t.Run("balance floors at zero on overpayment", func(t *testing.T) {
		q := FinalizeQuote(1000, 0, 0, 0, 1500)
		assert.Equal(t, int64(1000), q.TotalAmountCents)
		assert.Equal(t, int64(0), q.BalanceDueCents)
	})
}

func TestApportion(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		n      int
		want   []int64
	}{
		{"even split", 900, 3, []int64{300, 300, 300}},
		{"remainder front-loaded", 1000, 3, []int64{334, 333, 333}},
		{"single part", 777, 1, []int64{777}},
		{"zero amount", 0, 4, []int64{0, 0, 0, 0}},
		{"zero parts", 100, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apportion(tt.amount, tt.n)
			assert.Equal(t, tt.want, got)
			var sum int64
			for _, p := range got {
				sum += p
			}
			if tt.n > 0 {
				assert.Equal(t, tt.amount, sum, "parts must sum back to the whole")
			}
		})
	}
}
