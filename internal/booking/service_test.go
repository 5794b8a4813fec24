package booking

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avralis/hotel-reservation/internal/model"
	"github.com/avralis/hotel-reservation/internal/queue"
	"github.com/avralis/hotel-reservation/internal/repository"
)

// The fakes below implement the service ports in memory.  Methods that
// take a *sql.Tx ignore it; fakeTxRunner passes nil.

type fakeRates struct {
	prices map[string]int64 // "2006-01-02" -> cents
}

func (f *fakeRates) ListForRange(_ context.Context, roomTypeID uint64, from, to time.Time) ([]model.RoomRate, error) {
	var out []model.RoomRate
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		p, ok := f.prices[d.Format("2006-01-02")]
		if !ok {
			continue
		}
		out = append(out, model.RoomRate{RoomTypeID: roomTypeID, Date: d, PriceCents: p})
	}
	return out, nil
}

type fakeFees struct {
	charges []model.TaxFee
}

func (f *fakeFees) ListActiveByHotel(_ context.Context, _ uint64) ([]model.TaxFee, error) {
	return f.charges, nil
}

type fakePromos struct {
	codes    map[string]*model.PromoCode
	redeemOK bool
	redeems  int
}

func (f *fakePromos) get(code string) (*model.PromoCode, error) {
	p, ok := f.codes[strings.ToUpper(code)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakePromos) GetByCode(_ context.Context, _ uint64, code string) (*model.PromoCode, error) {
	return f.get(code)
}

func (f *fakePromos) GetByCodeTx(_ context.Context, _ *sql.Tx, _ uint64, code string) (*model.PromoCode, error) {
	return f.get(code)
}

func (f *fakePromos) RedeemTx(_ context.Context, _ *sql.Tx, _ uint64) (bool, error) {
	if !f.redeemOK {
		return false, nil
	}
	f.redeems++
	return true, nil
}

type fakeInventory struct {
	closed     map[string]bool // draft-time closed nights
	soldOut    map[string]bool // confirmation-time exhausted nights
	decrFail   map[string]bool // nights whose conditional decrement loses
	decrements []string
}

func (f *fakeInventory) OpenDates(_ context.Context, _ uint64, dates []time.Time) (map[string]bool, error) {
	out := make(map[string]bool, len(dates))
	for _, d := range dates {
		key := d.Format("2006-01-02")
		out[key] = !f.closed[key]
	}
	return out, nil
}

func (f *fakeInventory) AvailableDatesTx(_ context.Context, _ *sql.Tx, _ uint64, dates []time.Time) (map[string]bool, error) {
	out := make(map[string]bool, len(dates))
	for _, d := range dates {
		key := d.Format("2006-01-02")
		out[key] = !f.closed[key] && !f.soldOut[key]
	}
	return out, nil
}

func (f *fakeInventory) DecrementTx(_ context.Context, _ *sql.Tx, _ uint64, d time.Time) (bool, error) {
	key := d.Format("2006-01-02")
	if f.decrFail[key] {
		return false, nil
	}
	f.decrements = append(f.decrements, key)
	return true, nil
}

type fakeDrafts struct {
	nextID  uint64
	bySess  map[string]*model.BookingDraft
	items   map[string][]model.BookingDraftItem
	deleted []uint64
	pending []model.BookingDraft
}

func newFakeDrafts() *fakeDrafts {
	return &fakeDrafts{bySess: make(map[string]*model.BookingDraft), items: make(map[string][]model.BookingDraftItem)}
}

func (f *fakeDrafts) UpsertTx(_ context.Context, _ *sql.Tx, d *model.BookingDraft, items []model.BookingDraftItem) error {
	if prev, ok := f.bySess[d.SessionID]; ok {
		d.ID = prev.ID
		d.ReferenceCode = prev.ReferenceCode
		d.CreatedAt = prev.CreatedAt
	} else {
		f.nextID++
		d.ID = f.nextID
		d.CreatedAt = time.Now().UTC()
	}
	cp := *d
	f.bySess[d.SessionID] = &cp
	f.items[d.SessionID] = items
	return nil
}

func (f *fakeDrafts) get(sessionID string) (*model.BookingDraft, []model.BookingDraftItem, error) {
	d, ok := f.bySess[sessionID]
	if !ok {
		return nil, nil, sql.ErrNoRows
	}
	return d, f.items[sessionID], nil
}

func (f *fakeDrafts) GetBySession(_ context.Context, sessionID string) (*model.BookingDraft, []model.BookingDraftItem, error) {
	return f.get(sessionID)
}

func (f *fakeDrafts) GetBySessionTx(_ context.Context, _ *sql.Tx, sessionID string) (*model.BookingDraft, []model.BookingDraftItem, error) {
	return f.get(sessionID)
}

func (f *fakeDrafts) DeleteTx(_ context.Context, _ *sql.Tx, draftID uint64) error {
	f.deleted = append(f.deleted, draftID)
	for sess, d := range f.bySess {
		if d.ID == draftID {
			delete(f.bySess, sess)
			delete(f.items, sess)
		}
	}
	return nil
}

func (f *fakeDrafts) DeleteBySession(_ context.Context, sessionID string) (int64, error) {
	if _, ok := f.bySess[sessionID]; !ok {
		return 0, nil
	}
	delete(f.bySess, sessionID)
	delete(f.items, sessionID)
	return 1, nil
}

func (f *fakeDrafts) ListPending(_ context.Context, _ repository.PendingFilter) ([]model.BookingDraft, error) {
	return f.pending, nil
}

type fakeBookings struct {
	nextID     uint64
	created    []*model.Booking
	items      []model.BookingItem
	promotions []model.BookingPromotion
	balances   map[uint64]int64
	dupLeft    int // CreateTx fails this many times with ErrDuplicateReference
	attempts   int
}

func (f *fakeBookings) CreateTx(_ context.Context, _ *sql.Tx, b *model.Booking) error {
	f.attempts++
	if f.dupLeft > 0 {
		f.dupLeft--
		return repository.ErrDuplicateReference
	}
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	f.created = append(f.created, b)
	return nil
}

func (f *fakeBookings) CreateItemsBulkTx(_ context.Context, _ *sql.Tx, items []model.BookingItem) error {
	f.items = append(f.items, items...)
	return nil
}

func (f *fakeBookings) CreatePromotionTx(_ context.Context, _ *sql.Tx, bookingID, promoCodeID uint64, amountCents int64) error {
	f.promotions = append(f.promotions, model.BookingPromotion{BookingID: bookingID, PromoCodeID: promoCodeID, AmountCents: amountCents})
	return nil
}

func (f *fakeBookings) find(id uint64) *model.Booking {
	for _, b := range f.created {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (f *fakeBookings) GetByID(_ context.Context, id uint64) (*model.Booking, []model.BookingItem, error) {
	b := f.find(id)
	if b == nil {
		return nil, nil, sql.ErrNoRows
	}
	var items []model.BookingItem
	for _, it := range f.items {
		if it.BookingID == id {
			items = append(items, it)
		}
	}
	return b, items, nil
}

func (f *fakeBookings) GetForUpdateTx(_ context.Context, _ *sql.Tx, id uint64) (*model.Booking, error) {
	b := f.find(id)
	if b == nil {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

func (f *fakeBookings) UpdateBalanceTx(_ context.Context, _ *sql.Tx, id uint64, balance int64) error {
	if f.balances == nil {
		f.balances = make(map[uint64]int64)
	}
	f.balances[id] = balance
	if b := f.find(id); b != nil {
		b.BalanceDueCents = balance
	}
	return nil
}

type fakePayments struct {
	nextID  uint64
	created []model.Payment
}

func (f *fakePayments) CreateTx(_ context.Context, _ *sql.Tx, p *model.Payment) error {
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now().UTC()
	f.created = append(f.created, *p)
	return nil
}

func (f *fakePayments) SumSucceededTx(_ context.Context, _ *sql.Tx, bookingID uint64) (int64, error) {
	var sum int64
	for _, p := range f.created {
		if p.BookingID == bookingID && p.Status == model.PaymentStatusSucceeded {
			sum += p.AmountCents
		}
	}
	return sum, nil
}

type fakeCustomers struct {
	nextID  uint64
	byEmail map[string]*model.Customer
	touched []uint64
}

func (f *fakeCustomers) FindOrCreateTx(_ context.Context, _ *sql.Tx, email, fullName, phone string) (*model.Customer, bool, error) {
	if f.byEmail == nil {
		f.byEmail = make(map[string]*model.Customer)
	}
	key := strings.ToLower(strings.TrimSpace(email))
	if c, ok := f.byEmail[key]; ok {
		return c, false, nil
	}
	f.nextID++
	c := &model.Customer{ID: f.nextID, Email: key, FullName: fullName, Phone: phone}
	f.byEmail[key] = c
	return c, true, nil
}

func (f *fakeCustomers) TouchLastBookingTx(_ context.Context, _ *sql.Tx, customerID uint64, _ time.Time) error {
	f.touched = append(f.touched, customerID)
	return nil
}

type fakeTxRunner struct {
	runs int
}

func (f *fakeTxRunner) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	f.runs++
	return fn(nil)
}

type fakeEvents struct {
	published []queue.BookingConfirmedEvent
}

func (f *fakeEvents) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	f.published = append(f.published, ev)
	return nil
}

type testEnv struct {
	svc       *Service
	rates     *fakeRates
	fees      *fakeFees
	promos    *fakePromos
	inventory *fakeInventory
	drafts    *fakeDrafts
	bookings  *fakeBookings
	payments  *fakePayments
	customers *fakeCustomers
	tx        *fakeTxRunner
	events    *fakeEvents
}

// newTestEnv builds a service over fakes seeded with a 2-night stay:
// rates on 2026-07-01 (10000) and 2026-07-02 (12000), a 10% tax and a
// 500-cent per-stay fee.
func newTestEnv() *testEnv {
	env := &testEnv{
		rates: &fakeRates{prices: map[string]int64{
			"2026-07-01": 10000,
			"2026-07-02": 12000,
		}},
		fees: &fakeFees{charges: []model.TaxFee{
			{Name: "City Tax", Type: model.ChargeTypePercent, Value: 10, IsActive: true},
			{Name: "Resort Fee", Type: model.ChargeTypeFixed, Value: 500, Scope: model.ChargeScopePerStay, IsActive: true},
		}},
		promos:    &fakePromos{codes: map[string]*model.PromoCode{}, redeemOK: true},
		inventory: &fakeInventory{closed: map[string]bool{}, soldOut: map[string]bool{}, decrFail: map[string]bool{}},
		drafts:    newFakeDrafts(),
		bookings:  &fakeBookings{},
		payments:  &fakePayments{},
		customers: &fakeCustomers{},
		tx:        &fakeTxRunner{},
		events:    &fakeEvents{},
	}
	env.svc = NewService(env.rates, env.fees, env.promos, env.inventory,
		env.drafts, env.bookings, env.payments, env.customers,
		env.tx, NewSessionLocker(nil), env.events)
	return env
}

func draftInput(session string) DraftInput {
	return DraftInput{
		SessionID:  session,
		HotelID:    1,
		RoomTypeID: 7,
		CheckIn:    date(2026, 7, 1),
		CheckOut:   date(2026, 7, 3),
		Adults:     2,
	}
}

func TestCreateOrUpdateDraft(t *testing.T) {
	t.Run("prices and stores the draft", func(t *testing.T) {
		env := newTestEnv()
		d, items, err := env.svc.CreateOrUpdateDraft(context.Background(), draftInput("sess-1"))
		require.NoError(t, err)

		assert.Equal(t, int64(22000), d.BaseAmountCents)
		assert.Equal(t, int64(2200), d.TaxAmountCents)
		assert.Equal(t, int64(500), d.FeeAmountCents)
		assert.Equal(t, int64(24700), d.TotalAmountCents)
		assert.Equal(t, d.TotalAmountCents, d.BalanceDueCents)
		assert.Equal(t, "USD", d.CurrencyCode)
		assert.True(t, strings.HasPrefix(d.ReferenceCode, "DR-"))

		require.Len(t, items, 2)
		assert.Equal(t, int64(10000), items[0].PriceCents)
		assert.Equal(t, int64(12000), items[1].PriceCents)
	})

	t.Run("update replaces items and keeps the reference code", func(t *testing.T) {
		env := newTestEnv()
		first, _, err := env.svc.CreateOrUpdateDraft(context.Background(), draftInput("sess-1"))
		require.NoError(t, err)

		in := draftInput("sess-1")
		in.CheckOut = date(2026, 7, 2) // now a single night
		second, items, err := env.svc.CreateOrUpdateDraft(context.Background(), in)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.ReferenceCode, second.ReferenceCode)
		assert.Equal(t, int64(10000), second.BaseAmountCents)
		assert.Len(t, items, 1)
		assert.Len(t, env.drafts.bySess, 1)
	})

	t.Run("rejects an empty date range", func(t *testing.T) {
		env := newTestEnv()
		in := draftInput("sess-1")
		in.CheckOut = in.CheckIn
		_, _, err := env.svc.CreateOrUpdateDraft(context.Background(), in)
		assert.True(t, IsKind(err, KindInvalidDateRange))
	})

	t.Run("closed night blocks drafting", func(t *testing.T) {
		env := newTestEnv()
		env.inventory.closed["2026-07-02"] = true
		_, _, err := env.svc.CreateOrUpdateDraft(context.Background(), draftInput("sess-1"))
		assert.True(t, IsKind(err, KindNoAvailability))
	})

	t.Run("sold-out night does not block drafting", func(t *testing.T) {
		env := newTestEnv()
		env.inventory.soldOut["2026-07-02"] = true
		_, _, err := env.svc.CreateOrUpdateDraft(context.Background(), draftInput("sess-1"))
		assert.NoError(t, err)
	})

	t.Run("rate gap fails pricing", func(t *testing.T) {
		env := newTestEnv()
		delete(env.rates.prices, "2026-07-02")
		_, _, err := env.svc.CreateOrUpdateDraft(context.Background(), draftInput("sess-1"))
		assert.True(t, IsKind(err, KindPricingUnavailable))
	})

	t.Run("unknown promo code fails", func(t *testing.T) {
		env := newTestEnv()
		in := draftInput("sess-1")
		in.PromoCode = "NOPE"
		_, _, err := env.svc.CreateOrUpdateDraft(context.Background(), in)
		assert.True(t, IsKind(err, KindInvalidPromoCode))
	})

	t.Run("promo discount lands in the stored quote", func(t *testing.T) {
		env := newTestEnv()
		env.promos.codes["SAVE10"] = &model.PromoCode{
			ID: 3, HotelID: 1, Code: "SAVE10",
			Type: model.ChargeTypePercent, Value: 10, IsActive: true,
		}
		in := draftInput("sess-1")
		in.PromoCode = "save10"
		d, _, err := env.svc.CreateOrUpdateDraft(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, int64(2200), d.DiscountAmountCents) // 10% of base
		assert.Equal(t, int64(22500), d.TotalAmountCents)
		assert.Equal(t, "SAVE10", d.PromoCode)
		assert.Equal(t, 0, env.promos.redeems, "drafting must not redeem")
	})
}

func TestGetAndAbandonDraft(t *testing.T) {
	env := newTestEnv()
	_, _, err := env.svc.GetDraft(context.Background(), "missing")
	assert.True(t, IsKind(err, KindDraftNotFound))

	_, _, err = env.svc.CreateOrUpdateDraft(context.Background(), draftInput("sess-1"))
	require.NoError(t, err)

	d, items, err := env.svc.GetDraft(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", d.SessionID)
	assert.Len(t, items, 2)

	require.NoError(t, env.svc.AbandonDraft(context.Background(), "sess-1"))
	err = env.svc.AbandonDraft(context.Background(), "sess-1")
	assert.True(t, IsKind(err, KindDraftNotFound))
}

func convertInput(session string) ConvertInput {
	return ConvertInput{
		SessionID:    session,
		GuestName:    "Ada Byron",
		ContactEmail: "Ada@Example.com",
		ContactPhone: "+1 555 0100",
	}
}

func TestConvertDraftToBooking(t *testing.T) {
	seed := func(t *testing.T, env *testEnv) {
		t.Helper()
		_, _, err := env.svc.CreateOrUpdateDraft(context.Background(), draftInput("sess-1"))
		require.NoError(t, err)
	}

	t.Run("confirms atomically", func(t *testing.T) {
		env := newTestEnv()
		seed(t, env)
		env.tx.runs = 0

		b, err := env.svc.ConvertDraftToBooking(context.Background(), convertInput("sess-1"))
		require.NoError(t, err)

		assert.Equal(t, model.BookingStatusConfirmed, b.Status)
		assert.Equal(t, model.BookingSourceWeb, b.Source)
		assert.Equal(t, "ada@example.com", b.ContactEmail)
		assert.True(t, strings.HasPrefix(b.ReferenceCode, "BK-"))
		assert.Equal(t, int64(24700), b.TotalAmountCents)
		assert.Equal(t, b.TotalAmountCents, b.BalanceDueCents)

		assert.Equal(t, 1, env.tx.runs, "whole conversion must run in one transaction")
		assert.Equal(t, []string{"2026-07-01", "2026-07-02"}, env.inventory.decrements)
		assert.Empty(t, env.drafts.bySess, "draft must be retired")

		require.Len(t, env.bookings.items, 2)
		var tax, fee, base int64
		for _, it := range env.bookings.items {
			base += it.PriceCents
			tax += it.TaxAmountCents
			fee += it.FeeAmountCents
		}
		assert.Equal(t, b.BaseAmountCents, base)
		assert.Equal(t, b.TaxAmountCents, tax)
		assert.Equal(t, b.FeeAmountCents, fee)

		require.Len(t, env.events.published, 1)
		assert.Equal(t, b.ReferenceCode, env.events.published[0].ReferenceCode)
		assert.Equal(t, 2, env.events.published[0].Nights)
	})

	t.Run("requires guest name and email", func(t *testing.T) {
		env := newTestEnv()
		seed(t, env)
		in := convertInput("sess-1")
		in.ContactEmail = "  "
		_, err := env.svc.ConvertDraftToBooking(context.Background(), in)
		assert.True(t, IsKind(err, KindMissingGuestInfo))
		assert.Empty(t, env.bookings.created)
	})

	t.Run("missing draft", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.svc.ConvertDraftToBooking(context.Background(), convertInput("ghost"))
		assert.True(t, IsKind(err, KindDraftNotFound))
	})

	t.Run("sold-out night blocks confirmation", func(t *testing.T) {
		env := newTestEnv()
		seed(t, env)
		env.inventory.soldOut["2026-07-02"] = true
		_, err := env.svc.ConvertDraftToBooking(context.Background(), convertInput("sess-1"))
		assert.True(t, IsKind(err, KindInsufficientInventory))
		assert.Empty(t, env.events.published)
	})

	t.Run("losing the conditional decrement blocks confirmation", func(t *testing.T) {
		env := newTestEnv()
		seed(t, env)
		env.inventory.decrFail["2026-07-02"] = true
		_, err := env.svc.ConvertDraftToBooking(context.Background(), convertInput("sess-1"))
		assert.True(t, IsKind(err, KindInsufficientInventory))
	})

	t.Run("retries reference code collisions", func(t *testing.T) {
		env := newTestEnv()
		seed(t, env)
		env.bookings.dupLeft = 2
		b, err := env.svc.ConvertDraftToBooking(context.Background(), convertInput("sess-1"))
		require.NoError(t, err)
		assert.Equal(t, 3, env.bookings.attempts)
		assert.NotEmpty(t, b.ReferenceCode)
	})

	t.Run("promo is re-validated and redeemed at confirmation", func(t *testing.T) {
		env := newTestEnv()
		env.promos.codes["SAVE10"] = &model.PromoCode{
			ID: 3, HotelID: 1, Code: "SAVE10",
			Type: model.ChargeTypePercent, Value: 10, IsActive: true,
		}
		in := draftInput("sess-1")
		in.PromoCode = "SAVE10"
		_, _, err := env.svc.CreateOrUpdateDraft(context.Background(), in)
		require.NoError(t, err)

		b, err := env.svc.ConvertDraftToBooking(context.Background(), convertInput("sess-1"))
		require.NoError(t, err)
		assert.Equal(t, int64(2200), b.DiscountAmountCents)
		assert.Equal(t, 1, env.promos.redeems)
		require.Len(t, env.bookings.promotions, 1)
		assert.Equal(t, int64(2200), env.bookings.promotions[0].AmountCents)
	})

	t.Run("promo expiring between draft and confirm fails the conversion", func(t *testing.T) {
		env := newTestEnv()
		env.promos.codes["SAVE10"] = &model.PromoCode{
			ID: 3, HotelID: 1, Code: "SAVE10",
			Type: model.ChargeTypePercent, Value: 10, IsActive: true,
		}
		in := draftInput("sess-1")
		in.PromoCode = "SAVE10"
		_, _, err := env.svc.CreateOrUpdateDraft(context.Background(), in)
		require.NoError(t, err)

		env.promos.codes["SAVE10"].IsActive = false
		_, err = env.svc.ConvertDraftToBooking(context.Background(), convertInput("sess-1"))
		assert.True(t, IsKind(err, KindInvalidPromoCode))
	})

	t.Run("losing the redemption race fails the conversion", func(t *testing.T) {
		env := newTestEnv()
		env.promos.codes["SAVE10"] = &model.PromoCode{
			ID: 3, HotelID: 1, Code: "SAVE10",
			Type: model.ChargeTypePercent, Value: 10, IsActive: true,
		}
		in := draftInput("sess-1")
		in.PromoCode = "SAVE10"
		_, _, err := env.svc.CreateOrUpdateDraft(context.Background(), in)
		require.NoError(t, err)

		env.promos.redeemOK = false
		_, err = env.svc.ConvertDraftToBooking(context.Background(), convertInput("sess-1"))
		assert.True(t, IsKind(err, KindPromoCodeUsageLimitReached))
	})

	t.Run("card prepayment settles the balance", func(t *testing.T) {
		env := newTestEnv()
		seed(t, env)
		in := convertInput("sess-1")
		in.IsPrepaid = true
		in.PaymentMethod = "card"
		in.PaymentProcessor = "stripe"
		b, err := env.svc.ConvertDraftToBooking(context.Background(), in)
		require.NoError(t, err)

		assert.Equal(t, int64(0), b.BalanceDueCents)
		require.Len(t, env.payments.created, 1)
		assert.Equal(t, model.PaymentStatusSucceeded, env.payments.created[0].Status)
		assert.Equal(t, b.TotalAmountCents, env.payments.created[0].AmountCents)
	})

	t.Run("cash prepayment stays pending and owes the full balance", func(t *testing.T) {
		env := newTestEnv()
		seed(t, env)
		in := convertInput("sess-1")
		in.IsPrepaid = true
		in.PaymentMethod = "cash"
		b, err := env.svc.ConvertDraftToBooking(context.Background(), in)
		require.NoError(t, err)

		assert.Equal(t, b.TotalAmountCents, b.BalanceDueCents)
		require.Len(t, env.payments.created, 1)
		assert.Equal(t, model.PaymentStatusPending, env.payments.created[0].Status)
	})
}

func TestCreateDirectBooking(t *testing.T) {
	directIn := func() DirectInput {
		return DirectInput{
			HotelID:       1,
			RoomTypeID:    7,
			CheckIn:       date(2026, 7, 1),
			CheckOut:      date(2026, 7, 3),
			Adults:        1,
			CustomerEmail: "walkin@example.com",
			CustomerName:  "Grace Hopper",
		}
	}

	t.Run("creates customer and booking together", func(t *testing.T) {
		env := newTestEnv()
		res, err := env.svc.CreateDirectBooking(context.Background(), directIn())
		require.NoError(t, err)

		assert.True(t, res.IsNewCustomer)
		assert.Equal(t, model.BookingSourceWalkIn, res.Booking.Source)
		require.NotNil(t, res.Booking.CustomerID)
		assert.Equal(t, res.Customer.ID, *res.Booking.CustomerID)
		assert.Equal(t, int64(24700), res.Booking.TotalAmountCents)
		assert.Equal(t, []uint64{res.Customer.ID}, env.customers.touched)
		assert.Len(t, env.events.published, 1)
	})

	t.Run("reuses an existing customer", func(t *testing.T) {
		env := newTestEnv()
		first, err := env.svc.CreateDirectBooking(context.Background(), directIn())
		require.NoError(t, err)

		second, err := env.svc.CreateDirectBooking(context.Background(), directIn())
		require.NoError(t, err)
		assert.False(t, second.IsNewCustomer)
		assert.Equal(t, first.Customer.ID, second.Customer.ID)
	})

	t.Run("requires customer details", func(t *testing.T) {
		env := newTestEnv()
		in := directIn()
		in.CustomerName = ""
		_, err := env.svc.CreateDirectBooking(context.Background(), in)
		assert.True(t, IsKind(err, KindMissingGuestInfo))
	})
}

func TestRecordPayment(t *testing.T) {
	confirm := func(t *testing.T, env *testEnv) *model.Booking {
		t.Helper()
		_, _, err := env.svc.CreateOrUpdateDraft(context.Background(), draftInput("sess-1"))
		require.NoError(t, err)
		b, err := env.svc.ConvertDraftToBooking(context.Background(), convertInput("sess-1"))
		require.NoError(t, err)
		return b
	}

	t.Run("partial payments reduce the balance", func(t *testing.T) {
		env := newTestEnv()
		b := confirm(t, env)

		p, balance, err := env.svc.RecordPayment(context.Background(), b.ID, 10000, "card", "stripe")
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusSucceeded, p.Status)
		assert.Equal(t, b.TotalAmountCents-10000, balance)

		_, balance, err = env.svc.RecordPayment(context.Background(), b.ID, 14700, "card", "stripe")
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
	})

	t.Run("overpayment clamps the balance at zero", func(t *testing.T) {
		env := newTestEnv()
		b := confirm(t, env)

		_, balance, err := env.svc.RecordPayment(context.Background(), b.ID, b.TotalAmountCents+5000, "card", "stripe")
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
		assert.Len(t, env.payments.created, 1, "overpayment row is still recorded")
	})

	t.Run("unknown booking", func(t *testing.T) {
		env := newTestEnv()
		_, _, err := env.svc.RecordPayment(context.Background(), 999, 100, "card", "stripe")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestPaymentStatus(t *testing.T) {
	tests := []struct {
		method    string
		processor string
		want      string
	}{
		{"card", "stripe", model.PaymentStatusSucceeded},
		{"cash", "", model.PaymentStatusPending},
		{"Manual", "", model.PaymentStatusPending},
		{"card", "front_office_pending", model.PaymentStatusPending},
		{"", "", model.PaymentStatusSucceeded},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PaymentStatus(tt.method, tt.processor), "%s/%s", tt.method, tt.processor)
	}
}
