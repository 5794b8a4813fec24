package booking

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/avralis/hotel-reservation/internal/model"
	"github.com/avralis/hotel-reservation/internal/queue"
	"github.com/avralis/hotel-reservation/internal/repository"
)

// Service wires the pricing engine, inventory gate, promo validator and
// stores into the four pipeline operations.  All blocking methods take
// a context and every cross-entity write sequence runs inside a single
// transaction supplied by Tx, so a failure anywhere rolls the whole
// transition back.
type Service struct {
	Rates     RateSource
	Fees      TaxFeeSource
	Promos    PromoStore
	Inventory InventoryStore
	Drafts    DraftStore
	Bookings  BookingStore
	Payments  PaymentStore
	Customers CustomerStore
	Tx        TxRunner
	Locker    SessionLocker
	Events    EventPublisher // optional; nil disables publishing
}

// NewService constructs a Service and panics when a required dependency
// is missing.  Events may be nil.
func NewService(rates RateSource, fees TaxFeeSource, promos PromoStore, inventory InventoryStore,
	drafts DraftStore, bookings BookingStore, payments PaymentStore, customers CustomerStore,
	tx TxRunner, locker SessionLocker, events EventPublisher) *Service {
	if rates == nil || fees == nil || promos == nil || inventory == nil ||
		drafts == nil || bookings == nil || payments == nil || customers == nil ||
		tx == nil || locker == nil {
		panic("nil dependency passed to NewService")
	}
	return &Service{
		Rates: rates, Fees: fees, Promos: promos, Inventory: inventory,
		Drafts: drafts, Bookings: bookings, Payments: payments, Customers: customers,
		Tx: tx, Locker: locker, Events: events,
	}
}

// maxRefCodeRetries bounds how often a booking insert is retried when
// the generated reference code collides with an existing row.
const maxRefCodeRetries = 5

// DefaultCurrency is used when a request does not name a currency.
const DefaultCurrency = "USD"

// DraftInput carries everything needed to price and store a draft.
type DraftInput struct {
	SessionID    string
	HotelID      uint64
	RoomTypeID   uint64
	CheckIn      time.Time
	CheckOut     time.Time
	Adults       int
	Children     int
	PromoCode    string
	CurrencyCode string
}

// CreateOrUpdateDraft prices the requested stay and upserts the session's
// draft with freshly generated items.  Availability is checked read-only:
// every night must have an open inventory row, but no rooms are reserved
// until conversion.  Upserts for the same session are serialized through
// the session locker so item regeneration cannot interleave.
func (s *Service) CreateOrUpdateDraft(ctx context.Context, in DraftInput) (*model.BookingDraft, []model.BookingDraftItem, error) {
	nights := Nights(in.CheckIn, in.CheckOut)
	if nights <= 0 {
		return nil, nil, NewError(KindInvalidDateRange, "check-out must be after check-in")
	}
	release, err := s.Locker.Acquire(ctx, in.SessionID)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	dates := StayDates(in.CheckIn, in.CheckOut)
	open, err := s.Inventory.OpenDates(ctx, in.RoomTypeID, dates)
	if err != nil {
		return nil, nil, err
	}
	for _, d := range dates {
		if !open[d.Format("2006-01-02")] {
			return nil, nil, NewError(KindNoAvailability, "no availability on "+d.Format("2006-01-02"))
		}
	}

	nightly, base, err := s.priceNights(ctx, in.RoomTypeID, in.CheckIn, in.CheckOut)
	if err != nil {
		return nil, nil, err
	}
	fees, err := s.Fees.ListActiveByHotel(ctx, in.HotelID)
	if err != nil {
		return nil, nil, err
	}
	tax, fee := ComputeCharges(base, nights, in.Adults+in.Children, fees)

	var discount int64
	if in.PromoCode != "" {
		p, err := s.Promos.GetByCode(ctx, in.HotelID, in.PromoCode)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, NewError(KindInvalidPromoCode, "promo code is not valid for this hotel")
			}
			return nil, nil, err
		}
		discount, err = EvaluatePromo(p, base, time.Now().UTC())
		if err != nil {
			return nil, nil, err
		}
	}
	q := FinalizeQuote(base, tax, fee, discount, 0)

	currency := in.CurrencyCode
	if currency == "" {
		currency = DefaultCurrency
	}
	draft := &model.BookingDraft{
		SessionID:           in.SessionID,
		ReferenceCode:       NewReferenceCode(DraftRefPrefix), // preserved on update by the upsert
		HotelID:             in.HotelID,
		RoomTypeID:          in.RoomTypeID,
		CheckIn:             dateOnly(in.CheckIn),
		CheckOut:            dateOnly(in.CheckOut),
		Adults:              in.Adults,
		Children:            in.Children,
		PromoCode:           strings.ToUpper(strings.TrimSpace(in.PromoCode)),
		BaseAmountCents:     q.BaseAmountCents,
		TaxAmountCents:      q.TaxAmountCents,
		FeeAmountCents:      q.FeeAmountCents,
		DiscountAmountCents: q.DiscountAmountCents,
		TotalAmountCents:    q.TotalAmountCents,
		BalanceDueCents:     q.BalanceDueCents,
		CurrencyCode:        currency,
	}
	items := make([]model.BookingDraftItem, 0, len(nightly))
	for _, np := range nightly {
		items = append(items, model.BookingDraftItem{Date: np.Date, PriceCents: np.PriceCents})
	}
	err = s.Tx.RunTx(ctx, func(tx *sql.Tx) error {
		return s.Drafts.UpsertTx(ctx, tx, draft, items)
	})
	if err != nil {
		return nil, nil, err
	}
	// Read back so the caller sees the canonical row, including the
	// original reference code when this was an update.
	return s.Drafts.GetBySession(ctx, in.SessionID)
}

// GetDraft returns the draft for a session or KindDraftNotFound.
func (s *Service) GetDraft(ctx context.Context, sessionID string) (*model.BookingDraft, []model.BookingDraftItem, error) {
	d, items, err := s.Drafts.GetBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, NewError(KindDraftNotFound, "no draft for session")
		}
		return nil, nil, err
	}
	return d, items, nil
}

// AbandonDraft deletes the session's draft.  Deleting an absent draft
// fails with KindDraftNotFound so callers can distinguish the no-op.
func (s *Service) AbandonDraft(ctx context.Context, sessionID string) error {
	n, err := s.Drafts.DeleteBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	if n == 0 {
		return NewError(KindDraftNotFound, "no draft for session")
	}
	return nil
}

// ConvertInput carries the guest contact and payment details needed to
// promote a draft into a confirmed booking.
type ConvertInput struct {
	SessionID        string
	GuestName        string
	ContactEmail     string
	ContactPhone     string
	Source           string
	Notes            string
	IsPrepaid        bool
	PaymentMethod    string
	PaymentProcessor string
}

// ConvertDraftToBooking runs the promotion state machine: locate the
// draft, validate guest info, re-validate the promo against the draft's
// stored base, re-check inventory, then atomically persist the booking
// graph, redeem the promo, decrement inventory and retire the draft.
// The entire transition runs in one transaction; whichever step fails
// rolls everything back and surfaces a single typed error.
func (s *Service) ConvertDraftToBooking(ctx context.Context, in ConvertInput) (*model.Booking, error) {
	if strings.TrimSpace(in.GuestName) == "" || strings.TrimSpace(in.ContactEmail) == "" {
		return nil, NewError(KindMissingGuestInfo, "guest name and contact email are required")
	}
	var confirmed *model.Booking
	err := s.Tx.RunTx(ctx, func(tx *sql.Tx) error {
		draft, items, err := s.Drafts.GetBySessionTx(ctx, tx, in.SessionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return NewError(KindDraftNotFound, "no draft for session")
			}
			return err
		}
		if len(items) == 0 {
			return NewError(KindInvalidDateRange, "draft has no nights")
		}

		// Re-validate the promo against the base frozen at draft time.
		// The code's state may have changed since drafting, so the
		// discount can differ from the stored one.
		var promo *model.PromoCode
		var discount int64
		if draft.PromoCode != "" {
			promo, err = s.Promos.GetByCodeTx(ctx, tx, draft.HotelID, draft.PromoCode)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return NewError(KindInvalidPromoCode, "promo code is not valid for this hotel")
				}
				return err
			}
			discount, err = EvaluatePromo(promo, draft.BaseAmountCents, time.Now().UTC())
			if err != nil {
				return err
			}
		}

		dates := make([]time.Time, 0, len(items))
		for _, it := range items {
			dates = append(dates, it.Date)
		}
		if err := s.checkAvailableTx(ctx, tx, draft.RoomTypeID, dates); err != nil {
			return err
		}

		source := in.Source
		if source == "" {
			source = model.BookingSourceWeb
		}
		paidStatus, paid := prepaidAmount(in.IsPrepaid, in.PaymentMethod, in.PaymentProcessor, FinalizeQuote(
			draft.BaseAmountCents, draft.TaxAmountCents, draft.FeeAmountCents, discount, 0).TotalAmountCents)
		q := FinalizeQuote(draft.BaseAmountCents, draft.TaxAmountCents, draft.FeeAmountCents, discount, paid)

		b := &model.Booking{
			HotelID:             draft.HotelID,
			RoomTypeID:          draft.RoomTypeID,
			GuestName:           strings.TrimSpace(in.GuestName),
			ContactEmail:        strings.ToLower(strings.TrimSpace(in.ContactEmail)),
			ContactPhone:        strings.TrimSpace(in.ContactPhone),
			Status:              model.BookingStatusConfirmed,
			Source:              source,
			CheckIn:             draft.CheckIn,
			CheckOut:            draft.CheckOut,
			Adults:              draft.Adults,
			Children:            draft.Children,
			BaseAmountCents:     q.BaseAmountCents,
			TaxAmountCents:      q.TaxAmountCents,
			FeeAmountCents:      q.FeeAmountCents,
			DiscountAmountCents: q.DiscountAmountCents,
			TotalAmountCents:    q.TotalAmountCents,
			BalanceDueCents:     q.BalanceDueCents,
			CurrencyCode:        draft.CurrencyCode,
			Notes:               in.Notes,
		}
		nightPrices := make([]NightPrice, 0, len(items))
		for _, it := range items {
			nightPrices = append(nightPrices, NightPrice{Date: it.Date, PriceCents: it.PriceCents})
		}
		if err := s.persistBookingGraphTx(ctx, tx, b, nightPrices, promo, discount, in.IsPrepaid, paidStatus, in.PaymentMethod, in.PaymentProcessor); err != nil {
			return err
		}
		if err := s.Drafts.DeleteTx(ctx, tx, draft.ID); err != nil {
			return err
		}
		confirmed = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishConfirmed(ctx, confirmed)
	return confirmed, nil
}

// DirectInput describes a staff-entered walk-in booking priced from
// current rates rather than from a draft.
type DirectInput struct {
	HotelID          uint64
	RoomTypeID       uint64
	CheckIn          time.Time
	CheckOut         time.Time
	Adults           int
	Children         int
	CustomerEmail    string
	CustomerName     string
	CustomerPhone    string
	PromoCode        string
	Source           string
	Notes            string
	CurrencyCode     string
	IsPrepaid        bool
	PaymentMethod    string
	PaymentProcessor string
}

// DirectResult is the outcome of CreateDirectBooking.
type DirectResult struct {
	Booking       *model.Booking
	Customer      *model.Customer
	IsNewCustomer bool
}

// CreateDirectBooking creates a confirmed booking without a draft: it
// finds or creates the customer, prices the stay from current rates,
// and performs the same confirm steps as the draft conversion inside
// one transaction, finally stamping the customer's last booking time.
func (s *Service) CreateDirectBooking(ctx context.Context, in DirectInput) (*DirectResult, error) {
	if strings.TrimSpace(in.CustomerName) == "" || strings.TrimSpace(in.CustomerEmail) == "" {
		return nil, NewError(KindMissingGuestInfo, "customer name and email are required")
	}
	nights := Nights(in.CheckIn, in.CheckOut)
	if nights <= 0 {
		return nil, NewError(KindInvalidDateRange, "check-out must be after check-in")
	}

	nightly, base, err := s.priceNights(ctx, in.RoomTypeID, in.CheckIn, in.CheckOut)
	if err != nil {
		return nil, err
	}
	fees, err := s.Fees.ListActiveByHotel(ctx, in.HotelID)
	if err != nil {
		return nil, err
	}
	tax, fee := ComputeCharges(base, nights, in.Adults+in.Children, fees)

	currency := in.CurrencyCode
	if currency == "" {
		currency = DefaultCurrency
	}
	source := in.Source
	if source == "" {
		source = model.BookingSourceWalkIn
	}

	var result *DirectResult
	err = s.Tx.RunTx(ctx, func(tx *sql.Tx) error {
		customer, isNew, err := s.Customers.FindOrCreateTx(ctx, tx,
			in.CustomerEmail, strings.TrimSpace(in.CustomerName), strings.TrimSpace(in.CustomerPhone))
		if err != nil {
			return err
		}

		var promo *model.PromoCode
		var discount int64
		if in.PromoCode != "" {
			promo, err = s.Promos.GetByCodeTx(ctx, tx, in.HotelID, in.PromoCode)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return NewError(KindInvalidPromoCode, "promo code is not valid for this hotel")
				}
				return err
			}
			discount, err = EvaluatePromo(promo, base, time.Now().UTC())
			if err != nil {
				return err
			}
		}

		dates := StayDates(in.CheckIn, in.CheckOut)
		if err := s.checkAvailableTx(ctx, tx, in.RoomTypeID, dates); err != nil {
			return err
		}

		paidStatus, paid := prepaidAmount(in.IsPrepaid, in.PaymentMethod, in.PaymentProcessor,
			FinalizeQuote(base, tax, fee, discount, 0).TotalAmountCents)
		q := FinalizeQuote(base, tax, fee, discount, paid)

		customerID := customer.ID
		b := &model.Booking{
			HotelID:             in.HotelID,
			RoomTypeID:          in.RoomTypeID,
			CustomerID:          &customerID,
			GuestName:           strings.TrimSpace(in.CustomerName),
			ContactEmail:        strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
			ContactPhone:        strings.TrimSpace(in.CustomerPhone),
			Status:              model.BookingStatusConfirmed,
			Source:              source,
			CheckIn:             dateOnly(in.CheckIn),
			CheckOut:            dateOnly(in.CheckOut),
			Adults:              in.Adults,
			Children:            in.Children,
			BaseAmountCents:     q.BaseAmountCents,
			TaxAmountCents:      q.TaxAmountCents,
			FeeAmountCents:      q.FeeAmountCents,
			DiscountAmountCents: q.DiscountAmountCents,
			TotalAmountCents:    q.TotalAmountCents,
			BalanceDueCents:     q.BalanceDueCents,
			CurrencyCode:        currency,
			Notes:               in.Notes,
		}
		if err := s.persistBookingGraphTx(ctx, tx, b, nightly, promo, discount, in.IsPrepaid, paidStatus, in.PaymentMethod, in.PaymentProcessor); err != nil {
			return err
		}
		if err := s.Customers.TouchLastBookingTx(ctx, tx, customer.ID, time.Now().UTC()); err != nil {
			return err
		}
		result = &DirectResult{Booking: b, Customer: customer, IsNewCustomer: isNew}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishConfirmed(ctx, result.Booking)
	return result, nil
}

// RecordPayment inserts a succeeded payment and recomputes the balance
// due from the sum of all succeeded payments, floored at zero.
// Overpayment is not rejected; the excess simply disappears from the
// balance.  The booking row is locked for the duration so concurrent
// payments serialize.
func (s *Service) RecordPayment(ctx context.Context, bookingID uint64, amountCents int64, method, processor string) (*model.Payment, int64, error) {
	var payment *model.Payment
	var balance int64
	err := s.Tx.RunTx(ctx, func(tx *sql.Tx) error {
		b, err := s.Bookings.GetForUpdateTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		p := &model.Payment{
			BookingID:   bookingID,
			AmountCents: amountCents,
			Status:      model.PaymentStatusSucceeded,
			Method:      method,
			Processor:   processor,
		}
		if err := s.Payments.CreateTx(ctx, tx, p); err != nil {
			return err
		}
		paid, err := s.Payments.SumSucceededTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		balance = b.TotalAmountCents - paid
		if balance < 0 {
			balance = 0
		}
		if err := s.Bookings.UpdateBalanceTx(ctx, tx, bookingID, balance); err != nil {
			return err
		}
		payment = p
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return payment, balance, nil
}

// GetBooking returns a booking with its items, or sql.ErrNoRows.
func (s *Service) GetBooking(ctx context.Context, bookingID uint64) (*model.Booking, []model.BookingItem, error) {
	return s.Bookings.GetByID(ctx, bookingID)
}

// priceNights fetches the rate calendar for the stay and fails with
// KindPricingUnavailable when any night lacks a rate row.
func (s *Service) priceNights(ctx context.Context, roomTypeID uint64, checkIn, checkOut time.Time) ([]NightPrice, int64, error) {
	nights := Nights(checkIn, checkOut)
	rates, err := s.Rates.ListForRange(ctx, roomTypeID, dateOnly(checkIn), dateOnly(checkOut))
	if err != nil {
		return nil, 0, err
	}
	if len(rates) != nights {
		return nil, 0, NewError(KindPricingUnavailable, "rate calendar has gaps for the requested stay")
	}
	nightly := make([]NightPrice, 0, nights)
	var base int64
	for _, r := range rates {
		nightly = append(nightly, NightPrice{Date: dateOnly(r.Date), PriceCents: r.PriceCents})
		base += r.PriceCents
	}
	return nightly, base, nil
}

// checkAvailableTx verifies every night is open with rooms remaining,
// holding row locks until the transaction ends.
func (s *Service) checkAvailableTx(ctx context.Context, tx *sql.Tx, roomTypeID uint64, dates []time.Time) error {
	avail, err := s.Inventory.AvailableDatesTx(ctx, tx, roomTypeID, dates)
	if err != nil {
		return err
	}
	for _, d := range dates {
		if !avail[d.UTC().Format("2006-01-02")] {
			return NewError(KindInsufficientInventory, "no rooms left on "+d.UTC().Format("2006-01-02"))
		}
	}
	return nil
}

// persistBookingGraphTx performs the write half of the confirmation:
// booking row (with reference-code retry), nightly items with tax/fee
// apportioned across nights, promo redemption and audit row, the
// conditional inventory decrements and the optional prepayment.  Any
// failure aborts the surrounding transaction.
func (s *Service) persistBookingGraphTx(ctx context.Context, tx *sql.Tx, b *model.Booking,
	nightly []NightPrice, promo *model.PromoCode, discount int64,
	isPrepaid bool, paidStatus string, method, processor string) error {

	for attempt := 0; ; attempt++ {
		b.ReferenceCode = NewReferenceCode(BookingRefPrefix)
		err := s.Bookings.CreateTx(ctx, tx, b)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateReference) || attempt >= maxRefCodeRetries {
			return err
		}
	}

	taxParts := apportion(b.TaxAmountCents, len(nightly))
	feeParts := apportion(b.FeeAmountCents, len(nightly))
	items := make([]model.BookingItem, 0, len(nightly))
	for i, np := range nightly {
		items = append(items, model.BookingItem{
			BookingID:      b.ID,
			Date:           np.Date,
			PriceCents:     np.PriceCents,
			TaxAmountCents: taxParts[i],
			FeeAmountCents: feeParts[i],
		})
	}
	if err := s.Bookings.CreateItemsBulkTx(ctx, tx, items); err != nil {
		return err
	}

	if promo != nil && discount > 0 {
		ok, err := s.Promos.RedeemTx(ctx, tx, promo.ID)
		if err != nil {
			return err
		}
		if !ok {
			return NewError(KindPromoCodeUsageLimitReached, "promo code usage limit reached")
		}
		if err := s.Bookings.CreatePromotionTx(ctx, tx, b.ID, promo.ID, discount); err != nil {
			return err
		}
	}

	for _, np := range nightly {
		ok, err := s.Inventory.DecrementTx(ctx, tx, b.RoomTypeID, np.Date)
		if err != nil {
			return err
		}
		if !ok {
			return NewError(KindInsufficientInventory, "no rooms left on "+np.Date.Format("2006-01-02"))
		}
	}

	if isPrepaid {
		p := &model.Payment{
			BookingID:   b.ID,
			AmountCents: b.TotalAmountCents,
			Status:      paidStatus,
			Method:      method,
			Processor:   processor,
		}
		if err := s.Payments.CreateTx(ctx, tx, p); err != nil {
			return err
		}
	}
	return nil
}

// payLaterMethods and payLaterProcessors denote prepayments that have
// not actually settled yet and therefore start out pending.
var payLaterMethods = map[string]bool{"cash": true, "manual": true}
var payLaterProcessors = map[string]bool{"front_office_pending": true, "front-office-pending": true}

// PaymentStatus returns the status a prepayment should be created with.
func PaymentStatus(method, processor string) string {
	if payLaterMethods[strings.ToLower(strings.TrimSpace(method))] ||
		payLaterProcessors[strings.ToLower(strings.TrimSpace(processor))] {
		return model.PaymentStatusPending
	}
	return model.PaymentStatusSucceeded
}

// prepaidAmount resolves the payment status and the amount that counts
// against the balance.  Pending prepayments do not reduce the balance.
func prepaidAmount(isPrepaid bool, method, processor string, totalCents int64) (status string, paidCents int64) {
	if !isPrepaid {
		return "", 0
	}
	status = PaymentStatus(method, processor)
	if status == model.PaymentStatusSucceeded {
		return status, totalCents
	}
	return status, 0
}

func (s *Service) publishConfirmed(ctx context.Context, b *model.Booking) {
	if s.Events == nil || b == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:        b.ID,
		ReferenceCode:    b.ReferenceCode,
		HotelID:          b.HotelID,
		RoomTypeID:       b.RoomTypeID,
		GuestName:        b.GuestName,
		CheckIn:          b.CheckIn.Format("2006-01-02"),
		CheckOut:         b.CheckOut.Format("2006-01-02"),
		Nights:           Nights(b.CheckIn, b.CheckOut),
		TotalAmountCents: b.TotalAmountCents,
		CurrencyCode:     b.CurrencyCode,
		Source:           b.Source,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Events.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("booking: publish confirmed event failed: %v", err)
	}
}
