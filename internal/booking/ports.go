package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/avralis/hotel-reservation/internal/model"
	"github.com/avralis/hotel-reservation/internal/queue"
	"github.com/avralis/hotel-reservation/internal/repository"
)

// The interfaces below are the service's view of the persistence layer.
// The repository package satisfies all of them; tests substitute
// in-memory fakes that ignore the *sql.Tx argument, which the fake
// TxRunner passes as nil.

// RateSource reads nightly room rates.
type RateSource interface {
	ListForRange(ctx context.Context, roomTypeID uint64, from, to time.Time) ([]model.RoomRate, error)
}

// TaxFeeSource reads a hotel's active tax and fee rules.
type TaxFeeSource interface {
	ListActiveByHotel(ctx context.Context, hotelID uint64) ([]model.TaxFee, error)
}

// PromoStore reads and redeems promo codes.
type PromoStore interface {
	GetByCode(ctx context.Context, hotelID uint64, code string) (*model.PromoCode, error)
	GetByCodeTx(ctx context.Context, tx *sql.Tx, hotelID uint64, code string) (*model.PromoCode, error)
	RedeemTx(ctx context.Context, tx *sql.Tx, promoID uint64) (bool, error)
}

// InventoryStore checks and mutates per-room-type, per-night counters.
type InventoryStore interface {
	OpenDates(ctx context.Context, roomTypeID uint64, dates []time.Time) (map[string]bool, error)
	AvailableDatesTx(ctx context.Context, tx *sql.Tx, roomTypeID uint64, dates []time.Time) (map[string]bool, error)
	DecrementTx(ctx context.Context, tx *sql.Tx, roomTypeID uint64, date time.Time) (bool, error)
}

// DraftStore holds at most one in-progress reservation per session.
type DraftStore interface {
	UpsertTx(ctx context.Context, tx *sql.Tx, d *model.BookingDraft, items []model.BookingDraftItem) error
	GetBySession(ctx context.Context, sessionID string) (*model.BookingDraft, []model.BookingDraftItem, error)
	GetBySessionTx(ctx context.Context, tx *sql.Tx, sessionID string) (*model.BookingDraft, []model.BookingDraftItem, error)
	DeleteTx(ctx context.Context, tx *sql.Tx, draftID uint64) error
	DeleteBySession(ctx context.Context, sessionID string) (int64, error)
	ListPending(ctx context.Context, f repository.PendingFilter) ([]model.BookingDraft, error)
}

// BookingStore persists the confirmed booking graph.
type BookingStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []model.BookingItem) error
	CreatePromotionTx(ctx context.Context, tx *sql.Tx, bookingID, promoCodeID uint64, amountCents int64) error
	GetByID(ctx context.Context, bookingID uint64) (*model.Booking, []model.BookingItem, error)
	GetForUpdateTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (*model.Booking, error)
	UpdateBalanceTx(ctx context.Context, tx *sql.Tx, bookingID uint64, balanceDueCents int64) error
}

// PaymentStore persists money movements.
type PaymentStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error
	SumSucceededTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (int64, error)
}

// CustomerStore finds or creates customers by email.
type CustomerStore interface {
	FindOrCreateTx(ctx context.Context, tx *sql.Tx, email, fullName, phone string) (*model.Customer, bool, error)
	TouchLastBookingTx(ctx context.Context, tx *sql.Tx, customerID uint64, at time.Time) error
}

// TxRunner wraps a function in a database transaction.
type TxRunner interface {
	RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// EventPublisher publishes domain events after a successful commit.
// Publish failures are logged and ignored; the booking is already
// durable at that point.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}
