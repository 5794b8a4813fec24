package handler // handler defines http handlers

import (
	"errors"   // errors provides sentinel values used in getUserID
	"net/http" // http defines status code constants
	"strconv"  // strconv converts strings to numeric types
	"time"     // time parses calendar date parameters

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/avralis/hotel-reservation/internal/model"
	"github.com/avralis/hotel-reservation/internal/repository" // repository holds the data access layer
)

// AdminHandler bundles repositories for managers to maintain the rate
// calendar, the inventory calendar, promo codes and tax/fee rules.  The
// booking pipeline reads this data; these endpoints are the only place
// it is written.
type AdminHandler struct {
	Rates     *repository.RateRepo      // nightly price calendar
	Inventory *repository.InventoryRepo // per-night availability counters
	Promos    *repository.PromoRepo     // discount codes
	TaxFees   *repository.TaxFeeRepo    // percent/fixed charges
}

// NewAdminHandler constructs a new AdminHandler and panics if any dependency is nil.
func NewAdminHandler(rates *repository.RateRepo, inventory *repository.InventoryRepo, promos *repository.PromoRepo, taxFees *repository.TaxFeeRepo) *AdminHandler {
	if rates == nil || inventory == nil || promos == nil || taxFees == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Rates: rates, Inventory: inventory, Promos: promos, TaxFees: taxFees}
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id") // fetch user_id from context
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64: // JWT numeric claims decode as float64
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseDateRange reads from/to query-or-body date strings and validates
// from < to.
func parseDateRange(fromStr, toStr string) (from, to time.Time, err error) {
	from, err = time.Parse(dateLayout, fromStr)
	if err != nil {
		return
	}
	to, err = time.Parse(dateLayout, toStr)
	if err != nil {
		return
	}
	if !from.Before(to) {
		err = errors.New("from must be before to")
	}
	return
}

type setRatesReq struct {
	RoomTypeID uint64 `json:"room_type_id" validate:"required"`
	From       string `json:"from" validate:"required,datetime=2006-01-02"`
	To         string `json:"to" validate:"required,datetime=2006-01-02"` // exclusive
	PriceCents int64  `json:"price_cents" validate:"required,gt=0"`
}

// SetRates handles PUT /v1/admin/rates and writes one rate row per
// night in [from, to).
func (h *AdminHandler) SetRates(c echo.Context) error {
	if _, err := getUserID(c); err != nil { // require an authenticated staff user
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req setRatesReq
	if !bindAndValidate(c, &req) {
		return nil
	}
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	n, err := h.Rates.SetRange(c.Request().Context(), req.RoomTypeID, from, to, req.PriceCents)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not write rates"})
	}
	return c.JSON(http.StatusOK, echo.Map{"nights_written": n})
}

// ListRates handles GET /v1/admin/rates?room_type_id=&from=&to=.
func (h *AdminHandler) ListRates(c echo.Context) error {
	roomTypeID, err := strconv.ParseUint(c.QueryParam("room_type_id"), 10, 64)
	if err != nil || roomTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_type_id"})
	}
	from, to, err := parseDateRange(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	rates, err := h.Rates.ListForRange(c.Request().Context(), roomTypeID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load rates"})
	}
	type ratePart struct {
		Date       string `json:"date"`
		PriceCents int64  `json:"price_cents"`
	}
	out := make([]ratePart, 0, len(rates))
	for _, r := range rates {
		out = append(out, ratePart{Date: r.Date.Format(dateLayout), PriceCents: r.PriceCents})
	}
	return c.JSON(http.StatusOK, echo.Map{"rates": out})
}

type setInventoryReq struct {
	RoomTypeID     uint64 `json:"room_type_id" validate:"required"`
	From           string `json:"from" validate:"required,datetime=2006-01-02"`
	To             string `json:"to" validate:"required,datetime=2006-01-02"` // exclusive
	AvailableRooms int    `json:"available_rooms" validate:"min=0"`
	Closed         bool   `json:"closed"`
}

// SetInventory handles PUT /v1/admin/inventory and writes one counter
// row per night in [from, to).
func (h *AdminHandler) SetInventory(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req setInventoryReq
	if !bindAndValidate(c, &req) {
		return nil
	}
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	n, err := h.Inventory.SetRange(c.Request().Context(), req.RoomTypeID, from, to, req.AvailableRooms, req.Closed)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not write inventory"})
	}
	return c.JSON(http.StatusOK, echo.Map{"nights_written": n})
}

// ListInventory handles GET /v1/admin/inventory?room_type_id=&from=&to=.
func (h *AdminHandler) ListInventory(c echo.Context) error {
	roomTypeID, err := strconv.ParseUint(c.QueryParam("room_type_id"), 10, 64)
	if err != nil || roomTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_type_id"})
	}
	from, to, err := parseDateRange(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	inv, err := h.Inventory.ListForRange(c.Request().Context(), roomTypeID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load inventory"})
	}
	type invPart struct {
		Date           string `json:"date"`
		AvailableRooms int    `json:"available_rooms"`
		Closed         bool   `json:"closed"`
	}
	out := make([]invPart, 0, len(inv))
	for _, row := range inv {
		out = append(out, invPart{Date: row.Date.Format(dateLayout), AvailableRooms: row.AvailableRooms, Closed: row.Closed})
	}
	return c.JSON(http.StatusOK, echo.Map{"inventory": out})
}

type createPromoReq struct {
	HotelID          uint64  `json:"hotel_id"`
	Code             string  `json:"code" validate:"required,max=64"`
	Type             string  `json:"type" validate:"required,oneof=percent fixed"`
	Value            float64 `json:"value" validate:"required,gt=0"`
	StartDate        string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate          string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	UsageLimit       *int    `json:"usage_limit" validate:"omitempty,gt=0"`
	MaxDiscountCents *int64  `json:"max_discount_cents" validate:"omitempty,gt=0"`
	IsActive         *bool   `json:"is_active"` // defaults to true
}

// CreatePromo handles POST /v1/admin/promos.
func (h *AdminHandler) CreatePromo(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createPromoReq
	if !bindAndValidate(c, &req) {
		return nil
	}
	p := &model.PromoCode{
		HotelID:          req.HotelID,
		Code:             req.Code,
		Type:             req.Type,
		Value:            req.Value,
		UsageLimit:       req.UsageLimit,
		MaxDiscountCents: req.MaxDiscountCents,
		IsActive:         true,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.StartDate != "" {
		t, _ := time.Parse(dateLayout, req.StartDate)
		p.StartDate = &t
	}
	if req.EndDate != "" {
		t, _ := time.Parse(dateLayout, req.EndDate)
		p.EndDate = &t
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date before start_date"})
	}
	if err := h.Promos.Create(c.Request().Context(), p); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "promo code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create promo code"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": p.ID, "code": p.Code})
}

type createTaxFeeReq struct {
	HotelID  uint64  `json:"hotel_id"`
	Name     string  `json:"name" validate:"required,max=128"`
	Type     string  `json:"type" validate:"required,oneof=percent fixed"`
	Value    float64 `json:"value" validate:"required,gt=0"`
	Scope    string  `json:"scope" validate:"omitempty,oneof=per_stay per_night per_person"`
	IsActive *bool   `json:"is_active"` // defaults to true
}

// CreateTaxFee handles POST /v1/admin/tax-fees.
func (h *AdminHandler) CreateTaxFee(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createTaxFeeReq
	if !bindAndValidate(c, &req) {
		return nil
	}
	f := &model.TaxFee{
		HotelID:  req.HotelID,
		Name:     req.Name,
		Type:     req.Type,
		Value:    req.Value,
		Scope:    req.Scope,
		IsActive: true,
	}
	if f.Scope == "" {
		f.Scope = model.ChargeScopePerStay
	}
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}
	if err := h.TaxFees.Create(c.Request().Context(), f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create charge"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": f.ID, "name": f.Name})
}
