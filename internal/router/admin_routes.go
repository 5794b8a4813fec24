package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avralis/hotel-reservation/internal/handler"
	"github.com/avralis/hotel-reservation/internal/middleware"
)

// RegisterAdmin registers MANAGER-scoped maintenance endpoints under
// /v1/admin.  Front-desk users can book but not change prices,
// availability or discounts.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(handler.RoleManager),
	)

	// ---- Rate calendar ----
	g.PUT("/rates", a.SetRates)
	g.GET("/rates", a.ListRates)

	// ---- Inventory calendar ----
	g.PUT("/inventory", a.SetInventory)
	g.GET("/inventory", a.ListInventory)

	// ---- Promo codes and charges ----
	g.POST("/promos", a.CreatePromo)
	g.POST("/tax-fees", a.CreateTaxFee)
}
