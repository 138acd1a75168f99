package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness plus whether the store is reachable. The
// portal stays up without a database (degraded reads), so a missing
// store is reported but never fails the probe.
func Health(db *sql.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		store := "ok"
		if db == nil {
			store = "degraded"
		} else if err := db.PingContext(c.Request().Context()); err != nil {
			store = "unreachable"
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "store": store})
	}
}
