package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// TestOverdueNotifications runs the scan+dispatch pipeline on demand.
func (h *Handler) TestOverdueNotifications(c echo.Context) error {
	res := h.svc.Overdue.RunManualCheck(c.Request().Context())
	return c.JSON(http.StatusOK, echo.Map{
		"success": res.Success,
		"message": res.Message,
		"data": echo.Map{
			"totalOverdue": res.Count,
			"emailsSent":   res.SuccessCount,
			"errors":       res.ErrorCount,
		},
	})
}

// OverdueLoans exposes the raw scan result without sending anything.
func (h *Handler) OverdueLoans(c echo.Context) error {
	loans, err := h.svc.Overdue.Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(loans),
		"loans":   loans,
	})
}
