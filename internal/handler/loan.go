package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nebulia-tech/librairie/internal/model"
	"github.com/nebulia-tech/librairie/pkg/auth"
)

func (h *Handler) GetLoans(c echo.Context) error {
	ctx := c.Request().Context()
	claims, err := auth.FromContext(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	loans, err := h.svc.Loan.Loans(ctx, claims.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) CreateLoan(c echo.Context) error {
	ctx := c.Request().Context()
	claims, err := auth.FromContext(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	loan, err := h.svc.Loan.Borrow(ctx, claims.UserID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, model.CreateLoanResponse{
		Message: "Emprunt créé avec succès",
		LoanID:  loan.ID,
	})
}

func (h *Handler) ReturnLoan(c echo.Context) error {
	ctx := c.Request().Context()
	claims, err := auth.FromContext(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	loanID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id invalide")
	}
	loan, err := h.svc.Loan.Return(ctx, loanID, claims.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.ReturnLoanResponse{
		Message:    "Livre retourné avec succès",
		ReturnedAt: *loan.ReturnedAt,
	})
}
