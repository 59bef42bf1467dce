package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/config"
	"github.com/nebulia-tech/librairie/internal/errs"
	mw "github.com/nebulia-tech/librairie/pkg/middleware"
	"github.com/nebulia-tech/librairie/pkg/validate"
)

type Services struct {
	Book    BookService
	Loan    LoanService
	Auth    AuthService
	Overdue OverdueService
}

type Handler struct {
	svc Services
	jwt config.JWT
	log *zap.Logger
}

func New(svc Services, jwtCfg config.JWT, log *zap.Logger) *Handler {
	return &Handler{
		svc: svc,
		jwt: jwtCfg,
		log: log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
		authRPS = 5
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", mw.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api",
		middleware.RequestLoggerWithConfig(mw.RequestLoggerConfig()),
		middleware.RequestID(),
		mw.NewRateLimiter(apiRPS),
	)

	authed := mw.CookieAuth(h.jwt.Secret)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)
	api.POST("/books", h.CreateBook, authed, mw.AdminOnly)
	api.PUT("/books/:id", h.UpdateBook, authed, mw.AdminOnly)
	api.DELETE("/books/:id", h.DeleteBook, authed, mw.AdminOnly)

	api.GET("/emprunts", h.GetLoans, authed)
	api.POST("/emprunts", h.CreateLoan, authed)
	api.PUT("/emprunts/:id/retourner", h.ReturnLoan, authed)

	users := api.Group("/users", mw.NewRateLimiter(authRPS))
	users.POST("/register", h.Register)
	users.POST("/login", h.Login)
	api.POST("/logout", h.Logout, authed)
	api.GET("/session", h.Session, authed)

	api.GET("/statistics", h.Statistics)
	api.POST("/test-overdue-notifications", h.TestOverdueNotifications, authed, mw.AdminOnly)
	api.GET("/overdue-loans", h.OverdueLoans, authed, mw.AdminOnly)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps the service error taxonomy onto status codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errs.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrBookNotFound),
		errors.Is(err, errs.ErrLoanNotFound),
		errors.Is(err, errs.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrBookNotAvailable),
		errors.Is(err, errs.ErrBookBorrowed):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrIsbnExists),
		errors.Is(err, errs.ErrEmailExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrBadCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
