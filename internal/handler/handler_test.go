package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/config"
	"github.com/nebulia-tech/librairie/internal/errs"
	mock_handler "github.com/nebulia-tech/librairie/internal/handler/mocks"
	"github.com/nebulia-tech/librairie/internal/model"
	"github.com/nebulia-tech/librairie/pkg/auth"
	"github.com/nebulia-tech/librairie/pkg/validate"
)

func newTestContext(t *testing.T, method, target, body string, claims *auth.Claims) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validate.NewCustomValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if claims != nil {
		req = req.WithContext(auth.SetAuthContext(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func memberClaims() *auth.Claims {
	return &auth.Claims{UserID: 42, Email: "marie@example.com", Role: auth.RoleMember}
}

func TestHandler_CreateLoan(t *testing.T) {
	type mockBehavior func(r *mock_handler.MockLoanService)

	tests := []struct {
		name         string
		body         string
		claims       *auth.Claims
		mockBehavior mockBehavior
		wantCode     int
		wantBody     string
	}{
		{
			name:   "ok",
			body:   `{"bookId": 3, "dueAt": "2024-03-20"}`,
			claims: memberClaims(),
			mockBehavior: func(r *mock_handler.MockLoanService) {
				r.EXPECT().
					Borrow(gomock.Any(), 42, gomock.Any()).
					Return(model.Loan{ID: 7, BookID: 3, UserID: 42}, nil)
			},
			wantCode: http.StatusCreated,
			wantBody: `{"message":"Emprunt créé avec succès","empruntId":7}`,
		},
		{
			name:         "missing bookId",
			body:         `{"dueAt": "2024-03-20"}`,
			claims:       memberClaims(),
			mockBehavior: func(r *mock_handler.MockLoanService) {},
			wantCode:     http.StatusBadRequest,
		},
		{
			name:   "due date too far",
			body:   `{"bookId": 3, "dueAt": "2030-01-01"}`,
			claims: memberClaims(),
			mockBehavior: func(r *mock_handler.MockLoanService) {
				r.EXPECT().
					Borrow(gomock.Any(), 42, gomock.Any()).
					Return(model.Loan{}, errs.NewValidation("la date de retour prévue ne peut pas dépasser 30 jours"))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "book not available",
			body:   `{"bookId": 3, "dueAt": "2024-03-20"}`,
			claims: memberClaims(),
			mockBehavior: func(r *mock_handler.MockLoanService) {
				r.EXPECT().
					Borrow(gomock.Any(), 42, gomock.Any()).
					Return(model.Loan{}, errs.ErrBookNotAvailable)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "book not found",
			body:   `{"bookId": 99, "dueAt": "2024-03-20"}`,
			claims: memberClaims(),
			mockBehavior: func(r *mock_handler.MockLoanService) {
				r.EXPECT().
					Borrow(gomock.Any(), 42, gomock.Any()).
					Return(model.Loan{}, errs.ErrBookNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:         "unauthenticated",
			body:         `{"bookId": 3, "dueAt": "2024-03-20"}`,
			claims:       nil,
			mockBehavior: func(r *mock_handler.MockLoanService) {},
			wantCode:     http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			loanSvc := mock_handler.NewMockLoanService(ctrl)
			tt.mockBehavior(loanSvc)
			h := New(Services{Loan: loanSvc}, config.JWT{}, zap.NewNop())

			c, rec := newTestContext(t, http.MethodPost, "/api/emprunts", tt.body, tt.claims)
			err := h.CreateLoan(c)

			if tt.wantCode >= http.StatusBadRequest {
				var he *echo.HTTPError
				require.ErrorAs(t, err, &he)
				require.Equal(t, tt.wantCode, he.Code)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				require.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_ReturnLoan(t *testing.T) {
	type mockBehavior func(r *mock_handler.MockLoanService)

	returnedAt := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		loanID       string
		mockBehavior mockBehavior
		wantCode     int
	}{
		{
			name:   "ok",
			loanID: "7",
			mockBehavior: func(r *mock_handler.MockLoanService) {
				r.EXPECT().
					Return(gomock.Any(), 7, 42).
					Return(model.Loan{ID: 7, UserID: 42, ReturnedAt: &returnedAt}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "not found or already returned",
			loanID: "7",
			mockBehavior: func(r *mock_handler.MockLoanService) {
				r.EXPECT().
					Return(gomock.Any(), 7, 42).
					Return(model.Loan{}, errs.ErrLoanNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:         "bad id",
			loanID:       "abc",
			mockBehavior: func(r *mock_handler.MockLoanService) {},
			wantCode:     http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			loanSvc := mock_handler.NewMockLoanService(ctrl)
			tt.mockBehavior(loanSvc)
			h := New(Services{Loan: loanSvc}, config.JWT{}, zap.NewNop())

			c, rec := newTestContext(t, http.MethodPut, "/api/emprunts/"+tt.loanID+"/retourner", "", memberClaims())
			c.SetParamNames("id")
			c.SetParamValues(tt.loanID)
			err := h.ReturnLoan(c)

			if tt.wantCode >= http.StatusBadRequest {
				var he *echo.HTTPError
				require.ErrorAs(t, err, &he)
				require.Equal(t, tt.wantCode, he.Code)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantCode, rec.Code)
			require.Contains(t, rec.Body.String(), "Livre retourné avec succès")
		})
	}
}

func TestHandler_GetLoans(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loanSvc := mock_handler.NewMockLoanService(ctrl)
	loanSvc.EXPECT().
		Loans(gomock.Any(), 42).
		Return([]model.LoanWithBook{
			{Loan: model.Loan{ID: 1, BookID: 3, UserID: 42}, Title: "L'Étranger", Status: model.LoanDelayed},
		}, nil)
	h := New(Services{Loan: loanSvc}, config.JWT{}, zap.NewNop())

	c, rec := newTestContext(t, http.MethodGet, "/api/emprunts", "", memberClaims())
	require.NoError(t, h.GetLoans(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"delayed"`)
	require.Contains(t, rec.Body.String(), "L'Étranger")
}

func TestHandler_TestOverdueNotifications(t *testing.T) {
	type mockBehavior func(r *mock_handler.MockOverdueService)

	tests := []struct {
		name         string
		mockBehavior mockBehavior
		wantBody     string
	}{
		{
			name: "sent with one failure",
			mockBehavior: func(r *mock_handler.MockOverdueService) {
				r.EXPECT().
					RunManualCheck(gomock.Any()).
					Return(model.OverdueNotificationResult{
						Success:      true,
						Count:        3,
						SuccessCount: 2,
						ErrorCount:   1,
						Message:      "2 notifications envoyées sur 3 emprunts en retard",
					})
			},
			wantBody: `{
				"success": true,
				"message": "2 notifications envoyées sur 3 emprunts en retard",
				"data": {"totalOverdue": 3, "emailsSent": 2, "errors": 1}
			}`,
		},
		{
			name: "nothing overdue",
			mockBehavior: func(r *mock_handler.MockOverdueService) {
				r.EXPECT().
					RunManualCheck(gomock.Any()).
					Return(model.OverdueNotificationResult{
						Success: true,
						Message: "Aucun emprunt en retard",
					})
			},
			wantBody: `{
				"success": true,
				"message": "Aucun emprunt en retard",
				"data": {"totalOverdue": 0, "emailsSent": 0, "errors": 0}
			}`,
		},
		{
			name: "scan failed",
			mockBehavior: func(r *mock_handler.MockOverdueService) {
				r.EXPECT().
					RunManualCheck(gomock.Any()).
					Return(model.OverdueNotificationResult{
						Success: false,
						Message: "Erreur lors du traitement des emprunts en retard",
						Error:   "db down",
					})
			},
			wantBody: `{
				"success": false,
				"message": "Erreur lors du traitement des emprunts en retard",
				"data": {"totalOverdue": 0, "emailsSent": 0, "errors": 0}
			}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			overdueSvc := mock_handler.NewMockOverdueService(ctrl)
			tt.mockBehavior(overdueSvc)
			h := New(Services{Overdue: overdueSvc}, config.JWT{}, zap.NewNop())

			c, rec := newTestContext(t, http.MethodPost, "/api/test-overdue-notifications", "", memberClaims())
			require.NoError(t, h.TestOverdueNotifications(c))
			require.Equal(t, http.StatusOK, rec.Code)
			require.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHandler_OverdueLoans(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		overdueSvc := mock_handler.NewMockOverdueService(ctrl)
		overdueSvc.EXPECT().
			Scan(gomock.Any()).
			Return([]model.OverdueCandidate{
				{LoanID: 1, UserEmail: "marie@example.com", BookTitle: "Le Petit Prince", DaysLate: 5},
			}, nil)
		h := New(Services{Overdue: overdueSvc}, config.JWT{}, zap.NewNop())

		c, rec := newTestContext(t, http.MethodGet, "/api/overdue-loans", "", memberClaims())
		require.NoError(t, h.OverdueLoans(c))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"count":1`)
		require.Contains(t, rec.Body.String(), `"daysLate":5`)
	})

	t.Run("scan error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		overdueSvc := mock_handler.NewMockOverdueService(ctrl)
		overdueSvc.EXPECT().
			Scan(gomock.Any()).
			Return(nil, errors.New("db down"))
		h := New(Services{Overdue: overdueSvc}, config.JWT{}, zap.NewNop())

		c, _ := newTestContext(t, http.MethodGet, "/api/overdue-loans", "", memberClaims())
		err := h.OverdueLoans(c)

		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		require.Equal(t, http.StatusInternalServerError, he.Code)
	})
}
