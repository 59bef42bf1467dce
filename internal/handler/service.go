package handler

import (
	"context"

	"github.com/nebulia-tech/librairie/internal/model"
	"github.com/nebulia-tech/librairie/internal/notify"
	"github.com/nebulia-tech/librairie/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookService interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	CreateBook(ctx context.Context, req model.BookRequest) (int, error)
	UpdateBook(ctx context.Context, id int, req model.BookRequest) error
	DeleteBook(ctx context.Context, id int) error
	Statistics(ctx context.Context) (model.Statistics, error)
}

type LoanService interface {
	Loans(ctx context.Context, userID int) ([]model.LoanWithBook, error)
	Borrow(ctx context.Context, userID int, req model.CreateLoanRequest) (model.Loan, error)
	Return(ctx context.Context, loanID, userID int) (model.Loan, error)
}

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (int, error)
	Authenticate(ctx context.Context, email, password string) (model.User, error)
}

type OverdueService interface {
	RunManualCheck(ctx context.Context) model.OverdueNotificationResult
	Scan(ctx context.Context) ([]model.OverdueCandidate, error)
}

var _ BookService = (*service.Service)(nil)
var _ LoanService = (*service.Service)(nil)
var _ AuthService = (*service.Service)(nil)
var _ OverdueService = (*notify.Notifier)(nil)
