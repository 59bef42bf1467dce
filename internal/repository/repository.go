package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/internal/model"
)

type Repository interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	GetBookStatus(ctx context.Context, id int) (model.BookStatus, error)
	CreateBook(ctx context.Context, book model.Book) (int, error)
	UpdateBook(ctx context.Context, book model.Book) error
	DeleteBook(ctx context.Context, id int) error

	BorrowBook(ctx context.Context, bookID, userID int, dueAt time.Time) (model.Loan, error)
	ReturnLoan(ctx context.Context, loanID, userID int, returnedAt time.Time) (model.Loan, error)
	FindLoansForUser(ctx context.Context, userID int) ([]model.LoanWithBook, error)
	FindOverdueOpenLoans(ctx context.Context, today time.Time) ([]model.OverdueLoanRow, error)

	CreateUser(ctx context.Context, user model.User) (int, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	Statistics(ctx context.Context) (model.Statistics, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName = `books`
	usersTableName = `users`
	loansTableName = `loans`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
