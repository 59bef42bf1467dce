package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/internal/errs"
	"github.com/nebulia-tech/librairie/internal/model"
)

// BorrowBook flips the book to borrowed and inserts the loan row. The flip
// is a conditional update on status, so two concurrent borrows of the same
// book cannot both pass: the loser sees zero affected rows.
func (r *repository) BorrowBook(ctx context.Context, bookID, userID int, dueAt time.Time) (model.Loan, error) {
	res, err := r.db.ExecContext(ctx,
		`update books set status = $1 where id = $2 and status = $3`,
		model.BookBorrowed, bookID, model.BookAvailable)
	if err != nil {
		return model.Loan{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetBookStatus(ctx, bookID); err != nil {
			return model.Loan{}, err
		}
		return model.Loan{}, errs.ErrBookNotAvailable
	}

	query, args, err := qb.Insert(loansTableName).
		Columns("loan_uid", "book_id", "user_id", "due_at").
		Values(uuid.New(), bookID, userID, dueAt.Format(time.DateOnly)).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, query, args...); err != nil {
		r.log.Error("BorrowBook insert", zap.String("q", query), zap.Error(err))
		// the book was already flipped; put it back before surfacing the error
		if _, rbErr := r.db.ExecContext(ctx,
			`update books set status = $1 where id = $2`, model.BookAvailable, bookID); rbErr != nil {
			r.log.Error("BorrowBook rollback", zap.Int("bookID", bookID), zap.Error(rbErr))
		}
		return model.Loan{}, err
	}
	return loan, nil
}

// ReturnLoan marks the loan returned in one conditional update. Ownership,
// existence and already-returned all collapse into zero affected rows.
func (r *repository) ReturnLoan(ctx context.Context, loanID, userID int, returnedAt time.Time) (model.Loan, error) {
	q := `update loans set returned_at = $1
	where id = $2 and user_id = $3 and returned_at is null
	returning id, loan_uid, book_id, user_id, borrowed_at, due_at, returned_at`

	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, q, returnedAt, loanID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrLoanNotFound
		}
		return model.Loan{}, err
	}

	if _, err := r.db.ExecContext(ctx,
		`update books set status = $1 where id = $2`, model.BookAvailable, loan.BookID); err != nil {
		// loan is already marked returned; surface the partial failure
		return model.Loan{}, errors.Wrap(err, "book status")
	}
	return loan, nil
}

func (r *repository) FindLoansForUser(ctx context.Context, userID int) ([]model.LoanWithBook, error) {
	query, args, err := qb.Select(
		"l.id", "l.loan_uid", "l.book_id", "l.user_id", "l.borrowed_at", "l.due_at", "l.returned_at",
		"b.title", "b.author", "b.cover_url").
		From(loansTableName + " l").
		Join(booksTableName + " b on b.id = l.book_id").
		Where(sq.Eq{"l.user_id": userID}).
		OrderBy("l.borrowed_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	var loans []model.LoanWithBook
	if err := r.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, err
	}
	return loans, nil
}

// FindOverdueOpenLoans lists open loans with due_at strictly before today,
// oldest due date first. The comparison is date-only: today must already be
// truncated to midnight by the caller.
func (r *repository) FindOverdueOpenLoans(ctx context.Context, today time.Time) ([]model.OverdueLoanRow, error) {
	q := `
	select l.id, b.title, b.author, u.last_name, u.first_name, u.email, l.due_at
	from loans l
	join books b on b.id = l.book_id
	join users u on u.id = l.user_id
	where l.returned_at is null and l.due_at < $1
	order by l.due_at asc`

	var rows []model.OverdueLoanRow
	if err := r.db.SelectContext(ctx, &rows, q, today.Format(time.DateOnly)); err != nil {
		return nil, err
	}
	return rows, nil
}
