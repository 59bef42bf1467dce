package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/internal/errs"
	"github.com/nebulia-tech/librairie/internal/model"
)

// maxLoanDays is the maximum borrow window, inclusive.
const maxLoanDays = 30

// Borrow validates the due date window and creates the loan. The
// availability check and the loan insert are atomic at the storage
// boundary (conditional status flip), so a losing concurrent borrow gets
// ErrBookNotAvailable instead of a double loan.
func (s *Service) Borrow(ctx context.Context, userID int, req model.CreateLoanRequest) (model.Loan, error) {
	if req.DueAt.IsZero() {
		return model.Loan{}, errs.NewValidation("date de retour prévue requise")
	}
	today := dateOnly(s.clock.Now())
	due := dateOnly(req.DueAt.Time)
	if due.Before(today) {
		return model.Loan{}, errs.NewValidation("la date de retour prévue doit être dans le futur")
	}
	if due.After(today.AddDate(0, 0, maxLoanDays)) {
		return model.Loan{}, errs.NewValidation("la date de retour prévue ne peut pas dépasser %d jours", maxLoanDays)
	}

	loan, err := s.repo.BorrowBook(ctx, req.BookID, userID, due)
	if err != nil {
		return model.Loan{}, err
	}
	s.log.Info("loan created",
		zap.Int("loanID", loan.ID), zap.Int("bookID", loan.BookID), zap.Int("userID", userID))
	s.events.LoanBorrowed(loan)
	return loan, nil
}

// Return closes the open loan owned by userID and frees the book. A missing
// loan, a foreign loan and an already-returned loan are indistinguishable
// for the caller.
func (s *Service) Return(ctx context.Context, loanID, userID int) (model.Loan, error) {
	now := s.clock.Now()
	loan, err := s.repo.ReturnLoan(ctx, loanID, userID, now)
	if err != nil {
		return model.Loan{}, err
	}
	s.log.Info("loan returned", zap.Int("loanID", loan.ID), zap.Int("userID", userID))
	s.events.LoanReturned(loan)
	return loan, nil
}

// Loans lists the user's loans, newest first, with the status derived at
// read time.
func (s *Service) Loans(ctx context.Context, userID int) ([]model.LoanWithBook, error) {
	loans, err := s.repo.FindLoansForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	for i := range loans {
		loans[i].Status = loans[i].StatusAt(now)
	}
	return loans, nil
}
