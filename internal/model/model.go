package model

import (
	"strings"
	"time"
)

type BookStatus string

const (
	BookAvailable BookStatus = "disponible"
	BookBorrowed  BookStatus = "emprunté"
)

type LoanStatus string

const (
	LoanCurrent  LoanStatus = "en cours"
	LoanReturned LoanStatus = "retourné"
	LoanDelayed  LoanStatus = "delayed"
)

type Book struct {
	ID              int        `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Author          string     `json:"author" db:"author"`
	PublicationDate *time.Time `json:"publicationDate" db:"publication_date"`
	Isbn            string     `json:"isbn" db:"isbn"`
	Description     string     `json:"description" db:"description"`
	Status          BookStatus `json:"status" db:"status"`
	CoverURL        string     `json:"coverUrl" db:"cover_url"`
}

type User struct {
	ID           int       `json:"id" db:"id"`
	LastName     string    `json:"lastName" db:"last_name"`
	FirstName    string    `json:"firstName" db:"first_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type Loan struct {
	ID         int        `json:"id" db:"id"`
	LoanUid    string     `json:"loanUid" db:"loan_uid"`
	BookID     int        `json:"bookId" db:"book_id"`
	UserID     int        `json:"userId" db:"user_id"`
	BorrowedAt time.Time  `json:"borrowedAt" db:"borrowed_at"`
	DueAt      time.Time  `json:"dueAt" db:"due_at"`
	ReturnedAt *time.Time `json:"returnedAt" db:"returned_at"`
}

// StatusAt derives the loan status from its timestamps. Never stored;
// recomputed on every read.
func (l Loan) StatusAt(now time.Time) LoanStatus {
	if l.ReturnedAt != nil {
		return LoanReturned
	}
	if now.After(l.DueAt) {
		return LoanDelayed
	}
	return LoanCurrent
}

// LoanWithBook is a loan row enriched with catalog fields for listings.
type LoanWithBook struct {
	Loan
	Title    string     `json:"title" db:"title"`
	Author   string     `json:"author" db:"author"`
	CoverURL string     `json:"coverUrl" db:"cover_url"`
	Status   LoanStatus `json:"status" db:"-"`
}

// OverdueLoanRow is what the repository returns for an overdue open loan.
type OverdueLoanRow struct {
	LoanID    int       `db:"id"`
	BookTitle string    `db:"title"`
	Author    string    `db:"author"`
	LastName  string    `db:"last_name"`
	FirstName string    `db:"first_name"`
	Email     string    `db:"email"`
	DueAt     time.Time `db:"due_at"`
}

// OverdueCandidate is one reminder to send.
type OverdueCandidate struct {
	LoanID    int       `json:"loanId"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	BookTitle string    `json:"bookTitle"`
	Author    string    `json:"author"`
	DueAt     time.Time `json:"dueAt"`
	DaysLate  int       `json:"daysLate"`
}

// OverdueNotificationResult aggregates one scan+dispatch run.
type OverdueNotificationResult struct {
	Success      bool   `json:"success"`
	Count        int    `json:"count"`
	SuccessCount int    `json:"successCount"`
	ErrorCount   int    `json:"errorCount"`
	Message      string `json:"message"`
	Error        string `json:"error,omitempty"`
}

// Date accepts both "2006-01-02" and RFC3339 request payloads.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

type CreateLoanRequest struct {
	BookID int  `json:"bookId" validate:"required"`
	DueAt  Date `json:"dueAt" validate:"required"`
}

type CreateLoanResponse struct {
	Message string `json:"message"`
	LoanID  int    `json:"empruntId"`
}

type ReturnLoanResponse struct {
	Message    string    `json:"message"`
	ReturnedAt time.Time `json:"returnedAt"`
}

type BookRequest struct {
	Title           string     `json:"title" validate:"required,max=255"`
	Author          string     `json:"author" validate:"required,max=255"`
	PublicationDate *Date      `json:"publicationDate"`
	Isbn            string     `json:"isbn" validate:"required,min=10,max=17"`
	Description     string     `json:"description" validate:"required,max=1000"`
	Status          BookStatus `json:"status" validate:"omitempty,oneof=disponible emprunté"`
	CoverURL        string     `json:"coverUrl" validate:"omitempty,url"`
}

type RegisterRequest struct {
	LastName  string `json:"lastName" validate:"required,max=255"`
	FirstName string `json:"firstName" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Statistics struct {
	TotalBooks int `json:"total_books" db:"total_books"`
	TotalUsers int `json:"total_users" db:"total_users"`
}
