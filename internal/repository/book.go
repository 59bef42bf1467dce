package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nebulia-tech/librairie/internal/errs"
	"github.com/nebulia-tech/librairie/internal/model"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	query, args, err := qb.Select("id", "title", "author", "publication_date", "isbn", "description", "status", "cover_url").
		From(booksTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	query, args, err := qb.Select("id", "title", "author", "publication_date", "isbn", "description", "status", "cover_url").
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) GetBookStatus(ctx context.Context, id int) (model.BookStatus, error) {
	var status model.BookStatus
	err := r.db.QueryRowContext(ctx, `select status from books where id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", errs.ErrBookNotFound
		}
		return "", err
	}
	return status, nil
}

func (r *repository) CreateBook(ctx context.Context, book model.Book) (int, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "publication_date", "isbn", "description", "status", "cover_url").
		Values(book.Title, book.Author, book.PublicationDate, book.Isbn, book.Description, book.Status, book.CoverURL).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		if isUniqueViolation(err) {
			return 0, errs.ErrIsbnExists
		}
		r.log.Error("CreateBook", zap.String("q", query), zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateBook(ctx context.Context, book model.Book) error {
	query, args, err := qb.Update(booksTableName).
		Set("title", book.Title).
		Set("author", book.Author).
		Set("publication_date", book.PublicationDate).
		Set("isbn", book.Isbn).
		Set("description", book.Description).
		Set("status", book.Status).
		Set("cover_url", book.CoverURL).
		Where(sq.Eq{"id": book.ID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.ErrIsbnExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrBookNotFound
	}
	return nil
}

func (r *repository) DeleteBook(ctx context.Context, id int) error {
	var open int
	err := r.db.QueryRowContext(ctx,
		`select count(*) from loans where book_id = $1 and returned_at is null`, id).Scan(&open)
	if err != nil {
		return err
	}
	if open > 0 {
		return errs.ErrBookBorrowed
	}

	res, err := r.db.ExecContext(ctx, `delete from books where id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrBookNotFound
	}
	return nil
}
