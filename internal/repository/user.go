package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/nebulia-tech/librairie/internal/errs"
	"github.com/nebulia-tech/librairie/internal/model"
)

func (r *repository) CreateUser(ctx context.Context, user model.User) (int, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns("last_name", "first_name", "email", "password_hash", "role").
		Values(user.LastName, user.FirstName, user.Email, user.PasswordHash, user.Role).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		if isUniqueViolation(err) {
			return 0, errs.ErrEmailExists
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	query, args, err := qb.Select("id", "last_name", "first_name", "email", "password_hash", "role", "created_at").
		From(usersTableName).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrUserNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) Statistics(ctx context.Context) (model.Statistics, error) {
	var stats model.Statistics
	if err := r.db.QueryRowContext(ctx, `select count(*) from books`).Scan(&stats.TotalBooks); err != nil {
		return model.Statistics{}, err
	}
	if err := r.db.QueryRowContext(ctx, `select count(*) from users`).Scan(&stats.TotalUsers); err != nil {
		return model.Statistics{}, err
	}
	return stats, nil
}
