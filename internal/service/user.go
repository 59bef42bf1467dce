package service

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/nebulia-tech/librairie/internal/errs"
	"github.com/nebulia-tech/librairie/internal/model"
	"github.com/nebulia-tech/librairie/pkg/auth"
)

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, errors.Wrap(err, "hash password")
	}
	return s.repo.CreateUser(ctx, model.User{
		LastName:     req.LastName,
		FirstName:    req.FirstName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         auth.RoleMember,
	})
}

// Authenticate never reveals whether the email or the password was wrong.
func (s *Service) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return model.User{}, errs.ErrBadCredentials
		}
		return model.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, errs.ErrBadCredentials
	}
	return user, nil
}
