package errs

import (
	"errors"
	"fmt"
)

var (
	ErrBookNotFound = errors.New("livre non trouvé")
	// ErrLoanNotFound deliberately covers "not yours" and "already returned"
	// as well, so loan ownership is not leaked to non-owners.
	ErrLoanNotFound     = errors.New("emprunt non trouvé ou déjà retourné")
	ErrBookNotAvailable = errors.New("livre non disponible")
	ErrBookBorrowed     = errors.New("impossible de supprimer un livre actuellement emprunté")
	ErrIsbnExists       = errors.New("isbn déjà existant")
	ErrEmailExists      = errors.New("email déjà utilisé")
	ErrBadCredentials   = errors.New("identifiants invalides")
	ErrUserNotFound     = errors.New("utilisateur non trouvé")
)

// ValidationError marks malformed or out-of-range input; mapped to 400 and
// never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type ErrorResponse struct {
	Error string `json:"error"`
}
