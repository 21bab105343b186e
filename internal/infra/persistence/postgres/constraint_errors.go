package postgres

import (
	"strings"

	domainerrors "bmeh/internal/domain/errors"
	"bmeh/internal/infra/persistence/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostgreSQL error codes
const (
	uniqueViolationCode  = "23505"
	notNullViolationCode = "23502"
)

var duplicateMessages = map[string]string{
	"email": "A user with this email already exists.",
	"cpf":   "A user with this CPF already exists.",
}

// translateUserWriteError maps driver errors raised while writing a user onto domain errors.
func translateUserWriteError(err error, details string) error {
	if field, ok := duplicateUserField(err); ok {
		return domainerrors.NewDuplicateResourceError(field, duplicateMessages[field])
	}
	if isNotNullConstraintViolation(err) {
		return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}

// duplicateUserField reports which unique user column a write collided on.
func duplicateUserField(err error) (string, bool) {
	if !isUniqueConstraintViolation(err) {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.ConstraintName {
		case model.UsersEmailIndex:
			return "email", true
		case model.UsersCPFIndex:
			return "cpf", true
		}
	}

	// Fall back to the message when the constraint name is unavailable.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "email"):
		return "email", true
	case strings.Contains(msg, "cpf"):
		return "cpf", true
	}

	return "", false
}

func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func isNotNullConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == notNullViolationCode
}
