package repository

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"xchain-backend/internal/errs"
)

// translate maps driver errors onto the error taxonomy; anything else is
// wrapped with the operation name and surfaces as INTERNAL.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("%s: record not found", op)
	}
	if isDuplicate(err) {
		return errs.AlreadyExists("%s: duplicate key", op)
	}
	return errors.Wrap(err, op)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

// IsNotFound reports a NOT_FOUND error from any repository.
func IsNotFound(err error) bool {
	return errors.Is(err, errs.ErrNotFound)
}
