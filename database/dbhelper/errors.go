package dbhelper

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrInsufficientBalance is returned when a conditional debit matches no
	// row because the user's balance is below the requested amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrRestricted is returned when a delete is blocked by rows that still
	// reference the target.
	ErrRestricted = errors.New("referenced rows exist")

	// ErrUserArchived is returned when a balance operation targets a user that
	// no longer exists or has been archived.
	ErrUserArchived = errors.New("user account archived")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}
