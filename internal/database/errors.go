package database

import (
	"errors"

	"github.com/mattn/go-sqlite3"

	"giraffe/internal/ledger"
)

// Error taxonomy surfaced to handlers. Anything else coming out of the repo
// is treated as an internal failure.
var (
	// ErrNotFound means the addressed row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName means a unique name constraint was violated
	// (roles/themes).
	ErrDuplicateName = errors.New("name already exists")

	// ErrInsufficientShares is re-exported from the ledger so callers have
	// one package to check against.
	ErrInsufficientShares = ledger.ErrInsufficientShares
)

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
