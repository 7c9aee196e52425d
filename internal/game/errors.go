package game

import (
	"errors"
	"fmt"

	"partyserver/database"
)

var (
	// ErrValidation marks caller-supplied data that fails a precondition.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidID is a validation failure for a malformed game id.
	ErrInvalidID = fmt.Errorf("%w: game id must be a 24 character hex object id", ErrValidation)
	// ErrNotFound means the referenced game does not exist.
	ErrNotFound = errors.New("game not found")
	// ErrStoreUnavailable wraps any failure of the underlying store.
	ErrStoreUnavailable = errors.New("game store unavailable")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeError はストアのエラーを分類に合わせて変換します。
func storeError(op, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrGameNotFound):
		return fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	default:
		return fmt.Errorf("%s %s: %w: %v", op, id, ErrStoreUnavailable, err)
	}
}
