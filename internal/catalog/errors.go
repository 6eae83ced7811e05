package catalog

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound means an operation referenced a product ID that is not in
	// the collection. No remote call is made in that case.
	ErrNotFound = errors.New("product not found")

	// ErrFetchFailed means the remote list fetch failed; the local
	// collection is left untouched.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrCreateFailed means the remote rejected a new draft; nothing is
	// appended locally.
	ErrCreateFailed = errors.New("create failed")

	// ErrUpdateFailed means the remote rejected an update; local state is
	// unchanged.
	ErrUpdateFailed = errors.New("update failed")

	// ErrDeleteFailed means the remote rejected a delete; the product stays
	// in the collection.
	ErrDeleteFailed = errors.New("delete failed")
)

// ValidationError reports malformed or missing draft fields. It is returned
// before any side effect: no remote call, no cache write, no audit entry.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
