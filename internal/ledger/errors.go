package ledger

import (
	"errors"
	"fmt"

	"library-ledger/internal/store"
)

var (
	ErrNotAvailable    = errors.New("book is not available")
	ErrNotFound        = errors.New("not found")
	ErrNotOwned        = errors.New("record belongs to another borrower")
	ErrAlreadyReturned = errors.New("book already returned")
	ErrOnLoan          = errors.New("book is currently on loan")
)

// notFound converts a missing-row error from the store into ErrNotFound and
// passes every other error through.
func notFound(err error, what string, id int) error {
	if errors.Is(err, store.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return err
}
