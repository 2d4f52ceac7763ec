package concierge

import "errors"

var (
	// ErrNothingToBook fires on a book intent with no prior results to
	// select from.
	ErrNothingToBook = errors.New("no recommendations to book from")

	// ErrSelectionOutOfRange fires when an index selection does not match
	// any shown result.
	ErrSelectionOutOfRange = errors.New("selection index out of range")
)
