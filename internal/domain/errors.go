package domain

import "errors"

var (
	ErrTitleRequired  = errors.New("title is required")
	ErrInvalidKind    = errors.New("type must be movie or series")
	ErrInvalidLink    = errors.New("link must be an absolute http(s) URL")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrEntryNotFound  = errors.New("entry not found")
	ErrAlreadyWatched = errors.New("entry already marked as watched")
)

// IsValidation reports whether err was raised before any network call.
func IsValidation(err error) bool {
	return errors.Is(err, ErrTitleRequired) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInvalidLink) ||
		errors.Is(err, ErrInvalidRating)
}
