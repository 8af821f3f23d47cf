package domain

import (
	"fmt"
	"time"
)

// ValidateUsername rejects the reserved self-reference name. Format and
// length are enforced at the transport boundary and by the store.
func ValidateUsername(username string) error {
	if username == ReservedUsername {
		return NewValidationError("username", fmt.Sprintf("%q cannot be used as a username", ReservedUsername))
	}
	return nil
}

// ValidateScore enforces the closed range [MinScore, MaxScore].
func ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return NewValidationError("score", fmt.Sprintf("score must be between %d and %d", MinScore, MaxScore))
	}
	return nil
}

// ValidateYear rejects release years in the future relative to now.
func ValidateYear(year int, now time.Time) error {
	if year > now.Year() {
		return NewValidationError("year", "year cannot be in the future")
	}
	return nil
}

// ValidateRole rejects unknown role names.
func ValidateRole(r Role) error {
	if !r.Valid() {
		return NewValidationError("role", fmt.Sprintf("%q is not a valid role", r))
	}
	return nil
}

// ErrDuplicateReview is returned when an author reviews the same title twice.
var ErrDuplicateReview = NewValidationError("", "only one review per title is allowed")
