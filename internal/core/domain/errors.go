package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrForbidden        = errors.New("you do not have permission to perform this action")
	ErrNotAuthenticated = errors.New("authentication credentials were not provided")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrAlreadyExists    = errors.New("already exists")
)

var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrGenreNotFound    = fmt.Errorf("genre %w", ErrNotFound)
	ErrTitleNotFound    = fmt.Errorf("title %w", ErrNotFound)
	ErrReviewNotFound   = fmt.Errorf("review %w", ErrNotFound)
	ErrCommentNotFound  = fmt.Errorf("comment %w", ErrNotFound)
)

// ValidationError reports a rejected input value. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DuplicateError is returned by stores when a unique key is already taken.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	if e.Field == "" {
		return "record " + ErrAlreadyExists.Error()
	}
	return e.Field + " " + ErrAlreadyExists.Error()
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrAlreadyExists
}
