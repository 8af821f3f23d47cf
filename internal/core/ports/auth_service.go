package ports

import (
	"context"
)

// SignupInput is the self-registration payload.
type SignupInput struct {
	Username string
	Email    string
}

// SignupResult echoes the stored identity. For an idempotent repeat signup
// Email is the address on file.
type SignupResult struct {
	Username string
	Email    string
	// Existing is true when the username was already registered.
	Existing bool
}

// AuthService covers signup and the confirmation-code token exchange.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*SignupResult, error)
	IssueToken(ctx context.Context, username, confirmationCode string) (string, error)
}
