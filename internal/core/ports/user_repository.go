package ports

import (
	"context"

	"github.com/yamdb/review-api/internal/core/domain"
)

// UserFilter narrows user listings. Search is a case-insensitive substring
// match on the username.
type UserFilter struct {
	Search string
	PageRequest
}

// UserRepository defines persistence for accounts. Username and email are
// unique at the store level; violations come back as *domain.DuplicateError.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// Delete removes the account together with its reviews and comments.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
}
