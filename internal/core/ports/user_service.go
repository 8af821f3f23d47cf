package ports

import (
	"context"

	"github.com/yamdb/review-api/internal/core/domain"
)

// UserInput is the administrative create payload.
type UserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      domain.Role
}

// UserPatch is a partial update; nil fields are left untouched.
type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *domain.Role
}

// UserService covers the administrative and self-service user endpoints.
type UserService interface {
	List(ctx context.Context, actor domain.Actor, filter UserFilter) (*Page[*domain.User], error)
	Create(ctx context.Context, actor domain.Actor, in UserInput) (*domain.User, error)
	Get(ctx context.Context, actor domain.Actor, username string) (*domain.User, error)
	Update(ctx context.Context, actor domain.Actor, username string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Actor, username string) error

	Me(ctx context.Context, actor domain.Actor) (*domain.User, error)
	// UpdateMe applies patch to the actor's own record. Role is always
	// ignored.
	UpdateMe(ctx context.Context, actor domain.Actor, patch UserPatch) (*domain.User, error)
	// DeleteMe always fails with domain.ErrMethodNotAllowed for an
	// authenticated actor.
	DeleteMe(ctx context.Context, actor domain.Actor) error
}
