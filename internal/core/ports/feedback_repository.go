package ports

import (
	"context"

	"github.com/yamdb/review-api/internal/core/domain"
)

// ReviewRepository persists reviews. The (title, author) pair is unique at
// the store level; a second insert fails with *domain.DuplicateError.
type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) (*domain.Review, error)
	FindByID(ctx context.Context, titleID, id int64) (*domain.Review, error)
	ExistsForAuthor(ctx context.Context, titleID, authorID int64) (bool, error)
	Update(ctx context.Context, r *domain.Review) (*domain.Review, error)
	// Delete removes the review and its comments.
	Delete(ctx context.Context, id int64) error
	// List returns the title's reviews newest first.
	List(ctx context.Context, titleID int64, page PageRequest) ([]*domain.Review, int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, reviewID, id int64) (*domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	Delete(ctx context.Context, id int64) error
	// List returns the review's comments newest first.
	List(ctx context.Context, reviewID int64, page PageRequest) ([]*domain.Comment, int64, error)
}
