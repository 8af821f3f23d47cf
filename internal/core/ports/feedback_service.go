package ports

import (
	"context"

	"github.com/yamdb/review-api/internal/core/domain"
)

type ReviewInput struct {
	Text  string
	Score int
}

type ReviewPatch struct {
	Text  *string
	Score *int
}

// ReviewService manages reviews scoped to a title.
type ReviewService interface {
	List(ctx context.Context, titleID int64, page PageRequest) (*Page[*domain.Review], error)
	Get(ctx context.Context, titleID, id int64) (*domain.Review, error)
	Create(ctx context.Context, actor domain.Actor, titleID int64, in ReviewInput) (*domain.Review, error)
	Update(ctx context.Context, actor domain.Actor, titleID, id int64, patch ReviewPatch) (*domain.Review, error)
	Delete(ctx context.Context, actor domain.Actor, titleID, id int64) error
}

// CommentRef addresses the review a comment thread hangs off.
type CommentRef struct {
	TitleID  int64
	ReviewID int64
}

type CommentService interface {
	List(ctx context.Context, ref CommentRef, page PageRequest) (*Page[*domain.Comment], error)
	Get(ctx context.Context, ref CommentRef, id int64) (*domain.Comment, error)
	Create(ctx context.Context, actor domain.Actor, ref CommentRef, text string) (*domain.Comment, error)
	Update(ctx context.Context, actor domain.Actor, ref CommentRef, id int64, text *string) (*domain.Comment, error)
	Delete(ctx context.Context, actor domain.Actor, ref CommentRef, id int64) error
}
