package ports

import (
	"context"

	"github.com/yamdb/review-api/internal/core/domain"
)

// TermFilter narrows category and genre listings by a name substring.
type TermFilter struct {
	Search string
	PageRequest
}

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context, filter TermFilter) ([]*domain.Category, int64, error)
	// Delete removes the category and clears it from every title that
	// referenced it.
	Delete(ctx context.Context, id int64) error
}

type GenreRepository interface {
	Create(ctx context.Context, g *domain.Genre) (*domain.Genre, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Genre, error)
	List(ctx context.Context, filter TermFilter) ([]*domain.Genre, int64, error)
	// Delete removes the genre and pulls it from every title's genre list.
	Delete(ctx context.Context, id int64) error
}

// TitleFilter carries the title listing filters after slugs have been
// resolved to ids. Nil pointers mean "no filter".
type TitleFilter struct {
	CategoryID *int64
	GenreID    *int64
	Year       *int
	Name       string
	PageRequest
}

// TitleRepository persists titles. Reads populate Category, Genres and the
// derived Rating.
type TitleRepository interface {
	Create(ctx context.Context, t *domain.Title) (*domain.Title, error)
	FindByID(ctx context.Context, id int64) (*domain.Title, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, t *domain.Title) (*domain.Title, error)
	// Delete removes the title, its reviews and their comments.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter TitleFilter) ([]*domain.Title, int64, error)
}
