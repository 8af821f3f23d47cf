package ports

import (
	"context"

	"github.com/yamdb/review-api/internal/core/domain"
)

// TermInput creates a category or genre. An empty Slug is derived from Name.
type TermInput struct {
	Name string
	Slug string
}

type CategoryService interface {
	List(ctx context.Context, filter TermFilter) (*Page[*domain.Category], error)
	Create(ctx context.Context, actor domain.Actor, in TermInput) (*domain.Category, error)
	Delete(ctx context.Context, actor domain.Actor, slug string) error
}

type GenreService interface {
	List(ctx context.Context, filter TermFilter) (*Page[*domain.Genre], error)
	Create(ctx context.Context, actor domain.Actor, in TermInput) (*domain.Genre, error)
	Delete(ctx context.Context, actor domain.Actor, slug string) error
}

// TitleQuery carries listing filters as received from the client.
type TitleQuery struct {
	Category string
	Genre    string
	Year     *int
	Name     string
	PageRequest
}

// TitleInput creates a title. Category and Genres are slugs.
type TitleInput struct {
	Name        string
	Year        int
	Description string
	Category    string
	Genres      []string
}

// TitlePatch is a partial update. A non-nil Category pointing at "" clears
// the category.
type TitlePatch struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

type TitleService interface {
	List(ctx context.Context, q TitleQuery) (*Page[*domain.Title], error)
	Get(ctx context.Context, id int64) (*domain.Title, error)
	Create(ctx context.Context, actor domain.Actor, in TitleInput) (*domain.Title, error)
	Update(ctx context.Context, actor domain.Actor, id int64, patch TitlePatch) (*domain.Title, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
}
