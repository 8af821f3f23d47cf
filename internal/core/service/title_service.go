package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

type TitleService struct {
	titles     ports.TitleRepository
	categories ports.CategoryRepository
	genres     ports.GenreRepository
	log        zerolog.Logger
	now        func() time.Time
}

func NewTitleService(
	titles ports.TitleRepository,
	categories ports.CategoryRepository,
	genres ports.GenreRepository,
	log zerolog.Logger,
) *TitleService {
	return &TitleService{
		titles:     titles,
		categories: categories,
		genres:     genres,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// List returns titles ordered by name. Filtering by an unknown category or
// genre slug yields an empty page rather than an error.
func (s *TitleService) List(ctx context.Context, q ports.TitleQuery) (*ports.Page[*domain.Title], error) {
	page := q.PageRequest.Normalize()
	filter := ports.TitleFilter{Year: q.Year, Name: q.Name, PageRequest: page}

	if q.Category != "" {
		c, err := s.categories.FindBySlug(ctx, q.Category)
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return ports.NewPage[*domain.Title](nil, 0, page), nil
		}
		if err != nil {
			return nil, fmt.Errorf("list titles: %w", err)
		}
		filter.CategoryID = &c.ID
	}
	if q.Genre != "" {
		g, err := s.genres.FindBySlug(ctx, q.Genre)
		if errors.Is(err, domain.ErrGenreNotFound) {
			return ports.NewPage[*domain.Title](nil, 0, page), nil
		}
		if err != nil {
			return nil, fmt.Errorf("list titles: %w", err)
		}
		filter.GenreID = &g.ID
	}

	items, total, err := s.titles.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	return ports.NewPage(items, total, page), nil
}

func (s *TitleService) Get(ctx context.Context, id int64) (*domain.Title, error) {
	return s.titles.FindByID(ctx, id)
}

func (s *TitleService) Create(ctx context.Context, actor domain.Actor, in ports.TitleInput) (*domain.Title, error) {
	if err := domain.Check(actor, domain.ActionCreate, domain.ResourceTitle); err != nil {
		return nil, err
	}

	t := &domain.Title{
		Name:        cleanText(in.Name),
		Year:        in.Year,
		Description: cleanText(in.Description),
	}
	if err := s.validate(t); err != nil {
		return nil, err
	}

	var err error
	if t.Category, err = s.resolveCategory(ctx, in.Category); err != nil {
		return nil, err
	}
	if t.Genres, err = s.resolveGenres(ctx, in.Genres); err != nil {
		return nil, err
	}

	created, err := s.titles.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create title: %w", err)
	}
	s.log.Info().Int64("title_id", created.ID).Str("name", created.Name).Msg("title created")
	return created, nil
}

func (s *TitleService) Update(ctx context.Context, actor domain.Actor, id int64, patch ports.TitlePatch) (*domain.Title, error) {
	if err := domain.Check(actor, domain.ActionUpdate, domain.ResourceTitle); err != nil {
		return nil, err
	}
	t, err := s.titles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		t.Name = cleanText(*patch.Name)
	}
	if patch.Year != nil {
		t.Year = *patch.Year
	}
	if patch.Description != nil {
		t.Description = cleanText(*patch.Description)
	}
	if err := s.validate(t); err != nil {
		return nil, err
	}
	if patch.Category != nil {
		if t.Category, err = s.resolveCategory(ctx, *patch.Category); err != nil {
			return nil, err
		}
	}
	if patch.Genres != nil {
		if t.Genres, err = s.resolveGenres(ctx, *patch.Genres); err != nil {
			return nil, err
		}
	}

	updated, err := s.titles.Update(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("update title: %w", err)
	}
	return updated, nil
}

// Delete removes the title together with its reviews and their comments.
func (s *TitleService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if err := domain.Check(actor, domain.ActionDelete, domain.ResourceTitle); err != nil {
		return err
	}
	ok, err := s.titles.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}
	if !ok {
		return domain.ErrTitleNotFound
	}
	if err := s.titles.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete title: %w", err)
	}
	s.log.Info().Int64("title_id", id).Msg("title deleted")
	return nil
}

func (s *TitleService) validate(t *domain.Title) error {
	if t.Name == "" {
		return domain.NewValidationError("name", "name is required")
	}
	return domain.ValidateYear(t.Year, s.now())
}

func (s *TitleService) resolveCategory(ctx context.Context, sl string) (*domain.Category, error) {
	if sl == "" {
		return nil, nil
	}
	c, err := s.categories.FindBySlug(ctx, sl)
	if errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, domain.NewValidationError("category", fmt.Sprintf("category with slug %q does not exist", sl))
	}
	return c, err
}

func (s *TitleService) resolveGenres(ctx context.Context, slugs []string) ([]domain.Genre, error) {
	out := make([]domain.Genre, 0, len(slugs))
	seen := make(map[string]struct{}, len(slugs))
	for _, sl := range slugs {
		if _, dup := seen[sl]; dup {
			continue
		}
		seen[sl] = struct{}{}

		g, err := s.genres.FindBySlug(ctx, sl)
		if errors.Is(err, domain.ErrGenreNotFound) {
			return nil, domain.NewValidationError("genre", fmt.Sprintf("genre with slug %q does not exist", sl))
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, nil
}
