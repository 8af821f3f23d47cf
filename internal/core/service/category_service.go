package service

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

type CategoryService struct {
	repo ports.CategoryRepository
	log  zerolog.Logger
}

func NewCategoryService(repo ports.CategoryRepository, log zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, log: log}
}

func (s *CategoryService) List(ctx context.Context, filter ports.TermFilter) (*ports.Page[*domain.Category], error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return ports.NewPage(items, total, filter.PageRequest), nil
}

func (s *CategoryService) Create(ctx context.Context, actor domain.Actor, in ports.TermInput) (*domain.Category, error) {
	if err := domain.Check(actor, domain.ActionCreate, domain.ResourceCategory); err != nil {
		return nil, err
	}
	name, sl, err := termFields(in)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Category{Name: name, Slug: sl})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.log.Info().Str("slug", created.Slug).Msg("category created")
	return created, nil
}

// Delete removes the category. Titles that referenced it keep existing with
// no category.
func (s *CategoryService) Delete(ctx context.Context, actor domain.Actor, sl string) error {
	if err := domain.Check(actor, domain.ActionDelete, domain.ResourceCategory); err != nil {
		return err
	}
	c, err := s.repo.FindBySlug(ctx, sl)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.log.Info().Str("slug", c.Slug).Msg("category deleted")
	return nil
}

// termFields validates a category/genre payload and derives the slug from
// the name when none was supplied.
func termFields(in ports.TermInput) (name, sl string, err error) {
	name = cleanText(in.Name)
	if name == "" {
		return "", "", domain.NewValidationError("name", "name is required")
	}
	sl = in.Slug
	if sl == "" {
		sl = slug.Make(name)
	}
	if sl == "" {
		return "", "", domain.NewValidationError("slug", "slug could not be derived from name")
	}
	return name, sl, nil
}
