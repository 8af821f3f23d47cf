package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

type GenreService struct {
	repo ports.GenreRepository
	log  zerolog.Logger
}

func NewGenreService(repo ports.GenreRepository, log zerolog.Logger) *GenreService {
	return &GenreService{repo: repo, log: log}
}

func (s *GenreService) List(ctx context.Context, filter ports.TermFilter) (*ports.Page[*domain.Genre], error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return ports.NewPage(items, total, filter.PageRequest), nil
}

func (s *GenreService) Create(ctx context.Context, actor domain.Actor, in ports.TermInput) (*domain.Genre, error) {
	if err := domain.Check(actor, domain.ActionCreate, domain.ResourceGenre); err != nil {
		return nil, err
	}
	name, sl, err := termFields(in)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Genre{Name: name, Slug: sl})
	if err != nil {
		return nil, fmt.Errorf("create genre: %w", err)
	}
	s.log.Info().Str("slug", created.Slug).Msg("genre created")
	return created, nil
}

func (s *GenreService) Delete(ctx context.Context, actor domain.Actor, sl string) error {
	if err := domain.Check(actor, domain.ActionDelete, domain.ResourceGenre); err != nil {
		return err
	}
	g, err := s.repo.FindBySlug(ctx, sl)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, g.ID); err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	s.log.Info().Str("slug", g.Slug).Msg("genre deleted")
	return nil
}
