package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
	"github.com/yamdb/review-api/pkg/metrics"
)

type ReviewService struct {
	reviews ports.ReviewRepository
	titles  ports.TitleRepository
	log     zerolog.Logger
	now     func() time.Time
}

func NewReviewService(reviews ports.ReviewRepository, titles ports.TitleRepository, log zerolog.Logger) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		titles:  titles,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *ReviewService) List(ctx context.Context, titleID int64, page ports.PageRequest) (*ports.Page[*domain.Review], error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	page = page.Normalize()
	items, total, err := s.reviews.List(ctx, titleID, page)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return ports.NewPage(items, total, page), nil
}

func (s *ReviewService) Get(ctx context.Context, titleID, id int64) (*domain.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	return s.reviews.FindByID(ctx, titleID, id)
}

// Create posts the actor's review of a title. Each author may review a
// title once; the store's unique index backs the pre-check.
func (s *ReviewService) Create(ctx context.Context, actor domain.Actor, titleID int64, in ports.ReviewInput) (*domain.Review, error) {
	if err := domain.Authorize(actor, domain.ActionCreate, domain.ResourceReview, nil); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if err := domain.ValidateScore(in.Score); err != nil {
		return nil, err
	}
	text := cleanText(in.Text)
	if text == "" {
		return nil, domain.NewValidationError("text", "text is required")
	}

	exists, err := s.reviews.ExistsForAuthor(ctx, titleID, actor.User.ID)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateReview
	}

	created, err := s.reviews.Create(ctx, &domain.Review{
		TitleID:  titleID,
		AuthorID: actor.User.ID,
		Author:   actor.User.Username,
		Text:     text,
		Score:    in.Score,
		PubDate:  s.now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrDuplicateReview
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	metrics.ReviewsCreatedTotal.Inc()
	s.log.Info().
		Int64("review_id", created.ID).
		Int64("title_id", titleID).
		Str("author", actor.User.Username).
		Int("score", created.Score).
		Msg("review created")
	return created, nil
}

func (s *ReviewService) Update(ctx context.Context, actor domain.Actor, titleID, id int64, patch ports.ReviewPatch) (*domain.Review, error) {
	r, err := s.loadForWrite(ctx, actor, domain.ActionUpdate, titleID, id)
	if err != nil {
		return nil, err
	}
	if patch.Score != nil {
		if err := domain.ValidateScore(*patch.Score); err != nil {
			return nil, err
		}
		r.Score = *patch.Score
	}
	if patch.Text != nil {
		text := cleanText(*patch.Text)
		if text == "" {
			return nil, domain.NewValidationError("text", "text may not be blank")
		}
		r.Text = text
	}

	updated, err := s.reviews.Update(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return updated, nil
}

// Delete removes the review and its comment thread.
func (s *ReviewService) Delete(ctx context.Context, actor domain.Actor, titleID, id int64) error {
	r, err := s.loadForWrite(ctx, actor, domain.ActionDelete, titleID, id)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, r.ID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	s.log.Info().Int64("review_id", r.ID).Str("by", actor.User.Username).Msg("review deleted")
	return nil
}

// loadForWrite rejects callers that can never write before loading the
// review, then applies the ownership check.
func (s *ReviewService) loadForWrite(ctx context.Context, actor domain.Actor, act domain.Action, titleID, id int64) (*domain.Review, error) {
	if err := domain.Check(actor, act, domain.ResourceReview); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	r, err := s.reviews.FindByID(ctx, titleID, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actor, act, domain.ResourceReview, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) requireTitle(ctx context.Context, titleID int64) error {
	ok, err := s.titles.Exists(ctx, titleID)
	if err != nil {
		return fmt.Errorf("lookup title: %w", err)
	}
	if !ok {
		return domain.ErrTitleNotFound
	}
	return nil
}
