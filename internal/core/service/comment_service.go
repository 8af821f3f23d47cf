package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
	"github.com/yamdb/review-api/pkg/metrics"
)

type CommentService struct {
	comments ports.CommentRepository
	reviews  ports.ReviewRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewCommentService(comments ports.CommentRepository, reviews ports.ReviewRepository, log zerolog.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		reviews:  reviews,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *CommentService) List(ctx context.Context, ref ports.CommentRef, page ports.PageRequest) (*ports.Page[*domain.Comment], error) {
	if _, err := s.reviews.FindByID(ctx, ref.TitleID, ref.ReviewID); err != nil {
		return nil, err
	}
	page = page.Normalize()
	items, total, err := s.comments.List(ctx, ref.ReviewID, page)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return ports.NewPage(items, total, page), nil
}

func (s *CommentService) Get(ctx context.Context, ref ports.CommentRef, id int64) (*domain.Comment, error) {
	if _, err := s.reviews.FindByID(ctx, ref.TitleID, ref.ReviewID); err != nil {
		return nil, err
	}
	return s.comments.FindByID(ctx, ref.ReviewID, id)
}

func (s *CommentService) Create(ctx context.Context, actor domain.Actor, ref ports.CommentRef, text string) (*domain.Comment, error) {
	if err := domain.Authorize(actor, domain.ActionCreate, domain.ResourceComment, nil); err != nil {
		return nil, err
	}
	if _, err := s.reviews.FindByID(ctx, ref.TitleID, ref.ReviewID); err != nil {
		return nil, err
	}
	text = cleanText(text)
	if text == "" {
		return nil, domain.NewValidationError("text", "text is required")
	}

	created, err := s.comments.Create(ctx, &domain.Comment{
		ReviewID: ref.ReviewID,
		AuthorID: actor.User.ID,
		Author:   actor.User.Username,
		Text:     text,
		PubDate:  s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	metrics.CommentsCreatedTotal.Inc()
	return created, nil
}

func (s *CommentService) Update(ctx context.Context, actor domain.Actor, ref ports.CommentRef, id int64, text *string) (*domain.Comment, error) {
	c, err := s.loadForWrite(ctx, actor, domain.ActionUpdate, ref, id)
	if err != nil {
		return nil, err
	}
	if text != nil {
		cleaned := cleanText(*text)
		if cleaned == "" {
			return nil, domain.NewValidationError("text", "text may not be blank")
		}
		c.Text = cleaned
	}

	updated, err := s.comments.Update(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, actor domain.Actor, ref ports.CommentRef, id int64) error {
	c, err := s.loadForWrite(ctx, actor, domain.ActionDelete, ref, id)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *CommentService) loadForWrite(ctx context.Context, actor domain.Actor, act domain.Action, ref ports.CommentRef, id int64) (*domain.Comment, error) {
	if err := domain.Check(actor, act, domain.ResourceComment); err != nil {
		return nil, err
	}
	if _, err := s.reviews.FindByID(ctx, ref.TitleID, ref.ReviewID); err != nil {
		return nil, err
	}
	c, err := s.comments.FindByID(ctx, ref.ReviewID, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actor, act, domain.ResourceComment, c); err != nil {
		return nil, err
	}
	return c, nil
}
