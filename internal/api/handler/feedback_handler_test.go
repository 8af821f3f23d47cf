package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

type stubReviewService struct {
	ports.ReviewService
	listFn   func(ctx context.Context, titleID int64, page ports.PageRequest) (*ports.Page[*domain.Review], error)
	createFn func(ctx context.Context, a domain.Actor, titleID int64, in ports.ReviewInput) (*domain.Review, error)
	updateFn func(ctx context.Context, a domain.Actor, titleID, id int64, p ports.ReviewPatch) (*domain.Review, error)
	deleteFn func(ctx context.Context, a domain.Actor, titleID, id int64) error
}

func (s *stubReviewService) List(ctx context.Context, titleID int64, page ports.PageRequest) (*ports.Page[*domain.Review], error) {
	return s.listFn(ctx, titleID, page)
}

func (s *stubReviewService) Create(ctx context.Context, a domain.Actor, titleID int64, in ports.ReviewInput) (*domain.Review, error) {
	return s.createFn(ctx, a, titleID, in)
}

func (s *stubReviewService) Update(ctx context.Context, a domain.Actor, titleID, id int64, p ports.ReviewPatch) (*domain.Review, error) {
	return s.updateFn(ctx, a, titleID, id, p)
}

func (s *stubReviewService) Delete(ctx context.Context, a domain.Actor, titleID, id int64) error {
	return s.deleteFn(ctx, a, titleID, id)
}

type stubCommentService struct {
	ports.CommentService
	createFn func(ctx context.Context, a domain.Actor, ref ports.CommentRef, text string) (*domain.Comment, error)
	updateFn func(ctx context.Context, a domain.Actor, ref ports.CommentRef, id int64, text *string) (*domain.Comment, error)
	getFn    func(ctx context.Context, ref ports.CommentRef, id int64) (*domain.Comment, error)
}

func (s *stubCommentService) Create(ctx context.Context, a domain.Actor, ref ports.CommentRef, text string) (*domain.Comment, error) {
	return s.createFn(ctx, a, ref, text)
}

func (s *stubCommentService) Update(ctx context.Context, a domain.Actor, ref ports.CommentRef, id int64, text *string) (*domain.Comment, error) {
	return s.updateFn(ctx, a, ref, id, text)
}

func (s *stubCommentService) Get(ctx context.Context, ref ports.CommentRef, id int64) (*domain.Comment, error) {
	return s.getFn(ctx, ref, id)
}

var pubDate = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestReviewHandler_Create(t *testing.T) {
	stub := &stubReviewService{
		createFn: func(_ context.Context, a domain.Actor, titleID int64, in ports.ReviewInput) (*domain.Review, error) {
			if titleID != 7 || in.Score != 9 || in.Text != "great" {
				t.Fatalf("unexpected call: %d %+v", titleID, in)
			}
			return &domain.Review{ID: 1, TitleID: titleID, Author: a.User.Username, Text: in.Text, Score: in.Score, PubDate: pubDate}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/v1/titles/7/reviews", `{"text":"great","score":9}`, "title_id", "7")
	withActor(c, plainUser)

	if err := NewReviewHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp["author"] != "alice" || resp["score"] != float64(9) || resp["pub_date"] != "2024-06-01T12:00:00Z" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestReviewHandler_Create_ScoreLeftToService(t *testing.T) {
	var got int
	stub := &stubReviewService{
		createFn: func(_ context.Context, _ domain.Actor, _ int64, in ports.ReviewInput) (*domain.Review, error) {
			got = in.Score
			return nil, domain.ValidateScore(in.Score)
		},
	}
	c, _ := newContext(http.MethodPost, "/api/v1/titles/7/reviews", `{"text":"meh"}`, "title_id", "7")
	withActor(c, plainUser)

	err := NewReviewHandler(stub).Create(c)
	if !errors.Is(err, domain.ErrValidation) || got != 0 {
		t.Fatalf("expected score validation error, got %v (score %d)", err, got)
	}
}

func TestReviewHandler_List(t *testing.T) {
	stub := &stubReviewService{
		listFn: func(_ context.Context, titleID int64, page ports.PageRequest) (*ports.Page[*domain.Review], error) {
			if titleID != 7 || page.Limit != 5 {
				t.Fatalf("unexpected call: %d %+v", titleID, page)
			}
			items := []*domain.Review{{ID: 2, Author: "bob", Score: 6, PubDate: pubDate}, {ID: 1, Author: "alice", Score: 10, PubDate: pubDate}}
			return ports.NewPage(items, 2, page), nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/v1/titles/7/reviews?limit=5", "", "title_id", "7")

	if err := NewReviewHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data := decode(t, rec)["data"].([]any)
	if len(data) != 2 || data[0].(map[string]any)["id"] != float64(2) {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestReviewHandler_UpdateAndDelete(t *testing.T) {
	var deleted [2]int64
	stub := &stubReviewService{
		updateFn: func(_ context.Context, _ domain.Actor, titleID, id int64, p ports.ReviewPatch) (*domain.Review, error) {
			if p.Text != nil || p.Score == nil || *p.Score != 4 {
				t.Fatalf("unexpected patch: %+v", p)
			}
			return &domain.Review{ID: id, TitleID: titleID, Score: *p.Score}, nil
		},
		deleteFn: func(_ context.Context, _ domain.Actor, titleID, id int64) error {
			deleted = [2]int64{titleID, id}
			return nil
		},
	}
	h := NewReviewHandler(stub)

	c, rec := newContext(http.MethodPatch, "/api/v1/titles/7/reviews/3", `{"score":4}`, "title_id", "7", "id", "3")
	withActor(c, plainUser)
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := decode(t, rec)["score"]; got != float64(4) {
		t.Fatalf("unexpected score: %v", got)
	}

	c, rec = newContext(http.MethodDelete, "/api/v1/titles/7/reviews/3", "", "title_id", "7", "id", "3")
	withActor(c, plainUser)
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || deleted != [2]int64{7, 3} {
		t.Fatalf("expected 204 deleting 7/3, got %d %v", rec.Code, deleted)
	}
}

func TestCommentHandler_Create(t *testing.T) {
	stub := &stubCommentService{
		createFn: func(_ context.Context, a domain.Actor, ref ports.CommentRef, text string) (*domain.Comment, error) {
			if ref != (ports.CommentRef{TitleID: 7, ReviewID: 3}) || text != "agreed" {
				t.Fatalf("unexpected call: %+v %q", ref, text)
			}
			return &domain.Comment{ID: 11, ReviewID: 3, Author: a.User.Username, Text: text, PubDate: pubDate}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/v1/titles/7/reviews/3/comments", `{"text":"agreed"}`, "title_id", "7", "review_id", "3")
	withActor(c, plainUser)

	if err := NewCommentHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if resp["id"] != float64(11) || resp["author"] != "alice" || resp["text"] != "agreed" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["score"]; ok {
		t.Fatalf("comments carry no score: %+v", resp)
	}
}

func TestCommentHandler_Create_RequiresText(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/v1/titles/7/reviews/3/comments", `{}`, "title_id", "7", "review_id", "3")
	withActor(c, plainUser)

	var ve *domain.ValidationError
	if err := NewCommentHandler(&stubCommentService{}).Create(c); !errors.As(err, &ve) || ve.Field != "text" {
		t.Fatalf("expected text validation error, got %v", err)
	}
}

func TestCommentHandler_Update(t *testing.T) {
	stub := &stubCommentService{
		updateFn: func(_ context.Context, _ domain.Actor, _ ports.CommentRef, id int64, text *string) (*domain.Comment, error) {
			return nil, domain.ErrForbidden
		},
	}
	c, _ := newContext(http.MethodPatch, "/api/v1/titles/7/reviews/3/comments/11", `{"text":"edit"}`,
		"title_id", "7", "review_id", "3", "id", "11")
	withActor(c, plainUser)

	if err := NewCommentHandler(stub).Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCommentHandler_Get_ScopedToPath(t *testing.T) {
	stub := &stubCommentService{
		getFn: func(_ context.Context, ref ports.CommentRef, id int64) (*domain.Comment, error) {
			if ref.ReviewID != 3 {
				return nil, domain.ErrReviewNotFound
			}
			return &domain.Comment{ID: id, Text: "hi", PubDate: pubDate}, nil
		},
	}
	h := NewCommentHandler(stub)

	c, rec := newContext(http.MethodGet, "/", "", "title_id", "7", "review_id", "3", "id", "11")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := decode(t, rec)["text"]; got != "hi" {
		t.Fatalf("unexpected text: %v", got)
	}

	c, _ = newContext(http.MethodGet, "/", "", "title_id", "7", "review_id", "4", "id", "11")
	if err := h.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
