package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

// stubUserService embeds the interface so tests only implement what they call.
type stubUserService struct {
	ports.UserService
	listFn     func(ctx context.Context, a domain.Actor, f ports.UserFilter) (*ports.Page[*domain.User], error)
	updateFn   func(ctx context.Context, a domain.Actor, username string, p ports.UserPatch) (*domain.User, error)
	updateMeFn func(ctx context.Context, a domain.Actor, p ports.UserPatch) (*domain.User, error)
	meFn       func(ctx context.Context, a domain.Actor) (*domain.User, error)
}

func (s *stubUserService) List(ctx context.Context, a domain.Actor, f ports.UserFilter) (*ports.Page[*domain.User], error) {
	return s.listFn(ctx, a, f)
}

func (s *stubUserService) Update(ctx context.Context, a domain.Actor, username string, p ports.UserPatch) (*domain.User, error) {
	return s.updateFn(ctx, a, username, p)
}

func (s *stubUserService) UpdateMe(ctx context.Context, a domain.Actor, p ports.UserPatch) (*domain.User, error) {
	return s.updateMeFn(ctx, a, p)
}

func (s *stubUserService) Me(ctx context.Context, a domain.Actor) (*domain.User, error) {
	return s.meFn(ctx, a)
}

func (s *stubUserService) DeleteMe(_ context.Context, a domain.Actor) error {
	if !a.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	return domain.ErrMethodNotAllowed
}

func TestUserHandler_List_PassesFilterAndPaginates(t *testing.T) {
	stub := &stubUserService{
		listFn: func(_ context.Context, a domain.Actor, f ports.UserFilter) (*ports.Page[*domain.User], error) {
			if !a.IsAdmin() {
				t.Fatalf("expected admin actor")
			}
			if f.Search != "ali" || f.Page != 2 || f.Limit != 1 {
				t.Fatalf("unexpected filter: %+v", f)
			}
			return ports.NewPage([]*domain.User{plainUser}, 3, f.PageRequest), nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/v1/users?search=ali&page=2&limit=1", "")
	withActor(c, adminUser)

	if err := NewUserHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	data := resp["data"].([]any)
	if len(data) != 1 || data[0].(map[string]any)["username"] != "alice" {
		t.Fatalf("unexpected data: %+v", data)
	}
	pg := resp["pagination"].(map[string]any)
	if pg["total"] != float64(3) || pg["page"] != float64(2) || pg["total_pages"] != float64(3) {
		t.Fatalf("unexpected pagination: %+v", pg)
	}
}

func TestUserHandler_List_RejectsNonNumericPage(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/api/v1/users?page=two", "")
	withActor(c, adminUser)

	err := NewUserHandler(&stubUserService{}).List(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserHandler_Update_MapsPatch(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(_ context.Context, _ domain.Actor, username string, p ports.UserPatch) (*domain.User, error) {
			if username != "alice" {
				t.Fatalf("unexpected username %q", username)
			}
			if p.Role == nil || *p.Role != domain.RoleModerator {
				t.Fatalf("expected role patch, got %+v", p.Role)
			}
			if p.Email != nil || p.Bio == nil || *p.Bio != "hi" {
				t.Fatalf("unexpected patch: %+v", p)
			}
			return &domain.User{Username: "alice", Role: *p.Role, Bio: *p.Bio}, nil
		},
	}
	c, rec := newContext(http.MethodPatch, "/api/v1/users/alice", `{"role":"moderator","bio":"hi"}`, "username", "alice")
	withActor(c, adminUser)

	if err := NewUserHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := decode(t, rec)["role"]; got != "moderator" {
		t.Fatalf("unexpected role: %v", got)
	}
}

func TestUserHandler_Update_RejectsUnknownRole(t *testing.T) {
	c, _ := newContext(http.MethodPatch, "/api/v1/users/alice", `{"role":"owner"}`, "username", "alice")
	withActor(c, adminUser)

	err := NewUserHandler(&stubUserService{}).Update(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "role" {
		t.Fatalf("expected role validation error, got %v", err)
	}
}

func TestUserHandler_Me(t *testing.T) {
	stub := &stubUserService{
		meFn: func(_ context.Context, a domain.Actor) (*domain.User, error) {
			return a.User, nil
		},
		updateMeFn: func(_ context.Context, a domain.Actor, p ports.UserPatch) (*domain.User, error) {
			u := *a.User
			u.FirstName = *p.FirstName
			return &u, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/v1/users/me", "")
	withActor(c, plainUser)
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := decode(t, rec)["username"]; got != "alice" {
		t.Fatalf("unexpected username: %v", got)
	}

	c, rec = newContext(http.MethodPatch, "/api/v1/users/me", `{"first_name":"Alice"}`)
	withActor(c, plainUser)
	if err := h.UpdateMe(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if resp["first_name"] != "Alice" || resp["role"] != "user" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_UpdateMe_IgnoresRole(t *testing.T) {
	stub := &stubUserService{
		updateMeFn: func(_ context.Context, a domain.Actor, p ports.UserPatch) (*domain.User, error) {
			if p.Role != nil {
				t.Fatalf("role must not reach the service, got %q", *p.Role)
			}
			u := *a.User
			u.Bio = *p.Bio
			return &u, nil
		},
	}
	for _, body := range []string{`{"role":"superuser","bio":"x"}`, `{"role":"admin","bio":"x"}`} {
		c, rec := newContext(http.MethodPatch, "/api/v1/users/me", body)
		withActor(c, plainUser)

		if err := NewUserHandler(stub).UpdateMe(c); err != nil {
			t.Fatalf("%s: handler error: %v", body, err)
		}
		resp := decode(t, rec)
		if rec.Code != http.StatusOK || resp["bio"] != "x" || resp["role"] != "user" {
			t.Fatalf("%s: unexpected response %d %+v", body, rec.Code, resp)
		}
	}
}

func TestUserHandler_DeleteMe(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newContext(http.MethodDelete, "/api/v1/users/me", "")
	withActor(c, plainUser)
	if err := h.DeleteMe(c); !errors.Is(err, domain.ErrMethodNotAllowed) {
		t.Fatalf("expected 405 error, got %v", err)
	}

	c, _ = newContext(http.MethodDelete, "/api/v1/users/me", "")
	if err := h.DeleteMe(c); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected not authenticated, got %v", err)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	c, _ := newContext(http.MethodPut, "/api/v1/users/alice", "")
	if err := MethodNotAllowed(c); !errors.Is(err, domain.ErrMethodNotAllowed) {
		t.Fatalf("expected ErrMethodNotAllowed, got %v", err)
	}
}
