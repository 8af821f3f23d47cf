package service

import (
	"context"
	"errors"
	"testing"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

func strPtr(s string) *string { return &s }

func TestUserService_AdminOnly(t *testing.T) {
	f := newFixture()
	admin := f.seedUser("root", domain.RoleAdmin)
	plain := f.seedUser("alice", domain.RoleUser)
	mod := f.seedUser("mod", domain.RoleModerator)
	svc := NewUserService(f.users, discardLogger)
	ctx := context.Background()

	if _, err := svc.List(ctx, admin, ports.UserFilter{}); err != nil {
		t.Fatalf("admin list: %v", err)
	}
	for _, actor := range []domain.Actor{plain, mod} {
		if _, err := svc.List(ctx, actor, ports.UserFilter{}); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden for %s, got %v", actor.User.Username, err)
		}
	}
	if _, err := svc.List(ctx, domain.Anonymous(), ports.UserFilter{}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestUserService_StaffFlagGrantsAdmin(t *testing.T) {
	f := newFixture()
	staff := f.seedUser("staff", domain.RoleUser)
	staff.User.IsStaff = true
	svc := NewUserService(f.users, discardLogger)

	if _, err := svc.Get(context.Background(), staff, "staff"); err != nil {
		t.Fatalf("staff user should pass admin checks: %v", err)
	}
}

func TestUserService_ListSearch(t *testing.T) {
	f := newFixture()
	admin := f.seedUser("root", domain.RoleAdmin)
	f.seedUser("alice", domain.RoleUser)
	f.seedUser("alicia", domain.RoleUser)
	f.seedUser("bob", domain.RoleUser)
	svc := NewUserService(f.users, discardLogger)

	page, err := svc.List(context.Background(), admin, ports.UserFilter{Search: "ali"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("expected 2 matches, got %d", page.Total)
	}
	if page.Items[0].Username != "alice" {
		t.Fatalf("expected results ordered by username, got %s first", page.Items[0].Username)
	}
}

func TestUserService_Create(t *testing.T) {
	f := newFixture()
	admin := f.seedUser("root", domain.RoleAdmin)
	svc := NewUserService(f.users, discardLogger)
	ctx := context.Background()

	u, err := svc.Create(ctx, admin, ports.UserInput{Username: "newbie", Email: "newbie@example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", u.Role)
	}
	if u.ConfirmationCode == "" {
		t.Fatalf("expected a confirmation code")
	}

	if _, err := svc.Create(ctx, admin, ports.UserInput{Username: "me", Email: "me@example.com"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for reserved name, got %v", err)
	}
	if _, err := svc.Create(ctx, admin, ports.UserInput{Username: "x", Email: "x@example.com", Role: "overlord"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for bad role, got %v", err)
	}
	if _, err := svc.Create(ctx, admin, ports.UserInput{Username: "newbie", Email: "other@example.com"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestUserService_UpdateByAdminChangesRole(t *testing.T) {
	f := newFixture()
	admin := f.seedUser("root", domain.RoleAdmin)
	f.seedUser("alice", domain.RoleUser)
	svc := NewUserService(f.users, discardLogger)

	role := domain.RoleModerator
	u, err := svc.Update(context.Background(), admin, "alice", ports.UserPatch{Role: &role, Bio: strPtr("hi")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if u.Role != domain.RoleModerator || u.Bio != "hi" {
		t.Fatalf("patch not applied: %+v", u)
	}
}

func TestUserService_RenameToReservedFails(t *testing.T) {
	f := newFixture()
	admin := f.seedUser("root", domain.RoleAdmin)
	alice := f.seedUser("alice", domain.RoleUser)
	svc := NewUserService(f.users, discardLogger)
	ctx := context.Background()

	if _, err := svc.Update(ctx, admin, "alice", ports.UserPatch{Username: strPtr("me")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.UpdateMe(ctx, alice, ports.UserPatch{Username: strPtr("me")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserService_UpdateMeKeepsRole(t *testing.T) {
	f := newFixture()
	alice := f.seedUser("alice", domain.RoleUser)
	svc := NewUserService(f.users, discardLogger)

	role := domain.RoleAdmin
	u, err := svc.UpdateMe(context.Background(), alice, ports.UserPatch{Role: &role, FirstName: strPtr("Alice")})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if u.Role != domain.RoleUser {
		t.Fatalf("role must stay user, got %s", u.Role)
	}
	if u.FirstName != "Alice" {
		t.Fatalf("expected first name to change, got %q", u.FirstName)
	}
}

func TestUserService_Me(t *testing.T) {
	f := newFixture()
	alice := f.seedUser("alice", domain.RoleUser)
	svc := NewUserService(f.users, discardLogger)
	ctx := context.Background()

	u, err := svc.Me(ctx, alice)
	if err != nil || u.Username != "alice" {
		t.Fatalf("Me: %v %+v", err, u)
	}
	if _, err := svc.Me(ctx, domain.Anonymous()); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestUserService_DeleteMeNotAllowed(t *testing.T) {
	f := newFixture()
	alice := f.seedUser("alice", domain.RoleUser)
	admin := f.seedUser("root", domain.RoleAdmin)
	svc := NewUserService(f.users, discardLogger)
	ctx := context.Background()

	for _, actor := range []domain.Actor{alice, admin} {
		if err := svc.DeleteMe(ctx, actor); !errors.Is(err, domain.ErrMethodNotAllowed) {
			t.Fatalf("expected ErrMethodNotAllowed for %s, got %v", actor.User.Username, err)
		}
	}
	if _, err := f.users.FindByUsername(ctx, "alice"); err != nil {
		t.Fatalf("user must survive DELETE /me: %v", err)
	}
}

func TestUserService_DeleteCascadesAuthoredContent(t *testing.T) {
	f := newFixture()
	admin := f.seedUser("root", domain.RoleAdmin)
	alice := f.seedUser("alice", domain.RoleUser)
	bob := f.seedUser("bob", domain.RoleUser)
	title := f.seedTitle("Dune")
	reviews := NewReviewService(f.reviews, f.titles, discardLogger)
	comments := NewCommentService(f.comments, f.reviews, discardLogger)
	svc := NewUserService(f.users, discardLogger)
	ctx := context.Background()

	r, err := reviews.Create(ctx, alice, title.ID, ports.ReviewInput{Text: "great", Score: 9})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if _, err := comments.Create(ctx, bob, ports.CommentRef{TitleID: title.ID, ReviewID: r.ID}, "agreed"); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	if err := svc.Delete(ctx, admin, "alice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := reviews.Get(ctx, title.ID, r.ID); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("expected review to be gone, got %v", err)
	}
	if len(f.store.comments) != 0 {
		t.Fatalf("expected comments on the review to be gone, got %d", len(f.store.comments))
	}
	if err := svc.Delete(ctx, admin, "alice"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}
