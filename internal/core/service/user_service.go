package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

// UserService implements the administrative user endpoints and the /me
// self-service endpoints.
type UserService struct {
	users ports.UserRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewUserService(users ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{
		users: users,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) List(ctx context.Context, actor domain.Actor, filter ports.UserFilter) (*ports.Page[*domain.User], error) {
	if err := domain.Check(actor, domain.ActionRead, domain.ResourceUser); err != nil {
		return nil, err
	}
	filter.PageRequest = filter.PageRequest.Normalize()

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ports.NewPage(users, total, filter.PageRequest), nil
}

// Create registers an account on behalf of an admin. The account receives a
// confirmation code like a self-signup, but no mail is sent.
func (s *UserService) Create(ctx context.Context, actor domain.Actor, in ports.UserInput) (*domain.User, error) {
	if err := domain.Check(actor, domain.ActionCreate, domain.ResourceUser); err != nil {
		return nil, err
	}
	if err := domain.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if err := domain.ValidateRole(role); err != nil {
		return nil, err
	}

	now := s.now()
	created, err := s.users.Create(ctx, &domain.User{
		Username:         in.Username,
		Email:            in.Email,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Bio:              in.Bio,
		Role:             role,
		ConfirmationCode: newConfirmationCode(),
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().
		Str("username", created.Username).
		Str("role", string(created.Role)).
		Str("by", actor.User.Username).
		Msg("user created")
	return created, nil
}

func (s *UserService) Get(ctx context.Context, actor domain.Actor, username string) (*domain.User, error) {
	if err := domain.Check(actor, domain.ActionRead, domain.ResourceUser); err != nil {
		return nil, err
	}
	return s.users.FindByUsername(ctx, username)
}

func (s *UserService) Update(ctx context.Context, actor domain.Actor, username string, patch ports.UserPatch) (*domain.User, error) {
	if err := domain.Check(actor, domain.ActionUpdate, domain.ResourceUser); err != nil {
		return nil, err
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, patch)
}

func (s *UserService) Delete(ctx context.Context, actor domain.Actor, username string) error {
	if err := domain.Check(actor, domain.ActionDelete, domain.ResourceUser); err != nil {
		return err
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info().Str("username", user.Username).Str("by", actor.User.Username).Msg("user deleted")
	return nil
}

func (s *UserService) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	if err := domain.Check(actor, domain.ActionRead, domain.ResourceSelf); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, actor.User.ID)
}

func (s *UserService) UpdateMe(ctx context.Context, actor domain.Actor, patch ports.UserPatch) (*domain.User, error) {
	if err := domain.Check(actor, domain.ActionUpdate, domain.ResourceSelf); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, actor.User.ID)
	if err != nil {
		return nil, err
	}
	// Role is pinned on self-service updates.
	patch.Role = nil
	return s.apply(ctx, user, patch)
}

func (s *UserService) DeleteMe(_ context.Context, actor domain.Actor) error {
	return domain.Check(actor, domain.ActionDelete, domain.ResourceSelf)
}

func (s *UserService) apply(ctx context.Context, user *domain.User, patch ports.UserPatch) (*domain.User, error) {
	if patch.Username != nil {
		if err := domain.ValidateUsername(*patch.Username); err != nil {
			return nil, err
		}
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Role != nil {
		if err := domain.ValidateRole(*patch.Role); err != nil {
			return nil, err
		}
		user.Role = *patch.Role
	}
	user.UpdatedAt = s.now()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}
