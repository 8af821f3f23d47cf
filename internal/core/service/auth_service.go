package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
	"github.com/yamdb/review-api/pkg/metrics"
)

const confirmationSubject = "confirmation_code"

// AuthService implements signup and the confirmation-code token exchange.
type AuthService struct {
	users     ports.UserRepository
	mail      ports.MailQueue
	throttle  ports.MailThrottle
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	mail ports.MailQueue,
	throttle ports.MailThrottle,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		mail:      mail,
		throttle:  throttle,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Signup registers a new account and mails its confirmation code. A repeat
// signup for an existing username is idempotent as long as the email (when
// given) matches the one on file; the stored code is mailed again.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
	if err := domain.ValidateUsername(in.Username); err != nil {
		metrics.SignupsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	if in.Username == "" {
		metrics.SignupsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.NewValidationError("username", "username is required")
	}

	existing, err := s.users.FindByUsername(ctx, in.Username)
	switch {
	case err == nil:
		if in.Email != "" && existing.Email != in.Email {
			metrics.SignupsTotal.WithLabelValues("rejected").Inc()
			return nil, domain.NewValidationError("email", "email does not match the registered address")
		}
		s.sendConfirmation(ctx, existing)
		metrics.SignupsTotal.WithLabelValues("existing").Inc()
		return &ports.SignupResult{Username: existing.Username, Email: existing.Email, Existing: true}, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("signup: %w", err)
	}

	if in.Email == "" {
		metrics.SignupsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.NewValidationError("email", "email is required")
	}

	now := s.now()
	created, err := s.users.Create(ctx, &domain.User{
		Username:         in.Username,
		Email:            in.Email,
		Role:             domain.RoleUser,
		ConfirmationCode: newConfirmationCode(),
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			metrics.SignupsTotal.WithLabelValues("rejected").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.log.Info().Str("username", created.Username).Int64("user_id", created.ID).Msg("user signed up")
	s.sendConfirmation(ctx, created)
	metrics.SignupsTotal.WithLabelValues("created").Inc()

	return &ports.SignupResult{Username: created.Username, Email: created.Email}, nil
}

// IssueToken exchanges a username and confirmation code for a signed access
// token. The code is not rotated, so the same pair keeps working.
func (s *AuthService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	if username == "" {
		return "", domain.NewValidationError("username", "username is required")
	}
	if confirmationCode == "" {
		return "", domain.NewValidationError("confirmation_code", "confirmation_code is required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.TokensIssuedTotal.WithLabelValues("unknown_user").Inc()
			return "", err
		}
		return "", fmt.Errorf("issue token: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(user.ConfirmationCode), []byte(confirmationCode)) != 1 {
		metrics.TokensIssuedTotal.WithLabelValues("invalid_code").Inc()
		return "", domain.NewValidationError("confirmation_code", "invalid confirmation code")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues("issued").Inc()
	return token, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// sendConfirmation queues the confirmation mail unless one went out for this
// user recently. Throttle errors fall through to sending.
func (s *AuthService) sendConfirmation(ctx context.Context, user *domain.User) {
	if s.throttle != nil {
		ok, err := s.throttle.Allow(ctx, "confirmation:"+user.Username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", user.Username).Msg("mail throttle check failed, sending anyway")
		} else if !ok {
			s.log.Debug().Str("username", user.Username).Msg("confirmation mail throttled")
			return
		}
	}

	s.mail.Enqueue(ports.MailMessage{
		To:      user.Email,
		Subject: confirmationSubject,
		Body:    "Your confirmation code: " + user.ConfirmationCode,
	})
}

// newConfirmationCode returns a short random code.
func newConfirmationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
