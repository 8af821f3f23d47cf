package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/yamdb/review-api/internal/core/domain"
)

const actorKey = "actor"

// UserLookup resolves the account named by a token's user_id claim.
type UserLookup interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// Authenticate resolves an optional bearer token into the request actor.
// Requests without an Authorization header continue as anonymous; a header
// that is malformed, carries an invalid token, or names a deleted account is
// rejected with 401.
func Authenticate(jwtSecret string, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				SetActor(c, domain.Anonymous())
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			id, ok := claims["user_id"].(float64)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing user identity")
			}

			user, err := users.FindByID(c.Request().Context(), int64(id))
			if errors.Is(err, domain.ErrUserNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "user no longer exists")
			}
			if err != nil {
				return err
			}

			SetActor(c, domain.ActorFor(user))
			return next(c)
		}
	}
}

// ActorFrom returns the actor stored by Authenticate, or the anonymous actor
// when the middleware did not run.
func ActorFrom(c echo.Context) domain.Actor {
	a, _ := c.Get(actorKey).(domain.Actor)
	return a
}

// SetActor stores a on the request context.
func SetActor(c echo.Context, a domain.Actor) {
	c.Set(actorKey, a)
}
