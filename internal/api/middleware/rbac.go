package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/pkg/metrics"
)

// Permit runs the request-level permission check for resource before the
// handler loads anything. The action is derived from the HTTP method.
// Object-level checks stay in the services, which hold the loaded object.
func Permit(resource domain.Resource) echo.MiddlewareFunc {
	policy := domain.PolicyFor(resource)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := ActorFrom(c)
			act := domain.ActionForMethod(c.Request().Method)

			decision := policy.HasPermission(actor, act)
			metrics.AuthorizationDecisionsTotal.
				WithLabelValues(string(resource), string(act), decision.String()).
				Inc()

			if err := domain.DecisionError(actor, decision); err != nil {
				return err
			}
			return next(c)
		}
	}
}
