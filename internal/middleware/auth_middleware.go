package middleware

import (
	"errors"
	"strings"

	"stillhouse/domain"
	"stillhouse/internal/api/presenters"
	"stillhouse/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthMiddleware accepts a Bearer token, or a token query parameter for
// EventSource clients that cannot set headers. The session named by the
// token is opened on first use so that a restarted server picks it up.
func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageUnauthorized, domain.ErrTokenInvalid)
		}

		claims, err := jwtService.GetClaimsByToken(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageUnauthorized, err)
		}

		revoked, err := m.denylist.IsRevoked(c.UserContext(), claims.SessionID)
		if err != nil {
			m.logger.Error("denylist lookup failed", zap.String("session_id", claims.SessionID), zap.Error(err))
			return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageUnauthorized, errors.New("session store unavailable"))
		}
		if revoked {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageUnauthorized, domain.ErrTokenRevoked)
		}

		m.sessions.Open(claims.SessionID, claims.UserID, claims.ExpiresAt)

		c.Locals("user_id", claims.UserID)
		c.Locals("role", claims.Role)
		c.Locals("session_id", claims.SessionID)
		c.Locals("token_exp", claims.ExpiresAt)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return c.Query("token")
}
