package middleware

import (
	"stillhouse/pkg/jwt"
	"stillhouse/pkg/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
	}

	middleware struct {
		denylist jwt.Denylist
		sessions *session.Manager
		logger   *zap.Logger
	}
)

func NewMiddleware(denylist jwt.Denylist, sessions *session.Manager, logger *zap.Logger) Middleware {
	return &middleware{
		denylist: denylist,
		sessions: sessions,
		logger:   logger,
	}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	})
}
