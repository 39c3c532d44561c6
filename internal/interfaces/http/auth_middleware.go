package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/domain/authz"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
)

// LocalSession clave en Locals de la sesión resuelta.
const LocalSession = "session"

// sessionResolver es el contrato mínimo que necesita el middleware para validar el token.
// Lo implementa *auth.AuthUseCase.
type sessionResolver interface {
	ResolveToken(ctx context.Context, token string) (*entity.Session, error)
}

// AuthMiddleware valida el JWT Bearer y resuelve la sesión contra la colección de usuarios en cada
// petición, de modo que un cambio de rol o un borrado se aplican de inmediato.
func AuthMiddleware(resolver sessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get("Authorization")
		if h == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:     "MISSING_TOKEN",
				Message:  "header Authorization requerido",
				Redirect: authz.LoginRoute,
			})
		}
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:     "INVALID_TOKEN",
				Message:  "formato: Bearer <token>",
				Redirect: authz.LoginRoute,
			})
		}
		s, err := resolver.ResolveToken(c.UserContext(), strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Code:     "INVALID_TOKEN",
					Message:  "token inválido o expirado",
					Redirect: authz.LoginRoute,
				})
			}
			return writeError(c, err)
		}
		c.Locals(LocalSession, s)
		return c.Next()
	}
}

// OptionalAuth como AuthMiddleware pero deja pasar peticiones sin token (sesión nil).
// Un token presente pero inválido también se trata como sin sesión.
func OptionalAuth(resolver sessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get("Authorization")
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if s, err := resolver.ResolveToken(c.UserContext(), strings.TrimSpace(parts[1])); err == nil {
				c.Locals(LocalSession, s)
			}
		}
		return c.Next()
	}
}

// GetSession devuelve la sesión de la petición o nil (debe usarse después de AuthMiddleware).
func GetSession(c *fiber.Ctx) *entity.Session {
	s, _ := c.Locals(LocalSession).(*entity.Session)
	return s
}
