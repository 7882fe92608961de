package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/dto"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/session"
)

const localSession = "dashboard_session"

// sessionLookup contrato mínimo del middleware; lo implementa *session.Manager.
type sessionLookup interface {
	Get(userID string) (*session.Session, error)
}

// RequireSession carga la sesión abierta del usuario del token. Debe usarse
// DESPUÉS de AuthMiddleware.
//   - 401 SESSION_EXPIRED si no hay sesión o si el token es de una sesión
//     reemplazada por un login posterior.
func RequireSession(sessions sessionLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessions.Get(GetUserID(c))
		if err != nil || sess.ID != GetSessionID(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "SESSION_EXPIRED",
				Message: "la sesión ya no está activa, inicie sesión de nuevo",
			})
		}
		c.Locals(localSession, sess)
		return c.Next()
	}
}

// GetSession sesión cargada por RequireSession.
func GetSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(localSession).(*session.Session)
	return sess
}
