package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/dto"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
	"github.com/Ashraful7679/Engine-2-Mufller/pkg/jwt"
)

// Locals keys para los datos de identidad en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
	LocalViewer = "viewer"
)

// sessionSource contrato mínimo del dueño de la sesión (lo implementa *auth.Manager).
type sessionSource interface {
	Current() (entity.User, bool)
}

// AuthMiddleware valida el Bearer Token JWT y extrae UserID y Role a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// SessionMiddleware exige que el usuario del token sea la identidad en sesión del proceso.
// Debe usarse DESPUÉS de AuthMiddleware. Reemplaza el rol del token por el rol vigente,
// así un cambio de rol en la colección de usuarios se aplica sin reemitir el token.
func SessionMiddleware(sessions sessionSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, ok := sessions.Current()
		if !ok || current.ID != GetUserID(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_CLOSED", Message: "no hay sesión activa para este usuario"})
		}
		c.Locals(LocalViewer, current)
		c.Locals(LocalRole, string(current.Role))
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados.
//   - 401 MISSING_ROLE si el contexto no trae rol.
//   - 403 FORBIDDEN si el rol no está en la lista.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para este recurso"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetViewer devuelve la identidad en sesión (después de SessionMiddleware).
func GetViewer(c *fiber.Ctx) (entity.User, bool) {
	u, ok := c.Locals(LocalViewer).(entity.User)
	return u, ok
}
