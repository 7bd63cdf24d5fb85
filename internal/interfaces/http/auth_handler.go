package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/dto"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/usecase"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
	"github.com/Ashraful7679/Engine-2-Mufller/pkg/config"
	"github.com/Ashraful7679/Engine-2-Mufller/pkg/jwt"
)

// sessionManager contrato de *auth.Manager que usa la capa HTTP.
type sessionManager interface {
	sessionSource
	Login(ctx context.Context, userID, password string) (entity.User, bool)
	Logout(ctx context.Context)
}

// AuthHandler maneja login, logout y consulta de sesión.
type AuthHandler struct {
	sessions sessionManager
	jwt      config.JWTConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(sessions sessionManager, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{sessions: sessions, jwt: jwtCfg}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Verifica id y contraseña contra el directorio de usuarios, abre la
//               sesión del proceso y emite un JWT.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "user_id, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	user, ok := h.sessions.Login(c.UserContext(), in.UserID, in.Password)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	}
	token, exp, err := jwt.Generate(h.jwt.Secret, user.ID, string(user.Role), h.jwt.Issuer, h.jwt.Expiration)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LoginResponse{Token: token, ExpiresAt: exp, User: usecase.ToUserResponse(user)})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Security     Bearer
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Logout(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}

// Session godoc
// @Summary      Estado de la sesión del proceso
// @Tags         auth
// @Produce      json
// @Success      200   {object}  dto.SessionResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	user, ok := h.sessions.Current()
	if !ok {
		return c.JSON(dto.SessionResponse{Authenticated: false})
	}
	resp := usecase.ToUserResponse(user)
	return c.JSON(dto.SessionResponse{Authenticated: true, User: &resp})
}

// viewerOrAbort obtiene la identidad en sesión puesta por SessionMiddleware.
func viewerOrAbort(c *fiber.Ctx) (entity.User, bool, error) {
	viewer, ok := GetViewer(c)
	if !ok {
		return entity.User{}, false, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
	}
	return viewer, true, nil
}
