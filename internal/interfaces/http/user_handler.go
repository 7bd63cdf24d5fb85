package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/dto"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/usecase"
)

// UserHandler maneja el directorio de usuarios.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List GET /api/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	items := h.uc.List()
	return c.JSON(dto.ListResponse[dto.UserResponse]{Items: items, Total: len(items)})
}

// Update godoc
// @Summary      Actualizar usuario
// @Description  Admin edita a cualquiera; el resto solo a sí mismo y sin cambiar su rol.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "id de usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "name, role, password (opcionales)"
// @Success      200   {object}  dto.UserResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id} [patch]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	viewer, ok, err := viewerOrAbort(c)
	if !ok {
		return err
	}
	var in dto.UpdateUserRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), viewer, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
