package usecase

import (
	"context"
	"fmt"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/auth"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/dto"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
)

// UserUseCase aplica reglas de negocio para usuarios sobre el directorio del Manager.
type UserUseCase struct {
	auth *auth.Manager
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(manager *auth.Manager) *UserUseCase {
	return &UserUseCase{auth: manager}
}

// List devuelve el directorio de usuarios sin contraseñas.
func (uc *UserUseCase) List() []dto.UserResponse {
	users := uc.auth.Users()
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

// Update aplica una actualización parcial. Admin puede editar a cualquiera;
// el resto solo a sí mismo y sin cambiar su rol. Una contraseña nueva se guarda hasheada.
func (uc *UserUseCase) Update(ctx context.Context, viewer entity.User, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !viewer.IsAdmin() && (viewer.ID != id || in.Role != nil) {
		return nil, domain.ErrForbidden
	}

	patch := entity.Patch{}
	if in.Name != nil {
		patch["name"] = *in.Name
	}
	if in.Role != nil {
		patch["role"] = *in.Role
	}
	if in.Password != nil {
		if *in.Password == "" {
			patch["password"] = ""
		} else {
			hash, err := auth.HashPassword(*in.Password)
			if err != nil {
				return nil, fmt.Errorf("hashear contraseña: %w", err)
			}
			patch["password"] = hash
		}
	}

	if err := uc.auth.UpdateIdentity(ctx, id, patch); err != nil {
		return nil, err
	}
	for _, u := range uc.auth.Users() {
		if u.ID == id {
			resp := ToUserResponse(u)
			return &resp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// ToUserResponse convierte la entidad a la salida pública.
func ToUserResponse(u entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Role:        string(u.Role),
		HasPassword: u.Password != "",
	}
}
