package dto

import "time"

// LoginRequest entrada para login: id de usuario y contraseña (vacía si el usuario no tiene).
type LoginRequest struct {
	UserID   string `json:"user_id" validate:"required,max=100"`
	Password string `json:"password" validate:"max=200"`
}

// LoginResponse salida con token JWT y la identidad en sesión.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	HasPassword bool   `json:"has_password"`
}

// UpdateUserRequest actualización parcial de un usuario. Solo se aplican los campos presentes.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin manager staff"`
	Password *string `json:"password" validate:"omitempty,max=200"`
}

// SessionResponse estado de la sesión del proceso.
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}
