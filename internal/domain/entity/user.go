package entity

// Role rol de un usuario; determina qué agregados puede ver.
type Role string

// Roles válidos para User. Cualquier otro valor se trata como no-admin.
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// User representa una identidad del taller (sembrada o provista por el almacén remoto).
// Password es opcional: vacío significa que el usuario entra sin contraseña.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Password string `json:"password,omitempty"` // texto plano o hash bcrypt
}

// EntityID implementa Entity.
func (u User) EntityID() string { return u.ID }

// IsAdmin indica si el usuario ve los agregados de toda la tienda.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
