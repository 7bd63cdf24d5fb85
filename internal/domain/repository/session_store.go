package repository

import "context"

// SessionStore persistencia local clave-valor que sobrevive reinicios del proceso.
type SessionStore interface {
	// Get devuelve el valor y ok=false si la clave no existe.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove no falla si la clave no existe.
	Remove(ctx context.Context, key string) error
}
