package repository

import (
	"context"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
)

// Row fila cruda de una colección remota (forma JSON: campo -> valor).
// Las filas semilla tienen exactamente la misma forma.
type Row = map[string]any

// RemoteStore define el puerto de salida hacia el almacén remoto compartido (DIP).
// Las implementaciones son opacas: Supabase/PostgREST, PostgreSQL directo, fakes en tests.
type RemoteStore interface {
	// Configured indica si hay credenciales (endpoint + clave). Sin ellas el sistema
	// opera en modo demo local; no es un error.
	Configured() bool

	// Select devuelve todas las filas de la colección.
	Select(ctx context.Context, collection string) ([]Row, error)

	// Insert agrega filas a la colección.
	Insert(ctx context.Context, collection string, rows []Row) error

	// Update aplica patch a la fila con el id dado.
	Update(ctx context.Context, collection, id string, patch entity.Patch) error
}
