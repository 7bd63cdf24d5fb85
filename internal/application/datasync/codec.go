package datasync

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/repository"
)

// decodeRows convierte filas crudas (remotas o semilla) en entidades tipadas.
// Ambos orígenes pasan por aquí; el resto del código no distingue de dónde vienen.
func decodeRows[T entity.Entity](rows []repository.Row) ([]T, error) {
	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("serializar filas: %w", err)
	}
	out := make([]T, 0, len(rows))
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decodificar filas: %w", err)
	}
	for i, item := range out {
		if item.EntityID() == "" {
			return nil, fmt.Errorf("fila %d sin id", i)
		}
	}
	return out, nil
}

// encodeRow convierte una entidad en fila cruda para enviarla al almacén remoto.
func encodeRow[T entity.Entity](item T) (repository.Row, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("serializar entidad: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var row repository.Row
	if err := dec.Decode(&row); err != nil {
		return nil, fmt.Errorf("convertir entidad a fila: %w", err)
	}
	return row, nil
}

// applyPatch fusiona patch campo a campo sobre item y devuelve la entidad resultante.
// item no se modifica.
func applyPatch[T entity.Entity](item T, patch entity.Patch) (T, error) {
	var zero T
	row, err := encodeRow(item)
	if err != nil {
		return zero, err
	}
	for k, v := range patch {
		row[k] = v
	}
	raw, err := json.Marshal(row)
	if err != nil {
		return zero, fmt.Errorf("serializar patch: %w", err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("aplicar patch: %w", err)
	}
	return out, nil
}

// sanitizePatch copia el patch sin la clave "id": la identidad de una entidad no cambia.
func sanitizePatch(patch entity.Patch) entity.Patch {
	out := make(entity.Patch, len(patch))
	for k, v := range patch {
		if k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}
