package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/repository"
)

var _ repository.RemoteStore = (*RemoteStore)(nil)

// RemoteStore implementación de RemoteStore sobre PostgreSQL.
// Cada colección es una tabla (id text, data jsonb); data guarda la fila completa.
type RemoteStore struct {
	pool *pgxpool.Pool
}

// NewRemoteStore construye el adaptador. pool nil equivale a no configurado.
func NewRemoteStore(pool *pgxpool.Pool) *RemoteStore {
	return &RemoteStore{pool: pool}
}

// Configured implementa RemoteStore.
func (s *RemoteStore) Configured() bool { return s != nil && s.pool != nil }

// Select devuelve todas las filas de la colección en orden de inserción.
func (s *RemoteStore) Select(ctx context.Context, collection string) ([]repository.Row, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `SELECT data FROM `+table+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", collection, err)
	}
	defer rows.Close()

	out := make([]repository.Row, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		row, err := decodeRow(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select %s: %w", collection, err)
	}
	return out, nil
}

// Insert agrega filas en una sola transacción. Un id repetido devuelve ErrInvalidInput.
func (s *RemoteStore) Insert(ctx context.Context, collection string, rows []repository.Row) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		for _, row := range rows {
			id, _ := row["id"].(string)
			if id == "" {
				return fmt.Errorf("insert %s: fila sin id: %w", collection, domain.ErrInvalidInput)
			}
			data, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("insert %s: %w", collection, err)
			}
			_, err = tx.Exec(ctx, `INSERT INTO `+table+` (id, data) VALUES ($1, $2::jsonb)`, id, string(data))
			if err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("insert %s %q: %w", collection, id, domain.ErrInvalidInput)
				}
				return fmt.Errorf("insert %s: %w", collection, err)
			}
		}
		return nil
	})
}

// Update fusiona patch sobre la fila id (data || patch). Sin fila devuelve ErrNotFound.
func (s *RemoteStore) Update(ctx context.Context, collection, id string, patch entity.Patch) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE `+table+` SET data = data || $2::jsonb, updated_at = now() WHERE id = $1`,
		id, string(data))
	if err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update %s %q: %w", collection, id, domain.ErrNotFound)
	}
	return nil
}

// SalesTotal suma totalAmount de todas las ventas en el servidor (control cruzado del CLI).
func (s *RemoteStore) SalesTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM((data->>'totalAmount')::numeric), 0) FROM transactions`,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sales total: %w", err)
	}
	return total, nil
}

// tableFor valida la colección y devuelve el identificador SQL escapado.
func tableFor(collection string) (string, error) {
	switch collection {
	case entity.CollectionUsers, entity.CollectionTransactions, entity.CollectionProducts, entity.CollectionCashFlows:
		return pgx.Identifier{collection}.Sanitize(), nil
	default:
		return "", fmt.Errorf("colección desconocida %q: %w", collection, domain.ErrInvalidInput)
	}
}

func decodeRow(raw []byte) (repository.Row, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var row repository.Row
	if err := dec.Decode(&row); err != nil {
		return nil, err
	}
	return row, nil
}
