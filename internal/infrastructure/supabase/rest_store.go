// Package supabase implementa RemoteStore sobre la API REST (PostgREST) de un proyecto Supabase.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/repository"
)

var _ repository.RemoteStore = (*RESTStore)(nil)

const defaultTimeout = 15 * time.Second

// RESTStore adaptador de RemoteStore para /rest/v1/<tabla>.
// Cada colección es una tabla con el mismo nombre y columnas iguales a los campos JSON.
type RESTStore struct {
	client  *postgrest.Client
	timeout time.Duration
}

// NewRESTStore construye el adaptador. Con baseURL o apiKey vacíos queda no configurado.
func NewRESTStore(baseURL, apiKey string) *RESTStore {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	apiKey = strings.TrimSpace(apiKey)
	s := &RESTStore{timeout: defaultTimeout}
	if baseURL == "" || apiKey == "" {
		return s
	}
	s.client = postgrest.NewClient(baseURL+"/rest/v1", "public", map[string]string{
		"apikey":        apiKey,
		"Authorization": "Bearer " + apiKey,
	})
	return s
}

// Configured implementa RemoteStore: ambos valores presentes.
func (s *RESTStore) Configured() bool {
	return s != nil && s.client != nil && s.client.ClientError == nil
}

// Select devuelve todas las filas de la tabla.
func (s *RESTStore) Select(ctx context.Context, collection string) ([]repository.Row, error) {
	if !s.Configured() {
		return nil, domain.ErrRemoteNotConfigured
	}
	body, err := s.execute(ctx, "GET", collection, s.client.From(collection).Select("*", "", false))
	if err != nil {
		return nil, err
	}
	rows := make([]repository.Row, 0)
	if len(bytes.TrimSpace(body)) == 0 {
		return rows, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("supabase: decodificar %s: %w", collection, err)
	}
	return rows, nil
}

// Insert agrega filas en una sola petición.
func (s *RESTStore) Insert(ctx context.Context, collection string, rows []repository.Row) error {
	if !s.Configured() {
		return domain.ErrRemoteNotConfigured
	}
	if len(rows) == 0 {
		return nil
	}
	_, err := s.execute(ctx, "POST", collection, s.client.From(collection).Insert(rows, false, "", "minimal", ""))
	return err
}

// Update aplica patch a la fila id (PATCH ?id=eq.<id>).
func (s *RESTStore) Update(ctx context.Context, collection, id string, patch entity.Patch) error {
	if !s.Configured() {
		return domain.ErrRemoteNotConfigured
	}
	q := s.client.From(collection).Update(patch, "minimal", "").Eq("id", id)
	_, err := s.execute(ctx, "PATCH", collection, q)
	return err
}

type result struct {
	body []byte
	err  error
}

// execute corre la consulta respetando ctx y el timeout del adaptador; el cliente
// PostgREST no recibe contexto, así que la espera se corta desde aquí.
func (s *RESTStore) execute(ctx context.Context, method, table string, q *postgrest.FilterBuilder) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		body, _, err := q.Execute()
		done <- result{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("supabase: timeout o cancelación: %w", ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("supabase: %s %s: %w", method, table, r.err)
		}
		return r.body, nil
	}
}
