package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/dto"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/repository"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/infrastructure/seed"
)

type recordingStore struct {
	existing map[string][]repository.Row
	inserted map[string][]repository.Row
}

func (s *recordingStore) Configured() bool { return true }

func (s *recordingStore) Select(_ context.Context, collection string) ([]repository.Row, error) {
	return s.existing[collection], nil
}

func (s *recordingStore) Insert(_ context.Context, collection string, rows []repository.Row) error {
	s.inserted[collection] = append(s.inserted[collection], rows...)
	return nil
}

func (s *recordingStore) Update(context.Context, string, string, entity.Patch) error { return nil }

func TestSeedRemote_SoloColeccionesVacias(t *testing.T) {
	store := &recordingStore{
		existing: map[string][]repository.Row{
			entity.CollectionProducts: {{"id": "remote-1"}},
		},
		inserted: map[string][]repository.Row{},
	}
	var out bytes.Buffer

	require.NoError(t, seedRemote(context.Background(), store, seed.MustLoad(), true, &out))

	assert.NotContains(t, store.inserted, entity.CollectionProducts, "colección con datos no se toca")
	assert.Len(t, store.inserted[entity.CollectionUsers], 3)
	assert.NotEmpty(t, store.inserted[entity.CollectionTransactions])
	assert.Contains(t, out.String(), "1 filas existentes")

	for _, u := range store.inserted[entity.CollectionUsers] {
		if u["id"] != "u1" {
			continue
		}
		hash, _ := u["password"].(string)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("admin123")))
	}
}

func TestSeedRemote_SinHashConservaTextoPlano(t *testing.T) {
	store := &recordingStore{existing: map[string][]repository.Row{}, inserted: map[string][]repository.Row{}}

	require.NoError(t, seedRemote(context.Background(), store, seed.MustLoad(), false, &bytes.Buffer{}))

	for _, u := range store.inserted[entity.CollectionUsers] {
		if u["id"] == "u1" {
			assert.Equal(t, "admin123", u["password"])
		}
	}
}

func TestPrintSummary_OcultaCajaANoAdmin(t *testing.T) {
	var out bytes.Buffer
	printSummary(&out, entity.User{Name: "Rahim", Role: entity.RoleManager}, &dto.DashboardSummaryDTO{TimeLabel: "Today", DataMode: "local"})

	assert.Contains(t, out.String(), "Today")
	assert.Contains(t, out.String(), "Ingresos")
	assert.NotContains(t, out.String(), "Caja")
}
