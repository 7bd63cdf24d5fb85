package bootstrap_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/bootstrap"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/infrastructure/ai"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/infrastructure/session"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/infrastructure/supabase"
	"github.com/Ashraful7679/Engine-2-Mufller/pkg/config"
)

func TestOpenRemote_SinCredencialesEsLocal(t *testing.T) {
	r, err := bootstrap.OpenRemote(context.Background(), config.RemoteConfig{Driver: config.DriverREST, URL: "https://x.supabase.co"}, false, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, r.Store)
	assert.Nil(t, r.Postgres)
	r.Close()
}

func TestOpenRemote_DriverREST(t *testing.T) {
	r, err := bootstrap.OpenRemote(context.Background(), config.RemoteConfig{
		Driver: config.DriverREST, URL: "https://x.supabase.co", Key: "anon",
	}, false, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, r.Store)
	assert.IsType(t, &supabase.RESTStore{}, r.Store)
	assert.True(t, r.Store.Configured())
	assert.Nil(t, r.Postgres)
}

func TestOpenSessionStore_Archivo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, closeFn, err := bootstrap.OpenSessionStore(context.Background(), config.SessionConfig{Backend: config.SessionFile, Path: path})
	require.NoError(t, err)
	defer closeFn()

	fs, ok := store.(*session.FileStore)
	require.True(t, ok)
	assert.Equal(t, path, fs.Path())
}

func TestNewAdvisor_Proveedores(t *testing.T) {
	assert.Nil(t, bootstrap.NewAdvisor(config.AIConfig{Provider: "gemini"}), "sin key no hay asesor")
	assert.Nil(t, bootstrap.NewAdvisor(config.AIConfig{Provider: "anthropic"}))

	assert.IsType(t, &ai.GeminiService{}, bootstrap.NewAdvisor(config.AIConfig{Provider: "gemini", GeminiAPIKey: "k"}))
	assert.IsType(t, &ai.AnthropicService{}, bootstrap.NewAdvisor(config.AIConfig{Provider: "anthropic", AnthropicAPIKey: "k"}))
}
