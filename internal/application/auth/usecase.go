package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/datasync"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/repository"
)

// DefaultSessionKey clave bajo la que se persiste la identidad activa.
const DefaultSessionKey = "autotrack_user_session"

// Manager dueño de la sesión del cliente: SignedOut (sin usuario) o SignedIn(usuario).
//
// La identidad en sesión se mantiene sincronizada con la colección de usuarios:
// cada cambio de la colección reemplaza la copia en sesión por el registro fresco
// con el mismo id. Si el id no aparece, se conserva la copia (sin logout forzado).
type Manager struct {
	users *datasync.Collection[entity.User]
	store repository.SessionStore
	key   string
	log   zerolog.Logger

	mu      sync.RWMutex
	current *entity.User
}

// NewManager construye el manager y lo suscribe a los cambios de la colección de usuarios.
func NewManager(
	users *datasync.Collection[entity.User],
	store repository.SessionStore,
	key string,
	log zerolog.Logger,
) *Manager {
	if key == "" {
		key = DefaultSessionKey
	}
	m := &Manager{
		users: users,
		store: store,
		key:   key,
		log:   log.With().Str("component", "auth").Logger(),
	}
	users.Subscribe(m.resync)
	return m
}

// Restore recupera la identidad persistida. Una sesión ilegible o un error del
// almacén dejan el estado en SignedOut; nunca interrumpe el arranque.
func (m *Manager) Restore(ctx context.Context) {
	raw, ok, err := m.store.Get(ctx, m.key)
	if err != nil {
		m.log.Warn().Err(err).Msg("no se pudo leer la sesión persistida")
		return
	}
	if !ok {
		return
	}
	cached, err := decodeSession(raw)
	if err != nil {
		m.log.Warn().Err(err).Msg("sesión persistida descartada")
		if err := m.store.Remove(ctx, m.key); err != nil {
			m.log.Warn().Err(err).Msg("no se pudo borrar la sesión inválida")
		}
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &cached
	if fresh, found := m.users.Find(cached.ID); found {
		m.adopt(ctx, fresh)
	}
	m.log.Info().Str("user_id", cached.ID).Msg("sesión restaurada")
}

// Login verifica id y contraseña contra la colección actual de usuarios y devuelve
// la identidad adoptada. Devuelve false si el usuario no existe o la contraseña no
// coincide; el estado no cambia.
func (m *Manager) Login(ctx context.Context, userID, password string) (entity.User, bool) {
	user, found := m.users.Find(userID)
	if !found {
		m.log.Debug().Str("user_id", userID).Msg("login rechazado: usuario no encontrado")
		return entity.User{}, false
	}
	if user.Password != "" && !passwordMatches(user.Password, password) {
		m.log.Debug().Str("user_id", userID).Msg("login rechazado: contraseña incorrecta")
		return entity.User{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.adopt(ctx, user)
	m.log.Info().Str("user_id", userID).Str("role", string(user.Role)).Msg("login")
	return user, true
}

// Logout cierra la sesión y borra la copia persistida. Es idempotente.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	if err := m.store.Remove(ctx, m.key); err != nil {
		m.log.Warn().Err(err).Msg("no se pudo borrar la sesión persistida")
	}
}

// UpdateIdentity actualiza un usuario de forma optimista (ver datasync.Collection.Mutate).
// No valida permisos: la política de autorización la aplica la capa que llama.
func (m *Manager) UpdateIdentity(ctx context.Context, userID string, patch entity.Patch) error {
	return m.users.Mutate(ctx, userID, patch)
}

// Current devuelve la identidad en sesión.
func (m *Manager) Current() (entity.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return entity.User{}, false
	}
	return *m.current, true
}

// IsAuthenticated indica si hay sesión activa.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Current()
	return ok
}

// Users devuelve el directorio actual de usuarios.
func (m *Manager) Users() []entity.User {
	return m.users.Snapshot()
}

// resync reemplaza la identidad en sesión por su versión fresca tras un cambio de la colección.
// Las notificaciones pueden llegar desordenadas, así que se relee la colección en vez
// de confiar en la copia recibida.
func (m *Manager) resync([]entity.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return
	}
	if u, found := m.users.Find(m.current.ID); found && u != *m.current {
		m.adopt(context.Background(), u)
	}
}

// adopt fija la identidad en sesión y la persiste. Debe llamarse con m.mu tomado.
// Un fallo al persistir se registra pero no invalida la sesión en memoria.
func (m *Manager) adopt(ctx context.Context, user entity.User) {
	m.current = &user
	raw, err := encodeSession(user)
	if err != nil {
		m.log.Warn().Err(err).Msg("no se pudo serializar la sesión")
		return
	}
	if err := m.store.Set(ctx, m.key, raw); err != nil {
		m.log.Warn().Err(err).Msg("no se pudo persistir la sesión")
	}
}

// storedSession forma persistida: la identidad sin la contraseña.
type storedSession struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Role entity.Role `json:"role"`
}

func encodeSession(u entity.User) ([]byte, error) {
	return json.Marshal(storedSession{ID: u.ID, Name: u.Name, Role: u.Role})
}

func decodeSession(raw []byte) (entity.User, error) {
	var s storedSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return entity.User{}, fmt.Errorf("%w: %v", domain.ErrMalformedSession, err)
	}
	if s.ID == "" {
		return entity.User{}, fmt.Errorf("%w: id vacío", domain.ErrMalformedSession)
	}
	return entity.User{ID: s.ID, Name: s.Name, Role: s.Role}, nil
}
