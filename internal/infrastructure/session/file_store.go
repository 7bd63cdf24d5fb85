// Package session implementa SessionStore: archivo JSON local o Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/repository"
)

var _ repository.SessionStore = (*FileStore)(nil)

// FileStore guarda todas las claves en un único archivo JSON {clave: valor}.
// Cada escritura reemplaza el archivo con rename atómico.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore construye el almacén. path vacío usa <dir de config del usuario>/autotrack/session.json.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("session: directorio de configuración: %w", err)
		}
		path = filepath.Join(dir, "autotrack", "session.json")
	}
	return &FileStore{path: path}, nil
}

// Path ruta del archivo de sesión.
func (s *FileStore) Path() string { return s.path }

// Get implementa SessionStore.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.read()
	if err != nil {
		return nil, false, err
	}
	v, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

// Set implementa SessionStore.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.read()
	if err != nil {
		// Un archivo corrupto no impide guardar la sesión nueva.
		entries = map[string]string{}
	}
	entries[key] = string(value)
	return s.write(entries)
}

// Remove implementa SessionStore. Borrar una clave ausente no es error.
func (s *FileStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.read()
	if err != nil {
		entries = map[string]string{}
	}
	if _, ok := entries[key]; !ok && err == nil {
		return nil
	}
	delete(entries, key)
	return s.write(entries)
}

func (s *FileStore) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: leer %s: %w", s.path, err)
	}
	entries := map[string]string{}
	if len(raw) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("session: archivo ilegible %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *FileStore) write(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: crear directorio: %w", err)
	}
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("session: serializar: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("session: archivo temporal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("session: escribir: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("session: permisos: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: cerrar: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("session: reemplazar %s: %w", s.path, err)
	}
	return nil
}
