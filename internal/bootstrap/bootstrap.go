// Package bootstrap arma las dependencias de infraestructura a partir de la
// configuración; lo comparten el servidor HTTP y la herramienta de línea de comandos.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/ports"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/repository"
	infraai "github.com/Ashraful7679/Engine-2-Mufller/internal/infrastructure/ai"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/infrastructure/postgres"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/infrastructure/session"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/infrastructure/supabase"
	"github.com/Ashraful7679/Engine-2-Mufller/pkg/config"
)

// Remote almacén remoto abierto. Store es nil en modo local.
// Postgres solo está presente con el driver postgres (habilita consultas SQL directas).
type Remote struct {
	Store    repository.RemoteStore
	Postgres *postgres.RemoteStore
	close    func()
}

// Close libera las conexiones del almacén remoto.
func (r *Remote) Close() {
	if r.close != nil {
		r.close()
	}
}

// OpenRemote abre el almacén remoto según cfg.Driver. Sin credenciales devuelve un
// Remote vacío (modo local) sin error. Con el driver postgres aplica las migraciones
// antes de abrir el pool si migrate es true.
func OpenRemote(ctx context.Context, cfg config.RemoteConfig, migrate bool, log zerolog.Logger) (*Remote, error) {
	if !cfg.Configured() {
		log.Warn().Msg("almacén remoto sin credenciales: modo local sobre la semilla integrada")
		return &Remote{}, nil
	}

	switch cfg.Driver {
	case config.DriverPostgres:
		if migrate {
			dsn, err := postgres.ConnectionString(cfg)
			if err != nil {
				return nil, err
			}
			if err := postgres.RunMigrations(dsn); err != nil {
				return nil, err
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		store := postgres.NewRemoteStore(pool)
		log.Info().Str("driver", cfg.Driver).Msg("almacén remoto configurado")
		return &Remote{Store: store, Postgres: store, close: pool.Close}, nil
	default:
		log.Info().Str("driver", cfg.Driver).Msg("almacén remoto configurado")
		return &Remote{Store: supabase.NewRESTStore(cfg.URL, cfg.Key)}, nil
	}
}

// OpenSessionStore abre el almacén de sesión. El cierre devuelto es no-op para archivo.
func OpenSessionStore(ctx context.Context, cfg config.SessionConfig) (repository.SessionStore, func() error, error) {
	switch cfg.Backend {
	case config.SessionRedis:
		store, err := session.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		store, err := session.NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	}
}

// NewAdvisor elige el proveedor del asesor de IA. Sin API key devuelve nil (asesor deshabilitado).
func NewAdvisor(cfg config.AIConfig) ports.AdvisorService {
	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil
		}
		return infraai.NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel, "")
	default:
		if cfg.GeminiAPIKey == "" {
			return nil
		}
		return infraai.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel, "")
	}
}
