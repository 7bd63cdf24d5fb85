package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	Remote  RemoteConfig
	Session SessionConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	AI      AIConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// Drivers de almacén remoto.
const (
	DriverREST     = "rest"     // PostgREST (Supabase)
	DriverPostgres = "postgres" // conexión directa con pgx
)

// RemoteConfig almacén remoto de colecciones.
// URL es la URL del proyecto (rest) o el DSN (postgres); Key la clave anónima del proyecto.
type RemoteConfig struct {
	Driver string
	URL    string
	Key    string
}

// Configured indica si hay credenciales remotas: ambos valores no vacíos.
// Sin ellas la aplicación trabaja en modo demo local sobre la semilla.
func (c RemoteConfig) Configured() bool {
	return strings.TrimSpace(c.URL) != "" && strings.TrimSpace(c.Key) != ""
}

// Backends de sesión.
const (
	SessionFile  = "file"
	SessionRedis = "redis"
)

// SessionConfig almacén de la sesión persistida.
type SessionConfig struct {
	Backend  string
	Path     string // archivo JSON (backend file); vacío = directorio de configuración del usuario
	Key      string
	RedisURL string
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AIConfig asesor de negocio por LLM.
type AIConfig struct {
	Provider          string // gemini | anthropic
	GeminiAPIKey      string
	GeminiModel       string
	AnthropicAPIKey   string
	AnthropicModel    string
	RequestsPerMinute int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, REMOTE_URL, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "autotrack"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Remote: RemoteConfig{
			Driver: strings.ToLower(getString(v, "REMOTE_DRIVER", DriverREST)),
			URL:    firstString(v, "", "REMOTE_URL", "SUPABASE_URL"),
			Key:    firstString(v, "", "REMOTE_KEY", "SUPABASE_ANON_KEY"),
		},
		Session: SessionConfig{
			Backend:  strings.ToLower(getString(v, "SESSION_BACKEND", SessionFile)),
			Path:     getString(v, "SESSION_PATH", ""),
			Key:      getString(v, "SESSION_KEY", "autotrack_user_session"),
			RedisURL: getString(v, "REDIS_URL", "redis://localhost:6379/0"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "autotrack"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		AI: AIConfig{
			Provider:          strings.ToLower(getString(v, "AI_PROVIDER", "gemini")),
			GeminiAPIKey:      firstString(v, "", "GEMINI_API_KEY", "API_KEY"),
			GeminiModel:       getString(v, "GEMINI_MODEL", "gemini-2.5-flash"),
			AnthropicAPIKey:   getString(v, "ANTHROPIC_API_KEY", ""),
			AnthropicModel:    getString(v, "ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
			RequestsPerMinute: getInt(v, "AI_REQUESTS_PER_MINUTE", 6),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Remote.Driver {
	case DriverREST, DriverPostgres:
	default:
		return fmt.Errorf("config: REMOTE_DRIVER inválido %q (rest|postgres)", c.Remote.Driver)
	}
	switch c.Session.Backend {
	case SessionFile, SessionRedis:
	default:
		return fmt.Errorf("config: SESSION_BACKEND inválido %q (file|redis)", c.Session.Backend)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

// firstString devuelve el primer valor no vacío entre keys (alias de la misma opción).
func firstString(v *viper.Viper, def string, keys ...string) string {
	for _, k := range keys {
		if s := getString(v, k, ""); s != "" {
			return s
		}
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
