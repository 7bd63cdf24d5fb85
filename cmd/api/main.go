package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/analytics"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/auth"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/datasync"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/usecase"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/bootstrap"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/infrastructure/metrics"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/infrastructure/seed"
	httpRouter "github.com/Ashraful7679/Engine-2-Mufller/internal/interfaces/http"
	"github.com/Ashraful7679/Engine-2-Mufller/pkg/config"
	"github.com/Ashraful7679/Engine-2-Mufller/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		if cfg.App.Env == "production" {
			log.Fatal().Msg("JWT_SECRET es obligatorio en producción")
		}
		cfg.JWT.Secret = randomSecret()
		log.Warn().Msg("JWT_SECRET vacío: se usa un secreto efímero (los tokens no sobreviven reinicios)")
	}

	ctx := context.Background()
	remote, err := bootstrap.OpenRemote(ctx, cfg.Remote, true, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("almacén remoto")
	}
	defer remote.Close()

	sessionStore, closeSession, err := bootstrap.OpenSessionStore(ctx, cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de sesión")
	}
	defer closeSession()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	seedData, err := seed.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("semilla integrada")
	}
	engine := datasync.NewEngine(datasync.EngineDeps{
		Remote:  remote.Store,
		Seed:    seedData,
		Logger:  log.Zerolog(),
		Metrics: collector,
	})
	engine.LoadAll(ctx)
	log.Info().Str("data_mode", engine.Mode()).Msg("colecciones cargadas")

	manager := auth.NewManager(engine.Users, sessionStore, cfg.Session.Key, log.Zerolog())
	manager.Restore(ctx)

	advisor := bootstrap.NewAdvisor(cfg.AI)
	if advisor == nil {
		log.Warn().Str("provider", cfg.AI.Provider).Msg("asesor de IA sin API key: deshabilitado")
	}

	userUC := usecase.NewUserUseCase(manager)
	ledgerUC := usecase.NewLedgerUseCase(engine, time.Now)
	dashboardUC := analytics.NewDashboardUseCase(engine, time.Now)
	advisorUC := usecase.NewAdvisorUseCase(engine, advisor, cfg.AI.RequestsPerMinute)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 40, // el asesor de IA puede tardar hasta 30 s
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:     cfg.App.Name,
		DataMode:    engine.Mode,
		Sessions:    manager,
		JWT:         cfg.JWT,
		UserUC:      userUC,
		LedgerUC:    ledgerUC,
		DashboardUC: dashboardUC,
		AdvisorUC:   advisorUC,
		Metrics:     collector,
		Gatherer:    reg,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Escrituras remotas en vuelo: se esperan para no perder la confirmación.
	engine.Wait()

	log.Info().Msg("aplicación detenida")
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("generar secreto JWT: " + err.Error())
	}
	return hex.EncodeToString(b)
}
