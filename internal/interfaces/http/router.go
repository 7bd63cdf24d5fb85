package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"

	appanalytics "github.com/Ashraful7679/Engine-2-Mufller/internal/application/analytics"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/usecase"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/infrastructure/metrics"
	"github.com/Ashraful7679/Engine-2-Mufller/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName     string
	DataMode    func() string // "remote" | "local"
	Sessions    sessionManager
	JWT         config.JWTConfig
	UserUC      *usecase.UserUseCase
	LedgerUC    *usecase.LedgerUseCase
	DashboardUC *appanalytics.DashboardUseCase
	AdvisorUC   *usecase.AdvisorUseCase // opcional
	Metrics     *metrics.Collector      // opcional
	Gatherer    prometheus.Gatherer     // opcional; expone /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		mode := "local"
		if deps.DataMode != nil {
			mode = deps.DataMode()
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName, "data_mode": mode})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(deps.Gatherer)))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.Sessions, deps.JWT)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/session", authHandler.Session)

	// Rutas protegidas: Bearer Token + sesión activa del mismo usuario
	guard := []fiber.Handler{AuthMiddleware(deps.JWT.Secret), SessionMiddleware(deps.Sessions)}
	adminOnly := RequireRole(string(entity.RoleAdmin))

	authGroup.Post("/logout", append(guard, authHandler.Logout)...)

	users := api.Group("/users", guard...)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Patch("/:id", userHandler.Update)

	var advisor insightsGenerator
	if deps.AdvisorUC != nil {
		advisor = deps.AdvisorUC
	}
	dashboard := api.Group("/dashboard", guard...)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, advisor)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
	dashboard.Post("/insights", adminOnly, dashboardHandler.Insights)

	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	transactions := api.Group("/transactions", guard...)
	transactions.Get("/", ledgerHandler.ListTransactions)
	transactions.Post("/", ledgerHandler.CreateTransaction)

	cashFlows := api.Group("/cash-flows", append(guard, adminOnly)...)
	cashFlows.Get("/", ledgerHandler.ListCashFlows)
	cashFlows.Post("/", ledgerHandler.CreateCashFlow)

	products := api.Group("/products", guard...)
	products.Get("/", ledgerHandler.ListProducts)
	products.Patch("/:id/stock", RequireRole(string(entity.RoleAdmin), string(entity.RoleManager)), ledgerHandler.AdjustStock)
}

// httpRecorder contrato de *metrics.Collector para el middleware.
type httpRecorder interface {
	RecordHTTP(statusCode int, duration time.Duration)
}

// MetricsMiddleware registra código de estado y latencia de cada petición.
func MetricsMiddleware(rec httpRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		rec.RecordHTTP(status, time.Since(start))
		return err
	}
}
