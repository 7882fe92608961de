package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/auth"
	appdashboard "github.com/jhoicas/sites-hotels-dashboard/internal/application/dashboard"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/session"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	Sessions  *session.Manager
	KPIUC     *appdashboard.KPIUseCase
	ReportUC  *appdashboard.ReportUseCase
	JWTSecret string
	EpochYear int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: token válido y sesión abierta
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireSession(deps.Sessions))
	protected.Post("/auth/logout", authHandler.Logout)

	filterHandler := NewFilterHandler(deps.EpochYear)
	filtersGroup := protected.Group("/filters")
	filtersGroup.Get("/", filterHandler.Get)
	filtersGroup.Put("/", filterHandler.Apply)
	filtersGroup.Delete("/", filterHandler.Reset)
	filtersGroup.Get("/options", filterHandler.Options)
	filtersGroup.Patch("/date", filterHandler.UpdateDate)
	filtersGroup.Delete("/date", filterHandler.ClearDate)
	filtersGroup.Put("/property", filterHandler.SetProperty)
	filtersGroup.Put("/area", filterHandler.SetArea)

	dashboardHandler := NewDashboardHandler(deps.KPIUC, deps.ReportUC)
	dashboard := protected.Group("/dashboard")
	dashboard.Get("/metrics", dashboardHandler.Metrics)
	dashboard.Get("/kpis", dashboardHandler.KPIs)
	dashboard.Get("/stream", dashboardHandler.Stream)
	dashboard.Get("/report", RequireRole(entity.RoleAdmin), dashboardHandler.Report)
}
