package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/cantinatita/card_ledger_app/cmd/docs"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/middleware"
	"github.com/cantinatita/card_ledger_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	pool *pgxpool.Pool,
) {
	registerHomeRoutes(r, pool, cfg.EnableDBCheck)

	// Public authentication routes
	registerAuthRoutes(r, services)

	// Protected API under /api/v1
	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// per-entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerCardRoutes(v1, services.CardSvc)
	registerLedgerRoutes(v1, services.LedgerSvc)
	registerAuthorizationRoutes(v1, services.AuthorizationSvc)
	registerSaleRoutes(v1, services.SaleSvc)
	registerStaffRoutes(v1, services.StaffSvc)
	registerReportingRoutes(v1, services.ReportingSvc)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		// no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
