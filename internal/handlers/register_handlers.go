package handlers

import (
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerCompanyRoutes(v1, services.Company)

	// Everything below is scoped to one company.
	company := v1.Group("/companies/:company_id")
	registerAccountRoutes(company, services.Account)
	registerJournalRoutes(company, services.Journal)
	registerBatchRoutes(company, services.Batch)
	registerReportingRoutes(company, services.Reporting)
	registerExceptionRoutes(company, services.Reconciliation)
}
