package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/dto"
	"github.com/finbooks/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// companyHandler handles HTTP requests for companies.
type companyHandler struct {
	companyService portssvc.CompanyService
}

// newCompanyHandler creates a new companyHandler.
func newCompanyHandler(companyService portssvc.CompanyService) *companyHandler {
	return &companyHandler{companyService: companyService}
}

func (h *companyHandler) createCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := middleware.GetUserIDFromContext(c)

	req := dto.CreateCompanyRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createCompany", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create company")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCompanyResponse(company))
}

func (h *companyHandler) getCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	company, err := h.companyService.GetCompanyByID(c.Request.Context(), companyID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve company")
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// registerCompanyRoutes registers company routes on the v1 group.
func registerCompanyRoutes(group *gin.RouterGroup, companyService portssvc.CompanyService) {
	companies := group.Group("/companies")
	handler := newCompanyHandler(companyService)
	{
		companies.POST("", handler.createCompany)
		companies.GET("/:company_id", handler.getCompany)
	}
}
