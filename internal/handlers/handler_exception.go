package handlers

import (
	"log/slog"
	"net/http"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/dto"
	"github.com/finbooks/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exceptionHandler handles HTTP requests for reconciliation exceptions.
type exceptionHandler struct {
	reconciliationService portssvc.ReconciliationService
}

// newExceptionHandler creates a new exceptionHandler.
func newExceptionHandler(reconciliationService portssvc.ReconciliationService) *exceptionHandler {
	return &exceptionHandler{reconciliationService: reconciliationService}
}

func (h *exceptionHandler) createException(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	userID := middleware.GetUserIDFromContext(c)

	req := dto.CreateExceptionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createException", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	exception, err := h.reconciliationService.CreateException(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create exception record")
		return
	}

	c.JSON(http.StatusCreated, dto.ToExceptionResponse(exception))
}

func (h *exceptionHandler) listExceptions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var status *domain.ExceptionStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := domain.ExceptionStatus(statusStr)
		switch s {
		case domain.ExceptionOpen, domain.ExceptionMatched, domain.ExceptionDismissed:
			status = &s
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
	}

	exceptions, err := h.reconciliationService.ListExceptions(c.Request.Context(), companyID, status)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list exception records")
		return
	}

	c.JSON(http.StatusOK, gin.H{"exceptions": dto.ToExceptionResponses(exceptions)})
}

func (h *exceptionHandler) dismissException(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	exceptionID := c.Param("exception_id")
	userID := middleware.GetUserIDFromContext(c)

	exception, err := h.reconciliationService.Dismiss(c.Request.Context(), companyID, exceptionID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to dismiss exception")
		return
	}

	c.JSON(http.StatusOK, dto.ToExceptionResponse(exception))
}

func (h *exceptionHandler) resolveCreate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	exceptionID := c.Param("exception_id")
	userID := middleware.GetUserIDFromContext(c)

	req := dto.ResolveCreateRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for resolveCreate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	exception, err := h.reconciliationService.ResolveCreate(c.Request.Context(), companyID, exceptionID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to resolve exception")
		return
	}

	logger.Info("Exception resolved with new expense",
		slog.String("exception_id", exceptionID),
		slog.String("entry_id", *exception.MatchedEntryID))
	c.JSON(http.StatusOK, dto.ToExceptionResponse(exception))
}

func (h *exceptionHandler) resolveMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	exceptionID := c.Param("exception_id")
	userID := middleware.GetUserIDFromContext(c)

	req := dto.ResolveMatchRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for resolveMatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	exception, err := h.reconciliationService.ResolveMatch(c.Request.Context(), companyID, exceptionID, req.EntryID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to match exception")
		return
	}

	c.JSON(http.StatusOK, dto.ToExceptionResponse(exception))
}

// registerExceptionRoutes registers reconciliation routes on the company group.
func registerExceptionRoutes(group *gin.RouterGroup, reconciliationService portssvc.ReconciliationService) {
	handler := newExceptionHandler(reconciliationService)

	exceptions := group.Group("/exceptions")
	{
		exceptions.POST("", handler.createException)
		exceptions.GET("", handler.listExceptions)
		exceptions.POST("/:exception_id/dismiss", handler.dismissException)
		exceptions.POST("/:exception_id/resolve-create", handler.resolveCreate)
		exceptions.POST("/:exception_id/resolve-match", handler.resolveMatch)
	}
}
