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

// batchHandler handles bulk lifecycle operations on journal entries.
type batchHandler struct {
	batchService portssvc.BatchService
}

// newBatchHandler creates a new batchHandler.
func newBatchHandler(batchService portssvc.BatchService) *batchHandler {
	return &batchHandler{batchService: batchService}
}

// Batch endpoints always return 200 with a per-item result body; individual
// failures are data, not HTTP errors. Only invalid input fails the call.

func (h *batchHandler) batchApprove(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	req := dto.BatchApproveRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for batchApprove", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	h.execute(c, companyID, portssvc.BatchRequest{
		Operation: domain.BatchApprove,
		EntryIDs:  req.EntryIDs,
		Comment:   req.Comment,
	})
}

func (h *batchHandler) batchPost(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	req := dto.BatchPostRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for batchPost", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	h.execute(c, companyID, portssvc.BatchRequest{
		Operation: domain.BatchPost,
		EntryIDs:  req.EntryIDs,
	})
}

func (h *batchHandler) batchReverse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	req := dto.BatchReverseRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for batchReverse", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	h.execute(c, companyID, portssvc.BatchRequest{
		Operation: domain.BatchReverse,
		EntryIDs:  req.EntryIDs,
		Reason:    req.Reason,
	})
}

func (h *batchHandler) execute(c *gin.Context, companyID string, req portssvc.BatchRequest) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := middleware.GetUserIDFromContext(c)

	result, err := h.batchService.Execute(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to execute batch operation")
		return
	}

	c.JSON(http.StatusOK, result)
}

// registerBatchRoutes registers batch operation routes on the company group.
func registerBatchRoutes(group *gin.RouterGroup, batchService portssvc.BatchService) {
	handler := newBatchHandler(batchService)

	batch := group.Group("/journal-entries/batch")
	{
		batch.POST("/approve", handler.batchApprove)
		batch.POST("/post", handler.batchPost)
		batch.POST("/reverse", handler.batchReverse)
	}
}
