package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/dto"
	"github.com/finbooks/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for the journal entry lifecycle.
type journalHandler struct {
	journalService portssvc.JournalService
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalService) *journalHandler {
	return &journalHandler{journalService: journalService}
}

func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	createReq := dto.CreateEntryRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID := middleware.GetUserIDFromContext(c)

	entry, err := h.journalService.CreateEntry(c.Request.Context(), companyID, createReq, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create journal entry")
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	entryID := c.Param("entry_id")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), companyID, entryID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *journalHandler) submitEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	entryID := c.Param("entry_id")
	userID := middleware.GetUserIDFromContext(c)

	entry, err := h.journalService.SubmitEntry(c.Request.Context(), companyID, entryID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to submit journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *journalHandler) approveEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	entryID := c.Param("entry_id")
	userID := middleware.GetUserIDFromContext(c)

	approveReq := dto.ApproveEntryRequest{}
	if err := c.ShouldBindJSON(&approveReq); err != nil {
		logger.Error("Failed to bind JSON for approveEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	entry, err := h.journalService.ApproveEntry(c.Request.Context(), companyID, entryID, approveReq.Comment, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to approve journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	entryID := c.Param("entry_id")
	userID := middleware.GetUserIDFromContext(c)

	entry, err := h.journalService.PostEntry(c.Request.Context(), companyID, entryID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to post journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	entryID := c.Param("entry_id")
	userID := middleware.GetUserIDFromContext(c)

	reverseReq := dto.ReverseEntryRequest{}
	if err := c.ShouldBindJSON(&reverseReq); err != nil {
		logger.Error("Failed to bind JSON for reverseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.journalService.ReverseEntry(c.Request.Context(), companyID, entryID, reverseReq.Reason, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reverse journal entry")
		return
	}

	logger.Info("Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversing_entry_id", result.ReversingEntry.EntryID))
	c.JSON(http.StatusCreated, dto.ToReversalResponse(result))
}

// registerJournalRoutes registers journal entry routes on the company group.
func registerJournalRoutes(group *gin.RouterGroup, journalService portssvc.JournalService) {
	handler := newJournalHandler(journalService)

	entries := group.Group("/journal-entries")
	{
		entries.POST("", handler.createEntry)
		entries.GET("/:entry_id", handler.getEntry)
		entries.POST("/:entry_id/submit", handler.submitEntry)
		entries.POST("/:entry_id/approve", handler.approveEntry)
		entries.POST("/:entry_id/post", handler.postEntry)
		entries.POST("/:entry_id/reverse", handler.reverseEntry)
	}
}
