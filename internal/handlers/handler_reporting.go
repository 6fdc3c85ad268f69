package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/dto"
	"github.com/finbooks/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// reportingHandler handles HTTP requests for ledger reports.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(reportingService portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

// parseDateQuery parses a YYYY-MM-DD query parameter, defaulting to today.
func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return time.Now().UTC(), true
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return parsed, true
}

func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	asOf, ok := parseDateQuery(c, "asOfDate")
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), companyID, asOf)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	asOf, ok := parseDateQuery(c, "asOfDate")
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), companyID, asOf)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate balance sheet")
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

func (h *reportingHandler) profitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both from and to dates are required"})
		return
	}
	from, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), companyID, from, to)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate profit and loss report")
		return
	}

	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report))
}

func (h *reportingHandler) aging(kind domain.OpenItemKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		companyID := c.Param("company_id")

		asOf, ok := parseDateQuery(c, "asOfDate")
		if !ok {
			return
		}

		report, err := h.reportingService.AgingReport(c.Request.Context(), companyID, kind, asOf)
		if err != nil {
			respondWithError(c, logger, err, "Failed to generate aging report")
			return
		}

		logger.Debug("Aging report generated",
			slog.String("company_id", companyID),
			slog.String("kind", string(kind)))
		c.JSON(http.StatusOK, dto.ToAgingReportResponse(report))
	}
}

// registerReportingRoutes registers report routes on the company group.
func registerReportingRoutes(group *gin.RouterGroup, reportingService portssvc.ReportingService) {
	handler := newReportingHandler(reportingService)

	reports := group.Group("/reports")
	{
		reports.GET("/trial-balance", handler.trialBalance)
		reports.GET("/balance-sheet", handler.balanceSheet)
		reports.GET("/profit-and-loss", handler.profitAndLoss)
		reports.GET("/ar-aging", handler.aging(domain.ReceivableItem))
		reports.GET("/ap-aging", handler.aging(domain.PayableItem))
	}
}
