package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PGohila/LMS/internal/middleware"
	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
	"github.com/PGohila/LMS/internal/services"
)

type PastDueHandler struct {
	pastDueService *services.PastDueService
}

func NewPastDueHandler(pastDueService *services.PastDueService) *PastDueHandler {
	return &PastDueHandler{pastDueService: pastDueService}
}

// @Summary Run Past-Due Scan
// @Description Detect overdue installments, accrue penalties and flag accounts. Safe to rerun; penalties accrue at most once per day.
// @Tags PastDue
// @Accept json
// @Produce json
// @Success 200 {object} services.ScanResult
// @Security BearerAuth
// @Router /pastdue/scan [post]
func (h *PastDueHandler) Scan(c *gin.Context) {
	result, err := h.pastDueService.Scan(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary List Past-Due Records
// @Description Get a paginated list of past-due records
// @Tags PastDue
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status (open, cured)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /pastdue/records [get]
func (h *PastDueHandler) Records(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["status"] = c.Query("status")
	query.Filters["loan_account_id"] = c.Query("account_id")

	records, total, err := h.pastDueService.Records(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.PastDueResponse
	for _, record := range records {
		responses = append(responses, record.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"records": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Penalty Policy
// @Description Get the active penalty configuration
// @Tags PastDue
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /pastdue/config [get]
func (h *PastDueHandler) Config(c *gin.Context) {
	cfg, err := h.pastDueService.Config(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active penalty policy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// @Summary Save Penalty Policy
// @Description Create or update the penalty configuration (admin only)
// @Tags PastDue
// @Accept json
// @Produce json
// @Param request body models.PenaltyConfig true "Penalty Policy"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /pastdue/config [put]
func (h *PastDueHandler) SaveConfig(c *gin.Context) {
	var cfg models.PenaltyConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.pastDueService.SaveConfig(c.Request.Context(), &cfg, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg, "message": "Penalty policy saved"})
}

// @Summary Send Due Reminders
// @Description Notify customers with installments falling due within the given window
// @Tags PastDue
// @Accept json
// @Produce json
// @Param days query int false "Look-ahead window in days" default(3)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /pastdue/reminders [post]
func (h *PastDueHandler) SendReminders(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "3"))
	if err != nil || days < 1 {
		days = 3
	}

	sent, err := h.pastDueService.SendReminders(c.Request.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders_sent": sent})
}
