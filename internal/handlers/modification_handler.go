package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/PGohila/LMS/internal/middleware"
	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
	"github.com/PGohila/LMS/internal/services"
)

type ModificationHandler struct {
	modificationService *services.ModificationService
}

func NewModificationHandler(modificationService *services.ModificationService) *ModificationHandler {
	return &ModificationHandler{modificationService: modificationService}
}

// @Summary List Modifications
// @Description Get a paginated list of loan modification requests
// @Tags Modifications
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /modifications [get]
func (h *ModificationHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["status"] = c.Query("status")
	query.Filters["application_id"] = c.Query("application_id")

	modifications, total, err := h.modificationService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.ModificationResponse
	for _, mod := range modifications {
		responses = append(responses, mod.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"modifications": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Modification
// @Description Get a modification request by ID
// @Tags Modifications
// @Accept json
// @Produce json
// @Param modification_id path int true "Modification ID"
// @Success 200 {object} models.ModificationResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /modifications/{modification_id} [get]
func (h *ModificationHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("modification_id"), 10, 32)
	mod, err := h.modificationService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Modification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"modification": mod.ToResponse()})
}

type ModificationRequest struct {
	ApplicationID  uint            `json:"application_id" binding:"required"`
	NewRate        decimal.Decimal `json:"new_rate"`
	NewTermCount   decimal.Decimal `json:"new_term_count"`
	PrincipalDelta decimal.Decimal `json:"principal_delta"`
	Reason         string          `json:"reason"`
}

// @Summary Request Modification
// @Description Request a rate, term or principal change for an active loan
// @Tags Modifications
// @Accept json
// @Produce json
// @Param request body ModificationRequest true "Modification Terms"
// @Success 201 {object} models.ModificationResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /modifications [post]
func (h *ModificationHandler) Create(c *gin.Context) {
	var req ModificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	mod, err := h.modificationService.Request(c.Request.Context(), req.ApplicationID,
		req.NewRate, req.NewTermCount, req.PrincipalDelta, reason, middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"modification": mod.ToResponse(), "message": "Modification requested"})
}

// @Summary Approve Modification
// @Description Approve a pending modification request
// @Tags Modifications
// @Accept json
// @Produce json
// @Param modification_id path int true "Modification ID"
// @Success 200 {object} models.ModificationResponse
// @Security BearerAuth
// @Router /modifications/{modification_id}/approve [post]
func (h *ModificationHandler) Approve(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("modification_id"), 10, 32)
	mod, err := h.modificationService.Approve(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"modification": mod.ToResponse(), "message": "Modification approved"})
}

// @Summary Reject Modification
// @Description Reject a pending modification request
// @Tags Modifications
// @Accept json
// @Produce json
// @Param modification_id path int true "Modification ID"
// @Success 200 {object} models.ModificationResponse
// @Security BearerAuth
// @Router /modifications/{modification_id}/reject [post]
func (h *ModificationHandler) Reject(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("modification_id"), 10, 32)
	mod, err := h.modificationService.Reject(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"modification": mod.ToResponse(), "message": "Modification rejected"})
}

// @Summary Apply Modification
// @Description Apply an approved modification: regenerates the remaining schedule with the new terms
// @Tags Modifications
// @Accept json
// @Produce json
// @Param modification_id path int true "Modification ID"
// @Success 200 {object} models.ModificationResponse
// @Security BearerAuth
// @Router /modifications/{modification_id}/apply [post]
func (h *ModificationHandler) Apply(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("modification_id"), 10, 32)
	mod, err := h.modificationService.Apply(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"modification": mod.ToResponse(), "message": "Modification applied"})
}
