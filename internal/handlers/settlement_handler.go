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

type SettlementHandler struct {
	settlementService *services.SettlementService
}

func NewSettlementHandler(settlementService *services.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// @Summary List Settlements
// @Description Get a paginated list of early settlement offers
// @Tags Settlements
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /settlements [get]
func (h *SettlementHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["status"] = c.Query("status")
	query.Filters["loan_account_id"] = c.Query("account_id")

	settlements, total, err := h.settlementService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.SettlementResponse
	for _, settlement := range settlements {
		responses = append(responses, settlement.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"settlements": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Settlement
// @Description Get a settlement offer by ID
// @Tags Settlements
// @Accept json
// @Produce json
// @Param settlement_id path int true "Settlement ID"
// @Success 200 {object} models.SettlementResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /settlements/{settlement_id} [get]
func (h *SettlementHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("settlement_id"), 10, 32)
	settlement, err := h.settlementService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Settlement not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settlement": settlement.ToResponse()})
}

type SettlementProposalRequest struct {
	AccountID uint            `json:"account_id" binding:"required"`
	Discount  decimal.Decimal `json:"discount"`
	Reason    string          `json:"reason"`
}

// @Summary Propose Settlement
// @Description Propose an early settlement for a loan account with an optional discount on outstanding dues
// @Tags Settlements
// @Accept json
// @Produce json
// @Param request body SettlementProposalRequest true "Settlement Terms"
// @Success 201 {object} models.SettlementResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /settlements [post]
func (h *SettlementHandler) Create(c *gin.Context) {
	var req SettlementProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	settlement, err := h.settlementService.Propose(c.Request.Context(), req.AccountID, req.Discount, reason, middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"settlement": settlement.ToResponse(), "message": "Settlement proposed"})
}

// @Summary Accept Settlement
// @Description Accept a proposed settlement offer
// @Tags Settlements
// @Accept json
// @Produce json
// @Param settlement_id path int true "Settlement ID"
// @Success 200 {object} models.SettlementResponse
// @Security BearerAuth
// @Router /settlements/{settlement_id}/accept [post]
func (h *SettlementHandler) Accept(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("settlement_id"), 10, 32)
	settlement, err := h.settlementService.Accept(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settlement": settlement.ToResponse(), "message": "Settlement accepted"})
}

// @Summary Reject Settlement
// @Description Reject a proposed settlement offer
// @Tags Settlements
// @Accept json
// @Produce json
// @Param settlement_id path int true "Settlement ID"
// @Success 200 {object} models.SettlementResponse
// @Security BearerAuth
// @Router /settlements/{settlement_id}/reject [post]
func (h *SettlementHandler) Reject(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("settlement_id"), 10, 32)
	settlement, err := h.settlementService.Reject(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settlement": settlement.ToResponse(), "message": "Settlement rejected"})
}

// @Summary Complete Settlement
// @Description Record the settlement payment, close remaining dues and settle the account
// @Tags Settlements
// @Accept json
// @Produce json
// @Param settlement_id path int true "Settlement ID"
// @Success 200 {object} models.SettlementResponse
// @Security BearerAuth
// @Router /settlements/{settlement_id}/complete [post]
func (h *SettlementHandler) Complete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("settlement_id"), 10, 32)
	settlement, err := h.settlementService.Complete(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settlement": settlement.ToResponse(), "message": "Settlement completed"})
}
