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

type LoanAccountHandler struct {
	accountService   *services.AccountService
	repaymentService *services.RepaymentService
}

func NewLoanAccountHandler(accountService *services.AccountService, repaymentService *services.RepaymentService) *LoanAccountHandler {
	return &LoanAccountHandler{
		accountService:   accountService,
		repaymentService: repaymentService,
	}
}

// @Summary List Loan Accounts
// @Description Get a paginated list of loan accounts
// @Tags Accounts
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status (active, past_due, settled, closed)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /accounts [get]
func (h *LoanAccountHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["status"] = c.Query("status")

	accounts, total, err := h.accountService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.AccountResponse
	for _, account := range accounts {
		responses = append(responses, account.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Loan Account
// @Description Get a loan account with its balances
// @Tags Accounts
// @Accept json
// @Produce json
// @Param account_id path int true "Account ID"
// @Success 200 {object} models.AccountResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /accounts/{account_id} [get]
func (h *LoanAccountHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("account_id"), 10, 32)
	account, err := h.accountService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Loan account not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account.ToResponse()})
}

// @Summary Account Transactions
// @Description Get the transaction ledger of a loan account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param account_id path int true "Account ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /accounts/{account_id}/transactions [get]
func (h *LoanAccountHandler) Transactions(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("account_id"), 10, 32)
	transactions, err := h.accountService.Transactions(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.TransactionResponse
	for _, txn := range transactions {
		responses = append(responses, txn.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"transactions": responses})
}

type RepaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Notes  string          `json:"notes"`
}

// @Summary Record Repayment
// @Description Apply a repayment to a loan account: penalties first, then oldest unpaid installments, any remainder as advance deposit
// @Tags Accounts
// @Accept json
// @Produce json
// @Param account_id path int true "Account ID"
// @Param request body RepaymentRequest true "Repayment Amount"
// @Success 200 {object} services.RepaymentResult
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /accounts/{account_id}/repayments [post]
func (h *LoanAccountHandler) Repay(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("account_id"), 10, 32)
	var req RepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A positive amount is required"})
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
		return
	}

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	result, err := h.repaymentService.ApplyRepayment(c.Request.Context(), uint(id), req.Amount, notes, middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Apply Advance Deposit
// @Description Consume the account's advance balance against upcoming installments
// @Tags Accounts
// @Accept json
// @Produce json
// @Param account_id path int true "Account ID"
// @Success 200 {object} models.AccountResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /accounts/{account_id}/apply_advance [post]
func (h *LoanAccountHandler) ApplyAdvance(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("account_id"), 10, 32)
	account, err := h.repaymentService.ApplyAdvancePayment(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account.ToResponse(), "message": "Advance applied"})
}
