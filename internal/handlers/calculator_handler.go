package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/PGohila/LMS/internal/amortization"
	"github.com/PGohila/LMS/internal/services"
)

type CalculatorHandler struct {
	calculatorService *services.CalculatorService
}

func NewCalculatorHandler(calculatorService *services.CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{calculatorService: calculatorService}
}

type CalculateRequest struct {
	Principal     decimal.Decimal `json:"principal" binding:"required"`
	InterestRate  decimal.Decimal `json:"interest_rate" binding:"required"`
	TermCount     decimal.Decimal `json:"term_count" binding:"required"`
	TermUnit      string          `json:"term_unit" binding:"required"`
	Frequency     string          `json:"frequency" binding:"required"`
	Method        string          `json:"method" binding:"required"`
	RepaymentMode string          `json:"repayment_mode"`
	InterestBasis string          `json:"interest_basis"`
	StartDate     string          `json:"start_date"`
}

// Terms converts the request into engine input. An absent start date
// defaults to today; an absent mode or basis takes the engine defaults.
func (r *CalculateRequest) Terms() (amortization.Terms, error) {
	start := time.Now()
	if r.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", r.StartDate)
		if err != nil {
			return amortization.Terms{}, err
		}
		start = parsed
	}

	mode := amortization.RepaymentMode(r.RepaymentMode)
	if mode == "" {
		mode = amortization.ModePrincipalAndInterest
	}
	basis := amortization.InterestBasis(r.InterestBasis)
	if basis == "" {
		basis = amortization.Basis365
	}

	return amortization.Terms{
		Principal:         r.Principal,
		AnnualRatePercent: r.InterestRate,
		TenureValue:       r.TermCount,
		TenureUnit:        amortization.TenureUnit(r.TermUnit),
		Frequency:         amortization.Frequency(r.Frequency),
		RepaymentMode:     mode,
		InterestBasis:     basis,
		Method:            amortization.Method(r.Method),
		StartDate:         start,
	}, nil
}

// @Summary Calculate Repayment Plan
// @Description Compute an amortization schedule without persisting anything
// @Tags Calculator
// @Accept json
// @Produce json
// @Param request body CalculateRequest true "Loan Terms"
// @Success 200 {object} amortization.PlanResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /calculator/plan [post]
func (h *CalculatorHandler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	terms, err := req.Terms()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be formatted as YYYY-MM-DD"})
		return
	}

	plan, err := h.calculatorService.Calculate(c.Request.Context(), terms)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, plan)
}

// @Summary List Calculation Methods
// @Description Get the supported amortization methods
// @Tags Calculator
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /calculator/methods [get]
func (h *CalculatorHandler) Methods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"methods": h.calculatorService.Methods()})
}
