package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PGohila/LMS/internal/middleware"
	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
	"github.com/PGohila/LMS/internal/services"
)

type CustomerHandler struct {
	customerService *services.CustomerService
	documentService *services.DocumentService
}

func NewCustomerHandler(customerService *services.CustomerService, documentService *services.DocumentService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		documentService: documentService,
	}
}

// @Summary List Customers
// @Description Get a paginated list of customers
// @Tags Customers
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by name, national ID or email"
// @Param officer_id query int false "Filter by assigned officer"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers [get]
func (h *CustomerHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["officer_id"] = c.Query("officer_id")
	query.Filters["employment_status"] = c.Query("employment_status")

	customers, total, err := h.customerService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.CustomerResponse
	for _, customer := range customers {
		responses = append(responses, customer.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Customer
// @Description Get a customer by ID
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Success 200 {object} models.CustomerResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id} [get]
func (h *CustomerHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	customer, err := h.customerService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer.ToResponse()})
}

// @Summary Create Customer
// @Description Register a new customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body models.Customer true "Customer Data"
// @Success 201 {object} models.CustomerResponse
// @Security BearerAuth
// @Router /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var customer models.Customer
	if err := BindNestedOrFlat(c, "customer", &customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if customer.FullName == "" || customer.NationalID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "full_name and national_id are required"})
		return
	}

	actorID := middleware.GetUserID(c)
	if customer.OfficerID == nil {
		customer.OfficerID = &actorID
	}

	if err := h.customerService.Create(c.Request.Context(), &customer, actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer.ToResponse(), "message": "Customer created successfully"})
}

// @Summary Update Customer
// @Description Update an existing customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Param request body models.Customer true "Customer Data"
// @Success 200 {object} models.CustomerResponse
// @Security BearerAuth
// @Router /customers/{customer_id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	customer, err := h.customerService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	if err := BindNestedOrFlat(c, "customer", customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customer.ID = uint(id)

	actorID := middleware.GetUserID(c)
	if err := h.customerService.Update(c.Request.Context(), customer, actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer.ToResponse(), "message": "Customer updated successfully"})
}

// @Summary Delete Customer
// @Description Soft delete a customer with no open applications
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.customerService.Delete(c.Request.Context(), uint(id), actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

// @Summary List Customer Applications
// @Description Get all loan applications for a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers/{customer_id}/applications [get]
func (h *CustomerHandler) Applications(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	applications, err := h.customerService.Applications(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.ApplicationResponse
	for _, app := range applications {
		responses = append(responses, app.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"applications": responses})
}

// @Summary List Customer Documents
// @Description Get all documents uploaded for a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers/{customer_id}/documents [get]
func (h *CustomerHandler) Documents(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	documents, err := h.documentService.FindByCustomer(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.DocumentResponse
	for _, doc := range documents {
		responses = append(responses, doc.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"documents": responses})
}
