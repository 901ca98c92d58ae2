package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PGohila/LMS/internal/middleware"
	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
	"github.com/PGohila/LMS/internal/services"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
	documentService    *services.DocumentService
}

func NewApplicationHandler(applicationService *services.ApplicationService, documentService *services.DocumentService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		documentService:    documentService,
	}
}

// @Summary List Applications
// @Description Get a paginated list of loan applications
// @Tags Applications
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param customer_id query int false "Filter by customer"
// @Param search_term query string false "Search by customer name or product"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /applications [get]
func (h *ApplicationHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["status"] = c.Query("status")
	query.Filters["customer_id"] = c.Query("customer_id")
	query.Filters["calculation_method"] = c.Query("calculation_method")

	// Parse sort parameter (format: field-direction)
	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	applications, total, err := h.applicationService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.ApplicationResponse
	for _, app := range applications {
		responses = append(responses, app.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Application
// @Description Get a loan application by ID
// @Tags Applications
// @Accept json
// @Produce json
// @Param application_id path int true "Application ID"
// @Success 200 {object} models.ApplicationResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /applications/{application_id} [get]
func (h *ApplicationHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)
	app, err := h.applicationService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app.ToResponse()})
}

// @Summary Create Application
// @Description Create a draft loan application
// @Tags Applications
// @Accept json
// @Produce json
// @Param request body models.LoanApplication true "Application Data"
// @Success 201 {object} models.ApplicationResponse
// @Security BearerAuth
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *gin.Context) {
	var app models.LoanApplication
	if err := BindNestedOrFlat(c, "application", &app); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	if app.OfficerID == nil {
		app.OfficerID = &actorID
	}

	if err := h.applicationService.Create(c.Request.Context(), &app, actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"application": app.ToResponse(), "message": "Application created"})
}

// @Summary Update Application
// @Description Update a draft application
// @Tags Applications
// @Accept json
// @Produce json
// @Param application_id path int true "Application ID"
// @Param request body models.LoanApplication true "Application Data"
// @Success 200 {object} models.ApplicationResponse
// @Security BearerAuth
// @Router /applications/{application_id} [put]
func (h *ApplicationHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)
	app, err := h.applicationService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	if err := BindNestedOrFlat(c, "application", app); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app.ID = uint(id)

	actorID := middleware.GetUserID(c)
	if err := h.applicationService.Update(c.Request.Context(), app, actorID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": app.ToResponse(), "message": "Application updated"})
}

// @Summary Submit Application
// @Description Submit a draft application for review
// @Tags Applications
// @Accept json
// @Produce json
// @Param application_id path int true "Application ID"
// @Success 200 {object} models.ApplicationResponse
// @Security BearerAuth
// @Router /applications/{application_id}/submit [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)
	app, err := h.applicationService.Submit(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app.ToResponse(), "message": "Application submitted"})
}

// @Summary Review Application
// @Description Move a submitted application to under review
// @Tags Applications
// @Accept json
// @Produce json
// @Param application_id path int true "Application ID"
// @Success 200 {object} models.ApplicationResponse
// @Security BearerAuth
// @Router /applications/{application_id}/review [post]
func (h *ApplicationHandler) Review(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)
	app, err := h.applicationService.Review(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app.ToResponse(), "message": "Application under review"})
}

type ApproveApplicationRequest struct {
	Notes string `json:"notes"`
}

// @Summary Approve Application
// @Description Approve an application: generates the repayment schedule, opens the loan account and disburses the principal
// @Tags Applications
// @Accept json
// @Produce json
// @Param application_id path int true "Application ID"
// @Param request body ApproveApplicationRequest false "Approval notes (optional)"
// @Success 200 {object} models.ApplicationResponse
// @Security BearerAuth
// @Router /applications/{application_id}/approve [post]
func (h *ApplicationHandler) Approve(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)
	var req ApproveApplicationRequest
	c.ShouldBindJSON(&req)

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	app, err := h.applicationService.Approve(c.Request.Context(), uint(id), middleware.GetUserID(c), notes)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app.ToResponse(), "message": "Application approved"})
}

type RejectApplicationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// @Summary Reject Application
// @Description Reject an application with a reason; the customer is notified
// @Tags Applications
// @Accept json
// @Produce json
// @Param application_id path int true "Application ID"
// @Param request body RejectApplicationRequest true "Rejection reason"
// @Success 200 {object} models.ApplicationResponse
// @Security BearerAuth
// @Router /applications/{application_id}/reject [post]
func (h *ApplicationHandler) Reject(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)
	var req RejectApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required"})
		return
	}

	app, err := h.applicationService.Reject(c.Request.Context(), uint(id), req.Reason, middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app.ToResponse(), "message": "Application rejected"})
}

// @Summary Preview Schedule
// @Description Compute the repayment plan for an application without persisting anything
// @Tags Applications
// @Accept json
// @Produce json
// @Param application_id path int true "Application ID"
// @Success 200 {object} amortization.PlanResponse
// @Security BearerAuth
// @Router /applications/{application_id}/preview [get]
func (h *ApplicationHandler) Preview(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)
	plan, err := h.applicationService.Preview(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// @Summary Application Schedules
// @Description Get the persisted repayment schedule of an application
// @Tags Applications
// @Accept json
// @Produce json
// @Param application_id path int true "Application ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /applications/{application_id}/schedules [get]
func (h *ApplicationHandler) Schedules(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)
	schedules, err := h.applicationService.Schedules(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.ScheduleResponse
	for _, row := range schedules {
		responses = append(responses, row.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"schedules": responses})
}

// @Summary Application History
// @Description Get the audit trail of an application's lifecycle
// @Tags Applications
// @Accept json
// @Produce json
// @Param application_id path int true "Application ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /applications/{application_id}/history [get]
func (h *ApplicationHandler) History(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)
	history, err := h.applicationService.History(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// @Summary Application Status Counts
// @Description Count applications per lifecycle status
// @Tags Applications
// @Accept json
// @Produce json
// @Success 200 {object} map[string]int
// @Security BearerAuth
// @Router /applications/status_counts [get]
func (h *ApplicationHandler) StatusCounts(c *gin.Context) {
	counts, err := h.applicationService.CountByStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, counts)
}

// @Summary List Application Documents
// @Description Get all documents attached to an application
// @Tags Applications
// @Accept json
// @Produce json
// @Param application_id path int true "Application ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /applications/{application_id}/documents [get]
func (h *ApplicationHandler) Documents(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("application_id"), 10, 32)
	documents, err := h.documentService.FindByApplication(c.Request.Context(), uint(id))
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
