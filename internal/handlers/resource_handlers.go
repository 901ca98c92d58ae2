package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PGohila/LMS/internal/middleware"
	"github.com/PGohila/LMS/internal/repository"
	"github.com/PGohila/LMS/internal/services"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// @Summary List Notifications
// @Description Get a paginated list of notifications for the current user
// @Tags Notifications
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) Index(c *gin.Context) {
	userID := middleware.GetUserID(c)
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	notifications, total, err := h.notificationService.FindByUser(c.Request.Context(), userID, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, n := range notifications {
		responses = append(responses, n.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"notifications": responses, "pagination": gin.H{"total": total}})
}

// @Summary Get Notification
// @Description Get a notification by ID
// @Tags Notifications
// @Accept json
// @Produce json
// @Param notification_id path int true "Notification ID"
// @Success 200 {object} models.NotificationResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /notifications/{notification_id} [get]
func (h *NotificationHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("notification_id"), 10, 32)
	notification, err := h.notificationService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": notification.ToResponse()})
}

// @Summary Mark Notification Read
// @Description Mark a notification as read
// @Tags Notifications
// @Accept json
// @Produce json
// @Param notification_id path int true "Notification ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /notifications/{notification_id} [put]
func (h *NotificationHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("notification_id"), 10, 32)
	if err := h.notificationService.MarkAsRead(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// @Summary Delete Notification
// @Description Delete a notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Param notification_id path int true "Notification ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /notifications/{notification_id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("notification_id"), 10, 32)
	if err := h.notificationService.Delete(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// @Summary Mark All Notifications Read
// @Description Mark all notifications as read for current user
// @Tags Notifications
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /notifications/mark_all_as_read [post]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// @Summary Schedule Report
// @Description Download an application's repayment schedule as CSV
// @Tags Reports
// @Produce text/csv
// @Param application_id query int true "Application ID"
// @Success 200 {file} file "schedule.csv"
// @Security BearerAuth
// @Router /reports/schedule_csv [get]
func (h *ReportHandler) ScheduleCSV(c *gin.Context) {
	applicationID, _ := strconv.ParseUint(c.Query("application_id"), 10, 32)
	if applicationID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "application_id is required"})
		return
	}

	buf, err := h.reportService.GenerateScheduleCSV(c.Request.Context(), uint(applicationID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=schedule_%d.csv", applicationID))
	c.String(http.StatusOK, buf.String())
}

// @Summary Overdue Report
// @Description Download all overdue installments as CSV
// @Tags Reports
// @Produce text/csv
// @Success 200 {file} file "overdue.csv"
// @Security BearerAuth
// @Router /reports/overdue_csv [get]
func (h *ReportHandler) OverdueCSV(c *gin.Context) {
	buf, err := h.reportService.GenerateOverdueCSV(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=overdue.csv")
	c.String(http.StatusOK, buf.String())
}

// @Summary Account Statement PDF
// @Description Download a loan account statement with its transaction ledger as PDF
// @Tags Reports
// @Produce application/pdf
// @Param account_id query int true "Account ID"
// @Success 200 {file} file "statement.pdf"
// @Security BearerAuth
// @Router /reports/statement_pdf [get]
func (h *ReportHandler) StatementPDF(c *gin.Context) {
	accountID, _ := strconv.ParseUint(c.Query("account_id"), 10, 32)
	if accountID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
		return
	}

	buf, err := h.reportService.GenerateStatementPDF(c.Request.Context(), uint(accountID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=statement_%d.pdf", accountID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary Loan Agreement PDF
// @Description Download the loan agreement of an approved application as PDF
// @Tags Reports
// @Produce application/pdf
// @Param application_id query int true "Application ID"
// @Success 200 {file} file "agreement.pdf"
// @Security BearerAuth
// @Router /reports/agreement_pdf [get]
func (h *ReportHandler) AgreementPDF(c *gin.Context) {
	applicationID, _ := strconv.ParseUint(c.Query("application_id"), 10, 32)
	if applicationID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "application_id is required"})
		return
	}

	buf, err := h.reportService.GenerateAgreementPDF(c.Request.Context(), uint(applicationID))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=agreement_%d.pdf", applicationID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Logs
// @Description Get a paginated list of system audit logs
// @Tags Audit
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(50)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	offset := (page - 1) * perPage

	logs, total, err := h.auditService.List(c.Request.Context(), perPage, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"audits": logs, "pagination": gin.H{"total": total, "page": page, "per_page": perPage}})
}

type PortfolioHandler struct {
	portfolioService *services.PortfolioService
	exportService    *services.ExportService
}

func NewPortfolioHandler(portfolioService *services.PortfolioService, exportService *services.ExportService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		exportService:    exportService,
	}
}

// @Summary Portfolio Overview
// @Description Get aggregate portfolio figures: disbursed, outstanding, collected, overdue and collection rate
// @Tags Portfolio
// @Produce json
// @Success 200 {object} models.PortfolioOverview
// @Security BearerAuth
// @Router /portfolio/overview [get]
func (h *PortfolioHandler) Overview(c *gin.Context) {
	overview, err := h.portfolioService.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, overview)
}

// @Summary Application Status Distribution
// @Description Get the count of applications per lifecycle status
// @Tags Portfolio
// @Produce json
// @Success 200 {object} models.StatusDistribution
// @Security BearerAuth
// @Router /portfolio/status_distribution [get]
func (h *PortfolioHandler) StatusDistribution(c *gin.Context) {
	dist, err := h.portfolioService.StatusDistribution(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dist)
}

// @Summary Overdue Aging
// @Description Get overdue amounts bucketed by days past due
// @Tags Portfolio
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /portfolio/overdue_aging [get]
func (h *PortfolioHandler) OverdueAging(c *gin.Context) {
	buckets, err := h.portfolioService.OverdueAging(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"buckets": buckets})
}

// @Summary Export Portfolio
// @Description Download the portfolio overview in csv, xlsx or pdf format
// @Tags Portfolio
// @Produce octet-stream
// @Param format query string false "Export format (csv, xlsx, pdf)" default(csv)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /portfolio/export [get]
func (h *PortfolioHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	overview, err := h.portfolioService.Overview(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	dist, err := h.portfolioService.StatusDistribution(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var data []byte
	var filename string
	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		data, filename, err = h.exportService.ExportPortfolioCSV(ctx, overview, dist)
		c.Header("Content-Type", "text/csv")
	case "xlsx":
		data, filename, err = h.exportService.ExportPortfolioXLSX(ctx, overview, dist)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	case "pdf":
		data, filename, err = h.exportService.ExportPortfolioPDF(ctx, overview, dist)
		c.Header("Content-Type", "application/pdf")
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv, xlsx or pdf"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, c.Writer.Header().Get("Content-Type"), data)
}

// @Summary Export Schedule
// @Description Download an application's repayment schedule as XLSX
// @Tags Portfolio
// @Produce octet-stream
// @Param application_id query int true "Application ID"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /portfolio/export_schedule [get]
func (h *PortfolioHandler) ExportSchedule(c *gin.Context) {
	applicationID, _ := strconv.ParseUint(c.Query("application_id"), 10, 32)
	if applicationID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "application_id is required"})
		return
	}

	data, filename, err := h.exportService.ExportScheduleXLSX(c.Request.Context(), uint(applicationID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
