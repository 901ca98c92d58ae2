package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PGohila/LMS/internal/middleware"
	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/services"
)

type DocumentHandler struct {
	documentService *services.DocumentService
}

func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// @Summary Upload Document
// @Description Upload a document for a customer or an application (multipart form)
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file"
// @Param customer_id formData int false "Customer ID"
// @Param application_id formData int false "Application ID"
// @Param type_id formData int false "Document type ID"
// @Success 201 {object} models.DocumentResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file is required"})
		return
	}
	defer file.Close()

	parseOptionalID := func(field string) *uint {
		raw := c.PostForm(field)
		if raw == "" {
			return nil
		}
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil
		}
		id := uint(parsed)
		return &id
	}

	customerID := parseOptionalID("customer_id")
	applicationID := parseOptionalID("application_id")
	typeID := parseOptionalID("type_id")

	doc, err := h.documentService.Upload(c.Request.Context(), file, header, customerID, applicationID, typeID, middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"document": doc.ToResponse(), "message": "Document uploaded"})
}

// @Summary Get Document
// @Description Get document metadata by UUID
// @Tags Documents
// @Produce json
// @Param document_id path string true "Document UUID"
// @Success 200 {object} models.DocumentResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{document_id} [get]
func (h *DocumentHandler) Show(c *gin.Context) {
	doc, err := h.documentService.FindByUUID(c.Request.Context(), c.Param("document_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc.ToResponse()})
}

// @Summary Download Document
// @Description Stream the stored file to the client
// @Tags Documents
// @Produce octet-stream
// @Param document_id path string true "Document UUID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{document_id}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	doc, file, err := h.documentService.Open(c.Request.Context(), c.Param("document_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Header("Content-Type", doc.ContentType)
	c.Header("Content-Length", strconv.FormatInt(doc.Size, 10))
	c.DataFromReader(http.StatusOK, doc.Size, doc.ContentType, file, nil)
}

type VerifyDocumentRequest struct {
	Approved bool `json:"approved"`
}

// @Summary Verify Document
// @Description Mark a pending document as verified or rejected
// @Tags Documents
// @Accept json
// @Produce json
// @Param document_id path string true "Document UUID"
// @Param request body VerifyDocumentRequest true "Verification decision"
// @Success 200 {object} models.DocumentResponse
// @Security BearerAuth
// @Router /documents/{document_id}/verify [post]
func (h *DocumentHandler) Verify(c *gin.Context) {
	var req VerifyDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.documentService.Verify(c.Request.Context(), c.Param("document_id"), req.Approved, middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc.ToResponse(), "message": "Document verification updated"})
}

// @Summary Delete Document
// @Description Delete a document and its stored file
// @Tags Documents
// @Produce json
// @Param document_id path string true "Document UUID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /documents/{document_id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documentService.Delete(c.Request.Context(), c.Param("document_id"), middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

// @Summary List Document Types
// @Description Get the configured document types
// @Tags Documents
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /documents/types [get]
func (h *DocumentHandler) Types(c *gin.Context) {
	types, err := h.documentService.Types(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}

// @Summary Create Document Type
// @Description Register a new document type (admin only)
// @Tags Documents
// @Accept json
// @Produce json
// @Param request body models.DocumentType true "Document Type"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /documents/types [post]
func (h *DocumentHandler) CreateType(c *gin.Context) {
	var docType models.DocumentType
	if err := c.ShouldBindJSON(&docType); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if docType.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if err := h.documentService.CreateType(c.Request.Context(), &docType, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"type": docType, "message": "Document type created"})
}
