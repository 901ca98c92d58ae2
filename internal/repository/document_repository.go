package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PGohila/LMS/internal/models"
)

// DocumentRepository defines the interface for document metadata access
type DocumentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Document, error)
	FindByUUID(ctx context.Context, uuid string) (*models.Document, error)
	FindByCustomer(ctx context.Context, customerID uint) ([]models.Document, error)
	FindByApplication(ctx context.Context, applicationID uint) ([]models.Document, error)
	Create(ctx context.Context, doc *models.Document) error
	Update(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, id uint) error
	ListTypes(ctx context.Context) ([]models.DocumentType, error)
	CreateType(ctx context.Context, docType *models.DocumentType) error
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) FindByID(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	if err := r.db.WithContext(ctx).Preload("Type").First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindByUUID(ctx context.Context, uuid string) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).
		Preload("Type").
		Where("uuid = ?", uuid).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindByCustomer(ctx context.Context, customerID uint) ([]models.Document, error) {
	var docs []models.Document
	err := r.db.WithContext(ctx).
		Preload("Type").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *documentRepository) FindByApplication(ctx context.Context, applicationID uint) ([]models.Document, error) {
	var docs []models.Document
	err := r.db.WithContext(ctx).
		Preload("Type").
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) Update(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *documentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Document{}, id).Error
}

func (r *documentRepository) ListTypes(ctx context.Context) ([]models.DocumentType, error) {
	var types []models.DocumentType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error
	return types, err
}

func (r *documentRepository) CreateType(ctx context.Context, docType *models.DocumentType) error {
	return r.db.WithContext(ctx).Create(docType).Error
}
