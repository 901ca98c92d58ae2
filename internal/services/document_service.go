package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
	"github.com/PGohila/LMS/internal/storage"
)

// DocumentService stores uploaded customer and application documents and
// tracks their verification state.
type DocumentService struct {
	repo     repository.DocumentRepository
	storage  *storage.LocalStorage
	auditSvc *AuditService
}

func NewDocumentService(repo repository.DocumentRepository, store *storage.LocalStorage, auditSvc *AuditService) *DocumentService {
	return &DocumentService{
		repo:     repo,
		storage:  store,
		auditSvc: auditSvc,
	}
}

func (s *DocumentService) FindByUUID(ctx context.Context, id string) (*models.Document, error) {
	return s.repo.FindByUUID(ctx, id)
}

func (s *DocumentService) FindByCustomer(ctx context.Context, customerID uint) ([]models.Document, error) {
	return s.repo.FindByCustomer(ctx, customerID)
}

func (s *DocumentService) FindByApplication(ctx context.Context, applicationID uint) ([]models.Document, error) {
	return s.repo.FindByApplication(ctx, applicationID)
}

// Upload validates and stores a file, then records its metadata. Exactly one
// of customerID and applicationID may be nil.
func (s *DocumentService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, customerID, applicationID, typeID *uint, actorID uint) (*models.Document, error) {
	if customerID == nil && applicationID == nil {
		return nil, fmt.Errorf("document must belong to a customer or an application")
	}

	contentType := header.Header.Get("Content-Type")
	if !storage.IsValidContentType(contentType) {
		return nil, fmt.Errorf("content type %s is not allowed", contentType)
	}
	if header.Size > storage.MaxFileSize() {
		return nil, fmt.Errorf("file exceeds the maximum size of %d bytes", storage.MaxFileSize())
	}

	path, err := s.storage.Upload(file, header, "documents")
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		UUID:          uuid.New().String(),
		CustomerID:    customerID,
		ApplicationID: applicationID,
		TypeID:        typeID,
		FileName:      header.Filename,
		Path:          path,
		ContentType:   contentType,
		Size:          header.Size,
		Verification:  models.VerificationPending,
		UploadedBy:    &actorID,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		s.storage.Delete(path)
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "UPLOAD", "Document", doc.ID,
		fmt.Sprintf("Document uploaded: %s (%s)", doc.FileName, doc.ContentType), "", "")
	return doc, nil
}

// Open returns the stored file for streaming to the client.
func (s *DocumentService) Open(ctx context.Context, id string) (*models.Document, *os.File, error) {
	doc, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.storage.Download(doc.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("stored file missing: %w", err)
	}
	return doc, f, nil
}

// Verify marks a pending document as verified or rejected.
func (s *DocumentService) Verify(ctx context.Context, id string, approved bool, actorID uint) (*models.Document, error) {
	doc, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.MayVerify() {
		return nil, fmt.Errorf("document is already %s: %w", doc.Verification, ErrInvalidState)
	}

	now := time.Now()
	if approved {
		doc.Verification = models.VerificationVerified
	} else {
		doc.Verification = models.VerificationRejected
	}
	doc.VerifiedBy = &actorID
	doc.VerifiedAt = &now
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "VERIFY", "Document", doc.ID,
		fmt.Sprintf("Document %s marked %s", doc.FileName, doc.Verification), "", "")
	return doc, nil
}

// Delete removes the metadata row and the stored file.
func (s *DocumentService) Delete(ctx context.Context, id string, actorID uint) error {
	doc, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, doc.ID); err != nil {
		return err
	}
	if err := s.storage.Delete(doc.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "DELETE", "Document", doc.ID,
		fmt.Sprintf("Document deleted: %s", doc.FileName), "", "")
}

// Types lists the configured document types.
func (s *DocumentService) Types(ctx context.Context) ([]models.DocumentType, error) {
	return s.repo.ListTypes(ctx)
}

// CreateType registers a new document type.
func (s *DocumentService) CreateType(ctx context.Context, docType *models.DocumentType, actorID uint) error {
	if err := s.repo.CreateType(ctx, docType); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "CREATE", "DocumentType", docType.ID,
		fmt.Sprintf("Document type created: %s", docType.Name), "", "")
}
