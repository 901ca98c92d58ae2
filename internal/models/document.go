package models

import "time"

// DocumentType classifies uploaded documents (id card, payslip, agreement...).
type DocumentType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description *string   `json:"description"`
	Required    bool      `gorm:"default:false" json:"required"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for DocumentType
func (DocumentType) TableName() string {
	return "document_types"
}

// Document is an uploaded file attached to a customer or an application.
// The file itself lives in local storage; this row carries the metadata.
type Document struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UUID          string     `gorm:"uniqueIndex;not null" json:"uuid"`
	CustomerID    *uint      `gorm:"index" json:"customer_id"`
	ApplicationID *uint      `gorm:"index" json:"application_id"`
	TypeID        *uint      `json:"type_id"`
	FileName      string     `gorm:"not null" json:"file_name"`
	Path          string     `gorm:"not null" json:"-"`
	ContentType   string     `json:"content_type"`
	Size          int64      `json:"size"`
	Verification  string     `gorm:"default:pending;index" json:"verification"`
	VerifiedBy    *uint      `json:"verified_by"`
	VerifiedAt    *time.Time `json:"verified_at"`
	UploadedBy    *uint      `json:"uploaded_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Type *DocumentType `gorm:"foreignKey:TypeID" json:"type,omitempty"`
}

// TableName specifies the table name for Document
func (Document) TableName() string {
	return "documents"
}

// Verification status constants
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// MayVerify returns true while the document awaits verification
func (d *Document) MayVerify() bool {
	return d.Verification == VerificationPending
}

// DocumentResponse is the JSON response format for documents
type DocumentResponse struct {
	ID            uint       `json:"id"`
	UUID          string     `json:"uuid"`
	CustomerID    *uint      `json:"customer_id"`
	ApplicationID *uint      `json:"application_id"`
	TypeName      string     `json:"type_name,omitempty"`
	FileName      string     `json:"file_name"`
	ContentType   string     `json:"content_type"`
	Size          int64      `json:"size"`
	Verification  string     `json:"verification"`
	VerifiedAt    *time.Time `json:"verified_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToResponse converts Document to DocumentResponse
func (d *Document) ToResponse() DocumentResponse {
	resp := DocumentResponse{
		ID:            d.ID,
		UUID:          d.UUID,
		CustomerID:    d.CustomerID,
		ApplicationID: d.ApplicationID,
		FileName:      d.FileName,
		ContentType:   d.ContentType,
		Size:          d.Size,
		Verification:  d.Verification,
		VerifiedAt:    d.VerifiedAt,
		CreatedAt:     d.CreatedAt,
	}
	if d.Type != nil {
		resp.TypeName = d.Type.Name
	}
	return resp
}
