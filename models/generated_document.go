package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GeneratedDocument stores the body text returned for one generation call
// together with the metadata the document shell needs to render it.
type GeneratedDocument struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TemplateID string `gorm:"not null;index" json:"template_id"`
	Title      string `gorm:"not null" json:"title"`
	Content    string `gorm:"type:text;not null" json:"content"`

	// Metadata
	Author     string  `gorm:"not null" json:"author"`
	CaseNumber *string `json:"case_number,omitempty"`

	// Form values as submitted, sealed at rest. Empty when no key is configured.
	SealedFormValues string `gorm:"type:text" json:"-"`

	// Export tracking
	FileName    string     `json:"file_name,omitempty"`
	StorageKey  string     `json:"-"`
	ExportURL   string     `json:"export_url,omitempty"`
	ExportedAt  *time.Time `json:"exported_at,omitempty"`
	ExportedVia string     `json:"exported_via,omitempty"` // storage, email
}

// BeforeCreate hook to generate UUID
func (d *GeneratedDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for GeneratedDocument model
func (GeneratedDocument) TableName() string {
	return "generated_documents"
}

// IsExported reports whether the document has been shared at least once
func (d *GeneratedDocument) IsExported() bool {
	return d.ExportedAt != nil
}
