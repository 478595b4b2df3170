package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resource category constants
const (
	ResourceCategoryCourts    = "courts"
	ResourceCategoryMediation = "mediation"
	ResourceCategoryProBono   = "probono"
	ResourceCategoryLibrary   = "library"
)

// LegalResource is an entry of the public legal help directory
type LegalResource struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Category + Name is the natural key used by the seeder
	Category string `gorm:"not null;uniqueIndex:idx_resource_category_name" json:"category"`
	Name     string `gorm:"not null;uniqueIndex:idx_resource_category_name" json:"name"`

	Subtitle string `json:"subtitle,omitempty"` // library topics
	Articles int    `json:"articles,omitempty"` // library topics
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Hours    string `json:"hours,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *LegalResource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for LegalResource model
func (LegalResource) TableName() string {
	return "legal_resources"
}

// IsValidResourceCategory checks if the category is valid
func IsValidResourceCategory(category string) bool {
	switch category {
	case ResourceCategoryCourts, ResourceCategoryMediation, ResourceCategoryProBono, ResourceCategoryLibrary:
		return true
	}
	return false
}
