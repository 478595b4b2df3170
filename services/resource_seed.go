package services

import (
	_ "embed"
	"fmt"

	"minerva_app_go/models"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed data/legal_resources.yaml
var legalResourcesYAML []byte

// resourceSeedEntry is one directory entry as written in the seed file
type resourceSeedEntry struct {
	Name     string `yaml:"name"`
	Subtitle string `yaml:"subtitle"`
	Articles int    `yaml:"articles"`
	Address  string `yaml:"address"`
	Phone    string `yaml:"phone"`
	Hours    string `yaml:"hours"`
}

// resourceCategoryOrder fixes the seeding order of the categories
var resourceCategoryOrder = []string{
	models.ResourceCategoryCourts,
	models.ResourceCategoryMediation,
	models.ResourceCategoryProBono,
	models.ResourceCategoryLibrary,
}

// ParseLegalResources decodes a seed document into directory records
func ParseLegalResources(data []byte) ([]models.LegalResource, error) {
	var doc map[string][]resourceSeedEntry
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse legal resources: %w", err)
	}

	for category := range doc {
		if !models.IsValidResourceCategory(category) {
			return nil, fmt.Errorf("unknown resource category %q", category)
		}
	}

	var resources []models.LegalResource
	for _, category := range resourceCategoryOrder {
		for _, e := range doc[category] {
			if e.Name == "" {
				return nil, fmt.Errorf("resource in %s without a name", category)
			}
			resources = append(resources, models.LegalResource{
				Category: category,
				Name:     e.Name,
				Subtitle: e.Subtitle,
				Articles: e.Articles,
				Address:  e.Address,
				Phone:    e.Phone,
				Hours:    e.Hours,
			})
		}
	}
	return resources, nil
}

// SeedLegalResources loads the embedded directory into the database.
// Running it again updates existing entries instead of duplicating them.
func SeedLegalResources(db *gorm.DB) error {
	resources, err := ParseLegalResources(legalResourcesYAML)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, r := range resources {
			var existing models.LegalResource
			err := tx.Where(models.LegalResource{Category: r.Category, Name: r.Name}).
				Assign(models.LegalResource{
					Subtitle: r.Subtitle,
					Articles: r.Articles,
					Address:  r.Address,
					Phone:    r.Phone,
					Hours:    r.Hours,
				}).
				FirstOrCreate(&existing).Error
			if err != nil {
				return fmt.Errorf("failed to seed resource %s/%s: %w", r.Category, r.Name, err)
			}
		}
		zap.S().Infof("[SEED] Legal resources seeded (%d entries)", len(resources))
		return nil
	})
}

// ListLegalResources returns the directory, optionally filtered by category,
// ordered by category and name
func ListLegalResources(db *gorm.DB, category string) ([]models.LegalResource, error) {
	var resources []models.LegalResource
	query := db.Order("category ASC, name ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&resources).Error; err != nil {
		return nil, fmt.Errorf("failed to list legal resources: %w", err)
	}
	return resources, nil
}
