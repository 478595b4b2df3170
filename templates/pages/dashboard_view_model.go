package pages

import (
	"minerva_app_go/models"
	"minerva_app_go/services"
)

// OverviewStats holds the data for the home overview
type OverviewStats struct {
	UpcomingDeadlines []services.DeadlineView    `json:"upcoming_deadlines"`
	UrgentCount       int                        `json:"urgent_count"`
	RecentDocuments   []models.GeneratedDocument `json:"recent_documents"`
	TemplateCount     int                        `json:"template_count"`
}

// NewOverviewStats keeps the first limit deadlines and counts the urgent ones
func NewOverviewStats(deadlines []services.DeadlineView, documents []models.GeneratedDocument, limit int) OverviewStats {
	stats := OverviewStats{
		RecentDocuments: documents,
		TemplateCount:   len(services.DocumentTemplates()),
	}
	for _, d := range deadlines {
		if d.Priority == models.DeadlinePriorityUrgent {
			stats.UrgentCount++
		}
	}
	if len(deadlines) > limit {
		deadlines = deadlines[:limit]
	}
	stats.UpcomingDeadlines = deadlines
	return stats
}
