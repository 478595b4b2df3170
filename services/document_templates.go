package services

import (
	"minerva_app_go/models"
)

// documentTemplateCatalog is the static template catalog in display order.
// It is never mutated; accessors hand out copies.
var documentTemplateCatalog = []models.DocumentTemplate{
	{
		ID:          "demanda",
		Title:       "Demanda",
		Description: "Documento para iniciar un proceso judicial",
		Color:       "#ef4444",
		Fields: []models.FieldSpec{
			{Name: "plaintiff", Label: "Datos del demandante", Type: models.FieldTypeText, Required: true},
			{Name: "defendant", Label: "Datos del demandado", Type: models.FieldTypeText, Required: true},
			{Name: "caseType", Label: "Tipo de caso", Type: models.FieldTypeSelect, Options: []string{"Alimentos", "Divorcio", "Laboral", "Civil"}},
			{Name: "facts", Label: "Hechos", Type: models.FieldTypeTextarea, Required: true},
			{Name: "amount", Label: "Monto reclamado", Type: models.FieldTypeNumber},
		},
	},
	{
		ID:          "contestacion",
		Title:       "Contestación",
		Description: "Respuesta a una demanda interpuesta",
		Color:       "#3b82f6",
		Fields: []models.FieldSpec{
			{Name: "defendant", Label: "Datos del demandado", Type: models.FieldTypeText, Required: true},
			{Name: "caseNumber", Label: "Número de expediente", Type: models.FieldTypeText, Required: true},
			{Name: "exceptions", Label: "Excepciones", Type: models.FieldTypeTextarea},
			{Name: "defenses", Label: "Defensas", Type: models.FieldTypeTextarea, Required: true},
			{Name: "counterClaim", Label: "Reconvención", Type: models.FieldTypeTextarea},
		},
	},
	{
		ID:          "apelacion",
		Title:       "Apelación",
		Description: "Recurso contra una resolución judicial",
		Color:       "#8b5cf6",
		Fields: []models.FieldSpec{
			{Name: "appellant", Label: "Datos del apelante", Type: models.FieldTypeText, Required: true},
			{Name: "resolution", Label: "Resolución apelada", Type: models.FieldTypeText, Required: true},
			{Name: "grievances", Label: "Agravios", Type: models.FieldTypeTextarea, Required: true},
			{Name: "legalBasis", Label: "Fundamentos de derecho", Type: models.FieldTypeTextarea, Required: true},
		},
	},
}

// DocumentTemplates returns the template catalog in display order
func DocumentTemplates() []models.DocumentTemplate {
	templates := make([]models.DocumentTemplate, 0, len(documentTemplateCatalog))
	for _, t := range documentTemplateCatalog {
		templates = append(templates, copyTemplate(t))
	}
	return templates
}

// GetDocumentTemplate looks up a template by id
func GetDocumentTemplate(id string) (models.DocumentTemplate, bool) {
	for _, t := range documentTemplateCatalog {
		if t.ID == id {
			return copyTemplate(t), true
		}
	}
	return models.DocumentTemplate{}, false
}

func copyTemplate(t models.DocumentTemplate) models.DocumentTemplate {
	fields := make([]models.FieldSpec, len(t.Fields))
	for i, f := range t.Fields {
		if f.Options != nil {
			f.Options = append([]string(nil), f.Options...)
		}
		fields[i] = f
	}
	t.Fields = fields
	return t
}
