package services

import (
	"regexp"
	"strings"
)

// variableRegex matches {{fieldName}} patterns
var variableRegex = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// DocumentSystemPrompt frames the model for drafting Salvadoran legal documents
const DocumentSystemPrompt = "Eres un experto en documentos legales de El Salvador. Genera documentos completos y formalmente correctos."

// promptTemplate is the user prompt for one template id, with the
// bracketed placeholder used for each slot whose value is blank.
type promptTemplate struct {
	Content      string
	Placeholders map[string]string
}

var documentPrompts = map[string]promptTemplate{
	"demanda": {
		Content: `Genera una demanda legal para El Salvador con los siguientes datos:
Demandante: {{plaintiff}}
Demandado: {{defendant}}
Tipo de caso: {{caseType}}
Hechos: {{facts}}

Incluye todas las secciones requeridas: encabezado, hechos, fundamentos de derecho, y petitorio.`,
		Placeholders: map[string]string{
			"plaintiff": "[NOMBRE DEL DEMANDANTE]",
			"defendant": "[NOMBRE DEL DEMANDADO]",
			"caseType":  "[TIPO DE CASO]",
			"facts":     "[DESCRIPCIÓN DE LOS HECHOS]",
		},
	},
	"contestacion": {
		Content: `Genera una contestación de demanda para El Salvador con los siguientes datos:
Demandado: {{defendant}}
Caso: {{caseNumber}}
Excepciones: {{exceptions}}
Defensas: {{defenses}}

Incluye negativa de hechos, excepciones, y defensas apropiadas.`,
		Placeholders: map[string]string{
			"defendant":  "[NOMBRE DEL DEMANDADO]",
			"caseNumber": "[NÚMERO DE CASO]",
			"exceptions": "[EXCEPCIONES A INTERPONER]",
			"defenses":   "[DEFENSAS DEL DEMANDADO]",
		},
	},
	"apelacion": {
		Content: `Genera un recurso de apelación para El Salvador con los siguientes datos:
Apelante: {{appellant}}
Resolución apelada: {{resolution}}
Agravios: {{grievances}}

Incluye fundamentos legales y petitorio específico.`,
		Placeholders: map[string]string{
			"appellant":  "[NOMBRE DEL APELANTE]",
			"resolution": "[RESOLUCIÓN APELADA]",
			"grievances": "[AGRAVIOS]",
		},
	},
}

// genericDocumentPrompt is used for template ids without a dedicated prompt
const genericDocumentPrompt = "Genera un documento legal básico para El Salvador."

// BuildDocumentPrompt renders the user prompt for a template id.
// The output depends only on its inputs.
func BuildDocumentPrompt(templateID string, values FormValues) string {
	pt, ok := documentPrompts[templateID]
	if !ok {
		return genericDocumentPrompt
	}
	return RenderTemplate(pt.Content, values, pt.Placeholders)
}

// RenderTemplate replaces {{field}} placeholders with the trimmed form value,
// falling back to the slot's bracketed placeholder and then to a token
// derived from the field name.
func RenderTemplate(content string, values FormValues, placeholders map[string]string) string {
	return variableRegex.ReplaceAllStringFunc(content, func(match string) string {
		key := variableRegex.FindStringSubmatch(match)[1]

		if value := values.Get(key); value != "" {
			return value
		}
		if placeholder, ok := placeholders[key]; ok {
			return placeholder
		}
		return "[" + strings.ToUpper(key) + "]"
	})
}
