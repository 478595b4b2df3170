package services

import (
	"time"

	"minerva_app_go/config"
	"minerva_app_go/services/llm"

	"go.uber.org/zap"
)

// Shared collaborators, set once at startup
var (
	// TextGenerator answers chat conversations
	TextGenerator llm.Client
	// Assembler drafts, renders and exports documents
	Assembler *DocumentAssembler
	// Calendar receives deadline events
	Calendar CalendarService
)

// InitializeAssistant wires the text generation client, PDF printer and
// calendar from configuration. Storage must be initialized first.
func InitializeAssistant(cfg *config.Config) {
	client := llm.NewOpenAIClient(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: time.Duration(cfg.OpenAITimeout) * time.Second,
	})
	TextGenerator = client

	printer := NewChromePrinter(cfg.ChromePath, time.Duration(cfg.DocumentTimeout)*time.Second)
	Assembler = NewDocumentAssembler(client, printer)
	Calendar = NewICSCalendar(Storage)

	zap.L().Info("Assistant initialized",
		zap.String("model", client.Model()),
		zap.Bool("chrome_path_set", cfg.ChromePath != ""),
	)
}
