package services

import (
	"context"
	"regexp"
	"strings"

	"minerva_app_go/services/llm"

	"go.uber.org/zap"
)

// AssistantSystemPrompt frames the chat model as Minerva
const AssistantSystemPrompt = `Eres Minerva, un asistente legal especializado en las leyes de El Salvador.
Proporciona información educativa precisa sobre procedimientos legales, pero siempre
recuerda que no brindas asesoría legal profesional. Cita las leyes relevantes cuando
sea posible y sugiere acciones específicas que el usuario puede tomar.`

const (
	assistantTemperature = 0.7
	assistantMaxTokens   = 1000
	assistantConfidence  = 0.85
	maxSuggestedActions  = 3
)

var (
	citationRegex = regexp.MustCompile(`(?i)(Artículo \d+|Código \w+|Ley \w+)`)
	actionRegex   = regexp.MustCompile(`(?i)(?:debes|puedes|recomiendo|sugiero)\s+([^.]+)`)
)

// ChatResponse is the assistant's answer plus what could be extracted from it
type ChatResponse struct {
	Message          string   `json:"message"`
	Confidence       float64  `json:"confidence"`
	Citations        []string `json:"citations,omitempty"`
	SuggestedActions []string `json:"suggested_actions,omitempty"`
}

// Chat answers the conversation. System turns in history are dropped; the
// Minerva prompt always leads. Failures never escape: the caller receives
// the fallback text with zero confidence.
func Chat(ctx context.Context, client llm.Client, history []llm.Message, fallback, emptyReply string) ChatResponse {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: AssistantSystemPrompt})
	for _, m := range history {
		if m.Role == llm.RoleUser || m.Role == llm.RoleAssistant {
			messages = append(messages, m)
		}
	}

	if client == nil {
		zap.L().Error("Chat requested without a text generation client")
		return ChatResponse{Message: fallback}
	}

	reply, err := client.Complete(ctx, llm.Request{
		Messages:    messages,
		Temperature: assistantTemperature,
		MaxTokens:   assistantMaxTokens,
	})
	if err != nil {
		zap.L().Error("Assistant chat failed", zap.Error(err), zap.Bool("transient", llm.IsTransient(err)))
		return ChatResponse{Message: fallback}
	}
	if strings.TrimSpace(reply) == "" {
		reply = emptyReply
	}

	return ChatResponse{
		Message:          reply,
		Confidence:       assistantConfidence,
		Citations:        ExtractCitations(reply),
		SuggestedActions: ExtractSuggestedActions(reply),
	}
}

// ExtractCitations returns references to articles, codes and laws in order of appearance
func ExtractCitations(text string) []string {
	return citationRegex.FindAllString(text, -1)
}

// ExtractSuggestedActions returns up to three phrases following an advice verb
func ExtractSuggestedActions(text string) []string {
	var actions []string
	for _, match := range actionRegex.FindAllStringSubmatch(text, -1) {
		actions = append(actions, strings.TrimSpace(match[1]))
		if len(actions) == maxSuggestedActions {
			break
		}
	}
	return actions
}
