package domain

import (
	"encoding/json"
	"time"
)

// ChatRequest é a mensagem recebida do navegador, já validada e com o texto
// sanitizado. Vive apenas durante a requisição; nada é persistido aqui.
type ChatRequest struct {
	UserID      string          `json:"user_id"`
	Message     string          `json:"message"`
	SessionID   string          `json:"session_id"`
	UserProfile json.RawMessage `json:"user_profile,omitempty"`
}

// HasProfile diz se a requisição trouxe um perfil de usuário não nulo.
func (r ChatRequest) HasProfile() bool {
	return len(r.UserProfile) > 0 && string(r.UserProfile) != "null"
}

// WebhookPayload é o que vai para o webhook do N8N: a requisição mais um
// timestamp gerado no servidor.
type WebhookPayload struct {
	UserID      string          `json:"user_id"`
	Message     string          `json:"message"`
	SessionID   string          `json:"session_id"`
	UserProfile json.RawMessage `json:"user_profile"`
	Timestamp   string          `json:"timestamp"`
}

// NewWebhookPayload monta o payload do webhook com timestamp ISO-8601.
func NewWebhookPayload(req ChatRequest, now time.Time) WebhookPayload {
	return WebhookPayload{
		UserID:      req.UserID,
		Message:     req.Message,
		SessionID:   req.SessionID,
		UserProfile: req.UserProfile,
		Timestamp:   now.UTC().Format(time.RFC3339),
	}
}

// RelayResult é a resposta do chat: a mensagem gerada quando o webhook
// respondeu, ou o fallback conversacional quando não.
type RelayResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
