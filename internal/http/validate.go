package http

import (
	"encoding/json"
	"errors"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/klaus-deor/maito-guy-fit/internal/domain"
	"github.com/klaus-deor/maito-guy-fit/internal/sanitize"
)

const maxMessageLength = 1000

// Mensagens de validação visíveis para o usuário, iguais às do proxy
// original.
var (
	errInvalidJSON       = errors.New("JSON inválido")
	errUserIDRequired    = errors.New("user_id é obrigatório")
	errMessageRequired   = errors.New("message é obrigatória")
	errSessionIDRequired = errors.New("session_id é obrigatório")
	errMessageTooLong    = errors.New("Mensagem muito longa")
)

// parseChatRequest valida o corpo na ordem do proxy original: presença e tipo
// de user_id, message e session_id, sanitização da mensagem e só então o
// limite de tamanho. A primeira falha interrompe com a mensagem específica.
func parseChatRequest(c *gin.Context) (domain.ChatRequest, error) {
	var raw struct {
		UserID      any             `json:"user_id"`
		Message     any             `json:"message"`
		SessionID   any             `json:"session_id"`
		UserProfile json.RawMessage `json:"user_profile"`
	}
	if err := c.ShouldBindJSON(&raw); err != nil {
		return domain.ChatRequest{}, errInvalidJSON
	}

	userID, ok := raw.UserID.(string)
	if !ok || userID == "" {
		return domain.ChatRequest{}, errUserIDRequired
	}
	message, ok := raw.Message.(string)
	if !ok || message == "" {
		return domain.ChatRequest{}, errMessageRequired
	}
	sessionID, ok := raw.SessionID.(string)
	if !ok || sessionID == "" {
		return domain.ChatRequest{}, errSessionIDRequired
	}

	message = sanitize.Clean(message)
	if utf8.RuneCountInString(message) > maxMessageLength {
		return domain.ChatRequest{}, errMessageTooLong
	}

	return domain.ChatRequest{
		UserID:      userID,
		Message:     message,
		SessionID:   sessionID,
		UserProfile: raw.UserProfile,
	}, nil
}
