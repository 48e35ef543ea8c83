package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/klaus-deor/maito-guy-fit/internal/domain"
	"github.com/klaus-deor/maito-guy-fit/internal/metrics"
	"github.com/klaus-deor/maito-guy-fit/internal/relay"
)

// ProfileStore é a fronteira com o provedor de identidade, usada só para
// buscar o perfil quando a requisição chega sem ele.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (json.RawMessage, error)
}

// ChatHandler atende o endpoint de chat: valida, enriquece o perfil quando
// dá, e repassa ao webhook.
type ChatHandler struct {
	logger   *zap.Logger
	relay    *relay.Client
	profiles ProfileStore
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewChatHandler cria o handler do chat. profiles pode ser nil quando o
// provedor de identidade não está configurado.
func NewChatHandler(logger *zap.Logger, relayClient *relay.Client, profiles ProfileStore, m *metrics.Metrics) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		relay:    relayClient,
		profiles: profiles,
		metrics:  m,
		now:      time.Now,
	}
}

// PostChat maneja POST /api/chat. Quando chega aqui a requisição já passou
// pelo rate limit; a validação e a sanitização acontecem antes do relay, que
// nunca revalida.
func (h *ChatHandler) PostChat(c *gin.Context) {
	req, err := parseChatRequest(c)
	if err != nil {
		h.metrics.RecordChatRequest(metrics.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.HasProfile() && h.profiles != nil {
		profile, err := h.profiles.GetProfile(c.Request.Context(), req.UserID)
		if err != nil {
			// melhor esforço: o chat segue sem o perfil
			h.logger.Warn("não deu para carregar o perfil do usuário",
				zap.Error(err),
				zap.String("user_id", req.UserID),
			)
		} else if len(profile) > 0 {
			req.UserProfile = profile
		}
	}

	payload := domain.NewWebhookPayload(req, h.now())

	start := time.Now()
	result, err := h.relay.Send(c.Request.Context(), payload)
	if err != nil {
		if errors.Is(err, relay.ErrNotConfigured) {
			h.metrics.RecordChatRequest(metrics.OutcomeMisconfigured)
			h.logger.Error("N8N_WEBHOOK_URL não configurada")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Configuração do servidor incompleta"})
			return
		}
		h.logger.Error("erro inesperado no relay", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno do servidor"})
		return
	}

	if result.Success {
		h.metrics.RecordChatRequest(metrics.OutcomeOK)
		h.metrics.RecordRelay("ok", time.Since(start))
	} else {
		h.metrics.RecordChatRequest(metrics.OutcomeFallback)
		h.metrics.RecordRelay("fallback", time.Since(start))
	}

	c.JSON(http.StatusOK, result)
}
