package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/klaus-deor/maito-guy-fit/internal/domain"
)

// ErrNotConfigured indica que a URL do webhook não foi configurada. É o único
// erro que Send devolve; todo o resto vira o fallback conversacional.
var ErrNotConfigured = errors.New("webhook do N8N não configurado")

// FallbackMessage é a resposta fixa do Maito Guy quando a comunicação com o
// webhook falha. O usuário nunca vê um erro cru no chat.
const FallbackMessage = "🔥 JUVENTUDE! Parece que houve um problema na comunicação, mas não desista! Suas chamas da juventude são mais fortes que qualquer obstáculo! Tente novamente! 💪"

// PlaceholderReply é usado quando o webhook responde 2xx mas sem os campos
// message ou response.
const PlaceholderReply = "Resposta recebida!"

const (
	userAgent      = "MaitoGuyFit/1.0"
	defaultTimeout = 25 * time.Second
)

// Client entrega payloads de chat ao webhook do N8N.
type Client struct {
	webhookURL string
	secret     string
	client     *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

// NewClient constrói o cliente do webhook. httpClient nil usa o cliente
// padrão com timeout de 25s; secret vazio desliga o header Authorization.
func NewClient(webhookURL, secret string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		webhookURL: webhookURL,
		secret:     secret,
		client:     httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// Send envia o payload e monta o resultado do chat. Erro de rede, timeout,
// status fora de 2xx ou corpo ilegível são absorvidos: o resultado volta com
// success=false e a mensagem de fallback, nunca como falha HTTP.
func (c *Client) Send(ctx context.Context, payload domain.WebhookPayload) (domain.RelayResult, error) {
	if c.webhookURL == "" {
		return domain.RelayResult{}, ErrNotConfigured
	}

	reply, err := c.post(ctx, payload)
	if err != nil {
		c.logger.Warn("falha na chamada ao webhook, respondendo com fallback",
			zap.Error(err),
			zap.String("session_id", payload.SessionID),
		)
		return domain.RelayResult{
			Success:   false,
			Message:   FallbackMessage,
			Timestamp: c.now().UTC().Format(time.RFC3339),
		}, nil
	}

	return domain.RelayResult{
		Success:   true,
		Message:   reply,
		Timestamp: c.now().UTC().Format(time.RFC3339),
	}, nil
}

func (c *Client) post(ctx context.Context, payload domain.WebhookPayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.secret != "" {
		req.Header.Set("Authorization", "Bearer "+c.secret)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("webhook respondeu com status %d", resp.StatusCode)
	}

	var wr webhookResponse
	if err := json.Unmarshal(respBody, &wr); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	// message tem prioridade sobre response; sem nenhum dos dois, placeholder.
	switch {
	case wr.Message != "":
		return wr.Message, nil
	case wr.Response != "":
		return wr.Response, nil
	}
	return PlaceholderReply, nil
}

type webhookResponse struct {
	Message  string `json:"message"`
	Response string `json:"response"`
}
