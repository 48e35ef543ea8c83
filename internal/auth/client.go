package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client consome a API REST do provedor de identidade (Supabase). Nenhuma
// lógica de autenticação própria vive aqui: cadastro, sessão e perfis são do
// provedor; este cliente só fala HTTP com ele.
type Client struct {
	baseURL string
	anonKey string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient constrói o cliente do provedor. baseURL é a raiz do projeto
// (ex.: https://xyz.supabase.co) e anonKey a chave pública.
func NewClient(baseURL, anonKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// User é o usuário como o provedor o devolve.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session carrega os tokens emitidos pelo provedor no sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp cria uma conta no provedor.
func (c *Client) SignUp(ctx context.Context, email, password string) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", credentials{email, password}, &user); err != nil {
		return User{}, fmt.Errorf("sign up: %w", err)
	}
	return user, nil
}

// SignIn troca email e senha por uma sessão do provedor.
func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", credentials{email, password}, &session); err != nil {
		return Session{}, fmt.Errorf("sign in: %w", err)
	}
	return session, nil
}

// SignOut revoga a sessão do token informado.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if err := c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// CurrentUser devolve o usuário dono do token.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &user); err != nil {
		return User{}, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}

// SaveProfile faz upsert do perfil do usuário na tabela user_profiles.
func (c *Client) SaveProfile(ctx context.Context, userID string, profile map[string]any) (json.RawMessage, error) {
	record := make(map[string]any, len(profile)+2)
	for k, v := range profile {
		record[k] = v
	}
	record["user_id"] = userID
	record["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	var rows []json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/rest/v1/user_profiles", "", record, &rows); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// GetProfile busca o perfil pelo id do usuário. Perfil inexistente não é
// erro: volta nil, como o cliente original tratava a linha ausente.
func (c *Client) GetProfile(ctx context.Context, userID string) (json.RawMessage, error) {
	path := "/rest/v1/user_profiles?select=*&user_id=eq." + url.QueryEscape(userID)

	var rows []json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, "", nil, &rows); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost && strings.HasPrefix(path, "/rest/") {
		// upsert com retorno da linha gravada
		req.Header.Set("Prefer", "resolution=merge-duplicates,return=representation")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("provedor respondeu com status %d: %s", resp.StatusCode, providerErrorMessage(respBody))
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// providerErrorMessage extrai a mensagem de erro do corpo, nos formatos que o
// provedor usa (msg, message ou error_description).
func providerErrorMessage(body []byte) string {
	var pe struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &pe); err != nil {
		return string(body)
	}
	switch {
	case pe.Msg != "":
		return pe.Msg
	case pe.Message != "":
		return pe.Message
	case pe.ErrorDescription != "":
		return pe.ErrorDescription
	}
	return string(body)
}
