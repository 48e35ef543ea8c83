package config

import "github.com/caarlos0/env/v10"

// Config centraliza a configuração do serviço. A URL do webhook é opcional de
// propósito: a ausência vira um erro 500 em tempo de requisição, não uma
// falha de inicialização.
type Config struct {
	Port            string `env:"PORT" envDefault:"3001"`
	N8NWebhookURL   string `env:"N8N_WEBHOOK_URL"`
	WebhookSecret   string `env:"WEBHOOK_SECRET"`
	FrontendURL     string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	SupabaseURL     string `env:"SUPABASE_URL"`
	SupabaseAnonKey string `env:"SUPABASE_ANON_KEY"`
}

// LoadConfig carrega a configuração das variáveis de ambiente.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
