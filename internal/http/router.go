package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/klaus-deor/maito-guy-fit/internal/metrics"
	"github.com/klaus-deor/maito-guy-fit/internal/ratelimit"
)

// Limite de corpo aceito no chat, como no proxy original.
const maxBodyBytes = 10 << 20

// NewRouter monta o gin com o pipeline do chat, nesta ordem: headers de
// segurança, CORS, limite de corpo, rate limit, validação e relay. O health
// check e o /metrics ficam fora do pipeline.
func NewRouter(
	logger *zap.Logger,
	frontendURL string,
	limiter *ratelimit.Limiter,
	m *metrics.Metrics,
	chatH *ChatHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), securityHeadersMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		logger.Error("pânico não tratado", zap.Any("error", err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Erro interno do servidor"})
	}))

	r.POST("/api/chat", maxBodyMiddleware(maxBodyBytes), rateLimitMiddleware(limiter, m), chatH.PostChat)
	r.GET("/health", healthHandler)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint não encontrado"})
	})

	return r
}
