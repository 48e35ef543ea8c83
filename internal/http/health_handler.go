package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// healthHandler responde o health check, fora do pipeline do chat.
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "MaitoGuyFit API",
	})
}
