package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swarm-agents/internal/config"
)

// GET /health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// GET /config
func configHandler(cfg *config.Config, d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only return non-sensitive config fields
		c.JSON(http.StatusOK, gin.H{
			"server": gin.H{
				"host":    cfg.Server.Host,
				"port":    cfg.Server.Port,
				"subpath": cfg.Server.Subpath,
			},
			"gemini": gin.H{
				"api_key_set":     d.Gemini.HasKey(),
				"timeout_seconds": cfg.Gemini.TimeoutSeconds,
				"default_model":   d.Catalog.Default(),
			},
			"models":              d.Catalog.Models(),
			"ask_log":             d.AskLog.Enabled(),
			"session_ttl_minutes": cfg.Server.SessionTTLMinutes,
		})
	}
}
