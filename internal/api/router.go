package api

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"swarm-agents/internal/auth"
	"swarm-agents/internal/config"
	"swarm-agents/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

func loadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// normalizeSubpath gives "" or "/prefix" with no trailing slash.
func normalizeSubpath(subpath string) string {
	subpath = strings.TrimRight(strings.TrimSpace(subpath), "/")
	if subpath != "" && !strings.HasPrefix(subpath, "/") {
		subpath = "/" + subpath
	}
	return subpath
}

func SetupRouter(cfg *config.Config, d *Deps) *gin.Engine {
	r := gin.New()
	r.Use(logging.GinLogger(), gin.Recovery())
	r.SetHTMLTemplate(loadTemplates())

	subpath := normalizeSubpath(cfg.Server.Subpath)
	home := subpath
	if home == "" {
		home = "/"
	}

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg, d))
	}

	ui := r.Group(subpath, auth.SessionMiddleware(cfg))
	{
		ui.GET("", IndexHandler(d, subpath))
		if subpath != "" {
			// Redirect /subpath/ to /subpath
			r.GET(subpath+"/", func(c *gin.Context) {
				c.Redirect(http.StatusMovedPermanently, home)
			})
		}
		ui.POST("/agents/:id/ask", FormAskHandler(d, home))
		ui.POST("/agents/:id/clear", FormClearHandler(d, home))
		ui.POST("/clear", FormClearAllHandler(d, home))

		ui.GET("/ws/ask", WSAskHandler(d))
	}

	api := r.Group(subpath+"/api", auth.SessionMiddleware(cfg))
	{
		api.GET("/agents", ListAgentsHandler())
		api.GET("/models", ListModelsHandler(d))
		api.POST("/agents/:id/ask", AskHandler(d))
		api.GET("/agents/:id/state", GetStateHandler(d))
		api.DELETE("/agents/:id/state", ClearStateHandler(d))
		api.GET("/sessions/active", ActiveSessionsHandler(d))
		api.GET("/stats", StatsHandler(d))
	}
	return r
}
