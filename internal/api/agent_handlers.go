package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"swarm-agents/internal/auth"
	"swarm-agents/internal/swarm"
)

type agentView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Color       string `json:"color"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
}

// List the five swarm personas
func ListAgentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		agents := swarm.All()
		out := make([]agentView, len(agents))
		for i, a := range agents {
			out[i] = agentView{
				ID:          a.ID,
				Name:        a.Name,
				Emoji:       a.Emoji,
				Color:       a.Color,
				Label:       a.Label(),
				Placeholder: a.Placeholder(),
			}
		}
		c.JSON(http.StatusOK, out)
	}
}

// List selectable models
func ListModelsHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"default": d.Catalog.Default(),
			"models":  d.Catalog.Models(),
		})
	}
}

type AskRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

// Ask one agent; same flow and session state as the form
func AskHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		agent, ok := swarm.ByID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
			return
		}
		var req AskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		sid, _ := auth.SessionID(c)
		res := d.runAsk(c.Request.Context(), sid, agent, req.Model, req.Input)

		body := gin.H{
			"agent":    agent.ID,
			"model":    res.State.Model,
			"status":   res.Status,
			"response": res.State.Response,
		}
		if res.State.Error != "" {
			body["error"] = res.State.Error
		}
		if res.State.Notice != "" {
			body["error"] = res.State.Notice
		}
		c.JSON(res.Code, body)
	}
}

// GET the remembered state of one tab
func GetStateHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		agent, ok := swarm.ByID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
			return
		}
		sid, _ := auth.SessionID(c)
		c.JSON(http.StatusOK, d.loadTab(c.Request.Context(), sid, agent.ID))
	}
}

// DELETE the remembered state of one tab
func ClearStateHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		agent, ok := swarm.ByID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
			return
		}
		sid, _ := auth.SessionID(c)
		if err := d.Sessions.Clear(c.Request.Context(), sid, agent.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear tab"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cleared": true})
	}
}

// ActiveSessionsHandler returns the number of sessions holding tab state.
func ActiveSessionsHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := d.Sessions.ActiveSessions(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count sessions"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"active": count})
	}
}

type recentAsk struct {
	AgentID       string    `json:"agent_id"`
	Model         string    `json:"model"`
	Status        string    `json:"status"`
	PromptChars   int       `json:"prompt_chars"`
	ResponseChars int       `json:"response_chars"`
	DurationMs    int64     `json:"duration_ms"`
	CreatedAt     time.Time `json:"createdAt"`
}

// StatsHandler returns ask counts per agent; empty when the ask log is off.
// ?recent=N adds the N newest ask records, without session IDs.
func StatsHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := d.AskLog.CountByAgent(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read ask log"})
			return
		}
		body := gin.H{"enabled": d.AskLog.Enabled(), "asks": counts}

		if raw := c.Query("recent"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "recent must be a positive number"})
				return
			}
			records, err := d.AskLog.Recent(c.Request.Context(), limit)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read ask log"})
				return
			}
			recent := make([]recentAsk, len(records))
			for i, r := range records {
				recent[i] = recentAsk{
					AgentID:       r.AgentID,
					Model:         r.Model,
					Status:        r.Status,
					PromptChars:   r.PromptChars,
					ResponseChars: r.ResponseChars,
					DurationMs:    r.DurationMs,
					CreatedAt:     r.CreatedAt,
				}
			}
			body["recent"] = recent
		}
		c.JSON(http.StatusOK, body)
	}
}
