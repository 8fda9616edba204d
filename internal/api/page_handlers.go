package api

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"swarm-agents/internal/auth"
	"swarm-agents/internal/gemini"
	"swarm-agents/internal/session"
	"swarm-agents/internal/swarm"
)

type tabLink struct {
	Agent  swarm.Agent
	Href   string
	Active bool
}

type panelView struct {
	Agent        swarm.Agent
	Placeholder  string
	State        session.TabState
	ResponseHTML template.HTML
}

type pageData struct {
	Subpath string
	Home    string
	Tabs    []tabLink
	Panel   panelView
	Models  []gemini.Model
	HasKey  bool
}

func tabHref(home, agentID string) string {
	return home + "?agent=" + url.QueryEscape(agentID)
}

// IndexHandler renders the tab bar and the selected agent's panel.
func IndexHandler(d *Deps, subpath string) gin.HandlerFunc {
	home := subpath
	if home == "" {
		home = "/"
	}
	return func(c *gin.Context) {
		sid, _ := auth.SessionID(c)

		active, ok := swarm.ByID(c.Query("agent"))
		if !ok {
			active = swarm.First()
		}

		agents := swarm.All()
		tabs := make([]tabLink, len(agents))
		for i, a := range agents {
			tabs[i] = tabLink{Agent: a, Href: tabHref(home, a.ID), Active: a.ID == active.ID}
		}

		st := d.loadTab(c.Request.Context(), sid, active.ID)
		c.HTML(http.StatusOK, "index.html", pageData{
			Subpath: subpath,
			Home:    home,
			Tabs:    tabs,
			Panel: panelView{
				Agent:        active,
				Placeholder:  active.Placeholder(),
				State:        st,
				ResponseHTML: renderMarkdown(st.Response),
			},
			Models: d.Catalog.Models(),
			HasKey: d.Gemini.HasKey(),
		})
	}
}

// FormAskHandler handles the Ask button and redirects back to the tab.
func FormAskHandler(d *Deps, home string) gin.HandlerFunc {
	return func(c *gin.Context) {
		agent, ok := swarm.ByID(c.Param("id"))
		if !ok {
			c.String(http.StatusNotFound, "unknown agent")
			return
		}
		sid, _ := auth.SessionID(c)
		d.runAsk(c.Request.Context(), sid, agent, c.PostForm("model"), c.PostForm("input"))
		c.Redirect(http.StatusSeeOther, tabHref(home, agent.ID))
	}
}

func FormClearHandler(d *Deps, home string) gin.HandlerFunc {
	return func(c *gin.Context) {
		agent, ok := swarm.ByID(c.Param("id"))
		if !ok {
			c.String(http.StatusNotFound, "unknown agent")
			return
		}
		sid, _ := auth.SessionID(c)
		if err := d.Sessions.Clear(c.Request.Context(), sid, agent.ID); err != nil {
			c.String(http.StatusInternalServerError, "failed to clear tab")
			return
		}
		c.Redirect(http.StatusSeeOther, tabHref(home, agent.ID))
	}
}

func FormClearAllHandler(d *Deps, home string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, _ := auth.SessionID(c)
		if err := d.Sessions.ClearAll(c.Request.Context(), sid); err != nil {
			c.String(http.StatusInternalServerError, "failed to clear tabs")
			return
		}
		c.Redirect(http.StatusSeeOther, home)
	}
}
