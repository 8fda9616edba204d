package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"swarm-agents/internal/asklog"
	"swarm-agents/internal/gemini"
	"swarm-agents/internal/logging"
	"swarm-agents/internal/session"
	"swarm-agents/internal/swarm"
)

const (
	MissingKeyMessage = "Gemini API key not set. Please add it to the server configuration."
	EmptyInputMessage = "Please enter a question."
)

// Asker is the upstream model call. *gemini.Client satisfies it.
type Asker interface {
	HasKey() bool
	Ask(ctx context.Context, model, prompt string) gemini.Answer
}

// Deps are the services the handlers share.
type Deps struct {
	Gemini   Asker
	Catalog  *gemini.Catalog
	Sessions session.Store
	AskLog   *asklog.Recorder
}

type askResult struct {
	State  session.TabState
	Status string // ok, empty, error, invalid, unavailable
	Code   int
}

// runAsk is the one ask flow behind the form, the JSON API and the websocket.
// The tab always remembers input and model. Validation failures keep the
// previous response.
func (d *Deps) runAsk(ctx context.Context, sessionID string, agent swarm.Agent, model, input string) askResult {
	log := logging.For("ask").WithField("agent", agent.ID)

	st, err := d.Sessions.Get(ctx, sessionID, agent.ID)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		log.Warnf("could not load tab state: %v", err)
	}
	st.AgentID = agent.ID
	st.Input = input
	st.Error = ""
	st.Notice = ""
	st.UpdatedAt = time.Now().UTC()

	res := askResult{Code: http.StatusOK}
	resolved, modelErr := d.Catalog.Resolve(model)
	switch {
	case modelErr != nil:
		if !d.Catalog.Has(st.Model) {
			st.Model = d.Catalog.Default()
		}
		st.Error = "Unknown model: " + model
		res.Status, res.Code = "invalid", http.StatusBadRequest
	case !d.Gemini.HasKey():
		st.Model = resolved
		st.Error = MissingKeyMessage
		res.Status, res.Code = "unavailable", http.StatusServiceUnavailable
	case strings.TrimSpace(input) == "":
		st.Model = resolved
		st.Notice = EmptyInputMessage
		res.Status, res.Code = "invalid", http.StatusBadRequest
	default:
		st.Model = resolved
		prompt := agent.BuildPrompt(input)
		ans := d.Gemini.Ask(ctx, resolved, prompt)
		if ans.OK() {
			st.Response = ans.Text
		} else {
			st.Response = ""
			st.Error = ans.Text
			res.Code = http.StatusBadGateway
		}
		res.Status = string(ans.Status)
		_ = d.AskLog.Record(ctx, &asklog.Record{
			SessionID:     sessionID,
			AgentID:       agent.ID,
			Model:         resolved,
			Status:        res.Status,
			PromptChars:   len(prompt),
			ResponseChars: len(ans.Text),
			DurationMs:    ans.Duration.Milliseconds(),
			Usage:         []byte(ans.Usage),
		})
	}

	if err := d.Sessions.Put(ctx, sessionID, st); err != nil {
		log.Warnf("could not store tab state: %v", err)
	}
	res.State = st
	return res
}

// loadTab returns the stored state, or an empty one on the default model.
func (d *Deps) loadTab(ctx context.Context, sessionID, agentID string) session.TabState {
	st, err := d.Sessions.Get(ctx, sessionID, agentID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			logging.For("ask").Warnf("could not load tab state: %v", err)
		}
		st = session.TabState{AgentID: agentID}
	}
	if !d.Catalog.Has(st.Model) {
		st.Model = d.Catalog.Default()
	}
	return st
}
