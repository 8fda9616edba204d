// Package session remembers the last question and answer of each tab for
// one browser session. Nothing here outlives the session TTL.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the tab has no stored state.
var ErrNotFound = errors.New("tab state not found")

// TabState is what one agent tab shows.
type TabState struct {
	AgentID   string    `json:"agent_id"`
	Model     string    `json:"model"`
	Input     string    `json:"input"`
	Response  string    `json:"response"`
	Error     string    `json:"error"`
	Notice    string    `json:"notice"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store keys tab state by (session ID, agent ID).
type Store interface {
	Get(ctx context.Context, sessionID, agentID string) (TabState, error)
	Put(ctx context.Context, sessionID string, state TabState) error
	Clear(ctx context.Context, sessionID, agentID string) error
	ClearAll(ctx context.Context, sessionID string) error
	ActiveSessions(ctx context.Context) (int, error)
}

const DefaultTTL = 30 * time.Minute
