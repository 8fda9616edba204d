package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"swarm-agents/internal/auth"
	"swarm-agents/internal/logging"
	"swarm-agents/internal/swarm"
)

// WebSocket message format
type WSAskPrompt struct {
	Agent string `json:"agent"`
	Model string `json:"model"`
	Input string `json:"input"`
}

// WSAskFrame is sent back: one "thinking" frame, then one "answer" or "error".
type WSAskFrame struct {
	Type     string `json:"type"`
	Agent    string `json:"agent,omitempty"`
	Model    string `json:"model,omitempty"`
	Status   string `json:"status,omitempty"`
	Input    string `json:"input,omitempty"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
	Notice   string `json:"notice,omitempty"`
	HTML     string `json:"html,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Default CheckOrigin: same-origin only, since the session rides on a cookie.
var wsUpgrader = websocket.Upgrader{}

func WSAskHandler(d *Deps) gin.HandlerFunc {
	log := logging.For("ws")
	return func(c *gin.Context) {
		sid, _ := auth.SessionID(c)

		// Carry the refreshed session cookie onto the 101 response.
		header := http.Header{}
		for _, v := range c.Writer.Header().Values("Set-Cookie") {
			header.Add("Set-Cookie", v)
		}
		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, header)
		if err != nil {
			log.Warnf("WebSocket upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		for {
			var prompt WSAskPrompt
			if err := conn.ReadJSON(&prompt); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Debugf("websocket read ended: %v", err)
				}
				return
			}

			agent, ok := swarm.ByID(prompt.Agent)
			if !ok {
				if err := conn.WriteJSON(WSAskFrame{Type: "error", Message: "agent not found"}); err != nil {
					return
				}
				continue
			}

			if err := conn.WriteJSON(WSAskFrame{Type: "thinking", Agent: agent.ID}); err != nil {
				return
			}

			res := d.runAsk(c.Request.Context(), sid, agent, prompt.Model, prompt.Input)
			st := res.State
			frame := WSAskFrame{
				Type:     "answer",
				Agent:    agent.ID,
				Model:    st.Model,
				Status:   res.Status,
				Input:    st.Input,
				Response: st.Response,
				Error:    st.Error,
				Notice:   st.Notice,
				HTML:     string(renderMarkdown(st.Response)),
			}
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		}
	}
}
