package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"swarm-agents/internal/config"
	"swarm-agents/internal/logging"
)

const (
	CookieName   = "swarm_session"
	sessionIDKey = "sessionId"
)

// SessionMiddleware gives every browser a session ID carried in a signed
// cookie. A missing, tampered or expired cookie starts a new session. A valid
// one is re-signed so the expiry slides with activity.
func SessionMiddleware(cfg *config.Config) gin.HandlerFunc {
	log := logging.For("auth")
	return func(c *gin.Context) {
		ttl := cfg.SessionTTL()
		if ttl <= 0 {
			ttl = 30 * time.Minute
		}

		sessionID := ""
		if raw, err := c.Cookie(CookieName); err == nil && raw != "" {
			if claims, err := ParseJWT(cfg.Server.SessionSecret, raw); err == nil {
				sessionID = claims.SessionID
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		token, err := GenerateJWT(cfg.Server.SessionSecret, sessionID, ttl)
		if err != nil {
			log.Warnf("could not sign session cookie: %v", err)
		} else {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, token, int(ttl.Seconds()), cookiePath(cfg.Server.Subpath), "", c.Request.TLS != nil, true)
		}

		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

func cookiePath(subpath string) string {
	subpath = strings.TrimRight(strings.TrimSpace(subpath), "/")
	if subpath == "" {
		return "/"
	}
	if !strings.HasPrefix(subpath, "/") {
		subpath = "/" + subpath
	}
	return subpath
}

// SessionID returns the ID set by SessionMiddleware.
func SessionID(c *gin.Context) (string, bool) {
	v, ok := c.Get(sessionIDKey)
	if !ok {
		return "", false
	}
	sid, ok := v.(string)
	return sid, ok && sid != ""
}
