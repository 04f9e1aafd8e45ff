package middleware

import (
	"arc-storefront/internal/pkg/config"
	"arc-storefront/internal/pkg/cookie"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxSessionIDKey = "session_id"

type SessionMiddleware struct {
	cookie  config.CookieConfig
	session config.SessionConfig
}

func NewSessionMiddleware(cfg config.Config) *SessionMiddleware {
	return &SessionMiddleware{
		cookie:  cfg.Cookie,
		session: cfg.Session,
	}
}

// RequireSession resolves the shopper's session from the cookie, issuing a fresh id when the
// cookie is absent or malformed. The cookie is re-set on every request so its lifetime slides.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := cookie.GetSessionID(c, m.session.CookieName)
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.NewString()
		}

		cookie.SetSessionCookie(c, m.cookie, m.session.CookieName, sessionID, m.session.CookieMaxAge)
		c.Set(ctxSessionIDKey, sessionID)
		c.Next()
	}
}

// ClearSession expires the session cookie on the client.
func (m *SessionMiddleware) ClearSession(c *gin.Context) {
	cookie.ClearSessionCookie(c, m.cookie, m.session.CookieName)
}

func GetSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxSessionIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
