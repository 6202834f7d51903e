package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie   = "store_session"
	sessionCtxKey   = "session_id"
	cookieMaxAgeSec = 60 * 60 * 24 * 30
)

// CartSession assigns each browser a session ID cookie that keys its cart
// snapshot. Carts from one session never mix with another.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookie)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(sessionCookie, sessionID, cookieMaxAgeSec, "/", "", false, true)
		}

		c.Set(sessionCtxKey, sessionID)
		c.Next()
	}
}

// SessionID returns the cart session ID for the request
func SessionID(c *gin.Context) string {
	if v, ok := c.Get(sessionCtxKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
