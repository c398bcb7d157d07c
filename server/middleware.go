package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// SessionCookie holds the session id
const SessionCookie = "crashgrid_session"

const sessionKey = "session"

// Logger middleware logs HTTP requests
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		entry := log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
			"client":  c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry.Warn(c.Errors.String())
			return
		}
		entry.Info("request")
	}
}

// Sessions attaches the caller's session, creating one when the cookie is
// missing or refers to an evicted session
func Sessions(store *SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(SessionCookie); err == nil {
			if s, ok := store.Get(id); ok {
				c.Set(sessionKey, s)
				c.Next()
				return
			}
		}

		s, err := store.Create()
		if err != nil {
			c.Error(err)
			InternalError(c, "could not create session")
			c.Abort()
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, s.ID, 0, "/", "", false, true)
		c.Set(sessionKey, s)
		c.Next()
	}
}

func session(c *gin.Context) *Session {
	return c.MustGet(sessionKey).(*Session)
}
