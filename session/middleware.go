package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contextKey = "sessionID"

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Middleware resolves the visitor's session id from the cookie, issuing a new
// one when the cookie is absent or malformed. The cookie is (re)sent before
// the handler runs so its expiry slides with activity. Session data itself
// is loaded and saved by the services that use it.
func Middleware(opts CookieOptions) gin.HandlerFunc {
	if opts.Name == "" {
		opts.Name = "sessionid"
	}
	return func(c *gin.Context) {
		id, err := c.Cookie(opts.Name)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opts.Name, id, int(opts.TTL.Seconds()), "/", "", opts.Secure, true)
		c.Set(contextKey, id)
		c.Next()
	}
}

// ID returns the session id resolved by Middleware, or "" when it did not run.
func ID(c *gin.Context) string {
	return c.GetString(contextKey)
}
