package httputil

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// MasterPasswordHeader carries the master password on vault requests that have no live session.
const MasterPasswordHeader = "X-Master-Password"

// SessionCookie describes the HttpOnly cookie that carries the vault session token.
type SessionCookie struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// Read returns the session token sent by the client, or an empty string.
func (s SessionCookie) Read(c *gin.Context) string {
	token, err := c.Cookie(s.Name)
	if err != nil {
		return ""
	}
	return token
}

// Set writes token to the response. Empty tokens are ignored.
func (s SessionCookie) Set(c *gin.Context, token string) {
	if token == "" {
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(s.Name, token, int(s.MaxAge.Seconds()), "/", "", s.Secure, true)
}

// Clear instructs the client to drop the session cookie.
func (s SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(s.Name, "", -1, "/", "", s.Secure, true)
}
