package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	themeCookie = "theme"
	themeDark   = "dark"
	themeLight  = "light"
	themeMaxAge = 365 * 24 * 3600
)

func themeFromCookie(c *gin.Context) string {
	if v, err := c.Cookie(themeCookie); err == nil && v == themeLight {
		return themeLight
	}
	return themeDark
}

// handleTheme flips between the light and dark theme.
func (s *Server) handleTheme(c *gin.Context) {
	next := themeLight
	if themeFromCookie(c) == themeLight {
		next = themeDark
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(themeCookie, next, themeMaxAge, "/", "", s.cfg.SecureCookies, false)
	setTriggers(c, gin.H{"portfolio:theme": gin.H{"value": next}})
	c.Status(http.StatusNoContent)
}
