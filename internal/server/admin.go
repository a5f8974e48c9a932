package server

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Zachkp/portfolio/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const adminCookie = "admin_token"

// adminAuth holds the session token and the salt used to hash visitor IPs.
// Both are regenerated on every start.
type adminAuth struct {
	username string
	password string
	token    string
	salt     string
}

func newAdminAuth(username, password string) (*adminAuth, error) {
	token, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("generating admin token: %w", err)
	}
	salt, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("generating hashing salt: %w", err)
	}
	if username == "" {
		username = "admin"
	}
	return &adminAuth{username: username, password: password, token: token, salt: salt}, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// enabled reports whether an admin password is configured.
func (a *adminAuth) enabled() bool { return a.password != "" }

func (a *adminAuth) hashIP(ip string) string { return hashIPWithSalt(ip, a.salt) }

func (a *adminAuth) checkCredentials(username, password string) bool {
	if !a.enabled() {
		return false
	}
	u := subtle.ConstantTimeCompare([]byte(username), []byte(a.username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(a.password))
	return u&p == 1
}

// middleware redirects requests without a valid admin cookie to the login
// page.
func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", s.newPageData(c, "Privacy Policy"))
	})

	if !s.admin.enabled() {
		s.logger.Info("admin dashboard disabled: no admin password configured")
		return
	}

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})
	r.POST("/admin/login", s.handleAdminLogin)
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", s.cfg.SecureCookies, true)
		s.logger.Info("admin logout", zap.String("client", s.admin.hashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	g := r.Group("/admin")
	g.Use(s.admin.middleware())

	g.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), time.Now())
		if err != nil {
			s.adminError(c, "Failed to load statistics", err)
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"stats": stats})
	})

	g.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	g.GET("/messages", func(c *gin.Context) {
		msgs, err := s.store.RecentMessages(c.Request.Context(), 200)
		if err != nil {
			s.adminError(c, "Failed to load messages", err)
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{"messages": msgs})
	})

	g.DELETE("/messages/:id", func(c *gin.Context) {
		id := c.Param("id")
		err := s.store.DeleteMessage(c.Request.Context(), id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		case err != nil:
			s.logger.Error("deleting message", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete message"})
		default:
			s.logger.Info("message deleted by admin", zap.String("id", id))
			c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
		}
	})

	g.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			s.adminError(c, "Failed to load visitors", err)
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visitors})
	})

	g.POST("/privacy/cleanup", func(c *gin.Context) {
		s.cleanupVisitors(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"message": "privacy cleanup complete"})
	})

	g.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.logger.Info("admin stats exported", zap.String("client", s.admin.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})
}

func (s *Server) handleAdminLogin(c *gin.Context) {
	client := s.admin.hashIP(c.ClientIP())
	if !s.admin.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
		s.logger.Warn("failed admin login", zap.String("client", client))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
		return
	}
	c.SetCookie(adminCookie, s.admin.token, 3600*24, "/admin", "", s.cfg.SecureCookies, true)
	s.logger.Info("admin login", zap.String("client", client))
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (s *Server) adminError(c *gin.Context, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": msg})
}
