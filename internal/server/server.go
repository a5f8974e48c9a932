// Package server serves the portfolio pages, navigation sync fragments,
// the contact form and the admin dashboard.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/nav"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Store is the persistence the server needs.
type Store interface {
	RecordVisit(ctx context.Context, v store.VisitorMetric) error
	CleanupVisitors(ctx context.Context, before time.Time) (int64, error)
	RecentVisitors(ctx context.Context, limit int) ([]store.VisitorMetric, error)
	RecentMessages(ctx context.Context, limit int) ([]store.Message, error)
	DeleteMessage(ctx context.Context, id string) error
	Stats(ctx context.Context, now time.Time) (*store.Stats, error)
}

// Config tunes the HTTP server.
type Config struct {
	Addr string

	// ViewCapacity and ViewTTL bound the live page views (navigation
	// controllers) and contact form instances.
	ViewCapacity int
	ViewTTL      time.Duration

	// SubmitWait is how long a contact POST waits for the relay before
	// answering with the submitting state.
	SubmitWait time.Duration

	AdminUsername string
	AdminPassword string
	SecureCookies bool
	Debug         bool
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = "0.0.0.0:8080"
	}
	if c.ViewCapacity <= 0 {
		c.ViewCapacity = 4096
	}
	if c.ViewTTL <= 0 {
		c.ViewTTL = 30 * time.Minute
	}
	if c.SubmitWait <= 0 {
		c.SubmitWait = 10 * time.Second
	}
}

// Server is the portfolio HTTP server.
type Server struct {
	cfg     Config
	store   Store
	page    *content.Page
	entries []nav.Entry
	views   *viewRegistry
	forms   *contact.Registry
	admin   *adminAuth
	logger  *zap.Logger

	server    *http.Server
	serveErr  chan error
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
	bg        sync.WaitGroup
}

// New builds a server. The site content is rendered once up front.
func New(cfg Config, st Store, site *content.Site, relay contact.Relay, logger *zap.Logger) (*Server, error) {
	cfg.setDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := nav.Validate(nav.Main); err != nil {
		return nil, err
	}
	page, err := site.Render(content.NewMarkdown())
	if err != nil {
		return nil, fmt.Errorf("rendering content: %w", err)
	}
	admin, err := newAdminAuth(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:       cfg,
		store:     st,
		page:      page,
		entries:   nav.Main,
		views:     newViewRegistry(nav.Main, cfg.ViewCapacity, cfg.ViewTTL, logger),
		forms:     contact.NewRegistry(relay, cfg.ViewCapacity, cfg.ViewTTL, logger),
		admin:     admin,
		logger:    logger,
		serveErr:  make(chan error, 1),
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}, nil
}

// Handler builds the gin engine with every route.
func (s *Server) Handler() (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger), s.visitorTracking())

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)
	if err := mountStatic(r); err != nil {
		return nil, err
	}

	r.GET("/", s.handleHome)
	r.GET("/projects", s.handleProjects)
	r.GET("/contact", s.handleContactPage)
	r.GET("/healthz", s.handleHealth)

	r.GET("/partials/nav", s.handleNavSync)
	r.POST("/partials/nav", s.handleNavSync)
	r.POST("/contact", s.handleContactSubmit)
	r.POST("/contact/field", s.handleContactField)
	r.GET("/contact/status", s.handleContactStatus)
	r.POST("/contact/reset", s.handleContactReset)
	r.POST("/theme", s.handleTheme)

	s.setupAdminRoutes(r)
	r.NoRoute(s.handleNotFound)
	return r, nil
}

// Start begins serving HTTP requests and the visitor retention loop.
func (s *Server) Start() error {
	if !s.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	s.server = &http.Server{
		Handler:           handler,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.startTime = time.Now()
	s.logger.Info("portfolio listening", zap.String("addr", listener.Addr().String()))

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		s.retentionLoop(s.ctx, 24*time.Hour)
	}()

	go s.serve(listener)
	return nil
}

func (s *Server) serve(listener net.Listener) {
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("http server stopped", zap.Error(err))
		s.serveErr <- err
	}
}

// ServeErr delivers the error that stopped the HTTP server, if it stops
// on its own. A server shut down by Stop sends nothing.
func (s *Server) ServeErr() <-chan error { return s.serveErr }

// Stop gracefully shuts down the HTTP server and waits for background work.
func (s *Server) Stop() error {
	s.cancel()
	var err error
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = s.server.Shutdown(ctx)
	}
	s.views.purge()
	s.bg.Wait()
	return err
}

// retentionLoop removes visitor records past their retention period, once
// at start and then on every tick.
func (s *Server) retentionLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		s.cleanupVisitors(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) cleanupVisitors(ctx context.Context) {
	n, err := s.store.CleanupVisitors(ctx, time.Now().Add(-store.VisitorRetention))
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("visitor cleanup failed", zap.Error(err))
		}
		return
	}
	if n > 0 {
		s.logger.Info("removed expired visitor records", zap.Int64("count", n))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
		"views":  s.views.len(),
		"forms":  s.forms.Len(),
	})
}

func (s *Server) handleNotFound(c *gin.Context) {
	data := s.newPageData(c, "Not Found")
	c.HTML(http.StatusNotFound, "not-found.html", data)
}
