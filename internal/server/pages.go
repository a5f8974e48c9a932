package server

import (
	"net/http"
	"time"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/nav"
	"github.com/gin-gonic/gin"
)

// pageData is the view model shared by every full page.
type pageData struct {
	Title string
	Path  string
	Theme string
	Year  int
	Nav   navData
	Site  *content.Page
	Form  *formView
}

// navData is the view model of the navigation fragment.
type navData struct {
	ViewID   string
	Home     bool
	Scrolled bool
	MenuOpen bool
	Initials string
	Items    []nav.RenderedItem
}

// newPageData mounts a page view for the request path.
func (s *Server) newPageData(c *gin.Context, title string) *pageData {
	return s.newPageDataAt(c, title, c.Request.URL.Path)
}

// newPageDataAt mounts a page view for path.
func (s *Server) newPageDataAt(c *gin.Context, title, path string) *pageData {
	var anchors []string
	if nav.IsHome(path) {
		anchors = nav.SectionIDs(s.entries)
	}
	v := s.views.open(path, anchors)
	return &pageData{
		Title: title,
		Path:  path,
		Theme: themeFromCookie(c),
		Year:  time.Now().Year(),
		Nav:   s.navDataFor(v),
		Site:  s.page,
	}
}

func (s *Server) navDataFor(v *pageView) navData {
	return navData{
		ViewID:   v.id,
		Home:     nav.IsHome(v.ctrl.Path()),
		Scrolled: v.ctrl.Scrolled(),
		MenuOpen: v.ctrl.MenuOpen(),
		Initials: s.page.Owner.Initials,
		Items:    nav.Build(s.entries, v.ctrl.Active()),
	}
}

func (s *Server) handleHome(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.newPageData(c, s.page.Owner.Name))
}

func (s *Server) handleProjects(c *gin.Context) {
	c.HTML(http.StatusOK, "projects.html", s.newPageData(c, "Projects"))
}
