package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/Zachkp/portfolio/internal/nav"
	"github.com/gin-gonic/gin"
)

// navQuery is a navigation event reported by the page.
type navQuery struct {
	View     string  `form:"view"`
	Event    string  `form:"event"`
	Path     string  `form:"path"`
	Hash     string  `form:"hash"`
	ScrollY  float64 `form:"y"`
	Viewport float64 `form:"vh"`
	Sections string  `form:"sections"` // id:top:bottom,...
	Entry    string  `form:"entry"`
	Form     string  `form:"form"` // contact form shown by the page, if any
}

// handleNavSync applies one navigation event to the page view's controller
// and answers with the re-rendered navigation fragment. A changed active
// entry and a pending smooth scroll are handed to the client as HX-Trigger
// events. Unload unmounts the view and the contact form it showed.
func (s *Server) handleNavSync(c *gin.Context) {
	var q navQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.String(http.StatusBadRequest, "invalid navigation event")
		return
	}

	if q.Event == "unload" {
		s.views.close(q.View)
		if q.Form != "" {
			s.forms.Remove(q.Form)
		}
		c.Status(http.StatusNoContent)
		return
	}

	v, ok := s.views.get(q.View)
	if !ok {
		s.renderStatelessNav(c, q)
		return
	}

	switch q.Event {
	case "route":
		v.ctrl.OnRouteChange(q.Path, q.Hash)
	case "scroll":
		v.ctrl.OnScroll(q.ScrollY, q.Viewport, parseSections(q.Sections))
	case "click":
		entry, found := nav.Lookup(s.entries, q.Entry)
		if !found {
			c.String(http.StatusBadRequest, "unknown navigation entry")
			return
		}
		v.ctrl.OnEntryClick(entry)
	case "menu":
		v.ctrl.ToggleMenu()
	case "", "refresh":
	default:
		c.String(http.StatusBadRequest, "unknown navigation event")
		return
	}

	events := gin.H{}
	if id, changed := v.activeChange(); changed {
		events["portfolio:nav-active"] = gin.H{"id": id}
	}
	if target := v.doc.takePending(); target != "" {
		events["portfolio:scroll-to"] = gin.H{"id": target}
	}
	setTriggers(c, events)
	c.HTML(http.StatusOK, "nav", s.navDataFor(v))
}

// renderStatelessNav answers for an expired page view by deriving the
// active entry from the event alone.
func (s *Server) renderStatelessNav(c *gin.Context, q navQuery) {
	in := nav.Inputs{
		Path:           q.Path,
		Hash:           q.Hash,
		ScrollY:        q.ScrollY,
		ViewportHeight: q.Viewport,
		Sections:       parseSections(q.Sections),
	}
	if q.Event == "scroll" {
		in.Hash = ""
	}
	active, _ := nav.Derive(s.entries, in)
	if q.Event == "click" {
		if _, found := nav.Lookup(s.entries, q.Entry); found {
			active = q.Entry
		}
	}
	c.HTML(http.StatusOK, "nav", navData{
		Home:     nav.IsHome(q.Path),
		Scrolled: q.ScrollY > nav.ScrolledThreshold,
		Initials: s.page.Owner.Initials,
		Items:    nav.Build(s.entries, active),
	})
}

// parseSections decodes "id:top:bottom" triples. Malformed triples are
// skipped.
func parseSections(raw string) []nav.SectionPosition {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]nav.SectionPosition, 0, len(parts))
	for _, p := range parts {
		f := strings.Split(strings.TrimSpace(p), ":")
		if len(f) != 3 || f[0] == "" {
			continue
		}
		top, err1 := strconv.ParseFloat(f[1], 64)
		bottom, err2 := strconv.ParseFloat(f[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, nav.SectionPosition{ID: f[0], Top: top, Bottom: bottom})
	}
	return out
}

// setTriggers asks htmx to dispatch client-side events, keyed by event
// name with their details.
func setTriggers(c *gin.Context, events gin.H) {
	if len(events) == 0 {
		return
	}
	b, err := json.Marshal(events)
	if err != nil {
		return
	}
	c.Header("HX-Trigger", string(b))
}
