package nav

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Document is the page the controller scrolls. ScrollIntoView reports
// false when no element carries the anchor id.
type Document interface {
	ScrollIntoView(id string) bool
}

// Controller owns the navigation state of one page shell. It reconciles
// scroll observation, route changes and clicks into a single active entry.
// All methods are safe for concurrent use.
type Controller struct {
	entries []Entry
	doc     Document
	logger  *zap.Logger

	mu       sync.Mutex
	running  bool
	path     string
	hash     string
	scrollY  float64
	viewport float64
	sections []SectionPosition
	active   string
	scrolled bool
	menuOpen bool
	subs     []chan string
}

// NewController creates a stopped controller. A nil logger discards logs.
func NewController(entries []Entry, doc Document, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		entries: entries,
		doc:     doc,
		logger:  logger,
		path:    "/",
	}
}

// Start attaches the controller and initializes the active entry from the
// current URL. Calling Start on a running controller is a no-op.
func (c *Controller) Start(path, hash string) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	c.OnRouteChange(path, hash)
}

// Stop detaches observers and closes subscriber channels. Events received
// after Stop are ignored.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	for _, ch := range c.subs {
		close(ch)
	}
	c.subs = nil
}

// Running reports whether the controller is attached.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Active returns the active entry id, or "" when none is active.
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Path returns the current route, normalized.
func (c *Controller) Path() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path
}

// Scrolled reports whether the page is scrolled past ScrolledThreshold.
func (c *Controller) Scrolled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrolled
}

// MenuOpen reports whether the mobile navigation overlay is open.
func (c *Controller) MenuOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.menuOpen
}

// ToggleMenu opens or closes the mobile overlay.
func (c *Controller) ToggleMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menuOpen = !c.menuOpen
}

// Subscribe returns a channel carrying the active id after every change.
// The channel holds only the latest value; a slow reader skips
// intermediate ids. It is closed by Stop. Subscribing to a stopped
// controller yields a closed channel.
func (c *Controller) Subscribe() <-chan string {
	ch := make(chan string, 1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		close(ch)
		return ch
	}
	c.subs = append(c.subs, ch)
	return ch
}

// OnScroll records a scroll observation. Only the home route tracks
// sections; elsewhere only the scrolled flag changes.
func (c *Controller) OnScroll(scrollY, viewportHeight float64, sections []SectionPosition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.scrollY = scrollY
	c.viewport = viewportHeight
	c.sections = append(c.sections[:0], sections...)
	c.scrolled = scrollY > ScrolledThreshold

	if !IsHome(c.path) {
		return
	}
	// Once the user scrolls, observation takes over from the URL hash.
	c.hash = ""
	if id, ok := Derive(c.entries, c.inputsLocked()); ok {
		c.setActiveLocked(id)
	}
}

// OnRouteChange reconciles the active entry with a new URL. A hash on the
// home route activates the matching section and scrolls it into view.
func (c *Controller) OnRouteChange(path, hash string) {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.path = NormalizePath(path)
	c.hash = hash

	var target string
	id, ok := Derive(c.entries, c.inputsLocked())
	if ok {
		c.setActiveLocked(id)
	}
	if IsHome(c.path) && ok && id != "" && id == strings.TrimPrefix(hash, "#") {
		target = id
	}
	c.mu.Unlock()

	if target != "" {
		c.scrollTo(target)
	}
}

// OnEntryClick activates entry immediately and closes the mobile overlay.
// Section entries on the home route are scrolled into view; Route entries
// are left to the router.
func (c *Controller) OnEntryClick(entry Entry) {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.setActiveLocked(entry.ID)
	c.menuOpen = false
	scroll := entry.Kind == Section && IsHome(c.path)
	c.mu.Unlock()

	if scroll {
		c.scrollTo(entry.ID)
	}
}

func (c *Controller) scrollTo(id string) {
	if c.doc == nil {
		return
	}
	if !c.doc.ScrollIntoView(id) {
		c.logger.Debug("anchor not in document", zap.String("anchor", id))
	}
}

func (c *Controller) inputsLocked() Inputs {
	return Inputs{
		Path:           c.path,
		Hash:           c.hash,
		ScrollY:        c.scrollY,
		ViewportHeight: c.viewport,
		Sections:       c.sections,
	}
}

func (c *Controller) setActiveLocked(id string) {
	if c.active == id {
		return
	}
	c.active = id
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- id
	}
}
