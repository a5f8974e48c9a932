package server

import (
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/nav"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// pageView is one rendered page shell and its navigation controller.
type pageView struct {
	id     string
	ctrl   *nav.Controller
	doc    *pageDocument
	active <-chan string
}

// activeChange returns the active entry id if it changed since the last
// call.
func (v *pageView) activeChange() (string, bool) {
	select {
	case id, ok := <-v.active:
		return id, ok
	default:
		return "", false
	}
}

// pageDocument stands in for the browser document of a page view. Scroll
// requests for anchors the page rendered are queued and handed to the
// client with the next navigation fragment.
type pageDocument struct {
	anchors map[string]bool

	mu      sync.Mutex
	pending string
}

func newPageDocument(anchors []string) *pageDocument {
	d := &pageDocument{anchors: make(map[string]bool, len(anchors))}
	for _, a := range anchors {
		d.anchors[a] = true
	}
	return d
}

func (d *pageDocument) ScrollIntoView(id string) bool {
	if !d.anchors[id] {
		return false
	}
	d.mu.Lock()
	d.pending = id
	d.mu.Unlock()
	return true
}

// takePending returns and clears the queued scroll target.
func (d *pageDocument) takePending() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.pending
	d.pending = ""
	return id
}

type viewRegistry struct {
	entries []nav.Entry
	logger  *zap.Logger
	views   *expirable.LRU[string, *pageView]
}

func newViewRegistry(entries []nav.Entry, size int, ttl time.Duration, logger *zap.Logger) *viewRegistry {
	onEvict := func(_ string, v *pageView) { v.ctrl.Stop() }
	return &viewRegistry{
		entries: entries,
		logger:  logger,
		views:   expirable.NewLRU[string, *pageView](size, onEvict, ttl),
	}
}

// open mounts a page view for path whose document contains anchors.
func (r *viewRegistry) open(path string, anchors []string) *pageView {
	doc := newPageDocument(anchors)
	v := &pageView{
		id:   uuid.NewString(),
		ctrl: nav.NewController(r.entries, doc, r.logger),
		doc:  doc,
	}
	v.ctrl.Start(path, "")
	v.active = v.ctrl.Subscribe()
	r.views.Add(v.id, v)
	return v
}

func (r *viewRegistry) get(id string) (*pageView, bool) {
	if id == "" {
		return nil, false
	}
	return r.views.Get(id)
}

func (r *viewRegistry) close(id string) {
	r.views.Remove(id)
}

func (r *viewRegistry) len() int { return r.views.Len() }

// purge stops every live controller.
func (r *viewRegistry) purge() { r.views.Purge() }
