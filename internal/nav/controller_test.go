package nav

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeDocument struct {
	mu       sync.Mutex
	anchors  map[string]bool
	scrolled []string
}

func newFakeDocument(ids ...string) *fakeDocument {
	d := &fakeDocument{anchors: map[string]bool{}}
	for _, id := range ids {
		d.anchors[id] = true
	}
	return d
}

func (d *fakeDocument) ScrollIntoView(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.anchors[id] {
		return false
	}
	d.scrolled = append(d.scrolled, id)
	return true
}

func (d *fakeDocument) calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.scrolled...)
}

func newStarted(t *testing.T, doc Document, path, hash string) *Controller {
	t.Helper()
	c := NewController(Main, doc, zaptest.NewLogger(t))
	c.Start(path, hash)
	t.Cleanup(c.Stop)
	return c
}

func TestControllerStartFromURL(t *testing.T) {
	c := newStarted(t, newFakeDocument(), "/contact", "")
	assert.Equal(t, "contact", c.Active())

	c = newStarted(t, newFakeDocument(), "/", "")
	assert.Equal(t, HomeID, c.Active())
}

func TestControllerHashScrollsIntoView(t *testing.T) {
	doc := newFakeDocument("about", "skills", "projects")
	c := newStarted(t, doc, "/", "#projects")

	assert.Equal(t, "projects", c.Active())
	assert.Equal(t, []string{"projects"}, doc.calls())
}

func TestControllerScrollTracksSections(t *testing.T) {
	c := newStarted(t, newFakeDocument(), "/", "")

	c.OnScroll(1200, 1000, homeSections())
	assert.Equal(t, "skills", c.Active())
	assert.True(t, c.Scrolled())

	c.OnScroll(0, 1000, homeSections())
	assert.Equal(t, HomeID, c.Active())
	assert.False(t, c.Scrolled())
}

func TestControllerScrollWithoutCandidateKeepsActive(t *testing.T) {
	c := newStarted(t, newFakeDocument(), "/", "")
	c.OnScroll(1200, 1000, homeSections())
	require.Equal(t, "skills", c.Active())

	c.OnScroll(1300, 1000, nil)
	assert.Equal(t, "skills", c.Active())
}

func TestControllerScrollBackAboveFirstSection(t *testing.T) {
	c := newStarted(t, newFakeDocument(), "/", "")
	c.OnScroll(900, 1000, []SectionPosition{{ID: "about", Top: -100, Bottom: 500}})
	require.Equal(t, "about", c.Active())

	c.OnScroll(100, 1000, []SectionPosition{{ID: "about", Top: 700, Bottom: 1500}})
	assert.Equal(t, HomeID, c.Active())
	assert.True(t, c.Scrolled())
}

func TestControllerScrollSuspendedOffHome(t *testing.T) {
	c := newStarted(t, newFakeDocument(), "/contact", "")

	c.OnScroll(1200, 1000, homeSections())
	assert.Equal(t, "contact", c.Active())
	assert.True(t, c.Scrolled())
}

func TestControllerRouteChangeResumesTracking(t *testing.T) {
	c := newStarted(t, newFakeDocument(), "/contact", "")
	c.OnScroll(1200, 1000, homeSections())

	c.OnRouteChange("/", "")
	assert.Equal(t, "skills", c.Active())
}

func TestControllerClickSectionScrolls(t *testing.T) {
	doc := newFakeDocument("about", "skills", "projects")
	c := newStarted(t, doc, "/", "")
	c.ToggleMenu()
	require.True(t, c.MenuOpen())

	entry, _ := Lookup(Main, "about")
	c.OnEntryClick(entry)

	assert.Equal(t, "about", c.Active())
	assert.False(t, c.MenuOpen())
	assert.Equal(t, []string{"about"}, doc.calls())
}

func TestControllerClickRouteDoesNotScroll(t *testing.T) {
	doc := newFakeDocument("about", "contact")
	c := newStarted(t, doc, "/", "")

	entry, _ := Lookup(Main, "contact")
	c.OnEntryClick(entry)

	assert.Equal(t, "contact", c.Active())
	assert.Empty(t, doc.calls())
}

func TestControllerClickSectionOffHomeDoesNotScroll(t *testing.T) {
	doc := newFakeDocument("about")
	c := newStarted(t, doc, "/projects", "")

	entry, _ := Lookup(Main, "about")
	c.OnEntryClick(entry)

	assert.Equal(t, "about", c.Active())
	assert.Empty(t, doc.calls())
}

func TestControllerMissingAnchorIsNoOp(t *testing.T) {
	doc := newFakeDocument()
	c := newStarted(t, doc, "/", "")

	entry, _ := Lookup(Main, "skills")
	assert.NotPanics(t, func() { c.OnEntryClick(entry) })
	assert.Equal(t, "skills", c.Active())
	assert.Empty(t, doc.calls())
}

func TestControllerNilDocument(t *testing.T) {
	c := newStarted(t, nil, "/", "#about")
	assert.Equal(t, "about", c.Active())

	entry, _ := Lookup(Main, "skills")
	assert.NotPanics(t, func() { c.OnEntryClick(entry) })
}

func TestControllerSubscribe(t *testing.T) {
	c := NewController(Main, nil, nil)
	c.Start("/", "")
	ch := c.Subscribe()

	c.OnScroll(1200, 1000, homeSections())
	c.OnScroll(2000, 1000, []SectionPosition{{ID: "projects", Top: 0, Bottom: 700}})
	assert.Equal(t, "projects", <-ch)

	c.Stop()
	_, open := <-ch
	assert.False(t, open)
}

func TestControllerIgnoresEventsAfterStop(t *testing.T) {
	c := NewController(Main, nil, nil)
	c.Start("/contact", "")
	c.Stop()
	assert.False(t, c.Running())

	c.OnRouteChange("/projects", "")
	entry, _ := Lookup(Main, "about")
	c.OnEntryClick(entry)
	assert.Equal(t, "contact", c.Active())

	_, open := <-c.Subscribe()
	assert.False(t, open)
}

func TestControllerConcurrentEvents(t *testing.T) {
	c := newStarted(t, newFakeDocument("about", "skills", "projects"), "/", "")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 3 {
			case 0:
				c.OnScroll(1200, 1000, homeSections())
			case 1:
				c.OnRouteChange("/", "#about")
			default:
				entry, _ := Lookup(Main, "projects")
				c.OnEntryClick(entry)
			}
		}(i)
	}
	wg.Wait()
	assert.Contains(t, []string{"about", "skills", "projects"}, c.Active())
}
