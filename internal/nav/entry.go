package nav

import (
	"fmt"
	"strings"
)

// Kind tells how a navigation entry is activated.
type Kind int

const (
	// Section entries scroll to an in-page anchor on the home route.
	Section Kind = iota
	// Route entries navigate to a distinct page.
	Route
)

func (k Kind) String() string {
	switch k {
	case Section:
		return "section"
	case Route:
		return "route"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// HomeID is the entry that is active above the first section.
const HomeID = "home"

// Entry is a single navigation target.
type Entry struct {
	ID    string
	Label string
	Kind  Kind
	Href  string // e.g. "/#about" or "/contact"
}

// Main is the site navigation, in display order.
var Main = []Entry{
	{ID: HomeID, Label: "Home", Kind: Route, Href: "/"},
	{ID: "about", Label: "About", Kind: Section, Href: "/#about"},
	{ID: "skills", Label: "Skills", Kind: Section, Href: "/#skills"},
	{ID: "projects", Label: "Projects", Kind: Section, Href: "/#projects"},
	{ID: "contact", Label: "Contact", Kind: Route, Href: "/contact"},
}

// Validate reports duplicate or empty entry ids.
func Validate(entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("nav entry %d: empty id", i)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("nav entry %q: duplicate id", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}

// Lookup finds the entry with the given id.
func Lookup(entries []Entry, id string) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// SectionIDs returns the ids of all Section entries in order.
func SectionIDs(entries []Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Kind == Section {
			ids = append(ids, e.ID)
		}
	}
	return ids
}
