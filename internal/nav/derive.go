package nav

import (
	"math"
	"strings"
)

const (
	// ScrolledThreshold is the vertical offset, in pixels, past which the
	// header switches to its scrolled chrome and the home fallback stops.
	ScrolledThreshold = 20.0

	// activationRatio places the activation line at this fraction of the
	// viewport height, measured from the top.
	activationRatio = 0.3
)

// SectionPosition is a section's bounding box relative to the viewport top.
type SectionPosition struct {
	ID     string
	Top    float64
	Bottom float64
}

// Inputs is everything the active entry is derived from.
type Inputs struct {
	Path           string
	Hash           string
	ScrollY        float64
	ViewportHeight float64
	Sections       []SectionPosition
}

// NormalizePath lowercases a path and strips trailing slashes. The empty
// path is the home route.
func NormalizePath(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// IsHome reports whether path is the home route.
func IsHome(path string) bool {
	return NormalizePath(path) == "/"
}

// RouteEntry returns the entry owning a dedicated (non-home) route. A Route
// entry whose Href matches wins; otherwise an entry whose id equals the
// single path segment is used, so "/projects" activates "projects".
func RouteEntry(entries []Entry, path string) (string, bool) {
	p := NormalizePath(path)
	if p == "/" {
		return "", false
	}
	for _, e := range entries {
		if e.Kind == Route && NormalizePath(e.Href) == p {
			return e.ID, true
		}
	}
	seg := strings.TrimPrefix(p, "/")
	if strings.Contains(seg, "/") {
		return "", false
	}
	if _, ok := Lookup(entries, seg); ok {
		return seg, true
	}
	return "", false
}

// Derive computes the active entry id from in. The boolean is false when
// the inputs carry no opinion (scrolled into a gap between sections), in
// which case the caller keeps whatever
// was active before. An empty id with ok=true means no entry is active.
//
// Derive is a pure function of its arguments.
func Derive(entries []Entry, in Inputs) (string, bool) {
	if !IsHome(in.Path) {
		id, _ := RouteEntry(entries, in.Path)
		return id, true
	}
	if h := strings.TrimPrefix(in.Hash, "#"); h != "" {
		if e, ok := Lookup(entries, h); ok && e.Kind == Section {
			return e.ID, true
		}
	}
	return deriveFromScroll(entries, in)
}

func deriveFromScroll(entries []Entry, in Inputs) (string, bool) {
	if in.ScrollY <= ScrolledThreshold {
		if _, ok := Lookup(entries, HomeID); ok {
			return HomeID, true
		}
	}
	if id, ok := topmostSection(entries, in); ok {
		return id, true
	}
	if aboveFirstSection(entries, in) {
		if _, ok := Lookup(entries, HomeID); ok {
			return HomeID, true
		}
	}
	return "", false
}

// aboveFirstSection reports whether every tracked section still starts
// below the activation line. Gaps between sections do not count.
func aboveFirstSection(entries []Entry, in Inputs) bool {
	line := activationLine(in)
	seen := false
	for _, s := range in.Sections {
		e, ok := Lookup(entries, s.ID)
		if !ok || e.Kind != Section {
			continue
		}
		if s.Top <= line {
			return false
		}
		seen = true
	}
	return seen
}

func activationLine(in Inputs) float64 {
	line := in.ViewportHeight * activationRatio
	if line < 0 {
		return 0
	}
	return line
}

// topmostSection picks, among sections straddling the activation line, the
// one whose top edge is closest to the viewport top. Ties go to the entry
// listed first.
func topmostSection(entries []Entry, in Inputs) (string, bool) {
	line := activationLine(in)
	rank := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.Kind == Section {
			rank[e.ID] = i
		}
	}

	best := ""
	bestDist := math.Inf(1)
	bestRank := len(entries)
	for _, s := range in.Sections {
		r, tracked := rank[s.ID]
		if !tracked {
			continue
		}
		if s.Top > line || s.Bottom <= line {
			continue
		}
		d := math.Abs(s.Top)
		if d < bestDist || (d == bestDist && r < bestRank) {
			best, bestDist, bestRank = s.ID, d, r
		}
	}
	return best, best != ""
}
