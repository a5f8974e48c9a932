package nav

// RenderedItem is a view model for templates.
type RenderedItem struct {
	ID      string
	Label   string
	Href    string
	Section bool
	Active  bool
}

// Build renders entries with the given active id.
func Build(entries []Entry, active string) []RenderedItem {
	items := make([]RenderedItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, RenderedItem{
			ID:      e.ID,
			Label:   e.Label,
			Href:    e.Href,
			Section: e.Kind == Section,
			Active:  e.ID == active,
		})
	}
	return items
}
