package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func homeSections() []SectionPosition {
	return []SectionPosition{
		{ID: "about", Top: -400, Bottom: 200},
		{ID: "skills", Top: 200, Bottom: 900},
		{ID: "projects", Top: 900, Bottom: 1600},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(Main))

	err := Validate([]Entry{{ID: "a"}, {ID: "a"}})
	assert.ErrorContains(t, err, "duplicate")

	err = Validate([]Entry{{ID: " "}})
	assert.ErrorContains(t, err, "empty id")
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"":          "/",
		"/":         "/",
		"/Contact":  "/contact",
		"/contact/": "/contact",
		"projects":  "/projects",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePath(in), "path %q", in)
	}
}

func TestDeriveRoutePrecedence(t *testing.T) {
	for _, y := range []float64{0, 10, 500, 5000} {
		id, ok := Derive(Main, Inputs{Path: "/contact", ScrollY: y, ViewportHeight: 1000, Sections: homeSections()})
		require.True(t, ok)
		assert.Equal(t, "contact", id, "scrollY=%v", y)
	}

	id, ok := Derive(Main, Inputs{Path: "/projects", ScrollY: 3000})
	require.True(t, ok)
	assert.Equal(t, "projects", id)
}

func TestDeriveUnknownRouteIsNone(t *testing.T) {
	id, ok := Derive(Main, Inputs{Path: "/nowhere", ScrollY: 900, Sections: homeSections()})
	require.True(t, ok)
	assert.Empty(t, id)
}

func TestDeriveHomeFallback(t *testing.T) {
	id, ok := Derive(Main, Inputs{Path: "/", ScrollY: 0, ViewportHeight: 1000, Sections: homeSections()})
	require.True(t, ok)
	assert.Equal(t, HomeID, id)
}

func TestDeriveHash(t *testing.T) {
	id, ok := Derive(Main, Inputs{Path: "/", Hash: "#skills"})
	require.True(t, ok)
	assert.Equal(t, "skills", id)

	// A hash naming a route entry is not a section anchor.
	id, ok = Derive(Main, Inputs{Path: "/", Hash: "#contact"})
	require.True(t, ok)
	assert.Equal(t, HomeID, id)
}

func TestDeriveScrollPicksSectionAcrossLine(t *testing.T) {
	// Line sits at 300px; skills spans it.
	id, ok := Derive(Main, Inputs{Path: "/", ScrollY: 1200, ViewportHeight: 1000, Sections: homeSections()})
	require.True(t, ok)
	assert.Equal(t, "skills", id)
}

func TestDeriveTieBreakClosestToTop(t *testing.T) {
	sections := []SectionPosition{
		{ID: "projects", Top: -250, Bottom: 800},
		{ID: "skills", Top: 100, Bottom: 700},
	}
	id, ok := Derive(Main, Inputs{Path: "/", ScrollY: 2000, ViewportHeight: 1000, Sections: sections})
	require.True(t, ok)
	assert.Equal(t, "skills", id)
}

func TestDeriveTieBreakPrefersSmallestDistance(t *testing.T) {
	// about is 250px above the viewport top, skills 100px below it.
	sections := []SectionPosition{
		{ID: "about", Top: -250, Bottom: 400},
		{ID: "skills", Top: 100, Bottom: 900},
	}
	id, ok := Derive(Main, Inputs{Path: "/", ScrollY: 900, ViewportHeight: 1000, Sections: sections})
	require.True(t, ok)
	assert.Equal(t, "skills", id)
}

func TestDeriveAboveFirstSectionIsHome(t *testing.T) {
	tests := []struct {
		name     string
		scrollY  float64
		sections []SectionPosition
	}{
		{
			name:     "hero taller than threshold",
			scrollY:  100,
			sections: []SectionPosition{{ID: "about", Top: 700, Bottom: 1500}, {ID: "skills", Top: 1500, Bottom: 2200}},
		},
		{
			name:     "first section just below the line",
			scrollY:  400,
			sections: []SectionPosition{{ID: "about", Top: 301, Bottom: 1000}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := Derive(Main, Inputs{Path: "/", ScrollY: tt.scrollY, ViewportHeight: 1000, Sections: tt.sections})
			require.True(t, ok)
			assert.Equal(t, HomeID, id)
		})
	}
}

func TestDeriveGapBetweenSectionsHasNoOpinion(t *testing.T) {
	sections := []SectionPosition{
		{ID: "about", Top: -600, Bottom: 100},
		{ID: "skills", Top: 500, Bottom: 1200},
	}
	id, ok := Derive(Main, Inputs{Path: "/", ScrollY: 1500, ViewportHeight: 1000, Sections: sections})
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestDeriveIgnoresUntrackedSections(t *testing.T) {
	sections := []SectionPosition{{ID: "hero", Top: 0, Bottom: 900}}
	_, ok := Derive(Main, Inputs{Path: "/", ScrollY: 400, ViewportHeight: 1000, Sections: sections})
	assert.False(t, ok)
}

func TestDeriveIsIdempotent(t *testing.T) {
	inputs := []Inputs{
		{Path: "/", ScrollY: 0},
		{Path: "/", ScrollY: 1200, ViewportHeight: 1000, Sections: homeSections()},
		{Path: "/", Hash: "#about"},
		{Path: "/contact", ScrollY: 700},
		{Path: "/projects"},
		{Path: "/missing", ScrollY: 40},
		{Path: "/", ScrollY: 400, ViewportHeight: 1000},
	}
	for _, in := range inputs {
		id1, ok1 := Derive(Main, in)
		id2, ok2 := Derive(Main, in)
		assert.Equal(t, id1, id2, "inputs %+v", in)
		assert.Equal(t, ok1, ok2, "inputs %+v", in)
	}
}

func TestBuildMarksActive(t *testing.T) {
	items := Build(Main, "skills")
	require.Len(t, items, len(Main))
	active := 0
	for _, it := range items {
		if it.Active {
			active++
			assert.Equal(t, "skills", it.ID)
			assert.True(t, it.Section)
		}
	}
	assert.Equal(t, 1, active)

	for _, it := range Build(Main, "") {
		assert.False(t, it.Active)
	}
}
