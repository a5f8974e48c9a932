// Package content loads the site's biography, skills, projects and links.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Site is everything the pages show.
type Site struct {
	Owner           Owner            `yaml:"owner"`
	About           string           `yaml:"about"` // markdown
	Skills          map[string]Skill `yaml:"skills"`
	SkillCategories []SkillCategory  `yaml:"skill_categories"`
	Projects        []Project        `yaml:"projects"`
	Timeline        []Milestone      `yaml:"timeline"`
	Social          []SocialLink     `yaml:"social"`
}

// Owner describes the person the site is about.
type Owner struct {
	Name     string `yaml:"name"`
	Initials string `yaml:"initials"`
	Title    string `yaml:"title"`
	Tagline  string `yaml:"tagline"`
	Email    string `yaml:"email"`
	Location string `yaml:"location"`
}

// Skill is one entry of the skills table, keyed by skill id.
type Skill struct {
	Name         string `yaml:"name"`
	DisplayColor string `yaml:"display_color"`
	Proficiency  int    `yaml:"proficiency"`
}

// SkillCategory groups skill ids under a heading.
type SkillCategory struct {
	Title  string   `yaml:"title"`
	Skills []string `yaml:"skills"`
}

// Project is a portfolio entry.
type Project struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"` // markdown
	Technologies []string `yaml:"technologies"`
	Features     []string `yaml:"features"`
	Challenges   string   `yaml:"challenges"`
	Solutions    string   `yaml:"solutions"`
	Results      string   `yaml:"results"`
	GithubURL    string   `yaml:"github_url"`
	LiveURL      string   `yaml:"live_url"`
	Image        string   `yaml:"image"`
	Featured     bool     `yaml:"featured"`
}

// Milestone is a timeline entry.
type Milestone struct {
	Period      string `yaml:"period"`
	Title       string `yaml:"title"`
	Place       string `yaml:"place"`
	Description string `yaml:"description"`
}

// SocialLink points at an external profile.
type SocialLink struct {
	Name  string `yaml:"name"`
	Href  string `yaml:"href"`
	Label string `yaml:"label"`
}

// Load decodes and validates site content. Unknown keys are rejected.
func Load(r io.Reader) (*Site, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Site
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding content: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile loads content from path. An empty path loads the built-in
// content.
func LoadFile(path string) (*Site, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	return Load(bytes.NewReader(b))
}

// Default returns the built-in content.
func Default() (*Site, error) {
	return Load(bytes.NewReader(defaultYAML))
}

// Validate checks that every referenced skill exists and values are in
// range.
func (s *Site) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Owner.Name) == "" {
		errs = append(errs, errors.New("owner.name is required"))
	}

	ids := make([]string, 0, len(s.Skills))
	for id := range s.Skills {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		sk := s.Skills[id]
		if sk.Name == "" {
			errs = append(errs, fmt.Errorf("skill %q: name is required", id))
		}
		if sk.DisplayColor == "" {
			errs = append(errs, fmt.Errorf("skill %q: display_color is required", id))
		}
		if sk.Proficiency < 0 || sk.Proficiency > 100 {
			errs = append(errs, fmt.Errorf("skill %q: proficiency %d out of range 0-100", id, sk.Proficiency))
		}
	}
	for _, cat := range s.SkillCategories {
		for _, id := range cat.Skills {
			if _, ok := s.Skills[id]; !ok {
				errs = append(errs, fmt.Errorf("category %q: unknown skill %q", cat.Title, id))
			}
		}
	}

	seen := make(map[string]bool, len(s.Projects))
	for i, p := range s.Projects {
		switch {
		case p.ID == "":
			errs = append(errs, fmt.Errorf("project %d: id is required", i))
		case seen[p.ID]:
			errs = append(errs, fmt.Errorf("project %q: duplicate id", p.ID))
		}
		seen[p.ID] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid content: %w", errors.Join(errs...))
	}
	return nil
}
