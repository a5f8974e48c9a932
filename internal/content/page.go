package content

import (
	"fmt"
	"html/template"
)

// Page is the rendered view model of the site.
type Page struct {
	Owner      Owner
	About      template.HTML
	Categories []CategoryView
	Projects   []ProjectView
	Featured   []ProjectView
	Timeline   []Milestone
	Social     []SocialLink
}

// CategoryView is a skill category with its skills resolved.
type CategoryView struct {
	Title  string
	Skills []SkillView
}

// SkillView is a resolved skill.
type SkillView struct {
	ID string
	Skill
}

// ProjectView is a project with its description rendered.
type ProjectView struct {
	Project
	DescriptionHTML template.HTML
}

// Render resolves references and renders markdown fields.
func (s *Site) Render(md *Markdown) (*Page, error) {
	about, err := md.Render(s.About)
	if err != nil {
		return nil, fmt.Errorf("about: %w", err)
	}
	p := &Page{
		Owner:    s.Owner,
		About:    about,
		Timeline: s.Timeline,
		Social:   s.Social,
	}
	for _, cat := range s.SkillCategories {
		cv := CategoryView{Title: cat.Title}
		for _, id := range cat.Skills {
			cv.Skills = append(cv.Skills, SkillView{ID: id, Skill: s.Skills[id]})
		}
		p.Categories = append(p.Categories, cv)
	}
	for _, proj := range s.Projects {
		desc, err := md.Render(proj.Description)
		if err != nil {
			return nil, fmt.Errorf("project %q: %w", proj.ID, err)
		}
		pv := ProjectView{Project: proj, DescriptionHTML: desc}
		p.Projects = append(p.Projects, pv)
		if proj.Featured {
			p.Featured = append(p.Featured, pv)
		}
	}
	return p, nil
}
