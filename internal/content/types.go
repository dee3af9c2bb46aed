package content

import (
	"fmt"
	"strings"
)

// StatusCompleted marks a project that is finished.
const StatusCompleted = "completed"

// Project is a portfolio project shown in the projects section and on its
// own detail page.
type Project struct {
	ID              string   `yaml:"id" validate:"required"`
	Title           string   `yaml:"title" validate:"required"`
	Description     string   `yaml:"description" validate:"required"`
	LongDescription string   `yaml:"long_description"`
	Tech            []string `yaml:"tech" validate:"min=1"`
	Highlights      []string `yaml:"highlights"`
	Features        []string `yaml:"features"`
	Challenges      []string `yaml:"challenges"`
	Results         []string `yaml:"results"`
	Duration        string   `yaml:"duration"`
	Team            string   `yaml:"team"`
	Status          string   `yaml:"status" validate:"required"`
	StatusLabel     string   `yaml:"status_label"`
	GitHub          string   `yaml:"github"`
	Demo            string   `yaml:"demo"`
	Image           string   `yaml:"image"`
}

func (p Project) Key() string { return p.ID }

// Completed reports whether the project is finished.
func (p Project) Completed() bool { return p.Status == StatusCompleted }

// Publication is a paper listed in the publications section.
type Publication struct {
	ID           string   `yaml:"id" validate:"required"`
	Title        string   `yaml:"title" validate:"required"`
	Journal      string   `yaml:"journal" validate:"required"`
	Year         string   `yaml:"year" validate:"required"`
	Volume       string   `yaml:"volume"`
	Issue        string   `yaml:"issue"`
	Pages        string   `yaml:"pages"`
	DOI          string   `yaml:"doi"`
	Authors      []string `yaml:"authors" validate:"min=1"`
	Affiliations []string `yaml:"affiliations"`
	Summary      string   `yaml:"summary"`
	Abstract     string   `yaml:"abstract"`
	Keywords     []string `yaml:"keywords"`
	Content      string   `yaml:"content"`
	Citations    int      `yaml:"citations"`
	Downloads    int      `yaml:"downloads"`
}

func (p Publication) Key() string { return p.ID }

// AuthorList joins the authors the way bylines print them.
func (p Publication) AuthorList() string {
	return strings.Join(p.Authors, ", ")
}

// Citation formats the publication as a journal reference:
// Authors. "Title." Journal Volume.Issue (Year): Pages.
func (p Publication) Citation() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s. \"%s.\" %s", p.AuthorList(), p.Title, p.Journal)
	if p.Volume != "" {
		b.WriteString(" " + p.Volume)
		if p.Issue != "" {
			b.WriteString("." + p.Issue)
		}
	}
	fmt.Fprintf(&b, " (%s)", p.Year)
	if p.Pages != "" {
		b.WriteString(": " + p.Pages)
	}
	b.WriteString(".")
	return b.String()
}

// DOIURL links the DOI through the doi.org resolver.
func (p Publication) DOIURL() string {
	if p.DOI == "" {
		return ""
	}
	return "https://doi.org/" + p.DOI
}

type Experience struct {
	Title       string `yaml:"title" validate:"required"`
	Company     string `yaml:"company" validate:"required"`
	Period      string `yaml:"period" validate:"required"`
	Description string `yaml:"description"`
}

type Education struct {
	Degree      string `yaml:"degree" validate:"required"`
	Institution string `yaml:"institution" validate:"required"`
	Period      string `yaml:"period" validate:"required"`
}

type ResearchArea struct {
	Title   string `yaml:"title" validate:"required"`
	Summary string `yaml:"summary"`
}

// Research holds the research section: the directions and the project the
// owner is working on right now.
type Research struct {
	Areas   []ResearchArea `yaml:"areas" validate:"dive"`
	Current struct {
		Title    string `yaml:"title"`
		Subtitle string `yaml:"subtitle"`
		Summary  string `yaml:"summary"`
	} `yaml:"current"`
}

type Links struct {
	Email    string `yaml:"email"`
	LinkedIn string `yaml:"linkedin"`
	GitHub   string `yaml:"github"`
	CV       string `yaml:"cv"`
}

type Profile struct {
	FirstName string   `yaml:"first_name" validate:"required"`
	LastName  string   `yaml:"last_name" validate:"required"`
	Role      string   `yaml:"role"`
	Tagline   string   `yaml:"tagline"`
	About     []string `yaml:"about"`
	Interests []string `yaml:"interests"`
	Contact   string   `yaml:"contact"`
	Links     Links    `yaml:"links"`
	Copyright string   `yaml:"copyright"`
}

func (p Profile) FullName() string { return p.FirstName + " " + p.LastName }

// NavItem is one entry of the top navigation; its ID names a page section.
type NavItem struct {
	ID    string `yaml:"id" validate:"required"`
	Label string `yaml:"label" validate:"required"`
	Icon  string `yaml:"icon"`
}

// Labels is the interface copy that is not part of any record.
type Labels struct {
	Contact             string `yaml:"contact"`
	DownloadCV          string `yaml:"download_cv"`
	MyResearch          string `yaml:"my_research"`
	About               string `yaml:"about"`
	Education           string `yaml:"education"`
	Interests           string `yaml:"interests"`
	Research            string `yaml:"research"`
	ResearchAreas       string `yaml:"research_areas"`
	CurrentProject      string `yaml:"current_project"`
	Projects            string `yaml:"projects"`
	Experience          string `yaml:"experience"`
	Publications        string `yaml:"publications"`
	ContactMe           string `yaml:"contact_me"`
	Details             string `yaml:"details"`
	Read                string `yaml:"read"`
	BackToPortfolio     string `yaml:"back_to_portfolio"`
	ProjectNotFound     string `yaml:"project_not_found"`
	PublicationNotFound string `yaml:"publication_not_found"`
	ProjectDescription  string `yaml:"project_description"`
	KeyFeatures         string `yaml:"key_features"`
	Challenges          string `yaml:"challenges"`
	Results             string `yaml:"results"`
	ProjectInfo         string `yaml:"project_info"`
	Duration            string `yaml:"duration"`
	Team                string `yaml:"team"`
	Status              string `yaml:"status"`
	Technologies        string `yaml:"technologies"`
	ViewCode            string `yaml:"view_code"`
	LiveDemo            string `yaml:"live_demo"`
	Abstract            string `yaml:"abstract"`
	FullText            string `yaml:"full_text"`
	Metrics             string `yaml:"metrics"`
	Citations           string `yaml:"citations"`
	Downloads           string `yaml:"downloads"`
	Cite                string `yaml:"cite"`
	DownloadPDF         string `yaml:"download_pdf"`
	OpenInJournal       string `yaml:"open_in_journal"`
	Volume              string `yaml:"volume"`
	Issue               string `yaml:"issue"`
	Pages               string `yaml:"pages"`
	Authors             string `yaml:"authors"`
	Affiliations        string `yaml:"affiliations"`
	Language            string `yaml:"language"`
}
