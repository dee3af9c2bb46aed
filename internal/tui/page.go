package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdra/portfolio/internal/content"
	"github.com/abdra/portfolio/internal/scrollspy"
)

var (
	accent = lipgloss.Color("#60a5fa")
	muted  = lipgloss.Color("#94a3b8")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	accentStyle  = lipgloss.NewStyle().Foreground(accent)
	badgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#93c5fd")).Background(lipgloss.Color("#1e3a8a")).Padding(0, 1)
)

// span is the line range [start, end) a section occupies in the rendered
// page.
type span struct {
	id         string
	start, end int
}

// layout turns section spans into viewport-relative regions for the given
// scroll offset. Regions are inclusive, so a region ends on the span's last
// line.
type layout []span

func (l layout) at(offset int) scrollspy.Regions {
	regions := make(scrollspy.Regions, len(l))
	for _, s := range l {
		regions[s.id] = scrollspy.Region{
			Top:    float64(s.start - offset),
			Bottom: float64(s.end - 1 - offset),
		}
	}
	return regions
}

func (l layout) start(id string) (int, bool) {
	for _, s := range l {
		if s.id == id {
			return s.start, true
		}
	}
	return 0, false
}

// renderPage lays the catalog out as one long page, wrapped to width, and
// reports where each navigation section landed.
func renderPage(cat *content.Catalog, width int) (string, layout) {
	if width < 20 {
		width = 20
	}
	body := lipgloss.NewStyle().Width(width)

	var (
		lines []string
		spans layout
	)
	for _, item := range cat.Nav {
		block := body.Render(renderSection(cat, item))
		start := len(lines)
		lines = append(lines, strings.Split(block, "\n")...)
		lines = append(lines, "")
		spans = append(spans, span{id: item.ID, start: start, end: len(lines)})
	}
	lines = append(lines, mutedStyle.Render(cat.Profile.Copyright))
	return strings.Join(lines, "\n"), spans
}

func renderSection(cat *content.Catalog, item content.NavItem) string {
	var b strings.Builder
	l := cat.Labels

	switch item.ID {
	case "home":
		b.WriteString(titleStyle.Render(cat.Profile.FullName()) + "\n")
		b.WriteString(badgeStyle.Render(cat.Profile.Role) + "\n\n")
		b.WriteString(cat.Profile.Tagline + "\n\n")
		writeLinks(&b, cat.Profile.Links)

	case "about":
		b.WriteString(titleStyle.Render(l.About) + "\n")
		for _, p := range cat.Profile.About {
			b.WriteString(p + "\n\n")
		}
		b.WriteString(headingStyle.Render(l.Education) + "\n")
		for _, e := range cat.Education {
			fmt.Fprintf(&b, "%s\n%s %s\n", e.Degree, e.Institution, mutedStyle.Render(e.Period))
		}
		b.WriteString("\n" + headingStyle.Render(l.Interests) + "\n")
		b.WriteString(badges(cat.Profile.Interests))

	case "research":
		b.WriteString(titleStyle.Render(l.Research) + "\n")
		b.WriteString(headingStyle.Render(l.ResearchAreas) + "\n")
		for _, a := range cat.Research.Areas {
			fmt.Fprintf(&b, "%s\n%s\n\n", accentStyle.Render(a.Title), a.Summary)
		}
		cur := cat.Research.Current
		b.WriteString(headingStyle.Render(l.CurrentProject) + "\n")
		fmt.Fprintf(&b, "%s\n%s\n%s", cur.Title, mutedStyle.Render(cur.Subtitle), cur.Summary)

	case "projects":
		b.WriteString(titleStyle.Render(l.Projects) + "\n")
		for i, p := range cat.Projects.All() {
			fmt.Fprintf(&b, "%s %s\n%s\n", accentStyle.Render(fmt.Sprintf("%02d", i+1)), headingStyle.Render(p.Title), p.Description)
			b.WriteString(badges(p.Highlights) + "\n")
			b.WriteString(mutedStyle.Render("portfolio show project "+p.ID) + "\n\n")
		}

	case "experience":
		b.WriteString(titleStyle.Render(l.Experience) + "\n")
		for _, e := range cat.Experience {
			fmt.Fprintf(&b, "%s\n%s %s\n%s\n\n", headingStyle.Render(e.Title), accentStyle.Render(e.Company), mutedStyle.Render(e.Period), e.Description)
		}

	case "publications":
		b.WriteString(titleStyle.Render(l.Publications) + "\n")
		for _, p := range cat.Publications.All() {
			fmt.Fprintf(&b, "%s\n%s\n%s\n", headingStyle.Render(p.Title), mutedStyle.Render(p.Journal+" • "+p.Year+" • "+p.AuthorList()), p.Summary)
			b.WriteString(mutedStyle.Render("portfolio show publication "+p.ID) + "\n\n")
		}

	default:
		b.WriteString(titleStyle.Render(item.Label))
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeLinks(b *strings.Builder, links content.Links) {
	for _, link := range []struct{ name, href string }{
		{"Email", strings.TrimPrefix(links.Email, "mailto:")},
		{"GitHub", links.GitHub},
		{"LinkedIn", links.LinkedIn},
	} {
		if link.href == "" || link.href == "#" {
			continue
		}
		fmt.Fprintf(b, "%s %s\n", mutedStyle.Render(link.name+":"), link.href)
	}
}

func badges(items []string) string {
	rendered := make([]string, len(items))
	for i, item := range items {
		rendered[i] = badgeStyle.Render(item)
	}
	return strings.Join(rendered, " ")
}
