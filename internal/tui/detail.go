package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/abdra/portfolio/internal/content"
)

// ProjectMarkdown lays a project's detail page out as markdown.
func ProjectMarkdown(cat *content.Catalog, p content.Project) string {
	l := cat.Labels
	var b strings.Builder

	fmt.Fprintf(&b, "# %02d. %s\n\n", cat.Projects.Index(p.ID), p.Title)
	fmt.Fprintf(&b, "%s\n\n", p.Description)
	fmt.Fprintf(&b, "## %s\n\n%s\n\n", l.ProjectDescription, strings.TrimSpace(p.LongDescription))
	writeList(&b, l.KeyFeatures, p.Features)
	writeList(&b, l.Challenges, p.Challenges)
	writeList(&b, l.Results, p.Results)

	fmt.Fprintf(&b, "## %s\n\n", l.ProjectInfo)
	writeField(&b, l.Duration, p.Duration)
	writeField(&b, l.Team, p.Team)
	writeField(&b, l.Status, p.StatusLabel)
	writeField(&b, l.Technologies, strings.Join(p.Tech, ", "))
	writeField(&b, l.ViewCode, link(p.GitHub))
	writeField(&b, l.LiveDemo, link(p.Demo))
	return b.String()
}

// PublicationMarkdown lays a publication's detail page out as markdown.
func PublicationMarkdown(cat *content.Catalog, p content.Publication) string {
	l := cat.Labels
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	fmt.Fprintf(&b, "*%s*, %s\n\n", p.Journal, p.Year)
	writeField(&b, l.Authors, p.AuthorList())
	writeField(&b, l.Affiliations, strings.Join(p.Affiliations, "; "))
	if p.DOI != "" {
		writeField(&b, "DOI", p.DOIURL())
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n%s\n\n", l.Abstract, strings.TrimSpace(p.Abstract))
	if body := strings.TrimSpace(p.Content); body != "" {
		fmt.Fprintf(&b, "## %s\n\n", l.FullText)
		// Demote the body's headings below the page's own.
		for _, line := range strings.Split(body, "\n") {
			if strings.HasPrefix(line, "#") {
				line = "##" + line
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## %s\n\n", l.Metrics)
	writeField(&b, l.Citations, fmt.Sprint(p.Citations))
	writeField(&b, l.Downloads, fmt.Sprint(p.Downloads))
	b.WriteString("\n")
	fmt.Fprintf(&b, "## %s\n\n> %s\n", l.Cite, p.Citation())
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func writeField(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "- **%s:** %s\n", name, value)
}

func link(href string) string {
	if href == "#" {
		return ""
	}
	return href
}

// RenderMarkdown renders md for a terminal of the given width. An empty
// style picks one from the terminal's background.
func RenderMarkdown(md string, width int, style string) (string, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
