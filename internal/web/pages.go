package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdra/portfolio/internal/content"
	"github.com/abdra/portfolio/internal/markup"
	"github.com/abdra/portfolio/internal/scrollspy"
)

type navLink struct {
	content.NavItem
	Active bool
}

// Sections turns the catalog's navigation into scroll-spy sections, in page
// order.
func Sections(cat *content.Catalog) []scrollspy.Section {
	out := make([]scrollspy.Section, len(cat.Nav))
	for i, item := range cat.Nav {
		out[i] = scrollspy.Section{ID: item.ID, Label: item.Label}
	}
	return out
}

func navLinks(cat *content.Catalog, active string) []navLink {
	links := make([]navLink, len(cat.Nav))
	for i, item := range cat.Nav {
		links[i] = navLink{NavItem: item, Active: item.ID == active}
	}
	return links
}

// Home page route
func (s *Server) handleIndex(c *gin.Context) {
	cat := s.catalogFor(c)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"lang":         cat.Lang(),
		"title":        cat.Profile.FullName(),
		"profile":      cat.Profile,
		"labels":       cat.Labels,
		"languages":    s.languageOptions(c, cat.Lang()),
		"nav":          navLinks(cat, cat.Nav[0].ID),
		"research":     cat.Research,
		"projects":     cat.Projects.All(),
		"publications": cat.Publications.All(),
		"experience":   cat.Experience,
		"education":    cat.Education,
	})
}

// Project detail route
func (s *Server) handleProject(c *gin.Context) {
	cat := s.catalogFor(c)
	id := c.Param("id")

	project, err := cat.Projects.Resolve(id)
	if err != nil {
		s.renderNotFound(c, cat, "project", cat.Labels.ProjectNotFound, err)
		return
	}
	body, err := markup.HTML(project.LongDescription)
	if err != nil {
		s.renderError(c, cat, err)
		return
	}

	c.HTML(http.StatusOK, "project.html", gin.H{
		"lang":      cat.Lang(),
		"title":     project.Title,
		"profile":   cat.Profile,
		"labels":    cat.Labels,
		"languages": s.languageOptions(c, cat.Lang()),
		"project":   project,
		"ordinal":   cat.Projects.Index(id),
		"body":      body,
	})
}

// Publication detail route
func (s *Server) handlePublication(c *gin.Context) {
	cat := s.catalogFor(c)
	id := c.Param("id")

	pub, err := cat.Publications.Resolve(id)
	if err != nil {
		s.renderNotFound(c, cat, "publication", cat.Labels.PublicationNotFound, err)
		return
	}
	abstract, err := markup.HTML(pub.Abstract)
	if err != nil {
		s.renderError(c, cat, err)
		return
	}
	body, err := markup.HTML(pub.Content)
	if err != nil {
		s.renderError(c, cat, err)
		return
	}

	c.HTML(http.StatusOK, "publication.html", gin.H{
		"lang":        cat.Lang(),
		"title":       pub.Title,
		"profile":     cat.Profile,
		"labels":      cat.Labels,
		"languages":   s.languageOptions(c, cat.Lang()),
		"publication": pub,
		"abstract":    abstract,
		"body":        body,
	})
}

// renderNotFound is the fallback for unknown detail ids: a minimal page
// linking back to the index.
func (s *Server) renderNotFound(c *gin.Context, cat *content.Catalog, kind, message string, err error) {
	if !errors.Is(err, content.ErrNotFound) {
		s.renderError(c, cat, err)
		return
	}
	s.metrics.NotFound.WithLabelValues(kind).Inc()
	s.logger.Debug("detail not found", "kind", kind, "id", c.Param("id"))

	c.HTML(http.StatusNotFound, "not-found.html", gin.H{
		"lang":    cat.Lang(),
		"title":   message,
		"profile": cat.Profile,
		"labels":  cat.Labels,
		"message": message,
	})
}

func (s *Server) renderError(c *gin.Context, cat *content.Catalog, err error) {
	s.logger.Error("render page", "path", c.Request.URL.Path, "error", err)
	c.HTML(http.StatusInternalServerError, "not-found.html", gin.H{
		"lang":    cat.Lang(),
		"title":   http.StatusText(http.StatusInternalServerError),
		"profile": cat.Profile,
		"labels":  cat.Labels,
		"message": http.StatusText(http.StatusInternalServerError),
	})
}
