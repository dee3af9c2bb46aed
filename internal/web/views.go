package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdra/portfolio/internal/scrollspy"
	"github.com/abdra/portfolio/internal/views"
)

// openRequest names the locale whose sections the view tracks. An empty or
// unsupported lang falls back to the request's negotiated locale.
type openRequest struct {
	Lang string `json:"lang"`
}

type openedView struct {
	ID string `json:"id"`
	scrollspy.State
}

// handleOpenView starts a view for a page whose script is about to report.
// Pages open a fresh one whenever theirs was closed or expired.
func (s *Server) handleOpenView(c *gin.Context) {
	var req openRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid view request: " + err.Error()})
			return
		}
	}

	cat := s.catalogFor(c)
	if tag, ok := s.lib.Parse(req.Lang); ok {
		cat = s.lib.Catalog(tag)
	}

	id, state, err := s.views.Open(Sections(cat))
	if err != nil {
		s.viewError(c, err)
		return
	}
	s.metrics.ViewsOpened.Inc()
	c.JSON(http.StatusCreated, openedView{ID: id, State: state})
}

// scrollRequest is what the page reports on every scroll: the window offset
// and each section's bounding box relative to the viewport.
type scrollRequest struct {
	ScrollY float64                     `json:"scrollY"`
	Regions map[string]scrollspy.Region `json:"regions"`
}

func (s *Server) handleScroll(c *gin.Context) {
	var req scrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scroll report: " + err.Error()})
		return
	}

	state, err := s.views.Scroll(c.Param("id"), scrollspy.Position{
		Y:      req.ScrollY,
		Layout: scrollspy.Regions(req.Regions),
	})
	if err != nil {
		s.viewError(c, err)
		return
	}
	s.metrics.ScrollEvents.Inc()
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleGoto(c *gin.Context) {
	section := c.Param("section")
	res, err := s.views.Goto(c.Param("id"), section)
	if err != nil {
		s.viewError(c, err)
		return
	}
	if res.ScrollTo != "" {
		s.metrics.Navigations.WithLabelValues(res.ScrollTo).Inc()
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleViewState(c *gin.Context) {
	state, err := s.views.State(c.Param("id"))
	if err != nil {
		s.viewError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// handleClose tears the view down. Pages call it from a pagehide beacon.
func (s *Server) handleClose(c *gin.Context) {
	if err := s.views.Close(c.Param("id")); err != nil {
		s.viewError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) viewError(c *gin.Context, err error) {
	if errors.Is(err, views.ErrUnknownView) {
		c.JSON(http.StatusNotFound, gin.H{"error": "View not found"})
		return
	}
	s.logger.Error("scroll-spy view", "view", c.Param("id"), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
}
