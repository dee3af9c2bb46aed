// Package web serves the portfolio over HTTP: the single-page index, the
// project and publication detail pages, and the small JSON API the page
// uses to drive its scroll-spy navigation.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/abdra/portfolio/internal/content"
	"github.com/abdra/portfolio/internal/observability"
	"github.com/abdra/portfolio/internal/views"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Options are the server's collaborators. Library, Views and Metrics are
// required.
type Options struct {
	Library  *content.Library
	Views    *views.Registry
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
	Hasher   *observability.IPHasher

	// ServiceName enables otelgin request spans when set.
	ServiceName string
}

type Server struct {
	lib     *content.Library
	views   *views.Registry
	metrics *observability.Metrics
	logger  *slog.Logger
	hasher  *observability.IPHasher
	engine  *gin.Engine
}

func New(opts Options) (*Server, error) {
	if opts.Library == nil || opts.Views == nil || opts.Metrics == nil {
		return nil, errors.New("web: library, views and metrics are required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Hasher == nil {
		h, err := observability.NewIPHasher()
		if err != nil {
			return nil, err
		}
		opts.Hasher = h
	}

	s := &Server{
		lib:     opts.Library,
		views:   opts.Views,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		hasher:  opts.Hasher,
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	if opts.ServiceName != "" {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(s.pageViews())
	r.SetHTMLTemplate(tmpl)

	r.StaticFS("/static", http.FS(static))

	// Pages
	r.GET("/", s.handleIndex)
	r.GET("/projects/:id", s.handleProject)
	r.GET("/publications/:id", s.handlePublication)

	// Scroll-spy API for a rendered page view
	r.POST("/views", s.handleOpenView)
	api := r.Group("/views/:id")
	api.GET("", s.handleViewState)
	api.POST("/scroll", s.handleScroll)
	api.POST("/goto/:section", s.handleGoto)
	api.POST("/close", s.handleClose)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "views": s.views.Len()})
	})
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	r.NoRoute(func(c *gin.Context) {
		cat := s.catalogFor(c)
		c.HTML(http.StatusNotFound, "not-found.html", gin.H{
			"lang":    cat.Lang(),
			"profile": cat.Profile,
			"labels":  cat.Labels,
			"title":   http.StatusText(http.StatusNotFound),
			"message": http.StatusText(http.StatusNotFound),
		})
	})

	s.engine = r
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.engine }

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"add":  func(a, b int) int { return a + b },
}
