package web

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Paths that are not pages: assets, the scroll-spy API and health checks.
var untrackedPrefixes = []string{
	"/static/",
	"/views",
	"/metrics",
	"/healthz",
	"/favicon",
}

func untracked(path string) bool {
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// pageViews counts rendered pages. Requests carrying "DNT: 1" are not
// counted.
func (s *Server) pageViews() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if untracked(c.Request.URL.Path) || c.GetHeader("DNT") == "1" {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		lang, _ := c.Get(langContextKey)
		langStr, _ := lang.(string)
		s.metrics.PageViews.WithLabelValues(route, langStr).Inc()
	}
}

// requestLogger logs one record per request with the client address hashed.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case untracked(c.Request.URL.Path):
			level = slog.LevelDebug
		}
		s.logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"client", s.hasher.Hash(c.ClientIP()),
		)
	}
}
