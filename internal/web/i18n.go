package web

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/abdra/portfolio/internal/content"
)

const (
	// langParam is the query parameter used to switch language.
	langParam = "lang"
	// langCookie stores the visitor's language choice.
	langCookie = "portfolio_lang"

	langContextKey = "lang"
)

type langOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// catalogFor picks the request's locale: the lang query parameter (which is
// then remembered in a cookie), the cookie, Accept-Language, then the
// default.
func (s *Server) catalogFor(c *gin.Context) *content.Catalog {
	cat := s.resolveCatalog(c)
	c.Set(langContextKey, cat.Lang())
	c.Header("Vary", "Accept-Language, Cookie")
	c.Header("Content-Language", cat.Lang())
	return cat
}

func (s *Server) resolveCatalog(c *gin.Context) *content.Catalog {
	if value := strings.TrimSpace(c.Query(langParam)); value != "" {
		if tag, ok := s.lib.Parse(value); ok {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(langCookie, tag.String(), int((365 * 24 * time.Hour).Seconds()), "/", "", false, true)
			return s.lib.Catalog(tag)
		}
	}

	if value, err := c.Cookie(langCookie); err == nil {
		if tag, ok := s.lib.Parse(value); ok {
			return s.lib.Catalog(tag)
		}
	}

	if accept := strings.TrimSpace(c.GetHeader("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return s.lib.Catalog(tags...)
		}
	}

	return s.lib.Catalog()
}

// languageOptions lists the supported locales, each labelled in its own
// language, linking back to the current page.
func (s *Server) languageOptions(c *gin.Context, active string) []langOption {
	tags := s.lib.Tags()
	options := make([]langOption, 0, len(tags))
	for _, tag := range tags {
		query := url.Values{}
		for k, v := range c.Request.URL.Query() {
			query[k] = v
		}
		query.Set(langParam, tag.String())
		options = append(options, langOption{
			Tag:    tag.String(),
			Label:  display.Self.Name(tag),
			URL:    (&url.URL{Path: c.Request.URL.Path, RawQuery: query.Encode()}).String(),
			Active: tag.String() == active,
		})
	}
	return options
}
