package web

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdra/portfolio/internal/content"
	"github.com/abdra/portfolio/internal/observability"
	"github.com/abdra/portfolio/internal/views"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	srv     *Server
	views   *views.Registry
	metrics *observability.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	lib, err := content.Load(content.DefaultLang)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	registry := views.NewRegistry()
	observability.ObserveLiveViews(reg, registry.Len)

	srv, err := New(Options{
		Library:  lib,
		Views:    registry,
		Metrics:  metrics,
		Gatherer: reg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return &fixture{srv: srv, views: registry, metrics: metrics}
}

func (f *fixture) do(method, target string, body io.Reader, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	for k, v := range header {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, req)
	return w
}

func (f *fixture) get(target string, header http.Header) *httptest.ResponseRecorder {
	return f.do(http.MethodGet, target, nil, header)
}

func (f *fixture) openView(t *testing.T) string {
	t.Helper()
	w := f.do(http.MethodPost, "/views", strings.NewReader(`{"lang":"en"}`), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id, _ := decodeJSON(t, w)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	f := newFixture(t)

	w := f.get("/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, `data-spy="/views"`)
	assert.Contains(t, body, "Abdrahman")
	for _, id := range []string{"home", "about", "research", "projects", "experience", "publications"} {
		assert.Contains(t, body, `data-section="`+id+`"`)
		assert.Contains(t, body, `data-nav="`+id+`"`)
	}
	assert.Contains(t, body, `class="nav-link icon-home active"`, "first section starts active")
	assert.NotContains(t, body, "site-header scrolled")
	assert.Contains(t, body, `href="/projects/quantum-error-correction"`)
	assert.Contains(t, body, `href="/publications/quantum-error-mitigation"`)
	assert.Equal(t, "en", w.Header().Get("Content-Language"))

	assert.Equal(t, 0, f.views.Len())
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.ViewsOpened))
}

func TestIndex_RenderingOpensNoViews(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 500; i++ {
		require.Equal(t, http.StatusOK, f.get("/", nil).Code)
	}
	assert.Equal(t, 0, f.views.Len())
}

func TestProjectDetail(t *testing.T) {
	f := newFixture(t)

	w := f.get("/projects/quantum-error-correction", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Quantum Error Correction Simulator")
	assert.Contains(t, body, "<p>This project is a full-featured quantum systems simulator")
	assert.Contains(t, body, "Steane codes")
	assert.Contains(t, body, `href="/"`)
}

func TestPublicationDetail(t *testing.T) {
	f := newFixture(t)

	w := f.get("/publications/quantum-error-mitigation", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Quantum Error Mitigation Techniques for Near-Term Quantum Devices")
	assert.Contains(t, body, `<h2 id="methodology">Methodology</h2>`)
	assert.Contains(t, body, "https://doi.org/10.1234/jqis.2023.15.3.245")
}

func TestDetail_UnknownID(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		target  string
		kind    string
		message string
	}{
		{"project", "/projects/nope", "project", "Project not found"},
		{"publication", "/publications/nope", "publication", "Publication not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.get(tt.target, nil)
			require.Equal(t, http.StatusNotFound, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
			assert.Contains(t, w.Body.String(), `href="/"`)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.NotFound.WithLabelValues(tt.kind)))
		})
	}
}

func TestNoRoute(t *testing.T) {
	f := newFixture(t)

	w := f.get("/no/such/page", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `href="/"`)
}

func TestLanguage_AcceptLanguage(t *testing.T) {
	f := newFixture(t)

	w := f.get("/", http.Header{"Accept-Language": {"ru-RU,ru;q=0.9,en;q=0.8"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ru", w.Header().Get("Content-Language"))
	assert.Contains(t, w.Body.String(), "Акчурин")
	assert.Contains(t, w.Body.String(), `<html lang="ru">`)

	w = f.get("/projects/nope", http.Header{"Accept-Language": {"ru"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Проект не найден")
}

func TestLanguage_UnsupportedFallsBack(t *testing.T) {
	f := newFixture(t)

	w := f.get("/", http.Header{"Accept-Language": {"fr-FR"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "en", w.Header().Get("Content-Language"))
}

func TestLanguage_QueryParamSetsCookie(t *testing.T) {
	f := newFixture(t)

	w := f.get("/?lang=ru", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ru", w.Header().Get("Content-Language"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, langCookie, cookies[0].Name)
	assert.Equal(t, "ru", cookies[0].Value)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.True(t, cookies[0].HttpOnly)

	// The cookie wins over Accept-Language on later requests.
	w = f.get("/", http.Header{
		"Cookie":          {langCookie + "=ru"},
		"Accept-Language": {"en"},
	})
	assert.Equal(t, "ru", w.Header().Get("Content-Language"))
}

func TestLanguage_BadQueryIgnored(t *testing.T) {
	f := newFixture(t)

	w := f.get("/?lang=!!", http.Header{"Accept-Language": {"ru"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ru", w.Header().Get("Content-Language"))
	assert.Empty(t, w.Result().Cookies())
}

func TestViewAPI_ScrollGotoClose(t *testing.T) {
	f := newFixture(t)
	id := f.openView(t)
	base := "/views/" + id

	w := f.get(base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"active": "home", "scrolled": false}, decodeJSON(t, w))

	report := `{"scrollY":640,"regions":{
		"home":{"top":-640,"bottom":-40},
		"about":{"top":-40,"bottom":700},
		"research":{"top":700,"bottom":1400}}}`
	w = f.do(http.MethodPost, base+"/scroll", strings.NewReader(report), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"active": "about", "scrolled": true}, decodeJSON(t, w))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ScrollEvents))

	// Nothing crosses the reference line: the active section is kept.
	report = `{"scrollY":10,"regions":{"home":{"top":200,"bottom":300}}}`
	w = f.do(http.MethodPost, base+"/scroll", strings.NewReader(report), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"active": "about", "scrolled": false}, decodeJSON(t, w))

	w = f.do(http.MethodPost, base+"/goto/publications", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"active": "publications", "scrolled": false, "scrollTo": "publications"}, decodeJSON(t, w))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Navigations.WithLabelValues("publications")))

	w = f.do(http.MethodPost, base+"/goto/contact", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"active": "publications", "scrolled": false}, decodeJSON(t, w))

	w = f.do(http.MethodPost, base+"/close", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, f.views.Len())

	w = f.get(base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]any{"error": "View not found"}, decodeJSON(t, w))
}

func TestViewAPI_Open(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		body   string
		header http.Header
		lang   string
	}{
		{"no body", "", nil, "en"},
		{"requested lang", `{"lang":"ru"}`, nil, "ru"},
		{"unsupported lang negotiates", `{"lang":"fr"}`, http.Header{"Accept-Language": {"ru"}}, "ru"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			w := f.do(http.MethodPost, "/views", body, tt.header)
			require.Equal(t, http.StatusCreated, w.Code)
			got := decodeJSON(t, w)
			assert.NotEmpty(t, got["id"])
			assert.Equal(t, "home", got["active"])
			assert.Equal(t, false, got["scrolled"])
		})
	}
	assert.Equal(t, 3, f.views.Len())
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.ViewsOpened))
}

func TestViewAPI_ClosedViewIsReplaced(t *testing.T) {
	f := newFixture(t)
	old := f.openView(t)

	// pagehide beacon, then a click after the page comes back
	require.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/views/"+old+"/close", nil, nil).Code)
	w := f.do(http.MethodPost, "/views/"+old+"/goto/projects", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	fresh := f.openView(t)
	assert.NotEqual(t, old, fresh)

	w = f.do(http.MethodPost, "/views/"+fresh+"/goto/projects", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"active": "projects", "scrolled": false, "scrollTo": "projects"}, decodeJSON(t, w))

	report := `{"scrollY":900,"regions":{"experience":{"top":-10,"bottom":600}}}`
	w = f.do(http.MethodPost, "/views/"+fresh+"/scroll", strings.NewReader(report), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"active": "experience", "scrolled": true}, decodeJSON(t, w))
	assert.Equal(t, 1, f.views.Len())
}

func TestViewAPI_Errors(t *testing.T) {
	f := newFixture(t)
	id := f.openView(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"unknown view state", http.MethodGet, "/views/missing", "", http.StatusNotFound},
		{"unknown view scroll", http.MethodPost, "/views/missing/scroll", `{"scrollY":0}`, http.StatusNotFound},
		{"unknown view goto", http.MethodPost, "/views/missing/goto/about", "", http.StatusNotFound},
		{"unknown view close", http.MethodPost, "/views/missing/close", "", http.StatusNotFound},
		{"malformed scroll", http.MethodPost, "/views/" + id + "/scroll", `{"scrollY":`, http.StatusBadRequest},
		{"malformed open", http.MethodPost, "/views", `{"lang":`, http.StatusBadRequest},
		{"wrong scroll type", http.MethodPost, "/views/" + id + "/scroll", `{"scrollY":"far"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			w := f.do(tt.method, tt.target, body, nil)
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, decodeJSON(t, w), "error")
		})
	}
}

func TestPageViews(t *testing.T) {
	f := newFixture(t)

	f.get("/", nil)
	f.get("/", http.Header{"Dnt": {"1"}})
	f.get("/projects/quantum-ml-platform", http.Header{"Accept-Language": {"ru"}})
	f.get("/static/site.css", nil)
	f.get("/healthz", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PageViews.WithLabelValues("/", "en")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PageViews.WithLabelValues("/projects/:id", "ru")))
	assert.Equal(t, 2, testutil.CollectAndCount(f.metrics.PageViews))
}

func TestStaticAssets(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/static/spy.js", "/static/site.css", "/static/placeholder.svg"} {
		w := f.get(path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)
	f.openView(t)

	w := f.get("/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"status": "ok", "views": 1.0}, decodeJSON(t, w))

	w = f.get("/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_spy_views_opened_total 1")
	assert.Contains(t, w.Body.String(), "portfolio_spy_live_views 1")
}

func TestSections_FollowNavOrder(t *testing.T) {
	lib, err := content.Load(content.DefaultLang)
	require.NoError(t, err)
	cat := lib.Catalog()

	got := Sections(cat)
	require.Len(t, got, len(cat.Nav))
	for i, item := range cat.Nav {
		assert.Equal(t, item.ID, got[i].ID)
		assert.Equal(t, item.Label, got[i].Label)
	}
}
