package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/romangod6/sitemap-explorer/config"
	"github.com/romangod6/sitemap-explorer/internal/export"
	"github.com/romangod6/sitemap-explorer/internal/extractor"
	"github.com/romangod6/sitemap-explorer/internal/models"
	"github.com/romangod6/sitemap-explorer/internal/storage"
	"github.com/romangod6/sitemap-explorer/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/Blog/first</loc></url>
  <url><loc>https://example.com/about</loc></url>
  <url><loc>https://example.com/blog/second</loc></url>
</urlset>`

type testEnv struct {
	router http.Handler
	store  *storage.MemoryStore
	origin *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write([]byte(testSitemap))
	})
	mux.HandleFunc("/empty.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"></urlset>`))
	})
	origin := httptest.NewServer(mux)
	t.Cleanup(origin.Close)

	cfg := &config.Config{}
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Fetcher.Timeout = 2 * time.Second
	cfg.Fetcher.UserAgent = "sitemap-explorer-test"
	cfg.Export.FileName = "sitemap_urls.csv"

	store := storage.NewMemoryStore()
	handler := NewHandlerFromConfig(cfg, store, utils.Discard())
	server := NewServer(cfg.Server, handler)

	return &testEnv{
		router: server.Router(),
		store:  store,
		origin: origin,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StageIdle, resp.Stage)
	return resp.ID.String()
}

func (e *testEnv) extract(t *testing.T, id, url string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, "/api/sessions/"+id+"/extract", ExtractRequest{URL: url})
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestExtractReady(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	w := env.extract(t, id, env.origin.URL+"/sitemap.xml")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, "Successfully extracted 3 URLs!", resp.Message)
	assert.Equal(t, models.StageReady, resp.Session.Stage)
	assert.Equal(t, models.KindURLSet, resp.Session.Kind)

	w = env.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, env.origin.URL+"/sitemap.xml", summary.SitemapURL)
}

func TestExtractTrimsURL(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	w := env.extract(t, id, "  "+env.origin.URL+"/sitemap.xml\n")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, env.origin.URL+"/sitemap.xml", resp.Session.SitemapURL)
}

func TestExtractFailures(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		url     string
		status  int
		message string
		stage   models.Stage
	}{
		{"empty", "", http.StatusBadRequest, "Please enter a sitemap URL", models.StageInvalid},
		{"invalid", "not a url", http.StatusBadRequest, "Please enter a valid URL", models.StageInvalid},
		{"not found", env.origin.URL + "/missing.xml", http.StatusBadGateway,
			"Failed to fetch sitemap. Please check the URL and try again.", models.StageFetchFailed},
		{"no urls", env.origin.URL + "/empty.xml", http.StatusUnprocessableEntity,
			"No URLs found in the sitemap or invalid sitemap format.", models.StageNoURLsFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := env.createSession(t)

			w := env.extract(t, id, tt.url)
			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.message, resp.Error)

			session, err := env.store.Get(context.Background(), uuid.MustParse(id))
			require.NoError(t, err)
			assert.Equal(t, tt.stage, session.Stage)
			assert.Empty(t, session.Results)
		})
	}
}

func TestExtractDiscardsPreviousResults(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	require.Equal(t, http.StatusOK, env.extract(t, id, env.origin.URL+"/sitemap.xml").Code)
	require.Equal(t, http.StatusBadGateway, env.extract(t, id, env.origin.URL+"/missing.xml").Code)

	w := env.do(t, http.MethodGet, "/api/sessions/"+id+"/urls", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// retry succeeds
	require.Equal(t, http.StatusOK, env.extract(t, id, env.origin.URL+"/sitemap.xml").Code)
	w = env.do(t, http.MethodGet, "/api/sessions/"+id+"/urls", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtractBadPayload(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/extract", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListURLs(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)
	require.Equal(t, http.StatusOK, env.extract(t, id, env.origin.URL+"/sitemap.xml").Code)

	tests := []struct {
		name  string
		query string
		want  []string
		total int
	}{
		{"all", "", []string{"https://example.com/Blog/first", "https://example.com/about", "https://example.com/blog/second"}, 3},
		{"keyword is case insensitive", "?q=BLOG", []string{"https://example.com/Blog/first", "https://example.com/blog/second"}, 2},
		{"paginated", "?limit=1&page=2", []string{"https://example.com/about"}, 3},
		{"past the end", "?limit=10&page=5", []string{}, 3},
		{"no match", "?q=missing", []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/sessions/"+id+"/urls"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var resp struct {
				Data       []string `json:"data"`
				TotalCount int      `json:"total_count"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Data)
			assert.Equal(t, tt.total, resp.TotalCount)
		})
	}
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)
	require.Equal(t, http.StatusOK, env.extract(t, id, env.origin.URL+"/sitemap.xml").Code)

	w := env.do(t, http.MethodGet, "/api/sessions/"+id+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.MIMEType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="sitemap_urls.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "URL\nhttps://example.com/Blog/first\nhttps://example.com/about\nhttps://example.com/blog/second\n", w.Body.String())

	w = env.do(t, http.MethodGet, "/api/sessions/"+id+"/export?q=about", nil)
	require.Equal(t, http.StatusOK, w.Code)
	urls, err := export.ReadCSV(w.Body)
	require.NoError(t, err)
	assert.Equal(t, models.URLList{"https://example.com/about"}, urls)

	w = env.do(t, http.MethodGet, "/api/sessions/"+id+"/export?q=nothing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "URL\n", w.Body.String())
}

func TestRenderTable(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)
	require.Equal(t, http.StatusOK, env.extract(t, id, env.origin.URL+"/sitemap.xml").Code)

	w := env.do(t, http.MethodGet, "/api/sessions/"+id+"/table?q=blog", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)

	assert.Equal(t, "Results (2 URLs)", doc.Find("h2").Text())
	assert.Equal(t, "URL", doc.Find("#results thead th").Text())

	var rows []string
	doc.Find("#results tbody td").Each(func(_ int, s *goquery.Selection) {
		rows = append(rows, s.Text())
	})
	assert.Equal(t, []string{"https://example.com/Blog/first", "https://example.com/blog/second"}, rows)

	w = env.do(t, http.MethodGet, "/api/sessions/"+id+"/table?q=nothing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc, err = goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Find("#results").Length())
	assert.Equal(t, "No URLs match your search criteria.", doc.Find(".notice").Text())
}

func TestSessionErrors(t *testing.T) {
	env := newTestEnv(t)
	unknown := uuid.New().String()

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"invalid id", http.MethodGet, "/api/sessions/not-a-uuid", http.StatusBadRequest},
		{"unknown id", http.MethodGet, "/api/sessions/" + unknown, http.StatusNotFound},
		{"unknown delete", http.MethodDelete, "/api/sessions/" + unknown, http.StatusNotFound},
		{"unknown export", http.MethodGet, "/api/sessions/" + unknown + "/export", http.StatusNotFound},
		{"invalid table id", http.MethodGet, "/api/sessions/xyz/table", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, nil)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	id := env.createSession(t)
	for _, route := range []string{"urls", "export", "table"} {
		w := env.do(t, http.MethodGet, "/api/sessions/"+id+"/"+route, nil)
		assert.Equal(t, http.StatusConflict, w.Code, route)
	}

	w := env.do(t, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusForError(extractor.ErrEmptyInput))
	assert.Equal(t, http.StatusBadGateway, statusForError(&extractor.FetchError{URL: "https://example.com", StatusCode: 500}))
	assert.Equal(t, http.StatusUnprocessableEntity, statusForError(extractor.ErrNoURLsFound))
}
