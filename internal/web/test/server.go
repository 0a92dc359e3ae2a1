package test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thomiceli/gistgrep/internal/config"
	"github.com/thomiceli/gistgrep/internal/github"
	"github.com/thomiceli/gistgrep/internal/search"
	"github.com/thomiceli/gistgrep/internal/web/server"
)

// dropConnection makes the fake API close the connection without answering.
const dropConnection = "<drop>"

type testServer struct {
	server *server.Server
	github *httptest.Server
}

// Setup starts a fake GitHub API answering each path of routes with its JSON
// body, and a gistgrep server talking to it.
func Setup(t *testing.T, routes map[string]string, opts ...func(c *config.Config)) *testServer {
	t.Helper()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		if body == dropConnection {
			if conn, _, err := w.(http.Hijacker).Hijack(); err == nil {
				_ = conn.Close()
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(api.Close)

	cfg, err := config.Load("", io.Discard)
	require.NoError(t, err, "Could not load config")
	cfg.GithubApiUrl = api.URL
	for _, opt := range opts {
		opt(cfg)
	}

	client := github.NewClient(cfg.GithubApiUrl, cfg.GithubUserAgent, cfg.GithubTimeout)
	service := search.NewService(client, cfg.GithubGistUrl, cfg.SearchRegexTimeout)

	return &testServer{
		server: server.NewServer(cfg, service),
		github: api,
	}
}

func (s *testServer) Request(t *testing.T, method, uri string, body string, expectedCode int) *httptest.ResponseRecorder {
	t.Helper()

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, "http://localhost:8000"+uri, bodyReader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()

	s.server.ServeHTTP(w, req)

	require.Equal(t, expectedCode, w.Code, "unexpected status code for %s %s, body: %s", method, uri, w.Body.String())
	return w
}

func withGistURL(url string) func(c *config.Config) {
	return func(c *config.Config) {
		c.GithubGistUrl = url
	}
}

func withMetrics(c *config.Config) {
	c.MetricsEnabled = true
}
