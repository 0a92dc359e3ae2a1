package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func TestListGistsForUser(t *testing.T) {
	api := newTestAPI(t, map[string]string{
		"/users/thomas/gists": `[
			{"id": "aaa111", "html_url": "https://gist.github.com/aaa111", "description": null, "files": {"a.txt": {"filename": "a.txt", "size": 3}}},
			{"id": "bbb222", "files": {}}
		]`,
		"/users/nobody/gists": `[]`,
	})
	client := NewClient(api.URL, "gistgrep-test", 0)

	gists, err := client.ListGistsForUser(context.Background(), "thomas")
	require.NoError(t, err, "Could not list gists")
	require.Len(t, gists, 2)
	require.Equal(t, "aaa111", gists[0].ID)
	require.Equal(t, "bbb222", gists[1].ID)

	gists, err = client.ListGistsForUser(context.Background(), "nobody")
	require.NoError(t, err)
	require.Empty(t, gists)
}

func TestListGistsForUserMalformedItems(t *testing.T) {
	api := newTestAPI(t, map[string]string{
		"/users/thomas/gists": `[
			{"id": "aaa111"},
			{"id": "bbb222", "files": [], "public": "yes"},
			"not a gist",
			{"id": 42},
			{"id": null},
			{"files": {}}
		]`,
	})
	client := NewClient(api.URL, "", 0)

	gists, err := client.ListGistsForUser(context.Background(), "thomas")
	require.NoError(t, err, "A malformed item should not fail the whole listing")
	require.Len(t, gists, 6)

	ids := make([]string, len(gists))
	for i, gist := range gists {
		ids[i] = gist.ID
	}
	require.Equal(t, []string{"aaa111", "bbb222", "", "", "", ""}, ids)
}

func TestListGistsForUserErrors(t *testing.T) {
	api := newTestAPI(t, map[string]string{
		"/users/weird/gists": `{"message": "API rate limit exceeded"}`,
		"/users/html/gists":  `<html>rate limited</html>`,
		"/users/empty/gists": ``,
	})
	client := NewClient(api.URL, "", 0)

	_, err := client.ListGistsForUser(context.Background(), "ghost")
	var listingErr *ListingError
	require.ErrorAs(t, err, &listingErr)
	require.Equal(t, "ghost", listingErr.Username)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusNotFound, statusErr.StatusCode)

	for _, username := range []string{"weird", "html", "empty"} {
		_, err = client.ListGistsForUser(context.Background(), username)
		require.ErrorAs(t, err, &listingErr, "A body that is not a gist list should be a listing error for %s", username)
		require.ErrorIs(t, err, ErrUnexpectedBody)
	}

	unreachable := NewClient("http://127.0.0.1:1", "", 0)
	_, err = unreachable.ListGistsForUser(context.Background(), "thomas")
	require.Error(t, err)
	require.False(t, errors.As(err, &listingErr), "A transport error is not a listing error")
}

func TestFetchGistContent(t *testing.T) {
	api := newTestAPI(t, map[string]string{
		"/gists/ordered": `{"id": "ordered", "files": {
			"zz.txt": {"filename": "zz.txt", "content": "first in document"},
			"aa.txt": {"filename": "aa.txt", "content": "second in document"}
		}}`,
		"/gists/empty-content": `{"files": {"a.txt": {"filename": "a.txt", "content": ""}}}`,
		"/gists/no-files":      `{"id": "no-files", "files": {}}`,
		"/gists/null-files":    `{"id": "null-files", "files": null}`,
		"/gists/missing-files": `{"id": "missing-files"}`,
		"/gists/no-content":    `{"files": {"a.txt": {"filename": "a.txt", "truncated": true}}}`,
		"/gists/null-content":  `{"files": {"a.txt": {"filename": "a.txt", "content": null}}}`,
		"/gists/bad-files":     `{"files": ["a.txt"]}`,
		"/gists/bad-file":      `{"files": {"a.txt": "hello"}}`,
	})
	client := NewClient(api.URL, "gistgrep-test", 0)
	ctx := context.Background()

	content, err := client.FetchGistContent(ctx, "ordered")
	require.NoError(t, err)
	require.Equal(t, "first in document", content, "The first file of the document should be selected")

	content, err = client.FetchGistContent(ctx, "empty-content")
	require.NoError(t, err)
	require.Equal(t, "", content)

	tests := []struct {
		id      string
		wantErr error
	}{
		{"no-files", ErrNoFiles},
		{"null-files", ErrNoFiles},
		{"missing-files", ErrNoFiles},
		{"no-content", ErrNoContent},
		{"null-content", ErrNoContent},
		{"bad-files", nil},
		{"bad-file", nil},
		{"unknown", nil},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := client.FetchGistContent(ctx, tt.id)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClientHeaders(t *testing.T) {
	var userAgent, accept, path string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		accept = r.Header.Get("Accept")
		path = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer api.Close()

	client := NewClient(api.URL+"/", "gistgrep/1.0.0", 0)
	_, err := client.ListGistsForUser(context.Background(), "a user")
	require.NoError(t, err)
	require.Equal(t, "gistgrep/1.0.0", userAgent)
	require.Equal(t, "application/vnd.github+json", accept)
	require.Equal(t, "/users/a%20user/gists", path)
}
