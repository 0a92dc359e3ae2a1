package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNoFiles   = errors.New("gist has no files")
	ErrNoContent = errors.New("gist file has no content")

	ErrUnexpectedBody = errors.New("unexpected response body")
)

// StatusError is returned when the API answers with a non 2xx status code.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// ListingError is returned when the API answered the listing call with
// something else than a list of gists, e.g. an unknown user or a rate limit.
type ListingError struct {
	Username string
	Err      error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("cannot list gists of %s: %v", e.Username, e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}

// GistSummary is one item of a listing. Only the id is read; an item that is
// not an object or has no string id decodes with an empty ID.
type GistSummary struct {
	ID string
}

func (g *GistSummary) UnmarshalJSON(data []byte) error {
	var item struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &item); err != nil {
		return nil
	}
	if len(item.ID) > 0 {
		_ = json.Unmarshal(item.ID, &g.ID)
	}
	return nil
}

type GistFile struct {
	Filename string  `json:"filename"`
	Language string  `json:"language"`
	RawURL   string  `json:"raw_url"`
	Size     int64   `json:"size"`
	Content  *string `json:"content"`
}

// Client talks to the read-only gist endpoints of the GitHub REST API.
// Requests are not authenticated, retried or paginated.
type Client struct {
	httpClient *http.Client
	apiURL     string
	userAgent  string
}

// NewClient returns a client for the API rooted at apiURL. A zero timeout
// means outbound calls never time out on their own.
func NewClient(apiURL string, userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		userAgent:  userAgent,
	}
}

// ListGistsForUser returns the first page of public gists of a user, as listed
// by GET /users/{username}/gists. A non 2xx answer or a body that is not a
// JSON array is a *ListingError; transport errors are returned as is.
func (c *Client) ListGistsForUser(ctx context.Context, username string) ([]GistSummary, error) {
	var gists []GistSummary
	err := c.getJSON(ctx, "/users/"+url.PathEscape(username)+"/gists", &gists)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) || errors.Is(err, ErrUnexpectedBody) {
			return nil, &ListingError{Username: username, Err: err}
		}
		return nil, err
	}
	return gists, nil
}

// FetchGistContent returns the content of the first file of a gist. The first
// file is the first key of the "files" object, in the order of the response
// document.
func (c *Client) FetchGistContent(ctx context.Context, gistID string) (string, error) {
	var gist struct {
		Files json.RawMessage `json:"files"`
	}
	if err := c.getJSON(ctx, "/gists/"+url.PathEscape(gistID), &gist); err != nil {
		return "", err
	}

	file, err := firstFile(gist.Files)
	if err != nil {
		return "", fmt.Errorf("gist %s: %w", gistID, err)
	}
	if file.Content == nil {
		return "", fmt.Errorf("gist %s, file %q: %w", gistID, file.Filename, ErrNoContent)
	}

	return *file.Content, nil
}

func firstFile(raw json.RawMessage) (*GistFile, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrNoFiles
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("files is not an object")
	}
	if !dec.More() {
		return nil, ErrNoFiles
	}

	// filename key, the value holds its own "filename" field
	if _, err = dec.Token(); err != nil {
		return nil, err
	}

	var file GistFile
	if err = dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("cannot decode gist file: %w", err)
	}
	return &file, nil
}

func (c *Client) getJSON(ctx context.Context, path string, result any) error {
	endpoint := c.apiURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("cannot create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cannot get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, URL: endpoint, Body: string(body)}
	}

	if err = json.NewDecoder(resp.Body).Decode(result); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF) {
			return fmt.Errorf("cannot decode response from %s: %w: %w", endpoint, ErrUnexpectedBody, err)
		}
		return fmt.Errorf("cannot read response from %s: %w", endpoint, err)
	}
	return nil
}
