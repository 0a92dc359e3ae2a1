package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/thomiceli/gistgrep/internal/github"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
)

var ErrMissingID = errors.New("gist has no id")

// Source is the set of gist API calls a search needs.
type Source interface {
	ListGistsForUser(ctx context.Context, username string) ([]github.GistSummary, error)
	FetchGistContent(ctx context.Context, gistID string) (string, error)
}

// Result is the outcome of a search over the gists of one user. Status is
// a single flag for the whole batch: one failed gist is enough to set it to
// StatusFail, while the gists that did match are still listed.
type Result struct {
	Status   Status   `json:"status"`
	Username string   `json:"username"`
	Pattern  string   `json:"pattern"`
	Matches  []string `json:"matches"`

	Scanned int `json:"-"`
	Failed  int `json:"-"`
}

type Service struct {
	source       Source
	gistURL      string
	regexTimeout time.Duration
}

// NewService returns a search service. gistURL is the base of the links put
// in the matches, e.g. https://gist.github.com.
func NewService(source Source, gistURL string, regexTimeout time.Duration) *Service {
	return &Service{
		source:       source,
		gistURL:      strings.TrimSuffix(gistURL, "/"),
		regexTimeout: regexTimeout,
	}
}

type itemResult struct {
	gistID string
	size   int
	url    string
	err    error
}

// Search lists the gists of username and returns the URL of each gist whose
// content matches pattern, in listing order. An error is only returned when
// the listing call itself fails. A listing answered with something else than
// gists, and failures on a single gist, are folded into the result status.
func (s *Service) Search(ctx context.Context, username string, pattern string) (*Result, error) {
	gists, err := s.source.ListGistsForUser(ctx, username)
	if err != nil {
		var listingErr *github.ListingError
		if errors.As(err, &listingErr) {
			log.Warn().Err(err).Str("username", username).Msg("Unexpected gist listing")
			return &Result{Status: StatusFail, Username: username, Pattern: pattern, Matches: []string{}}, nil
		}
		return nil, fmt.Errorf("cannot list gists of %s: %w", username, err)
	}

	// a bad pattern fails every gist but not an empty listing
	matcher, compileErr := Compile(pattern, s.regexTimeout)

	items := make([]itemResult, 0, len(gists))
	for _, gist := range gists {
		items = append(items, s.searchGist(ctx, username, gist.ID, matcher, compileErr))
	}

	result := fold(username, pattern, items)
	log.Debug().Str("username", username).Str("status", string(result.Status)).
		Int("scanned", result.Scanned).Int("failed", result.Failed).Int("matches", len(result.Matches)).
		Msg("Search done")

	return result, nil
}

func (s *Service) searchGist(ctx context.Context, username string, gistID string, matcher *Matcher, compileErr error) itemResult {
	item := itemResult{gistID: gistID}
	if gistID == "" {
		item.err = ErrMissingID
		return item
	}

	content, err := s.source.FetchGistContent(ctx, gistID)
	if err != nil {
		item.err = err
		return item
	}
	item.size = len(content)
	log.Debug().Str("gist", gistID).Str("size", humanize.Bytes(uint64(item.size))).Msg("Fetched gist content")

	if compileErr != nil {
		item.err = compileErr
		return item
	}

	matched, err := matcher.Match(content)
	if err != nil {
		item.err = err
		return item
	}
	if matched {
		item.url = s.gistURL + "/" + username + "/" + gistID
	}
	return item
}

func fold(username string, pattern string, items []itemResult) *Result {
	result := &Result{
		Status:   StatusSuccess,
		Username: username,
		Pattern:  pattern,
		Matches:  []string{},
		Scanned:  len(items),
	}

	for _, item := range items {
		if item.err != nil {
			evt := log.Warn().Err(item.err).Str("gist", item.gistID).Str("username", username)
			if item.size > 0 {
				evt = evt.Str("size", humanize.Bytes(uint64(item.size)))
			}
			evt.Msg("Failed to search gist")
			result.Status = StatusFail
			result.Failed++
			continue
		}
		if item.url != "" {
			result.Matches = append(result.Matches, item.url)
		}
	}

	return result
}
