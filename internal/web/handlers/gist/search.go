package gist

import (
	gocontext "context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/thomiceli/gistgrep/internal/search"
	"github.com/thomiceli/gistgrep/internal/validator"
	"github.com/thomiceli/gistgrep/internal/web/context"
)

type Searcher interface {
	Search(ctx gocontext.Context, username string, pattern string) (*search.Result, error)
}

type Observer interface {
	ObserveSearch(res *search.Result)
	ObserveSearchError()
}

// SearchRequest only checks that both fields are present; an empty string is
// searched as given.
type SearchRequest struct {
	Username *string `json:"username" validate:"required"`
	Pattern  *string `json:"pattern" validate:"required"`
}

// Search handles POST /api/v1/search. A malformed body, a missing field or a
// failed listing is returned as a plain error and answered with a bare 500;
// failures on single gists only show up in the status of the result.
func Search(searcher Searcher, observer Observer) func(ctx *context.Context) error {
	return func(ctx *context.Context) error {
		var req SearchRequest
		if err := json.NewDecoder(ctx.Request().Body).Decode(&req); err != nil {
			return fmt.Errorf("cannot decode search request: %w", err)
		}
		if err := ctx.Validate(&req); err != nil {
			return fmt.Errorf("invalid search request: %s", validator.ValidationMessages(err))
		}

		log.Debug().Str("request_id", ctx.RequestID()).Str("username", *req.Username).
			Str("pattern", *req.Pattern).Msg("Searching gists")

		res, err := searcher.Search(ctx.Request().Context(), *req.Username, *req.Pattern)
		if err != nil {
			observer.ObserveSearchError()
			return err
		}

		observer.ObserveSearch(res)
		return ctx.Json(res)
	}
}
