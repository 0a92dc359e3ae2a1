package cli

import (
	"encoding/json"
	"fmt"

	"github.com/thomiceli/gistgrep/internal/config"
	"github.com/urfave/cli/v2"
)

var CmdSearch = cli.Command{
	Name:  "search",
	Usage: "Search the gists of a user once and print the result as JSON",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "username",
			Aliases:  []string{"u"},
			Usage:    "GitHub user whose public gists are searched",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "pattern",
			Aliases:  []string{"p"},
			Usage:    "Regular expression matched at the start of each gist",
			Required: true,
		},
	},
	Action: func(ctx *cli.Context) error {
		Initialize(ctx)

		res, err := NewSearchService(config.C).Search(ctx.Context, ctx.String("username"), ctx.String("pattern"))
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("cannot encode search result: %w", err)
		}
		fmt.Fprintln(ctx.App.Writer, string(out))
		return nil
	},
}
