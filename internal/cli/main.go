package cli

import (
	gocontext "context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thomiceli/gistgrep/internal/config"
	"github.com/thomiceli/gistgrep/internal/github"
	"github.com/thomiceli/gistgrep/internal/search"
	"github.com/thomiceli/gistgrep/internal/web/server"
	"github.com/urfave/cli/v2"
)

var CmdVersion = cli.Command{
	Name:  "version",
	Usage: "Print the version of gistgrep",
	Action: func(c *cli.Context) error {
		fmt.Fprintln(c.App.Writer, "gistgrep "+config.GistgrepVersion)
		return nil
	},
}

var CmdStart = cli.Command{
	Name:  "start",
	Usage: "Start the gistgrep HTTP server",
	Action: func(ctx *cli.Context) error {
		Initialize(ctx)

		s := server.NewServer(config.C, NewSearchService(config.C))
		go s.Start()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		shutdownCtx, cancel := gocontext.WithTimeout(gocontext.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to stop HTTP server")
			return err
		}
		return nil
	},
}

var ConfigFlag = cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path to a config file in YAML format",
}

func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "gistgrep"
	app.Usage = "Search the public gists of a GitHub user with a regular expression."
	app.HelpName = "gistgrep"
	app.Version = config.GistgrepVersion

	app.Commands = []*cli.Command{&CmdVersion, &CmdStart, &CmdSearch}
	app.DefaultCommand = CmdStart.Name
	app.Flags = []cli.Flag{
		&ConfigFlag,
	}
	return app
}

func App() error {
	return NewApp().Run(os.Args)
}

func Initialize(ctx *cli.Context) {
	if err := config.InitConfig(ctx.String("config"), ctx.App.ErrWriter); err != nil {
		panic(err)
	}

	config.InitLog()

	log.Info().Msg("gistgrep " + config.GistgrepVersion)
	log.Info().Msg("GitHub API: " + config.C.GithubApiUrl)
}

func NewSearchService(c *config.Config) *search.Service {
	client := github.NewClient(c.GithubApiUrl, c.GithubUserAgent, c.GithubTimeout)
	return search.NewService(client, c.GithubGistUrl, c.SearchRegexTimeout)
}
