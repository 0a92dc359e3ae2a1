package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/thomiceli/gistgrep/internal/cli"
)

func main() {
	if err := cli.App(); err != nil {
		log.Error().Err(err).Send()
		os.Exit(1)
	}
}
