package main

import (
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/violentutf/vmcp/cmd"
)

func init() {
	zlog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if os.Getenv("VMCP_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
