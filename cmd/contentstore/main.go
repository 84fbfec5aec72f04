// Command contentstore is the CLI entry point for the content-addressed
// file-tree versioning engine: it builds the engine's adapters (filesystem
// storage, blake3 hashing, zstd compression, errgroup-bounded job running)
// and exposes index/pack/write/materialize/diff/missing/merge/catalog as
// cobra subcommands.
package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/prn-tf/contentstore/cmd/contentstore/cli"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	if err := cli.Execute(logger); err != nil {
		logger.Error().Err(err).Msg("contentstore failed")
		os.Exit(1)
	}
}
