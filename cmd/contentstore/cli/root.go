// Package cli wires the engine's core packages and adapters behind cobra
// subcommands: one file per verb, a shared root carrying persistent flags
// and dependency construction helpers.
package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/contentstore/internal/adapter/blakehash"
	"github.com/prn-tf/contentstore/internal/adapter/errgrouprunner"
	"github.com/prn-tf/contentstore/internal/adapter/fsstorage"
	"github.com/prn-tf/contentstore/internal/adapter/inlinerunner"
	"github.com/prn-tf/contentstore/internal/adapter/zstdcodec"
	"github.com/prn-tf/contentstore/internal/config"
	"github.com/prn-tf/contentstore/internal/port"
)

// Execute builds the root command and runs it with the given base logger.
func Execute(logger zerolog.Logger) error {
	root := newRootCmd(logger)
	return root.Execute()
}

func newRootCmd(logger zerolog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "contentstore",
		Short:         "Content-addressed, deduplicating file-tree versioning engine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().String("config", "", "path to a config file (optional; env and defaults otherwise)")
	root.PersistentFlags().Int("workers", 0, "max concurrent jobs (0 uses config default)")
	root.PersistentFlags().Bool("sync", false, "run jobs synchronously instead of concurrently (useful for debugging)")

	root.AddCommand(
		newIndexCmd(logger),
		newPackCmd(logger),
		newWriteCmd(logger),
		newMaterializeCmd(logger),
		newDiffCmd(logger),
		newMissingCmd(logger),
		newMergeCmd(logger),
		newCatalogCmd(logger),
		newServeCmd(logger),
		newVersionCmd(),
	)

	return root
}

// loadConfig reads --config (or defaults/env) into a config.Config.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// chunkParams converts a config.Chunking into the port.Params the core
// chunker consumes.
func chunkParams(c config.Chunking) port.Params {
	return port.Params{Min: c.MinChunkSize, Avg: c.AvgChunkSize, Max: c.MaxChunkSize}
}

// buildRunner picks between the errgroup-bounded runner and the inline
// (synchronous) runner, honoring --sync and --workers.
func buildRunner(cmd *cobra.Command, cfg config.Config) port.JobRunner {
	sync, _ := cmd.Flags().GetBool("sync")
	if sync {
		return inlinerunner.New()
	}
	workers, _ := cmd.Flags().GetInt("workers")
	if workers <= 0 {
		workers = cfg.Concurrency.MaxWorkers
	}
	return errgrouprunner.New(workers)
}

func buildHasher() port.Hasher {
	return blakehash.New()
}

func buildCompressor() (port.Compressor, error) {
	return zstdcodec.New()
}

func openStorage(root string, logger zerolog.Logger) (port.Storage, error) {
	return fsstorage.New(root, logger)
}

// withRunID tags logger with a fresh correlation ID so every job log line
// for one top-level operation (index/pack/write/materialize) can be grepped
// together.
func withRunID(logger zerolog.Logger) zerolog.Logger {
	return logger.With().Str("run_id", uuid.NewString()).Logger()
}
