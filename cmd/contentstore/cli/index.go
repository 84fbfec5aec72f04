package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/contentstore/internal/adapter/cdcchunker"
	"github.com/prn-tf/contentstore/internal/chunking"
	"github.com/prn-tf/contentstore/internal/pathset"
	"github.com/prn-tf/contentstore/internal/versionindex"
)

func newIndexCmd(logger zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <root>",
		Short: "Walk a directory tree and build a version index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			excludes, _ := cmd.Flags().GetStringSlice("exclude")
			if out == "" {
				return fmt.Errorf("index: --out is required")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := withRunID(logger)

			root := args[0]
			storage, err := openStorage(root, logger)
			if err != nil {
				return fmt.Errorf("index: open root: %w", err)
			}

			paths, err := pathset.Walk(cmd.Context(), storage, "", pathset.WalkOptions{ExcludePatterns: excludes})
			if err != nil {
				return fmt.Errorf("index: walk: %w", err)
			}

			runner := buildRunner(cmd, cfg)
			idx, err := chunking.IndexTree(cmd.Context(), storage, "", paths, buildHasher(), cdcchunker.New(), runner, chunkParams(cfg.Chunking), logger)
			if err != nil {
				return fmt.Errorf("index: build: %w", err)
			}

			if err := os.WriteFile(out, versionindex.Encode(idx), 0o644); err != nil {
				return fmt.Errorf("index: write %q: %w", out, err)
			}

			logger.Info().Uint32("assets", idx.AssetCount).Uint32("unique_chunks", idx.ChunkCount).Str("out", out).Msg("version index written")
			return nil
		},
	}
	cmd.Flags().String("out", "", "path to write the encoded version index")
	cmd.Flags().StringSlice("exclude", nil, "doublestar glob patterns to exclude from the walk")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(cliVersion)
		},
	}
}

var cliVersion = "dev"
