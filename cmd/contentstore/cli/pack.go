package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/contentstore/internal/blockpack"
	"github.com/prn-tf/contentstore/internal/contentindex"
	"github.com/prn-tf/contentstore/internal/versionindex"
)

func newPackCmd(logger zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack <version-index>",
		Short: "Pack a version index's unique chunks into blocks, producing a content index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return fmt.Errorf("pack: --out is required")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := withRunID(logger)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("pack: read version index: %w", err)
			}
			version, err := versionindex.Decode(data)
			if err != nil {
				return fmt.Errorf("pack: decode version index: %w", err)
			}

			opts := blockpack.Options{
				MaxBlockSize:      cfg.Packing.MaxBlockSize,
				MaxChunksPerBlock: cfg.Packing.MaxChunksPerBlock,
			}
			idx, err := blockpack.Pack(buildHasher(), version.ChunkHashes, version.ChunkSizes, opts)
			if err != nil {
				return fmt.Errorf("pack: %w", err)
			}

			if err := os.WriteFile(out, contentindex.Encode(idx), 0o644); err != nil {
				return fmt.Errorf("pack: write %q: %w", out, err)
			}

			logger.Info().Uint64("blocks", idx.BlockCount).Uint64("chunks", idx.ChunkCount).Str("out", out).Msg("content index written")
			return nil
		},
	}
	cmd.Flags().String("out", "", "path to write the encoded content index")
	return cmd
}
