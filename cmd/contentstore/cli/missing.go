package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/contentstore/internal/blockpack"
	"github.com/prn-tf/contentstore/internal/contentindex"
)

func newMissingCmd(logger zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "missing <local-content-index> <remote-version-index>",
		Short: "Pack the chunks a remote version needs that a local content index doesn't already hold",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return fmt.Errorf("missing: --out is required")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			local, err := readContentIndex(args[0])
			if err != nil {
				return err
			}
			remote, err := readVersionIndex(args[1])
			if err != nil {
				return err
			}

			opts := blockpack.Options{
				MaxBlockSize:      cfg.Packing.MaxBlockSize,
				MaxChunksPerBlock: cfg.Packing.MaxChunksPerBlock,
			}
			idx, err := blockpack.MissingContent(buildHasher(), local, remote, opts)
			if err != nil {
				return fmt.Errorf("missing: %w", err)
			}

			if err := os.WriteFile(out, contentindex.Encode(idx), 0o644); err != nil {
				return fmt.Errorf("missing: write %q: %w", out, err)
			}

			logger.Info().Uint64("blocks", idx.BlockCount).Uint64("chunks", idx.ChunkCount).Str("out", out).Msg("missing content packed")
			return nil
		},
	}
	cmd.Flags().String("out", "", "path to write the encoded content index of missing chunks")
	return cmd
}
