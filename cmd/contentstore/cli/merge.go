package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/contentstore/internal/contentindex"
)

func newMergeCmd(logger zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <content-index-a> <content-index-b>",
		Short: "Concatenate two content indexes into one covering both stores' blocks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return fmt.Errorf("merge: --out is required")
			}

			a, err := readContentIndex(args[0])
			if err != nil {
				return err
			}
			b, err := readContentIndex(args[1])
			if err != nil {
				return err
			}

			merged := contentindex.Merge(a, b)
			if err := os.WriteFile(out, contentindex.Encode(merged), 0o644); err != nil {
				return fmt.Errorf("merge: write %q: %w", out, err)
			}

			logger.Info().Uint64("blocks", merged.BlockCount).Uint64("chunks", merged.ChunkCount).Str("out", out).Msg("content indexes merged")
			return nil
		},
	}
	cmd.Flags().String("out", "", "path to write the merged content index")
	return cmd
}
