package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/contentstore/internal/contentindex"
)

func newDiffCmd(logger zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <ref-content-index> <new-content-index>",
		Short: "Report chunk hashes added and removed between two content indexes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := readContentIndex(args[0])
			if err != nil {
				return err
			}
			newIdx, err := readContentIndex(args[1])
			if err != nil {
				return err
			}

			added, removed := contentindex.Diff(ref.ChunkHashes, newIdx.ChunkHashes)
			for _, h := range added {
				fmt.Printf("+ %016x\n", h)
			}
			for _, h := range removed {
				fmt.Printf("- %016x\n", h)
			}
			logger.Info().Int("added", len(added)).Int("removed", len(removed)).Msg("diff complete")
			return nil
		},
	}
	return cmd
}
