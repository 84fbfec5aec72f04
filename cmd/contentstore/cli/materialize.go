package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/contentstore/internal/materialize"
)

func newMaterializeCmd(logger zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materialize <dest>",
		Short: "Reconstruct a version's assets under dest from a store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versionPath, _ := cmd.Flags().GetString("version")
			contentPath, _ := cmd.Flags().GetString("content")
			store, _ := cmd.Flags().GetString("store")
			if versionPath == "" || contentPath == "" || store == "" {
				return fmt.Errorf("materialize: --version, --content, and --store are all required")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := withRunID(logger)

			dest := args[0]
			destStorage, err := openStorage(dest, logger)
			if err != nil {
				return fmt.Errorf("materialize: open dest: %w", err)
			}
			storeStorage, err := openStorage(store, logger)
			if err != nil {
				return fmt.Errorf("materialize: open store: %w", err)
			}

			version, err := readVersionIndex(versionPath)
			if err != nil {
				return err
			}
			idx, err := readContentIndex(contentPath)
			if err != nil {
				return err
			}

			compressor, err := buildCompressor()
			if err != nil {
				return fmt.Errorf("materialize: build compressor: %w", err)
			}
			runner := buildRunner(cmd, cfg)

			if err := materialize.Materialize(cmd.Context(), storeStorage, "", destStorage, "", version, idx, compressor, runner, logger); err != nil {
				return fmt.Errorf("materialize: %w", err)
			}

			logger.Info().Uint32("assets", version.AssetCount).Str("dest", dest).Msg("version materialized")
			return nil
		},
	}
	cmd.Flags().String("version", "", "path to the encoded version index")
	cmd.Flags().String("content", "", "path to the encoded content index")
	cmd.Flags().String("store", "", "directory the blocks live in")
	return cmd
}
