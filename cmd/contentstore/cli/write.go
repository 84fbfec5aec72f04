package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/contentstore/internal/blockwriter"
	"github.com/prn-tf/contentstore/internal/contentindex"
	"github.com/prn-tf/contentstore/internal/versionindex"
)

func newWriteCmd(logger zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write <root>",
		Short: "Write the blocks named by a content index into a store, reading asset bytes from root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versionPath, _ := cmd.Flags().GetString("version")
			contentPath, _ := cmd.Flags().GetString("content")
			store, _ := cmd.Flags().GetString("store")
			if versionPath == "" || contentPath == "" || store == "" {
				return fmt.Errorf("write: --version, --content, and --store are all required")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := withRunID(logger)

			root := args[0]
			sourceStorage, err := openStorage(root, logger)
			if err != nil {
				return fmt.Errorf("write: open root: %w", err)
			}
			storeStorage, err := openStorage(store, logger)
			if err != nil {
				return fmt.Errorf("write: open store: %w", err)
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
				return fmt.Errorf("write: build compressor: %w", err)
			}
			runner := buildRunner(cmd, cfg)

			if err := blockwriter.WriteBlocks(cmd.Context(), sourceStorage, "", storeStorage, "", version, idx, compressor, runner, logger); err != nil {
				return fmt.Errorf("write: %w", err)
			}

			logger.Info().Uint64("blocks", idx.BlockCount).Str("store", store).Msg("blocks written")
			return nil
		},
	}
	cmd.Flags().String("version", "", "path to the encoded version index")
	cmd.Flags().String("content", "", "path to the encoded content index")
	cmd.Flags().String("store", "", "directory to write blocks into")
	return cmd
}

func readVersionIndex(path string) (*versionindex.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read version index %q: %w", path, err)
	}
	idx, err := versionindex.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode version index %q: %w", path, err)
	}
	return idx, nil
}

func readContentIndex(path string) (*contentindex.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content index %q: %w", path, err)
	}
	idx, err := contentindex.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode content index %q: %w", path, err)
	}
	return idx, nil
}
