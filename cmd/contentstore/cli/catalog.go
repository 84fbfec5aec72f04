package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/contentstore/internal/catalog"
)

func newCatalogCmd(logger zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage named versions recorded in the embedded catalog",
	}
	cmd.PersistentFlags().String("db", "", "path to the catalog database (overrides config)")
	cmd.AddCommand(
		newCatalogPutCmd(logger),
		newCatalogGetCmd(logger),
		newCatalogListCmd(logger),
		newCatalogDeleteCmd(logger),
	)
	return cmd
}

func openCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = cfg.Catalog.Path
	}
	cat, err := catalog.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %q: %w", path, err)
	}
	return cat, nil
}

func newCatalogPutCmd(logger zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <name>",
		Short: "Record (or replace) the content/version index pair behind a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versionPath, _ := cmd.Flags().GetString("version")
			contentPath, _ := cmd.Flags().GetString("content")
			if versionPath == "" || contentPath == "" {
				return fmt.Errorf("catalog put: --version and --content are both required")
			}

			version, err := readVersionIndex(versionPath)
			if err != nil {
				return err
			}
			content, err := readContentIndex(contentPath)
			if err != nil {
				return err
			}

			cat, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer cat.Close()

			rec := catalog.Record{
				Name:        args[0],
				VersionHash: versionRootHash(version),
				ContentHash: contentRootHash(content),
				AssetCount:  version.AssetCount,
				ChunkCount:  version.ChunkCount,
				TotalSize:   totalAssetSize(version),
				CreatedAt:   time.Now(),
			}

			if err := cat.Put(cmd.Context(), rec); err != nil {
				return fmt.Errorf("catalog put: %w", err)
			}
			logger.Info().Str("name", rec.Name).Msg("version recorded in catalog")
			return nil
		},
	}
	cmd.Flags().String("version", "", "path to the encoded version index")
	cmd.Flags().String("content", "", "path to the encoded content index")
	return cmd
}

func newCatalogGetCmd(logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Print the catalog record for name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer cat.Close()

			rec, err := cat.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("catalog get: %w", err)
			}
			if rec == nil {
				return fmt.Errorf("catalog get: no such version %q", args[0])
			}
			printRecord(*rec)
			return nil
		},
	}
}

func newCatalogListCmd(logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every named version in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer cat.Close()

			recs, err := cat.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("catalog list: %w", err)
			}
			for _, r := range recs {
				printRecord(r)
			}
			return nil
		},
	}
}

func newCatalogDeleteCmd(logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a named version from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer cat.Close()

			if err := cat.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("catalog delete: %w", err)
			}
			logger.Info().Str("name", args[0]).Msg("version removed from catalog")
			return nil
		},
	}
}

func printRecord(r catalog.Record) {
	fmt.Printf("%-24s version=%016x content=%016x assets=%d chunks=%d size=%d created=%s\n",
		r.Name, r.VersionHash, r.ContentHash, r.AssetCount, r.ChunkCount, r.TotalSize, r.CreatedAt.Format(time.RFC3339))
}
