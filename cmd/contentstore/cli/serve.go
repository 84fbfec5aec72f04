package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/contentstore/internal/adapter/fsstorage"
	"github.com/prn-tf/contentstore/internal/httpserver"
)

func newServeCmd(logger zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <store>",
		Short: "Serve liveness/readiness probes and Prometheus metrics for a running store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")

			storeStorage, err := fsstorage.New(args[0], logger)
			if err != nil {
				return fmt.Errorf("serve: open store: %w", err)
			}

			cat, err := openCatalog(cmd)
			if err != nil {
				return fmt.Errorf("serve: open catalog: %w", err)
			}
			defer cat.Close()

			checker := httpserver.NewHealthChecker(httpserver.Config{
				Catalog: cat,
				Store:   storeStorage,
				Logger:  logger,
			})

			srv := &http.Server{
				Addr:              addr,
				Handler:           httpserver.NewMux(checker, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info().Str("addr", addr).Msg("serving health and metrics endpoints")
			return srv.ListenAndServe()
		},
	}
	cmd.Flags().String("addr", ":9090", "listen address for /healthz, /readyz, and /metrics")
	return cmd
}
