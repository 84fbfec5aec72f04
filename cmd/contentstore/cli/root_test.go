package cli

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/contentstore/internal/adapter/errgrouprunner"
	"github.com/prn-tf/contentstore/internal/adapter/inlinerunner"
	"github.com/prn-tf/contentstore/internal/config"
)

func TestChunkParams_CopiesBounds(t *testing.T) {
	c := config.Chunking{MinChunkSize: 1024, AvgChunkSize: 4096, MaxChunkSize: 16384}
	p := chunkParams(c)
	require.Equal(t, uint32(1024), p.Min)
	require.Equal(t, uint32(4096), p.Avg)
	require.Equal(t, uint32(16384), p.Max)
}

func newFlagCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().Bool("sync", false, "")
	cmd.Flags().Int("workers", 0, "")
	return cmd
}

func TestBuildRunner_SyncFlagSelectsInlineRunner(t *testing.T) {
	cmd := newFlagCmd()
	require.NoError(t, cmd.Flags().Set("sync", "true"))

	r := buildRunner(cmd, config.Defaults())
	require.IsType(t, inlinerunner.Runner{}, r)
}

func TestBuildRunner_DefaultSelectsErrgroupRunner(t *testing.T) {
	cmd := newFlagCmd()

	r := buildRunner(cmd, config.Defaults())
	require.IsType(t, &errgrouprunner.Runner{}, r)
}

func TestBuildRunner_WorkersFlagOverridesConfigDefault(t *testing.T) {
	cmd := newFlagCmd()
	require.NoError(t, cmd.Flags().Set("workers", "3"))

	r := buildRunner(cmd, config.Defaults())
	require.IsType(t, &errgrouprunner.Runner{}, r)
	require.Equal(t, errgrouprunner.New(3), r)
}

func TestWithRunID_AddsDistinctRunIDs(t *testing.T) {
	base := zerolog.Nop()
	a := withRunID(base)
	b := withRunID(base)
	require.NotEqual(t, a, b)
}

func TestNewRootCmd_RegistersAllSubcommands(t *testing.T) {
	root := newRootCmd(zerolog.Nop())

	want := []string{"index", "pack", "write", "materialize", "diff", "missing", "merge", "catalog", "serve", "version"}
	got := map[string]bool{}
	for _, c := range root.Commands() {
		got[c.Name()] = true
	}
	for _, name := range want {
		require.True(t, got[name], "expected subcommand %q to be registered", name)
	}
}
