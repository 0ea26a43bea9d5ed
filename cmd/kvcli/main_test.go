package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestDemoCommandRuns(t *testing.T) {
	app := &cli.App{
		Name:     "kvcli",
		Commands: []*cli.Command{newCmd_Demo()},
	}
	require.NoError(t, app.Run([]string{"kvcli", "demo"}))
}

func TestStatsCommandRuns(t *testing.T) {
	app := &cli.App{
		Name:     "kvcli",
		Commands: []*cli.Command{newCmd_Stats()},
	}
	require.NoError(t, app.Run([]string{"kvcli", "stats", "--n", "5"}))
}
