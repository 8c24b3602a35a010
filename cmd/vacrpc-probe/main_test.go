package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommandWiresExpectedSubcommands(t *testing.T) {
	root := newRootCmd()
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	require.ElementsMatch(t, []string{"rooms", "map", "watch", "clean"}, names)
}

func TestCleanCommandWiresEveryVerb(t *testing.T) {
	root := newRootCmd()
	for _, c := range root.Commands() {
		if c.Name() != "clean" {
			continue
		}
		names := make([]string, 0)
		for _, sub := range c.Commands() {
			names = append(names, sub.Name())
		}
		require.ElementsMatch(t, []string{"start", "pause", "resume", "stop", "dock"}, names)
		return
	}
	t.Fatal("clean subcommand not found")
}

func TestPersistentFlagsHaveExpectedDefaults(t *testing.T) {
	root := newRootCmd()
	flag := root.PersistentFlags().Lookup("stale-after-ms")
	require.NotNil(t, flag)
	require.Equal(t, "3000", flag.DefValue)
}
