package tui

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsidianstack/graphcast/pkg/graph"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", Command{Kind: CmdNone}},
		{"   ", Command{Kind: CmdNone}},
		{"quit", Command{Kind: CmdQuit}},
		{"Q", Command{Kind: CmdQuit}},
		{"help", Command{Kind: CmdHelp}},
		{"connect 1 2", Command{Kind: CmdConnect, Conn: graph.Connection{
			Source: "1", SourceHandle: "a", Target: "2", TargetHandle: "b"}}},
		{"c 3:a 1:b", Command{Kind: CmdConnect, Conn: graph.Connection{
			Source: "3", SourceHandle: "a", Target: "1", TargetHandle: "b"}}},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			got, err := ParseCommand(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	for _, line := range []string{
		"connect",
		"connect 1",
		"connect 1 2 3",
		"connect 1:b 2",
		"connect 1 2:a",
		"connect :a 2",
		"delete 1",
	} {
		_, err := ParseCommand(line)
		assert.Error(t, err, line)
	}
}

func TestValidate(t *testing.T) {
	ids := mapset.NewSet("1", "2")
	assert.NoError(t, validate(graph.Connection{Source: "1", Target: "2"}, ids))
	assert.Error(t, validate(graph.Connection{Source: "1", Target: "9"}, ids))
	assert.Error(t, validate(graph.Connection{Source: "9", Target: "1"}, ids))
}
