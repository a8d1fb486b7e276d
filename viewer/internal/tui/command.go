package tui

import (
	"errors"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/obsidianstack/graphcast/pkg/graph"
)

// CommandKind identifies a parsed input line.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdConnect
	CmdHelp
	CmdQuit
)

// Command is one parsed input line.
type Command struct {
	Kind CommandKind
	Conn graph.Connection
}

const helpText = "commands: connect <source>[:a] <target>[:b] | help | quit"

var errUsage = errors.New("usage: connect <source>[:a] <target>[:b]")

// ParseCommand parses a command line. Endpoints are node ids with an optional
// ":handle" suffix; handles default to the card's only source and target
// handles.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Kind: CmdNone}, nil
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "q", "exit":
		return Command{Kind: CmdQuit}, nil
	case "help", "?":
		return Command{Kind: CmdHelp}, nil
	case "connect", "c":
	default:
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}

	if len(fields) != 3 {
		return Command{}, errUsage
	}
	src, srcHandle, err := endpoint(fields[1], graph.SourceHandle)
	if err != nil {
		return Command{}, err
	}
	tgt, tgtHandle, err := endpoint(fields[2], graph.TargetHandle)
	if err != nil {
		return Command{}, err
	}
	return Command{
		Kind: CmdConnect,
		Conn: graph.Connection{Source: src, SourceHandle: srcHandle, Target: tgt, TargetHandle: tgtHandle},
	}, nil
}

func endpoint(s, handle string) (id, h string, err error) {
	id, h, found := strings.Cut(s, ":")
	if !found {
		h = handle
	}
	if id == "" {
		return "", "", errUsage
	}
	if h != handle {
		return "", "", fmt.Errorf("node %s has no handle %q (want %q)", id, h, handle)
	}
	return id, h, nil
}

// validate checks that both ends of c are nodes currently shown.
func validate(c graph.Connection, ids mapset.Set[string]) error {
	for _, id := range []string{c.Source, c.Target} {
		if !ids.Contains(id) {
			return fmt.Errorf("no node %q", id)
		}
	}
	return nil
}
