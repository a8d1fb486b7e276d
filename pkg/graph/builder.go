package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Stage layout: five cards per row.
const (
	stagesPerRow = 5
	stageSpacing = 400
	rowSpacing   = 500
	rowOffset    = 50
)

// Builder grows a staged graph one node at a time, linking each new stage to
// the one before it. It is not safe for concurrent use.
type Builder struct {
	nodes []Node
	edges []Edge
	next  int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{nodes: []Node{}, edges: []Edge{}}
}

// AddStage appends a card and returns its numeric id. From the third stage on,
// an animated edge links the previous stage to the new one.
func (b *Builder) AddStage(title, content string) int {
	id := b.next
	b.next++

	b.nodes = append(b.nodes, Node{
		ID:   strconv.Itoa(id),
		Type: "custom",
		Position: Position{
			X: float64(stageSpacing * (id % stagesPerRow)),
			Y: float64(rowOffset + rowSpacing*(id/stagesPerRow)),
		},
		Data: NodeData{Title: title, Content: content},
	})

	if id > 1 {
		b.edges = append(b.edges, Edge{
			ID:        fmt.Sprintf("e%d-%d", id-1, id),
			Source:    strconv.Itoa(id - 1),
			Target:    strconv.Itoa(id),
			Animated:  true,
			MarkerEnd: &MarkerEnd{Type: "arrowclosed"},
		})
	}
	return id
}

// Amend updates the title and/or content of stage id. Nil arguments are left
// unchanged. It reports whether the stage exists.
func (b *Builder) Amend(id int, title, content *string) bool {
	key := strconv.Itoa(id)
	for i := range b.nodes {
		if b.nodes[i].ID != key {
			continue
		}
		if title != nil {
			b.nodes[i].Data.Title = *title
		}
		if content != nil {
			b.nodes[i].Data.Content = *content
		}
		return true
	}
	return false
}

// Snapshot returns a copy of the current graph.
func (b *Builder) Snapshot() *Snapshot {
	return (&Snapshot{Nodes: b.nodes, Edges: b.edges}).Clone()
}

// WriteFile writes the current graph to path as indented JSON. The file is
// replaced atomically so pollers never observe a partial write.
func (b *Builder) WriteFile(path string) error {
	data, err := json.MarshalIndent(b.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("graph: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("graph: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("graph: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("graph: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("graph: rename into place: %w", err)
	}
	return nil
}
