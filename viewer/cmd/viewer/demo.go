package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/obsidianstack/graphcast/pkg/graph"
)

// writeDemo rewrites path with one more stage every interval, then marks the
// final stage complete.
func writeDemo(ctx context.Context, path string, stages int, every time.Duration) error {
	if stages < 1 {
		return fmt.Errorf("demo: stages must be at least 1, got %d", stages)
	}

	b := graph.NewBuilder()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	last := -1
	for i := 1; i <= stages; i++ {
		last = b.AddStage(fmt.Sprintf("Stage %d", i), fmt.Sprintf("running step %d of %d", i, stages))
		if err := b.WriteFile(path); err != nil {
			return fmt.Errorf("demo: %w", err)
		}
		slog.Info("demo: stage written", "path", path, "stage", i)

		if i == stages {
			break
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}

	done := "done"
	b.Amend(last, nil, &done)
	if err := b.WriteFile(path); err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	slog.Info("demo: finished", "path", path, "stages", stages)
	return nil
}
