// Package logging builds the process-wide slog logger for both graphcast
// binaries: JSON lines on a console writer, optionally teed into a
// size-rotated file managed by lumberjack.
package logging
