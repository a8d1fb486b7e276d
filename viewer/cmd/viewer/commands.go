package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/obsidianstack/graphcast/internal/logging"
	"github.com/obsidianstack/graphcast/viewer/internal/client"
	"github.com/obsidianstack/graphcast/viewer/internal/tui"
)

const plainWidth = 160

var (
	rootCmd = &cobra.Command{
		Use:   "graphcast-viewer",
		Short: "Render a graphcast stream in the terminal",
		Long: `Connects once to a graphcast server, renders each pushed graph as node
cards, and lets you draw local edges with "connect <source> <target>".
Falls back to plain output when stdout is not a terminal.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runViewer,
	}
	serverURL string
	plainMode bool
	logCfg    = logging.Defaults()

	demoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Write a growing staged graph file for a local server to pick up",
		Args:  cobra.NoArgs,
		RunE:  runDemo,
	}
	demoFile   string
	demoStages int
	demoEvery  time.Duration
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logCfg.Level, "log-level", logCfg.Level, "debug|info|warn|error")
	pf.StringVar(&logCfg.File, "log-file", "", "also write logs to this rotating file")
	pf.IntVar(&logCfg.MaxSizeMB, "log-max-size-mb", logCfg.MaxSizeMB, "rotate the log file at this size")
	pf.IntVar(&logCfg.MaxBackups, "log-max-backups", logCfg.MaxBackups, "rotated log files to keep")
	pf.IntVar(&logCfg.MaxAgeDays, "log-max-age-days", logCfg.MaxAgeDays, "days to keep rotated log files")
	rootCmd.Flags().StringVar(&serverURL, "url", client.DefaultURL, "server WebSocket URL")
	rootCmd.Flags().BoolVar(&plainMode, "plain", false, "print each update instead of running the interactive view")

	demoCmd.Flags().StringVar(&demoFile, "file", "/tmp/openagi_data.json", "graph file to write")
	demoCmd.Flags().IntVar(&demoStages, "stages", 8, "number of stages to add")
	demoCmd.Flags().DurationVar(&demoEvery, "every", time.Second, "delay between stages")
	rootCmd.AddCommand(demoCmd)
}

func runViewer(cmd *cobra.Command, _ []string) error {
	interactive := !plainMode && isTerminal(os.Stdout)

	// The TUI owns the screen, so logs only go to the file there.
	var stderr io.Writer = os.Stderr
	if interactive {
		stderr = io.Discard
	}
	closer := setupLogging(stderr)
	defer closer.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := client.New(serverURL)
	if !interactive {
		p := tui.NewPlain(os.Stdout, plainWidth)
		return c.Run(ctx, p.Handle)
	}
	return runTUI(ctx, cancel, c)
}

func runTUI(ctx context.Context, cancel context.CancelFunc, c *client.Client) error {
	prog := tea.NewProgram(tui.NewModel(c.URL()), tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		err := c.Run(ctx, func(ev client.Event) {
			prog.Send(tui.EventMsg{Event: ev})
		})
		if err != nil {
			slog.Error("viewer: connection failed", "err", err)
		}
		prog.Send(tui.DoneMsg{Err: err})
	}()

	_, err := prog.Run()
	// Tears down the connection when the user quits.
	cancel()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func runDemo(cmd *cobra.Command, _ []string) error {
	closer := setupLogging(os.Stderr)
	defer closer.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return writeDemo(ctx, demoFile, demoStages, demoEvery)
}

func setupLogging(console io.Writer) io.Closer {
	logger, closer := logging.New(console, logCfg)
	slog.SetDefault(logger)
	return closer
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

