package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive shell and blocks until the user quits, the
// session is rejected, or ctx is cancelled. The page containers are closed
// on return.
func Run(ctx context.Context, p Pages, opts ...Option) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer p.Close()

	// Best-effort restore in case the program dies without its own teardown.
	defer func() {
		_, _ = os.Stdout.Write([]byte("\033[?1049l")) // Exit alternate screen
		_, _ = os.Stdout.Write([]byte("\033[?25h"))   // Show cursor
		_, _ = os.Stdout.Write([]byte("\033[m"))      // Reset colors
		_, _ = os.Stdout.Write([]byte("\033[?1000l")) // Disable mouse
	}()

	m := New(ctx, p, opts...)

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if m.config.MouseSupport {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	var root tea.Model = m
	rec := NewRecorder(m.config.RecordDir)
	defer rec.Close()
	if rec.Enabled() {
		root = recordingModel{rec: rec, model: m}
		m.logger.Info("recording frames", "dir", rec.Dir())
	}

	final, err := tea.NewProgram(root, programOpts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}

	switch fm := final.(type) {
	case Model:
		return fm.Err()
	case recordingModel:
		return fm.model.Err()
	}
	return nil
}
