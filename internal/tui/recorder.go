package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Recorder captures shell state changes and rendered frames for debugging.
type Recorder struct {
	logFile  *os.File
	frameDir string
	frameNum int
	enabled  bool
}

// NewRecorder creates a recorder writing under dir. An empty dir disables it.
func NewRecorder(dir string) *Recorder {
	if dir == "" {
		return &Recorder{}
	}

	recordDir := filepath.Join(dir, fmt.Sprintf("finflow-record-%d", time.Now().Unix()))
	if err := os.MkdirAll(recordDir, 0o750); err != nil {
		return &Recorder{}
	}

	logFile, err := os.Create(filepath.Join(recordDir, "tui.log")) // #nosec G304 -- constructed path
	if err != nil {
		return &Recorder{}
	}

	r := &Recorder{
		enabled:  true,
		logFile:  logFile,
		frameDir: recordDir,
	}
	r.Log("Recorder started at %s", recordDir)
	return r
}

// Enabled reports whether frames are being written.
func (r *Recorder) Enabled() bool { return r.enabled }

// Dir returns the recording directory.
func (r *Recorder) Dir() string { return r.frameDir }

// RecordState logs msg and the view it produced.
func (r *Recorder) RecordState(m Model, msg tea.Msg) {
	if !r.enabled {
		return
	}
	r.frameNum++

	r.Log("\n=== Frame %d ===", r.frameNum)
	r.Log("Time: %s", time.Now().Format("15:04:05.000"))
	r.Log("Message Type: %T", msg)
	r.Log("Screen: %s", m.screen)
	r.Log("State: %d", m.state)
	r.Log("Period: %02d/%d", m.month, m.year)
	if m.lastError != nil {
		r.Log("Error: %v", m.lastError)
	}

	view := m.View()
	framePath := filepath.Join(r.frameDir, fmt.Sprintf("frame-%04d.txt", r.frameNum))
	if err := os.WriteFile(framePath, []byte(view), 0o600); err != nil {
		r.Log("Error saving frame: %v", err)
	}
}

// Log writes to the log file.
func (r *Recorder) Log(format string, args ...any) {
	if !r.enabled || r.logFile == nil {
		return
	}
	if _, err := fmt.Fprintf(r.logFile, format+"\n", args...); err != nil {
		return
	}
	_ = r.logFile.Sync()
}

// Close closes the recorder.
func (r *Recorder) Close() {
	if r.logFile != nil {
		r.Log("Recording complete. %d frames captured.", r.frameNum)
		_ = r.logFile.Close()
	}
}

// recordingModel records every update of the wrapped shell.
type recordingModel struct {
	rec   *Recorder
	model Model
}

func (r recordingModel) Init() tea.Cmd { return r.model.Init() }

func (r recordingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := r.model.Update(msg)
	r.model = next.(Model)
	r.rec.RecordState(r.model, msg)
	return r, cmd
}

func (r recordingModel) View() string { return r.model.View() }
