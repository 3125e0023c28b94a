// Package tuitest drives Bubble Tea models without a terminal.
package tuitest

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// maxDepth bounds how many command generations a single Send follows.
const maxDepth = 16

// Driver feeds messages to a model and runs the commands it returns
// synchronously, feeding their results back in. Spinner ticks are dropped so
// animations never loop.
type Driver struct {
	Model    tea.Model
	Messages []tea.Msg
	Quit     bool
}

// NewDriver wraps m.
func NewDriver(m tea.Model) *Driver {
	return &Driver{Model: m}
}

// Init runs the model's initial command.
func (d *Driver) Init() *Driver {
	d.drain(d.Model.Init(), 0)
	return d
}

// Send delivers msgs in order, settling each before the next.
func (d *Driver) Send(msgs ...tea.Msg) *Driver {
	for _, msg := range msgs {
		d.deliver(msg, 0)
	}
	return d
}

// Update delivers msg without running the command it returns.
func (d *Driver) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	d.Messages = append(d.Messages, msg)
	d.Model, cmd = d.Model.Update(msg)
	return cmd
}

// View returns the current frame without escape sequences.
func (d *Driver) View() string {
	return ansi.Strip(d.Model.View())
}

func (d *Driver) deliver(msg tea.Msg, depth int) {
	d.drain(d.Update(msg), depth+1)
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	if cmd == nil || depth > maxDepth {
		return
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			d.drain(c, depth)
		}
	case tea.QuitMsg:
		d.Quit = true
	default:
		d.deliver(msg, depth)
	}
}

// ContainsInOrder checks if the output contains all specified strings in order.
func ContainsInOrder(output string, expected ...string) bool {
	lastIndex := 0
	for _, exp := range expected {
		index := strings.Index(output[lastIndex:], exp)
		if index == -1 {
			return false
		}
		lastIndex += index + len(exp)
	}
	return true
}
