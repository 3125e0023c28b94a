package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned when input ends before an answer was given.
var ErrNoInput = errors.New("input terminated")

// Prompter asks the user questions on a terminal or any reader/writer pair.
type Prompter struct {
	source io.Reader
	reader *answerReader
	writer io.Writer
}

// NewPrompter creates a prompter; nil arguments fall back to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		source: reader,
		reader: newAnswerReader(reader),
		writer: writer,
	}
}

// Writer returns the output stream.
func (p *Prompter) Writer() io.Writer { return p.writer }

// Ask reads a free-form answer. An empty answer yields def; with no default
// the question repeats until something is typed.
func (p *Prompter) Ask(ctx context.Context, label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", label, def)
	}
	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}
		answer, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		if answer == "" {
			answer = def
		}
		if answer != "" {
			return answer, nil
		}
		p.println(FormatError(label + " cannot be empty. Please try again."))
	}
}

// Interactive reports whether answers come from a terminal.
func (p *Prompter) Interactive() bool {
	f, ok := p.source.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// AskSecret reads an answer without echo when attached to a terminal.
func (p *Prompter) AskSecret(ctx context.Context, label string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	if f, ok := p.source.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		p.println("")
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
		}
		return string(secret), nil
	}
	return p.readLine(ctx)
}

// Confirm asks a yes/no question. Anything but y or yes means no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(question+" [y/N]")); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	answer, err := p.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "s", "sim":
		return true, nil
	}
	return false, nil
}

// Choose repeats the prompt until one of choices is typed.
func (p *Prompter) Choose(ctx context.Context, prompt string, choices []string) (string, error) {
	for {
		if _, err := fmt.Fprintf(p.writer, "%s (%s): ", FormatPrompt(prompt), strings.Join(choices, "/")); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}
		input, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		choice := strings.ToLower(input)
		for _, valid := range choices {
			if choice == strings.ToLower(valid) {
				return valid, nil
			}
		}
		p.println(FormatError("Invalid choice. Please try again."))
	}
}

// Summary prints a boxed list of result lines.
func (p *Prompter) Summary(title string, lines []string) {
	body := make([]string, 0, len(lines))
	for _, line := range lines {
		body = append(body, "  • "+line)
	}
	p.println(RenderBox(title, strings.Join(body, "\n")))
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	line, err := p.reader.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return "", ErrNoInput
	}
	return line, err
}

func (p *Prompter) println(text string) {
	if _, err := fmt.Fprintln(p.writer, text); err != nil {
		slog.Warn("Failed to write to terminal", "error", err)
	}
}

// NewProgress creates the progress bar shown during bulk operations.
func NewProgress(w io.Writer, total int, description string) *progressbar.ProgressBar {
	if w == nil {
		w = os.Stdout
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
