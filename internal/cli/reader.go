package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when the command context ends while a prompt
// is waiting for an answer, e.g. on Ctrl-C during login.
var ErrInputCancelled = errors.New("input canceled")

// answerReader reads prompt answers one line at a time. A read stops waiting
// when its context ends, and the line typed after that is dropped.
type answerReader struct {
	buf *bufio.Reader
	mu  sync.Mutex
}

func newAnswerReader(r io.Reader) *answerReader {
	return &answerReader{buf: bufio.NewReader(r)}
}

// ReadLine returns the next answer with surrounding whitespace removed. A
// final answer without a newline is still returned; io.EOF means the input
// ended before anything was typed.
func (r *answerReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}

	type answer struct {
		err  error
		line string
	}
	ch := make(chan answer, 1)
	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		line, err := r.buf.ReadString('\n')
		ch <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case a := <-ch:
		if a.err != nil && (!errors.Is(a.err, io.EOF) || a.line == "") {
			return "", a.err
		}
		return strings.TrimSpace(a.line), nil
	}
}
