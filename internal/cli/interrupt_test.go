package cli

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{
			name:   "with custom writer",
			writer: &bytes.Buffer{},
		},
		{
			name:   "with nil writer",
			writer: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer)
			assert.NotNil(t, handler)
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.WasInterrupted())
		})
	}
}

func TestHandleInterrupts(t *testing.T) {
	tests := []struct {
		progress func() string
		name     string
		want     []string
		absent   []string
	}{
		{
			name:     "reports progress",
			progress: func() string { return "12 of 40 transactions were imported" },
			want:     []string{"Import interrupted!", "12 of 40 transactions were imported"},
		},
		{
			name:   "without progress",
			want:   []string{"Import interrupted!"},
			absent: []string{"transactions were imported"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := &syncBuffer{}
			handler := NewInterruptHandler(output)

			ctx := handler.HandleInterrupts(context.Background(), "Import", tt.progress)
			require.NoError(t, ctx.Err())

			handler.interrupt()
			handler.interrupt()

			<-ctx.Done()
			assert.True(t, handler.WasInterrupted())
			out := output.String()
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
			for _, absent := range tt.absent {
				assert.NotContains(t, out, absent)
			}
			assert.Equal(t, 1, bytes.Count([]byte(out), []byte("interrupted!")))
		})
	}
}

func TestHandleInterruptsParentCancel(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	parent, cancel := context.WithCancel(context.Background())
	ctx := handler.HandleInterrupts(parent, "Import", nil)
	cancel()

	<-ctx.Done()
	assert.False(t, handler.WasInterrupted())
	assert.Empty(t, output.String())
}
