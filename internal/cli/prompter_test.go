package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompterAsk(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		def     string
		want    string
		retries int
		wantErr error
	}{
		{name: "typed answer", input: "ana@example.com\n", want: "ana@example.com"},
		{name: "default on empty", input: "\n", def: "https://api.example.com", want: "https://api.example.com"},
		{name: "typed overrides default", input: "http://localhost:3000\n", def: "https://api.example.com", want: "http://localhost:3000"},
		{name: "repeats until answered", input: "\n  \nAna\n", want: "Ana", retries: 2},
		{name: "input ends", input: "", wantErr: ErrNoInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Ask(context.Background(), "Email", tt.def)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.retries, strings.Count(out.String(), "cannot be empty"))
		})
	}
}

func TestPrompterAskSecretFromPipe(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("s3cret\n"), &out)

	got, err := p.AskSecret(context.Background(), "Password")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
	assert.Contains(t, out.String(), "Password")
}

func TestPrompterConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"sim\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p := NewPrompter(strings.NewReader(tt.input), &bytes.Buffer{})
			got, err := p.Confirm(context.Background(), "Delete account?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrompterChoose(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("savings\nCHECKING\n"), &out)

	got, err := p.Choose(context.Background(), "Account type", []string{"wallet", "checking"})
	require.NoError(t, err)
	assert.Equal(t, "checking", got)
	assert.Contains(t, out.String(), "Invalid choice")
	assert.Contains(t, out.String(), "wallet/checking")
}

func TestPrompterInteractive(t *testing.T) {
	assert.False(t, NewPrompter(strings.NewReader("x\n"), &bytes.Buffer{}).Interactive())

	f, err := os.CreateTemp(t.TempDir(), "answers")
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	assert.False(t, NewPrompter(f, &bytes.Buffer{}).Interactive())
}

func TestPrompterCancelled(t *testing.T) {
	p := NewPrompter(strings.NewReader("late\n"), &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Ask(ctx, "Email", "")
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestPrompterSummary(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader(""), &out)
	p.Summary("Import complete", []string{"Imported: 3", "Skipped: 1"})

	assert.Contains(t, out.String(), "Import complete")
	assert.Contains(t, out.String(), "• Imported: 3")
	assert.Contains(t, out.String(), "• Skipped: 1")
}

func TestNewProgress(t *testing.T) {
	var out bytes.Buffer
	bar := NewProgress(&out, 2, "Importing")
	require.NoError(t, bar.Add(2))
	assert.Contains(t, out.String(), "Importing")
}
