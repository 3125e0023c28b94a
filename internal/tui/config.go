package tui

import (
	"log/slog"
	"time"

	"github.com/Veraticus/finflow/internal/money"
	"github.com/Veraticus/finflow/internal/pages"
	"github.com/Veraticus/finflow/internal/tui/themes"
)

// Pages are the data containers the shell drives. All four are required.
type Pages struct {
	Dashboard    *pages.Dashboard
	Transactions *pages.Transactions
	Accounts     *pages.Accounts
	Categories   *pages.Categories
}

// Close tears every container down so late responses are dropped.
func (p Pages) Close() {
	p.Dashboard.Close()
	p.Transactions.Close()
	p.Accounts.Close()
	p.Categories.Close()
}

// Config holds TUI configuration.
type Config struct {
	Theme        themes.Theme
	Format       money.Formatter
	Now          func() time.Time
	Logger       *slog.Logger
	UserName     string
	RecordDir    string
	Width        int
	Height       int
	MouseSupport bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:        themes.Default,
		Format:       money.BRL,
		Now:          time.Now,
		Width:        80,
		Height:       24,
		MouseSupport: true,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithMouse enables or disables pointer events.
func WithMouse(enabled bool) Option {
	return func(c *Config) {
		c.MouseSupport = enabled
	}
}

// WithFormatter sets how money is displayed.
func WithFormatter(format money.Formatter) Option {
	return func(c *Config) {
		c.Format = format
	}
}

// WithClock sets the clock used for the initial period and form defaults.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithUser sets the name shown in the header.
func WithUser(name string) Option {
	return func(c *Config) {
		c.UserName = name
	}
}

// WithRecordDir records every frame under dir for debugging.
func WithRecordDir(dir string) Option {
	return func(c *Config) {
		c.RecordDir = dir
	}
}
