package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/pattern"
	"github.com/spf13/viper"
)

// DefaultBaseURL is the API host used when none is configured.
const DefaultBaseURL = "http://localhost:8001"

// API configures the REST client.
type API struct {
	BaseURL string
	Timeout time.Duration
}

// Session configures where the login is kept.
type Session struct {
	Path     string
	Remember bool
}

// UI configures the interactive shell.
type UI struct {
	Theme string
	Mouse bool
}

// SetDefaults registers default values for every key this package reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("session.path", DefaultSessionPath())
	v.SetDefault("session.remember", true)
	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.mouse", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// LoadAPI reads the API settings.
func LoadAPI(v *viper.Viper) API {
	return API{
		BaseURL: NormalizeBaseURL(v.GetString("api.base_url")),
		Timeout: v.GetDuration("api.timeout"),
	}
}

// LoadSession reads the session settings.
func LoadSession(v *viper.Viper) Session {
	path := v.GetString("session.path")
	if path == "" {
		path = DefaultSessionPath()
	}
	return Session{
		Path:     ExpandPath(path),
		Remember: v.GetBool("session.remember"),
	}
}

// LoadUI reads the interactive shell settings.
func LoadUI(v *viper.Viper) UI {
	return UI{
		Theme: v.GetString("ui.theme"),
		Mouse: v.GetBool("ui.mouse"),
	}
}

// NormalizeBaseURL trims whitespace and trailing slashes, falling back to
// DefaultBaseURL when empty.
func NormalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return DefaultBaseURL
	}
	return base
}

// LoadImportRules reads the statement categorization rules under
// import.rules and validates them.
func LoadImportRules(v *viper.Viper) (*pattern.Matcher, error) {
	var rules []pattern.Rule
	if err := v.UnmarshalKey("import.rules", &rules); err != nil {
		return nil, fmt.Errorf("%w: import.rules: %w", common.ErrInvalidConfig, err)
	}
	m, err := pattern.NewMatcher(rules)
	if err != nil {
		return nil, fmt.Errorf("%w: import.rules: %w", common.ErrInvalidConfig, err)
	}
	return m, nil
}
