package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/pattern"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("FINFLOW_TEST_DIR", "/data")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~", "/home/tester"},
		{"~/session.db", "/home/tester/session.db"},
		{"$FINFLOW_TEST_DIR/session.db", "/data/session.db"},
		{"/abs/path", "/abs/path"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "finflow"), Dir())
	assert.Equal(t, filepath.Join("/xdg", "finflow", "session.db"), DefaultSessionPath())
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", DefaultBaseURL},
		{"   ", DefaultBaseURL},
		{"https://api.example.com/", "https://api.example.com"},
		{"https://api.example.com///", "https://api.example.com"},
		{"http://10.0.2.2:8001", "http://10.0.2.2:8001"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBaseURL(tt.input))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	v := viper.New()
	SetDefaults(v)

	api := LoadAPI(v)
	assert.Equal(t, DefaultBaseURL, api.BaseURL)
	assert.Zero(t, api.Timeout)

	sess := LoadSession(v)
	assert.Equal(t, "/xdg/finflow/session.db", sess.Path)
	assert.True(t, sess.Remember)

	ui := LoadUI(v)
	assert.Equal(t, "default", ui.Theme)
	assert.True(t, ui.Mouse)
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("api.base_url", "https://finance.example.com/")
	v.Set("api.timeout", "15s")
	v.Set("session.remember", false)

	api := LoadAPI(v)
	assert.Equal(t, "https://finance.example.com", api.BaseURL)
	assert.Equal(t, 15*time.Second, api.Timeout)
	assert.False(t, LoadSession(v).Remember)
}

func TestLoadSheetsConfig(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "")
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "env-client")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "env-secret")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "env-token")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_NAME", "")

	v := viper.New()
	v.Set("sheets.client_id", "viper-client")

	cfg, err := LoadSheetsConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "viper-client", cfg.ClientID)
	assert.Equal(t, "env-secret", cfg.ClientSecret)
	assert.Equal(t, "finflow", cfg.SpreadsheetName)

	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "")
	_, err = LoadSheetsConfig(viper.New())
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestLoadImportRules(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
import:
  rules:
    - name: delivery
      pattern: ifood
      category: Food
    - pattern: "^posto"
      regex: true
      amount: range
      amount_min: 50
      amount_max: 400
      type: expense
      priority: 5
      category: Fuel
`)))

	m, err := LoadImportRules(v)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	matches := m.Match(pattern.Line{Description: "POSTO IPIRANGA", Amount: decimal.RequireFromString("120"), Type: model.TypeExpense})
	require.Len(t, matches, 1)
	assert.Equal(t, "Fuel", matches[0].Category)
	assert.Equal(t, 5, matches[0].Priority)

	empty, err := LoadImportRules(viper.New())
	require.NoError(t, err)
	assert.Zero(t, empty.Len())

	bad := viper.New()
	bad.Set("import.rules", []map[string]any{{"pattern": "x"}})
	_, err = LoadImportRules(bad)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
