package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTheme(t *testing.T) {
	assert.Equal(t, CatppuccinMocha.Primary, GetTheme("catppuccin-mocha").Primary)
	assert.Equal(t, Default.Primary, GetTheme("unknown").Primary)
	for _, name := range Names {
		assert.NotEmpty(t, GetTheme(name).Primary, name)
	}
}

func TestAccountIcon(t *testing.T) {
	assert.Equal(t, "🏦", AccountIcon("bank"))
	assert.Equal(t, "💰", AccountIcon("unknown"))
}
