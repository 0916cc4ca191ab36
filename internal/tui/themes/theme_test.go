package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByName(t *testing.T) {
	assert.Equal(t, CatppuccinMocha.Primary, ByName("catppuccin").Primary)
	assert.Equal(t, Default.Primary, ByName("").Primary)
	assert.Equal(t, Default.Primary, ByName("neon").Primary)
}
