package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()

	assert.NotNil(t, s.Theme())
	assert.True(t, s.Title.GetBold())
	assert.True(t, s.UserLabel.GetBold())
	assert.True(t, s.SourceTag.GetItalic())
}

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)

	assert.Equal(t, DefaultTheme().Primary, s.Theme().Primary)
}
