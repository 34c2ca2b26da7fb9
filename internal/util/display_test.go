package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDisplayWidth(t *testing.T) {
	assert.Equal(t, 5, GetDisplayWidth("hello"))
	assert.Equal(t, 0, GetDisplayWidth(""))
	// Wide runes count double.
	assert.Equal(t, 4, GetDisplayWidth("温度"))
}

func TestCreateProgressBar(t *testing.T) {
	empty := CreateProgressBar(0, 20)
	assert.Equal(t, 22, len([]rune(empty)))
	assert.NotContains(t, empty, "█")

	full := CreateProgressBar(100, 20)
	assert.Equal(t, 20, strings.Count(full, "█"))

	half := CreateProgressBar(50, 20)
	assert.Equal(t, 10, strings.Count(half, "█"))

	// Out-of-range percentages clamp.
	assert.Equal(t, full, CreateProgressBar(150, 20))
	assert.Equal(t, empty, CreateProgressBar(-5, 20))
}

func TestCenterText(t *testing.T) {
	assert.Equal(t, "  ab  ", CenterText("ab", 6))
	assert.Equal(t, "toolong", CenterText("toolong", 3))
}
