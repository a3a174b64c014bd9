package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateTextKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "abc", truncateText("abcdef", 3))

	// "é" is two bytes; a cut inside it backs off to the rune start
	got := truncateText("aé", 2)
	assert.Equal(t, "a", got)

	long := strings.Repeat("日本", maxEmbedTextLength)
	got = truncateText(long, maxEmbedTextLength)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), maxEmbedTextLength)
	assert.Greater(t, len(got), maxEmbedTextLength-utf8.UTFMax)
}

func TestNewGeminiServiceRequiresAPIKey(t *testing.T) {
	_, err := NewGeminiService(GeminiOptions{})
	assert.Error(t, err)
}
