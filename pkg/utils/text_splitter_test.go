package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitText(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitText("short", 10))
	assert.Equal(t, []string{""}, SplitText("", 10))

	t.Run("hard cut without newlines", func(t *testing.T) {
		chunks := SplitText(strings.Repeat("あ", 25), 10)
		assert.Equal(t, []string{strings.Repeat("あ", 10), strings.Repeat("あ", 10), strings.Repeat("あ", 5)}, chunks)
	})

	t.Run("breaks after a late newline", func(t *testing.T) {
		text := "材料材料材料\n手順手順手順手順"
		chunks := SplitText(text, 10)
		assert.Equal(t, []string{"材料材料材料\n", "手順手順手順手順"}, chunks)
		assert.Equal(t, text, strings.Join(chunks, ""))
	})

	t.Run("ignores an early newline", func(t *testing.T) {
		chunks := SplitText("a\nbcdefghijklmn", 10)
		assert.Equal(t, []string{"a\nbcdefghi", "jklmn"}, chunks)
	})
}
