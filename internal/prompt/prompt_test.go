package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembleContainsPassagesAndQuestion(t *testing.T) {
	p := Assemble([]string{"first passage", "second passage"}, "what is this?")
	assert.Contains(t, p, "first passage")
	assert.Contains(t, p, "second passage")
	assert.Contains(t, p, "QUESTION: what is this?")
	assert.Contains(t, p, Fallback)
}

func TestAssembleSeparatesPassages(t *testing.T) {
	p := Assemble([]string{"aaa", "bbb"}, "q")
	assert.Contains(t, p, "aaa\n---\nbbb")
}

func TestAssembleSinglePassageHasNoSeparator(t *testing.T) {
	p := Assemble([]string{"only one"}, "q")
	// The template frame uses --- delimiters around the whole context; the
	// passage itself must not be split.
	assert.Equal(t, 1, strings.Count(p, "only one"))
}
