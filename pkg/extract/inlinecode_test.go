package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInlineCode(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name string
		line string
		want Match
		ok   bool
	}{
		{"c comment", "   x = 1; /* set */", Match{"/*", 11}, true},
		{"comment end first", "  end */ then /*", Match{"*/", 7}, true},
		{"hash line", "   # a real comment", Match{"#", 4}, true},
		{"hash mid line", "   see item #3", Match{}, false},
		{"plain prose", "   nothing to see", Match{}, false},
		{"fence marker", "<CODE BEGINS> /* x */", Match{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.InlineCode(CodeFence{}, tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInlineCodeInsideFence(t *testing.T) {
	e := NewExtractor()
	lines := []string{
		"<CODE BEGINS>",
		"# not a comment",
		"<code ends>",
		"# a real comment",
	}

	var fence CodeFence
	var hits []int
	for i, line := range lines {
		if _, ok := e.InlineCode(fence, line); ok {
			hits = append(hits, i+1)
		}
		fence = e.Advance(fence, line)
	}

	assert.Equal(t, []int{4}, hits)
	assert.True(t, fence.Seen())
	assert.False(t, fence.Inside())
}
