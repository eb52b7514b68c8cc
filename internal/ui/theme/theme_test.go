package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	tests := []struct {
		score  float64
		filled int
	}{
		{0, 0},
		{5, 5},
		{10, 10},
		{12, 10},
		{-1, 0},
	}
	for _, tt := range tests {
		bar := Bar(tt.score, 10)
		assert.Equal(t, tt.filled, strings.Count(bar, "█"), "score %v", tt.score)
		assert.Equal(t, 10-tt.filled, strings.Count(bar, "░"), "score %v", tt.score)
	}
	assert.Empty(t, Bar(5, 0))
}

func TestFormatScore(t *testing.T) {
	assert.Contains(t, FormatScore(7.5), "7.5/10")
}
