package concept

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:     "empty content",
			content:  "",
			expected: []string{},
		},
		{
			name:     "only short and stop words",
			content:  "The cat is on a mat, and it was fine?",
			expected: []string{"fine"},
		},
		{
			name:     "lowercases and splits on punctuation",
			content:  "Monsoon-season in KERALA: rainfall!",
			expected: []string{"monsoon", "season", "kerala", "rainfall"},
		},
		{
			name:     "keeps first occurrence order and duplicates",
			content:  "rain rain again rain",
			expected: []string{"rain", "rain", "again", "rain"},
		},
		{
			name:     "drops four letter stop word",
			content:  "they were here",
			expected: []string{"they", "here"},
		},
		{
			name:     "non ascii letters act as separators",
			content:  "café société",
			expected: []string{"soci"},
		},
		{
			name:    "caps at ten",
			content: "alpha bravo charlie delta echos foxtrot golf hotel india juliet kilo lima",
			expected: []string{
				"alpha", "bravo", "charlie", "delta", "echos",
				"foxtrot", "golf", "hotel", "india", "juliet",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Extract(tt.content))
		})
	}
}

func TestExtract_Properties(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"What's the weather today?",
		strings.Repeat("word another thing ", 50),
		"for were were were the and but",
		"1234 12345 _underscore_ x_y_z",
		"Émigré naïve façade",
	}

	for _, in := range inputs {
		got := Extract(in)
		assert.LessOrEqual(t, len(got), MaxConcepts, in)
		for _, c := range got {
			assert.Greater(t, len(c), 3, in)
			assert.False(t, IsStopWord(c), in)
		}
	}
}

func TestKeywords(t *testing.T) {
	assert.Equal(t,
		[]string{"latest", "news", "elections"},
		Keywords("What is the latest news on elections?"),
	)
	assert.Equal(t,
		[]string{"does", "monsoon", "kerala", "arrive", "this"},
		Keywords("When does monsoon in Kerala arrive this year and where first?"),
	)
	assert.Empty(t, Keywords("why how what"))
}

func TestExtractor_SatisfiesInterface(t *testing.T) {
	e := NewExtractor()
	assert.Equal(t, []string{"explain", "photosynthesis"}, e.Extract("Explain photosynthesis"))
	assert.Equal(t, []string{"explain", "photosynthesis"}, e.Keywords("How to explain photosynthesis"))
}
