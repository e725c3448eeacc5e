package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "EXAM", "exam"},
		{"spaces to dashes", "past papers", "past-papers"},
		{"underscores to dashes", "past_papers", "past-papers"},
		{"slashes to dashes", "math/algebra", "math-algebra"},
		{"already normalized", "past-papers", "past-papers"},
		{"trim whitespace", "  review  ", "review"},
		{"tabs and spaces", "past\t papers", "past-papers"},
		{"symbol removal", "★ Review!", "review"},
		{"apostrophe removal", "don't", "dont"},
		{"multiple dashes", "past--papers", "past-papers"},
		{"mixed dashes", "--past--papers--", "past-papers"},
		{"japanese kept", "英単語", "英単語"},
		{"mixed scripts", "TOEIC 単語", "toeic-単語"},
		{"numbers allowed", "Top 10", "top-10"},
		{"empty string", "", ""},
		{"only special chars", "!@#$%", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slug(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []string{"exam", "past-papers"}, Normalize([]string{"Exam", "", "past papers", "EXAM", "!!"}))
	assert.Equal(t, []string{}, Normalize(nil))
}
