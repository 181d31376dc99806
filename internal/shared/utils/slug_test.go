package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "How to Train Your Dragon", "how-to-train-your-dragon"},
		{"special characters", "Hello, World! (v2)", "hello-world-v2"},
		{"hyphen runs collapsed", "a -- b --- c", "a-b-c"},
		{"leading and trailing junk", "  !!Go Slices!!  ", "go-slices"},
		{"diacritics", "Nguyễn Nhật Ánh", "nguyen-nhat-anh"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.input))
		})
	}
}

func TestAppendSlugSuffix(t *testing.T) {
	first := AppendSlugSuffix("my-article")
	second := AppendSlugSuffix("my-article")

	assert.True(t, strings.HasPrefix(first, "my-article-"))
	assert.NotEqual(t, first, second)

	// Empty slug still produces a usable value
	assert.NotEmpty(t, AppendSlugSuffix(""))
}
