package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		valid bool
	}{
		{name: "valid text", text: "hello world", valid: true},
		{name: "empty", text: "", valid: false},
		{name: "too short", text: "ab", valid: false},
		{name: "too short after trim", text: "  a  ", valid: false},
		{name: "too long", text: strings.Repeat("a b ", 71), valid: false}, // 284 chars
		{name: "max length boundary", text: strings.Repeat("ab ", 93) + "a", valid: true},
		{name: "blocked word", text: "I kill time on weekends", valid: false},
		{name: "blocked word uppercase", text: "WEAPON of choice", valid: false},
		{name: "repeated characters", text: "aaaaaa", valid: false},
		{name: "four repeats allowed", text: "aaaa ok", valid: true},
		{name: "no alphanumeric", text: "!?! ... !!", valid: false},
		{name: "unicode text", text: "teaching my son to ride a bike 🚲", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, reason := PostText(tt.text)
			assert.Equal(t, tt.valid, valid)
			if tt.valid {
				assert.Empty(t, reason)
			} else {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestPostTextExcessiveWhitespace(t *testing.T) {
	valid, reason := PostText("hello     world")
	assert.False(t, valid)
	assert.Contains(t, reason, "whitespace")
}

func TestAuthorName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "absent is valid", input: "", valid: true},
		{name: "simple name", input: "John", valid: true},
		{name: "apostrophe and hyphen", input: "O'Brien-Smith", valid: true},
		{name: "accented letters", input: "José Müller", valid: true},
		{name: "digit rejected", input: "John3", valid: false},
		{name: "symbols rejected", input: "John_Doe", valid: false},
		{name: "whitespace only", input: "   ", valid: false},
		{name: "too long", input: strings.Repeat("a", 101), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, _ := AuthorName(tt.input)
			assert.Equal(t, tt.valid, valid)
		})
	}
}

func TestCommentContent(t *testing.T) {
	valid, _ := CommentContent("nice one")
	assert.True(t, valid)

	valid, _ = CommentContent("   ")
	assert.False(t, valid)

	valid, _ = CommentContent(strings.Repeat("x", 1001))
	assert.False(t, valid)

	valid, _ = CommentContent(strings.Repeat("x", 1000))
	assert.True(t, valid)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "a b", SanitizeText("  a   b  "))
	assert.Equal(t, "one two three", SanitizeText("one\ttwo\n three"))
}

func TestSanitizeAuthorName(t *testing.T) {
	got := SanitizeAuthorName("  Mary   Jane ")
	assert.NotNil(t, got)
	assert.Equal(t, "Mary Jane", *got)

	assert.Nil(t, SanitizeAuthorName("   "))
	assert.Nil(t, SanitizeAuthorName(""))
}
