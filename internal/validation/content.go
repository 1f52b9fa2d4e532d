// Package validation contains pure input validators and sanitizers for
// user-submitted content. Validators operate on raw input; sanitizers run
// only after acceptance.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minPostTextLen    = 3
	maxPostTextLen    = 280
	maxAuthorNameLen  = 100
	maxCommentLen     = 1000
	maxRepeatedRun    = 4 // a 5th identical consecutive character is spam
)

// blockedWords is the content-moderation denylist, matched as
// case-insensitive substrings.
var blockedWords = []string{
	"hate",
	"kill",
	"death",
	"violence",
	"abuse",
	"racist",
	"sexist",
	"drug",
	"weapon",
	"terror",
	"nazi",
	"slur",
}

var (
	whitespaceRunRe = regexp.MustCompile(`\s{5,}`)
	alphanumericRe  = regexp.MustCompile(`[a-zA-Z0-9]`)
	// ASCII letters, Latin-1 Supplement / Extended letters, spaces, hyphens, apostrophes.
	authorNameRe = regexp.MustCompile(`^[a-zA-Z\x{00C0}-\x{024F}\s'-]+$`)
	interiorWsRe = regexp.MustCompile(`\s+`)
)

// PostText validates post text against the content rules. It returns whether
// the text is acceptable and, when it is not, a human-readable reason.
func PostText(text string) (bool, string) {
	if text == "" {
		return false, "Text is required"
	}

	trimmed := strings.TrimSpace(text)
	length := utf8.RuneCountInString(trimmed)

	if length < minPostTextLen {
		return false, "Text is too short (minimum 3 characters)"
	}
	if length > maxPostTextLen {
		return false, "Text is too long (maximum 280 characters)"
	}

	lower := strings.ToLower(trimmed)
	for _, word := range blockedWords {
		if strings.Contains(lower, word) {
			return false, "Text contains inappropriate content"
		}
	}

	if hasRepeatedRun(trimmed, maxRepeatedRun) {
		return false, "Text appears to be spam (too many repeated characters)"
	}
	if whitespaceRunRe.MatchString(trimmed) {
		return false, "Text contains excessive whitespace"
	}
	if !alphanumericRe.MatchString(trimmed) {
		return false, "Text must contain at least some letters or numbers"
	}

	return true, ""
}

// AuthorName validates the optional author name. An empty name is valid.
func AuthorName(name string) (bool, string) {
	if name == "" {
		return true, ""
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false, "Author name cannot be empty if provided"
	}
	if utf8.RuneCountInString(trimmed) > maxAuthorNameLen {
		return false, "Author name is too long (maximum 100 characters)"
	}
	if !authorNameRe.MatchString(trimmed) {
		return false, "Author name contains invalid characters"
	}

	return true, ""
}

// CommentContent validates comment content.
func CommentContent(content string) (bool, string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false, "Comment content is required"
	}
	if utf8.RuneCountInString(trimmed) > maxCommentLen {
		return false, "Comment is too long (maximum 1000 characters)"
	}
	return true, ""
}

// SanitizeText trims the text and collapses interior whitespace runs to a
// single space.
func SanitizeText(text string) string {
	return interiorWsRe.ReplaceAllString(strings.TrimSpace(text), " ")
}

// SanitizeAuthorName sanitizes the author name like SanitizeText and maps an
// empty result to nil (field absent).
func SanitizeAuthorName(name string) *string {
	sanitized := SanitizeText(name)
	if sanitized == "" {
		return nil
	}
	return &sanitized
}

// hasRepeatedRun reports whether s contains a run of more than max identical
// consecutive runes. Go's regexp has no backreferences, so this is a loop.
func hasRepeatedRun(s string, max int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run > max {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}
