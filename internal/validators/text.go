package validators

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	htmlTagRe      = regexp.MustCompile(`<[^>]*>`)
	specialCharsRe = regexp.MustCompile(`[<>{}\[\]\\/]`)
	identifierRe   = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	nonIdentRe     = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	nonDigitRe     = regexp.MustCompile(`[^0-9]`)
	urlRe          = regexp.MustCompile(`^https?://[^\s/$.?#][^\s]*$`)
	imageExtRe     = regexp.MustCompile(`(?i)\.(jpe?g|png|gif|webp|bmp|tiff?)(\?[^\s]*)?$`)
)

// length counts characters, not bytes
func length(s string) int {
	return utf8.RuneCountInString(s)
}

func truncate(s string, max int) string {
	if length(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http") || strings.Contains(s, "://")
}

func stripHTML(s string) string {
	return htmlTagRe.ReplaceAllString(s, "")
}

func stripSpecialChars(s string) string {
	return specialCharsRe.ReplaceAllString(s, "")
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

// sentenceCase upper-cases the first character and lower-cases the rest
func sentenceCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	// a Caser keeps state, so each call gets its own
	return string(unicode.ToUpper(r)) + cases.Lower(language.Und).String(s[size:])
}

// suggest wraps a fix so that empty or unchanged results mean "no fix"
func suggest(fn func(string) string) func(string) *string {
	return func(value string) *string {
		fixed := strings.TrimSpace(fn(value))
		if fixed == "" || fixed == value {
			return nil
		}
		return &fixed
	}
}
