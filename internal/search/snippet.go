package search

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Snippet extracts a window of roughly length bytes around the first query
// term found in body, with whitespace collapsed, the cut points pulled back
// to word boundaries, ellipses marking trimmed ends, and term matches
// wrapped in ** markers. When no term matches, the window is the start of
// the body.
func Snippet(body string, terms []string, length int) string {
	if length <= 0 {
		return ""
	}
	text := strings.Join(strings.Fields(body), " ")
	if text == "" {
		return ""
	}
	if len(text) <= length {
		return highlight(text, terms)
	}

	lower := strings.ToLower(text)
	match, matchLen := -1, 0
	for _, term := range terms {
		if idx := strings.Index(lower, term); idx >= 0 && (match < 0 || idx < match) {
			match, matchLen = idx, len(term)
		}
	}

	start, end := 0, length
	if match >= 0 {
		start = match + matchLen/2 - length/2
		if start < 0 {
			start = 0
		}
		end = start + length
		if end > len(text) {
			end = len(text)
			start = end - length
		}
	}
	start = runeStart(text, start)
	end = runeStart(text, end)

	pre, post := "", ""
	if start > 0 {
		if cut := strings.IndexByte(text[start:end], ' '); cut >= 0 {
			start += cut + 1
		}
		pre = "..."
	}
	if end < len(text) {
		if cut := strings.LastIndexByte(text[start:end], ' '); cut >= 0 {
			end = start + cut
		}
		post = "..."
	}

	return pre + highlight(strings.TrimSpace(text[start:end]), terms) + post
}

// runeStart pulls a byte offset back to the nearest UTF-8 boundary so
// window cuts never split a rune.
func runeStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// highlight wraps whole-word matches of any term in ** markers, keeping
// the original casing of the matched text.
func highlight(s string, terms []string) string {
	if len(terms) == 0 {
		return s
	}
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	re, err := regexp.Compile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return s
	}
	return re.ReplaceAllString(s, "**$1**")
}
