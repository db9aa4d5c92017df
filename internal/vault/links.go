package vault

import (
	"regexp"
	"strings"
)

// wikiLink matches [[Target]] and [[Target|Display]] inline references.
var wikiLink = regexp.MustCompile(`\[\[([^\]|]+?)(?:\|([^\]]+?))?\]\]`)

// ExtractLinks returns the inline reference targets in a body, in order of
// appearance. Display aliases are dropped; duplicates are kept so the graph
// remains a multigraph.
func ExtractLinks(body string) []string {
	matches := wikiLink.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}
	targets := make([]string, 0, len(matches))
	for _, m := range matches {
		if target := strings.TrimSpace(m[1]); target != "" {
			targets = append(targets, target)
		}
	}
	return targets
}

// UnwrapLinks replaces wiki-link syntax with plain text: the display alias
// when present, otherwise the target itself.
func UnwrapLinks(body string) string {
	return wikiLink.ReplaceAllStringFunc(body, func(link string) string {
		m := wikiLink.FindStringSubmatch(link)
		if m[2] != "" {
			return m[2]
		}
		return m[1]
	})
}
