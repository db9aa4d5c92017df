package embedding

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/seralba/notedex/internal/vault"
)

// maxEmbedChars caps the prepared text; embedding quality plateaus well
// below typical model context limits and long bodies dominate cost.
const maxEmbedChars = 3000

var markdown = goldmark.New()

// PrepareText builds the canonical embedding input for a document: a
// metadata header, then the body with wiki-links unwrapped and code blocks
// stripped, truncated to maxEmbedChars. The pipeline is deterministic; the
// same document always produces the same text.
func PrepareText(doc vault.Document) string {
	var b strings.Builder
	b.WriteString("Title: ")
	b.WriteString(doc.Title)
	b.WriteString("\nType: ")
	b.WriteString(doc.Type)
	b.WriteString("\nTags: ")
	b.WriteString(strings.Join(doc.Tags, ", "))
	b.WriteString("\n\n")
	b.WriteString(extractText(vault.UnwrapLinks(doc.Body)))

	return truncateRunes(b.String(), maxEmbedChars)
}

// extractText renders markdown down to plain text, skipping fenced and
// indented code blocks entirely. Inline code spans are kept; they usually
// name identifiers worth embedding.
func extractText(body string) string {
	src := []byte(body)
	root := markdown.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte('\n')
			}
		default:
			if n.Type() == ast.TypeBlock && b.Len() > 0 {
				b.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
