package embedding

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/seralba/notedex/internal/vault"
)

func TestPrepareText(t *testing.T) {
	doc := vault.Document{
		Title: "Raft Consensus",
		Type:  "Concept",
		Tags:  []string{"consensus", "distributed"},
		Body: "Leader election ties into [[Paxos|the Paxos family]].\n\n" +
			"```go\nfunc elect() {} // never embed this\n```\n\n" +
			"Terms increase monotonically.\n",
	}

	got := PrepareText(doc)

	wantHeader := "Title: Raft Consensus\nType: Concept\nTags: consensus, distributed\n\n"
	if !strings.HasPrefix(got, wantHeader) {
		t.Errorf("missing header, got prefix %q", got[:min(len(got), len(wantHeader))])
	}
	if strings.Contains(got, "func elect") || strings.Contains(got, "```") {
		t.Errorf("fenced code leaked into prepared text: %q", got)
	}
	if !strings.Contains(got, "the Paxos family") {
		t.Errorf("wiki-link not unwrapped to display text: %q", got)
	}
	if strings.Contains(got, "[[") {
		t.Errorf("wiki-link syntax survived: %q", got)
	}
	if !strings.Contains(got, "Terms increase monotonically") {
		t.Errorf("body text lost: %q", got)
	}
}

func TestPrepareTextDeterministic(t *testing.T) {
	doc := vault.Document{Title: "X", Body: "# Heading\n\nSome *emphasis* and `code`.\n"}
	if PrepareText(doc) != PrepareText(doc) {
		t.Error("PrepareText is not deterministic")
	}
}

func TestPrepareTextTruncates(t *testing.T) {
	doc := vault.Document{
		Title: "Long",
		Body:  strings.Repeat("word ", 2000),
	}
	got := PrepareText(doc)
	if n := utf8.RuneCountInString(got); n > maxEmbedChars {
		t.Errorf("prepared text has %d runes, cap is %d", n, maxEmbedChars)
	}
}

func TestPrepareTextEmptyMetadata(t *testing.T) {
	doc := vault.Document{Title: "Bare", Body: "just a body"}
	got := PrepareText(doc)
	if !strings.HasPrefix(got, "Title: Bare\nType: \nTags: \n\n") {
		t.Errorf("header shape changed: %q", got)
	}
	if !strings.HasSuffix(got, "just a body") {
		t.Errorf("body missing: %q", got)
	}
}
