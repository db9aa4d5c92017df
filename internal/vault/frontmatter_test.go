package vault

import (
	"reflect"
	"testing"
	"time"
)

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantBlock string
		wantBody  string
		wantOK    bool
	}{
		{
			name:      "standard",
			raw:       "---\ntitle: Hello\n---\nbody text\n",
			wantBlock: "title: Hello",
			wantBody:  "body text\n",
			wantOK:    true,
		},
		{
			name:     "no frontmatter",
			raw:      "just a body\n",
			wantBody: "just a body\n",
		},
		{
			name:      "fence at EOF",
			raw:       "---\ntitle: Hello\n---",
			wantBlock: "title: Hello",
			wantBody:  "",
			wantOK:    true,
		},
		{
			name:     "unterminated fence",
			raw:      "---\ntitle: Hello\nno end",
			wantBody: "---\ntitle: Hello\nno end",
		},
		{
			name:     "horizontal rule mid-body",
			raw:      "intro\n---\nmore\n",
			wantBody: "intro\n---\nmore\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, body, ok := splitFrontmatter(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if block != tt.wantBlock {
				t.Errorf("block = %q, want %q", block, tt.wantBlock)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestApplyFrontmatter(t *testing.T) {
	block := `title: Service Mesh
type: Concept
tags: [networking, infra, networking]
classification: confidential
created: 2025-03-01
verified: "2025-06-15"
encrypted: false
relationships:
  depends-on:
    - Load Balancing
  unknown-kind:
    - Ignored
status: active
priority: 3`

	var doc Document
	if warning := applyFrontmatter(&doc, block); warning != "" {
		t.Fatalf("unexpected warning: %s", warning)
	}

	if doc.Title != "Service Mesh" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.Type != "Concept" {
		t.Errorf("Type = %q", doc.Type)
	}
	if want := []string{"infra", "networking"}; !reflect.DeepEqual(doc.Tags, want) {
		t.Errorf("Tags = %v, want %v (sorted, deduped)", doc.Tags, want)
	}
	if doc.Classification != ClassConfidential {
		t.Errorf("Classification = %q", doc.Classification)
	}
	if doc.Created != time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Created = %v", doc.Created)
	}
	if doc.Verified != time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Verified = %v", doc.Verified)
	}
	if want := map[string][]string{"depends-on": {"Load Balancing"}}; !reflect.DeepEqual(doc.Relationships, want) {
		t.Errorf("Relationships = %v, want %v", doc.Relationships, want)
	}
	if doc.Meta["status"] != "active" {
		t.Errorf("Meta[status] = %v", doc.Meta["status"])
	}
	if doc.Meta["priority"] != 3 {
		t.Errorf("Meta[priority] = %v", doc.Meta["priority"])
	}
	if _, kept := doc.Meta["relationships"]; kept {
		t.Error("recognized key leaked into Meta")
	}
}

func TestApplyFrontmatterMalformed(t *testing.T) {
	var doc Document
	warning := applyFrontmatter(&doc, "title: [unclosed")
	if warning == "" {
		t.Fatal("expected a warning for malformed YAML")
	}
	if doc.Title != "" {
		t.Errorf("Title = %q, want empty on parse failure", doc.Title)
	}
}

func TestParseClassification(t *testing.T) {
	tests := []struct {
		in   string
		want Classification
	}{
		{"public", ClassPublic},
		{"personal", ClassPersonal},
		{"confidential", ClassConfidential},
		{"secret", ClassSecret},
		{"SECRET", ClassSecret},
		{"", ClassPersonal},
		{"top-secret", ClassPersonal},
	}
	for _, tt := range tests {
		if got := ParseClassification(tt.in); got != tt.want {
			t.Errorf("ParseClassification(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
