package vault

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// testVault returns the absolute path to the committed sample vault.
func testVault(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file location")
	}
	root := filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "vault")
	abs, err := filepath.Abs(root)
	if err != nil {
		t.Fatalf("resolve testdata path: %v", err)
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		t.Fatalf("testdata vault does not exist: %s", abs)
	}
	return abs
}

// writeDoc creates a document under root, making parent directories as
// needed.
func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "notes/alpha.md", "---\ntitle: Alpha\ntype: Note\n---\nAlpha body with [[Beta]].\n")
	writeDoc(t, root, "notes/beta.md", "---\ntitle: Beta\nclassification: public\n---\nBeta body.\n")
	writeDoc(t, root, "notes/hidden.md", "---\ntitle: Hidden\nclassification: secret\n---\nnever index this\n")
	writeDoc(t, root, "notes/broken.md", "---\ntitle: [oops\n---\nstill loadable body\n")
	writeDoc(t, root, "README.txt", "not a markdown document")
	writeDoc(t, root, ".obsidian/workspace.md", "tooling state")
	writeDoc(t, root, "templates/daily.md", "template, not a document")

	docs, report, err := Load(Options{Root: root})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	want := []string{"notes/alpha.md", "notes/beta.md", "notes/broken.md"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Fatalf("loaded IDs = %v, want %v", ids, want)
	}

	if report.SecretSkipped != 1 {
		t.Errorf("SecretSkipped = %d, want 1", report.SecretSkipped)
	}
	if len(report.Warnings) != 1 || report.Warnings[0].Path != "notes/broken.md" {
		t.Errorf("Warnings = %v, want one for notes/broken.md", report.Warnings)
	}

	alpha := docs[0]
	if alpha.Title != "Alpha" || alpha.Type != "Note" {
		t.Errorf("alpha = %+v", alpha)
	}
	if alpha.ContentHash == "" || alpha.ModTime.IsZero() {
		t.Error("alpha missing hash or mod time")
	}

	// The malformed document is retained body-only with its stem as title.
	broken := docs[2]
	if broken.Title != "broken" {
		t.Errorf("broken.Title = %q, want stem fallback", broken.Title)
	}
	if !strings.Contains(broken.Body, "still loadable body") {
		t.Errorf("broken.Body = %q", broken.Body)
	}
}

func TestLoadSampleVault(t *testing.T) {
	docs, report, err := Load(Options{
		Root:    testVault(t),
		Exclude: []string{"**/*.excalidraw.md"},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ids := make([]string, len(docs))
	byID := make(map[string]Document, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		byID[d.ID] = d
	}
	want := []string{
		"adr/001-database-choice.md",
		"adr/002-managed-postgres.md",
		"concepts/consensus.md",
		"concepts/raft.md",
		"journal/2024-05-10.md",
		"runbooks/postgres-upgrade.md",
	}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Fatalf("loaded IDs = %v, want %v", ids, want)
	}

	if report.SecretSkipped != 1 {
		t.Errorf("SecretSkipped = %d, want 1 (ops/prod-credentials.md)", report.SecretSkipped)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", report.Warnings)
	}

	consensus := byID["concepts/consensus.md"]
	if consensus.Title != "Consensus" || consensus.Type != "concept" {
		t.Errorf("consensus = %+v", consensus)
	}
	if len(consensus.Tags) != 2 || consensus.Tags[0] != "distributed-systems" {
		t.Errorf("consensus.Tags = %v", consensus.Tags)
	}
	if consensus.Verified.Year() != 2024 {
		t.Errorf("consensus.Verified = %v", consensus.Verified)
	}

	runbook := byID["runbooks/postgres-upgrade.md"]
	if runbook.Classification != ClassConfidential {
		t.Errorf("runbook.Classification = %q", runbook.Classification)
	}
	if got := runbook.Relationships["depends-on"]; len(got) != 1 || got[0] != "Raft" {
		t.Errorf("runbook depends-on = %v", got)
	}

	// Frontmatter-less journal entries fall back to the stem title.
	entry := byID["journal/2024-05-10.md"]
	if entry.Title != "2024-05-10" {
		t.Errorf("entry.Title = %q", entry.Title)
	}
	if entry.Classification != ClassPersonal {
		t.Errorf("entry.Classification = %q", entry.Classification)
	}
}

func TestLoadExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "keep.md", "kept")
	writeDoc(t, root, "drafts/wip.md", "excluded by glob")

	docs, _, err := Load(Options{Root: root, Exclude: []string{"drafts/**"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != "keep.md" {
		t.Errorf("docs = %v, want just keep.md", docs)
	}
}

func TestLoadEncryptedPlaceholder(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "vaulted.md", "---\ntitle: Vaulted\nencrypted: true\n---\nU2FsdGVkX1+cipher\n")

	docs, _, err := Load(Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d", len(docs))
	}
	if docs[0].Body != "[ENCRYPTED]" {
		t.Errorf("Body = %q, want placeholder", docs[0].Body)
	}
	if docs[0].Title != "Vaulted" {
		t.Errorf("Title = %q, metadata should survive encryption", docs[0].Title)
	}
}

func TestLoadHashStability(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.md", "stable content")

	first, _, err := Load(Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := Load(Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if first[0].ContentHash != second[0].ContentHash {
		t.Error("hash differs across identical loads")
	}

	writeDoc(t, root, "a.md", "changed content")
	third, _, err := Load(Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if third[0].ContentHash == first[0].ContentHash {
		t.Error("hash unchanged after content edit")
	}
}

func TestLoadMaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "big.md", strings.Repeat("x", 200))
	writeDoc(t, root, "small.md", "ok")

	docs, report, err := Load(Options{Root: root, MaxFileSize: 100})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != "small.md" {
		t.Errorf("docs = %v, want just small.md", docs)
	}
	if report.SkippedLarge != 1 {
		t.Errorf("SkippedLarge = %d, want 1", report.SkippedLarge)
	}
}
