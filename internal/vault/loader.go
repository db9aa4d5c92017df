package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// The body stored for encrypted documents. Their existence, title, and tags
// stay searchable; ciphertext never enters an index.
const encryptedPlaceholder = "[ENCRYPTED]"

const defaultMaxFileSize = 1 << 20 // 1 MB

// DefaultInclude matches the markdown documents a vault is made of.
var DefaultInclude = []string{"**/*.md"}

// defaultSkipDirs are directory names never descended into, on top of
// hidden directories (which cover tooling like .git, .obsidian, and the
// artifact directory itself).
var defaultSkipDirs = map[string]bool{
	"archive":      true,
	"templates":    true,
	"node_modules": true,
}

// Options controls a vault walk.
type Options struct {
	Root        string
	Include     []string // doublestar globs; DefaultInclude when empty
	Exclude     []string // doublestar globs matched against relative paths
	MaxFileSize int64    // bytes; defaultMaxFileSize when zero
}

// Warning records a recoverable per-document problem. A warned document is
// still loaded body-only so one malformed file never blocks the corpus.
type Warning struct {
	Path    string
	Message string
}

// LoadReport summarizes a walk for the build summary.
type LoadReport struct {
	Scanned       int
	Loaded        int
	SecretSkipped int
	SkippedLarge  int
	Warnings      []Warning
}

// Load walks the vault and returns its documents sorted by ID. Documents
// classified secret are excluded here, before any index can see them.
// Metadata parse failures degrade to body-only documents and are recorded
// in the report; only filesystem errors are returned.
func Load(opts Options) ([]Document, *LoadReport, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving vault root: %w", err)
	}
	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = defaultMaxFileSize
	}

	report := &LoadReport{}
	var docs []Document

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", path, err)
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return fmt.Errorf("relativizing %s: %w", path, relErr)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || defaultSkipDirs[name] || matchesAny(opts.Exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !matchesAny(include, rel) || matchesAny(opts.Exclude, rel) {
			return nil
		}
		report.Scanned++

		info, infoErr := d.Info()
		if infoErr != nil {
			return fmt.Errorf("stat %s: %w", path, infoErr)
		}
		if info.Size() > maxSize {
			report.SkippedLarge++
			return nil
		}

		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", path, readErr)
		}

		doc := parseDocument(rel, path, raw, report)
		doc.ModTime = info.ModTime()

		if doc.Classification == ClassSecret {
			report.SecretSkipped++
			return nil
		}

		docs = append(docs, doc)
		report.Loaded++
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, report, nil
}

func parseDocument(id, path string, raw []byte, report *LoadReport) Document {
	sum := sha256.Sum256(raw)
	doc := Document{
		ID:             id,
		Path:           path,
		Classification: ClassPersonal,
		ContentHash:    hex.EncodeToString(sum[:]),
	}

	block, body, ok := splitFrontmatter(string(raw))
	doc.Body = body
	if ok {
		if warning := applyFrontmatter(&doc, block); warning != "" {
			report.Warnings = append(report.Warnings, Warning{Path: id, Message: warning})
		}
	}

	if doc.Title == "" {
		doc.Title = doc.Stem()
	}
	if doc.Encrypted {
		doc.Body = encryptedPlaceholder
	}
	return doc
}

// matchesAny reports whether rel matches any of the glob patterns, checking
// the full relative path first and the basename as a fallback.
func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.PathMatch(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.PathMatch(pattern, filepath.Base(rel)); err == nil && ok {
			return true
		}
	}
	return false
}
