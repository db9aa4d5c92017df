// Package vault loads a knowledge vault: a directory tree of markdown
// documents with optional YAML frontmatter. It owns the corpus format,
// meaning metadata fields, access classifications, and wiki-link syntax,
// and emits normalized Document records for the index builders.
package vault

import (
	"path"
	"strings"
	"time"
)

// Classification is the access level declared in a document's frontmatter.
type Classification string

const (
	ClassPublic       Classification = "public"
	ClassPersonal     Classification = "personal"
	ClassConfidential Classification = "confidential"
	ClassSecret       Classification = "secret"
)

// ParseClassification normalizes a frontmatter classification value.
// Unknown or empty values default to personal.
func ParseClassification(s string) Classification {
	switch Classification(strings.ToLower(strings.TrimSpace(s))) {
	case ClassPublic:
		return ClassPublic
	case ClassConfidential:
		return ClassConfidential
	case ClassSecret:
		return ClassSecret
	default:
		return ClassPersonal
	}
}

// RelationKinds is the closed set of typed relationship declarations
// recognized in frontmatter. Unknown kinds are ignored at parse time.
var RelationKinds = map[string]bool{
	"references":  true,
	"depends-on":  true,
	"supersedes":  true,
	"contradicts": true,
	"supports":    true,
	"implements":  true,
	"extends":     true,
	"inspired-by": true,
}

// Document is a normalized corpus entry. ID is the vault-relative path
// (forward slashes) and is the sole identity; titles may collide.
type Document struct {
	ID             string
	Path           string // absolute path on disk
	Title          string
	Type           string
	Tags           []string
	Classification Classification
	Created        time.Time
	Verified       time.Time
	Relationships  map[string][]string
	Encrypted      bool
	Body           string
	Meta           map[string]any // unrecognized frontmatter, preserved as-is
	ContentHash    string
	ModTime        time.Time
}

// Stem returns the filename without directory or extension. Wiki-links
// resolve against stems before titles.
func (d *Document) Stem() string {
	base := path.Base(d.ID)
	return strings.TrimSuffix(base, path.Ext(base))
}
