package vault

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// splitFrontmatter separates a leading `---` YAML block from the body.
// ok is false when the document has no frontmatter at all.
func splitFrontmatter(raw string) (block, body string, ok bool) {
	if !strings.HasPrefix(raw, "---\n") && !strings.HasPrefix(raw, "---\r\n") {
		return "", raw, false
	}
	rest := raw[strings.IndexByte(raw, '\n')+1:]
	for _, end := range []string{"\n---\n", "\n---\r\n"} {
		if i := strings.Index(rest, end); i >= 0 {
			return rest[:i], rest[i+len(end):], true
		}
	}
	if strings.HasSuffix(rest, "\n---") {
		return strings.TrimSuffix(rest, "\n---"), "", true
	}
	// Unterminated fence: treat the whole thing as body.
	return "", raw, false
}

// applyFrontmatter parses the YAML block and fills doc's metadata fields.
// Recognized keys are lifted into typed fields; everything else is kept in
// doc.Meta uninterpreted. A YAML error leaves doc body-only and is returned
// as a message for the load report, never as a failure.
func applyFrontmatter(doc *Document, block string) (warning string) {
	fields := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &fields); err != nil {
		return fmt.Sprintf("invalid frontmatter: %v", err)
	}

	for key, val := range fields {
		switch key {
		case "title":
			doc.Title = asString(val)
		case "type":
			doc.Type = asString(val)
		case "tags":
			doc.Tags = uniqueSorted(asStringSlice(val))
		case "classification":
			doc.Classification = ParseClassification(asString(val))
		case "created":
			doc.Created = asTime(val)
		case "verified":
			doc.Verified = asTime(val)
		case "encrypted":
			doc.Encrypted = asBool(val)
		case "relationships":
			doc.Relationships = asRelationships(val)
		default:
			if doc.Meta == nil {
				doc.Meta = map[string]any{}
			}
			doc.Meta[key] = val
		}
	}
	return ""
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func asStringSlice(v any) []string {
	switch s := v.(type) {
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str := asString(item); str != "" {
				out = append(out, str)
			}
		}
		return out
	case string:
		// Tolerate the comma-separated shorthand some documents use.
		var out []string
		for _, part := range strings.Split(s, ",") {
			if str := strings.TrimSpace(part); str != "" {
				out = append(out, str)
			}
		}
		return out
	case nil:
		return nil
	default:
		if str := asString(v); str != "" {
			return []string{str}
		}
		return nil
	}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		return false
	}
}

// asTime accepts the forms yaml.v3 produces for date scalars: a time.Time
// for unquoted ISO dates, or a string for quoted ones.
func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

// asRelationships keeps only the recognized relation kinds; targets use the
// same inline-reference strings as body wiki-links.
func asRelationships(v any) map[string][]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	var rels map[string][]string
	for kind, targets := range m {
		kind = strings.ToLower(strings.TrimSpace(kind))
		if !RelationKinds[kind] {
			continue
		}
		values := asStringSlice(targets)
		if len(values) == 0 {
			continue
		}
		if rels == nil {
			rels = map[string][]string{}
		}
		rels[kind] = append(rels[kind], values...)
	}
	return rels
}

func uniqueSorted(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	sort.Strings(out)
	return out
}
