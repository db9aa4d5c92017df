package vault

import (
	"sort"
	"strings"
	"time"
)

// Staleness grades how long a document has gone without re-verification.
type Staleness string

const (
	StaleFresh    Staleness = "fresh"
	StaleMedium   Staleness = "medium"
	StaleHigh     Staleness = "high"
	StaleCritical Staleness = "critical"
)

// StaleThresholds are age cutoffs in days, ascending.
type StaleThresholds struct {
	MediumDays   int
	HighDays     int
	CriticalDays int
}

// StaleDoc is one entry of the staleness report. Basis names which
// timestamp the age was measured from.
type StaleDoc struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Type  string    `json:"type,omitempty"`
	Level Staleness `json:"level"`
	Days  int       `json:"days"`
	Basis string    `json:"basis"`
}

// highValueTypes are the document types whose medium staleness escalates
// to high. Matched case-insensitively; type values are free-form.
var highValueTypes = map[string]bool{
	"decision": true,
	"concept":  true,
	"pattern":  true,
	"note":     true,
}

// staleBasis picks the timestamp age is measured from: an explicit
// verification beats the creation date, which beats the file mod time.
func staleBasis(doc Document) (time.Time, string) {
	switch {
	case !doc.Verified.IsZero():
		return doc.Verified, "verified"
	case !doc.Created.IsZero():
		return doc.Created, "created"
	default:
		return doc.ModTime, "modified"
	}
}

// AssessStaleness grades one document at the given time. High-value types
// are escalated one step from medium.
func AssessStaleness(doc Document, now time.Time, t StaleThresholds) StaleDoc {
	ts, basis := staleBasis(doc)
	days := int(now.Sub(ts).Hours() / 24)

	level := StaleFresh
	switch {
	case days >= t.CriticalDays:
		level = StaleCritical
	case days >= t.HighDays:
		level = StaleHigh
	case days >= t.MediumDays:
		level = StaleMedium
	}
	if level == StaleMedium && highValueTypes[strings.ToLower(doc.Type)] {
		level = StaleHigh
	}
	return StaleDoc{ID: doc.ID, Title: doc.Title, Type: doc.Type, Level: level, Days: days, Basis: basis}
}

var staleRank = map[Staleness]int{
	StaleFresh:    0,
	StaleMedium:   1,
	StaleHigh:     2,
	StaleCritical: 3,
}

// StaleReport grades every document and returns the non-fresh ones, most
// stale first. Daily notes are inherently time-bound and never reported.
func StaleReport(docs []Document, now time.Time, t StaleThresholds) []StaleDoc {
	var out []StaleDoc
	for _, doc := range docs {
		if strings.EqualFold(doc.Type, "daily") {
			continue
		}
		sd := AssessStaleness(doc, now, t)
		if sd.Level == StaleFresh {
			continue
		}
		out = append(out, sd)
	}
	sort.Slice(out, func(i, j int) bool {
		if staleRank[out[i].Level] != staleRank[out[j].Level] {
			return staleRank[out[i].Level] > staleRank[out[j].Level]
		}
		if out[i].Days != out[j].Days {
			return out[i].Days > out[j].Days
		}
		return out[i].ID < out[j].ID
	})
	return out
}
