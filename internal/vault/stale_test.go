package vault

import (
	"testing"
	"time"
)

var testThresholds = StaleThresholds{MediumDays: 90, HighDays: 120, CriticalDays: 180}

func TestAssessStaleness(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		daysOld   int
		wantLevel Staleness
	}{
		{"fresh", 10, StaleFresh},
		{"just under medium", 89, StaleFresh},
		{"medium", 90, StaleMedium},
		{"high", 150, StaleHigh},
		{"critical", 200, StaleCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := Document{
				ID:       "d.md",
				Verified: now.AddDate(0, 0, -tc.daysOld),
			}
			got := AssessStaleness(doc, now, testThresholds)
			if got.Level != tc.wantLevel {
				t.Errorf("level = %s, want %s", got.Level, tc.wantLevel)
			}
			if got.Days != tc.daysOld {
				t.Errorf("days = %d, want %d", got.Days, tc.daysOld)
			}
			if got.Basis != "verified" {
				t.Errorf("basis = %s, want verified", got.Basis)
			}
		})
	}
}

func TestAssessStalenessEscalatesHighValueTypes(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		docType string
		daysOld int
		want    Staleness
	}{
		{"concept escalates from medium", "concept", 100, StaleHigh},
		{"decision escalates case-insensitively", "Decision", 100, StaleHigh},
		{"concept already high stays high", "concept", 150, StaleHigh},
		{"concept critical stays critical", "concept", 200, StaleCritical},
		{"concept fresh stays fresh", "concept", 10, StaleFresh},
		{"runbook does not escalate", "runbook", 100, StaleMedium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := Document{
				ID:       "d.md",
				Type:     tc.docType,
				Verified: now.AddDate(0, 0, -tc.daysOld),
			}
			got := AssessStaleness(doc, now, testThresholds)
			if got.Level != tc.want {
				t.Errorf("level = %s, want %s", got.Level, tc.want)
			}
			if got.Type != tc.docType {
				t.Errorf("type = %q, want %q", got.Type, tc.docType)
			}
		})
	}
}

func TestStaleReportSkipsDaily(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	docs := []Document{
		{ID: "old-daily.md", Type: "Daily", Verified: now.AddDate(0, 0, -500)},
		{ID: "old-note.md", Type: "note", Verified: now.AddDate(0, 0, -500)},
	}

	report := StaleReport(docs, now, testThresholds)
	if len(report) != 1 || report[0].ID != "old-note.md" {
		t.Errorf("report = %+v, want only old-note.md", report)
	}
}

func TestAssessStalenessBasisFallback(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	created := Document{ID: "c.md", Created: now.AddDate(0, 0, -30)}
	if got := AssessStaleness(created, now, testThresholds); got.Basis != "created" {
		t.Errorf("basis = %s, want created", got.Basis)
	}

	modified := Document{ID: "m.md", ModTime: now.AddDate(0, 0, -5)}
	if got := AssessStaleness(modified, now, testThresholds); got.Basis != "modified" {
		t.Errorf("basis = %s, want modified", got.Basis)
	}

	// Verified wins even when created is older.
	both := Document{
		ID:       "b.md",
		Created:  now.AddDate(0, 0, -400),
		Verified: now.AddDate(0, 0, -10),
	}
	got := AssessStaleness(both, now, testThresholds)
	if got.Basis != "verified" || got.Level != StaleFresh {
		t.Errorf("got %+v, want fresh via verified", got)
	}
}

func TestStaleReportOrdering(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	docs := []Document{
		{ID: "fresh.md", Verified: now.AddDate(0, 0, -5)},
		{ID: "medium.md", Verified: now.AddDate(0, 0, -100)},
		{ID: "crit-b.md", Verified: now.AddDate(0, 0, -300)},
		{ID: "crit-a.md", Verified: now.AddDate(0, 0, -300)},
		{ID: "high.md", Verified: now.AddDate(0, 0, -150)},
	}

	report := StaleReport(docs, now, testThresholds)

	wantIDs := []string{"crit-a.md", "crit-b.md", "high.md", "medium.md"}
	if len(report) != len(wantIDs) {
		t.Fatalf("report has %d entries, want %d: %+v", len(report), len(wantIDs), report)
	}
	for i, want := range wantIDs {
		if report[i].ID != want {
			t.Errorf("report[%d] = %s, want %s", i, report[i].ID, want)
		}
	}
}
