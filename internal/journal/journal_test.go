package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndHistory(t *testing.T) {
	j, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer j.Close()

	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	runs := []Run{
		{Artifact: ArtifactIndex, StartedAt: base, Processed: 10, Skipped: 2},
		{Artifact: ArtifactGraph, StartedAt: base.Add(time.Minute), Processed: 12},
		{Artifact: ArtifactIndex, StartedAt: base.Add(2 * time.Minute), Forced: true, Processed: 12, Duration: 1500 * time.Millisecond},
	}
	for _, run := range runs {
		if err := j.Record(ctx, run); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	history, err := j.History(ctx, 10)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("History() returned %d runs, want 3", len(history))
	}
	if history[0].Artifact != ArtifactIndex || !history[0].Forced {
		t.Errorf("newest run = %+v, want the forced index run", history[0])
	}
	if history[0].ID == "" {
		t.Errorf("run ID was not generated")
	}
	if history[0].Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v, want 1.5s", history[0].Duration)
	}
	if !history[0].StartedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("StartedAt = %v, want %v", history[0].StartedAt, base.Add(2*time.Minute))
	}
}

func TestLastRuns(t *testing.T) {
	j, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer j.Close()

	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, run := range []Run{
		{Artifact: ArtifactIndex, Processed: 1},
		{Artifact: ArtifactIndex, Processed: 2},
		{Artifact: ArtifactEmbeddings, Processed: 9, Note: "openai/text-embedding-3-small"},
	} {
		run.StartedAt = base.Add(time.Duration(i) * time.Minute)
		if err := j.Record(ctx, run); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	last, err := j.LastRuns(ctx)
	if err != nil {
		t.Fatalf("LastRuns() error: %v", err)
	}
	if len(last) != 2 {
		t.Fatalf("LastRuns() = %d artifacts, want 2", len(last))
	}
	if last[ArtifactIndex].Processed != 2 {
		t.Errorf("latest index run = %+v, want the second one", last[ArtifactIndex])
	}
	if last[ArtifactEmbeddings].Note != "openai/text-embedding-3-small" {
		t.Errorf("embeddings note = %q", last[ArtifactEmbeddings].Note)
	}
	if _, ok := last[ArtifactGraph]; ok {
		t.Errorf("graph run reported without any being recorded")
	}
}

func TestRecordRejectsUnknownArtifact(t *testing.T) {
	j, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer j.Close()

	if err := j.Record(context.Background(), Run{Artifact: "bogus"}); err == nil {
		t.Fatal("Record() accepted an unknown artifact name")
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "journal.db")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer j.Close()

	if err := j.Record(context.Background(), Run{Artifact: ArtifactIndex}); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	history, err := j.History(context.Background(), 1)
	if err != nil || len(history) != 1 {
		t.Fatalf("History() = %v, %v", history, err)
	}
}
