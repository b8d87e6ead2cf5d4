package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndListRun(t *testing.T) {
	s := openTestStore(t)

	run := Run{
		ID:             "run-1",
		Algorithm:      "WFC_BACKTRACK",
		Seed:           7,
		GridRows:       10,
		GridCols:       10,
		Solved:         true,
		BacktrackCount: 3,
		SnapshotBytes:  2048,
		ElapsedMillis:  150,
	}
	if err := s.InsertRun(run); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.Algorithm != run.Algorithm || got.BacktrackCount != run.BacktrackCount {
		t.Errorf("ListRuns returned %+v, want matching fields from %+v", got, run)
	}
}

func TestListRunsOrdersNewestFirst(t *testing.T) {
	s := openTestStore(t)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		if err := s.InsertRun(Run{ID: id, Algorithm: "FP", Seed: int64(i)}); err != nil {
			t.Fatalf("InsertRun(%s): %v", id, err)
		}
	}

	runs, err := s.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected limit to cap at 2 rows, got %d", len(runs))
	}
	if runs[0].ID != "run-c" {
		t.Errorf("expected most recent run first, got %s", runs[0].ID)
	}
}
