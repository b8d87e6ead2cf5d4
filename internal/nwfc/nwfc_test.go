package nwfc

import (
	"testing"

	"github.com/kellanmoore/tessera/internal/grid"
	"github.com/kellanmoore/tessera/internal/tile"
)

func fourTileAlphabet() []tile.Tile {
	return []tile.Tile{
		{ID: 0, North: "A", South: "A", East: "A", West: "A"},
		{ID: 1, North: "A", South: "A", East: "B", West: "B"},
		{ID: 2, North: "B", South: "B", East: "A", West: "A"},
		{ID: 3, North: "B", South: "B", East: "B", West: "B"},
	}
}

func TestDims(t *testing.T) {
	rows, cols := Dims(2, 2, 3)
	if rows != 5 || cols != 5 {
		t.Fatalf("Dims(2,2,3) = (%d,%d), want (5,5)", rows, cols)
	}
}

func assertGloballyConsistent(t *testing.T, g *grid.Grid) {
	t.Helper()
	if !g.AllCollapsed() {
		t.Fatal("expected every cell collapsed")
	}
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			a := g.At(r, c).Domain[0]
			if c+1 < g.Cols {
				b := g.At(r, c+1).Domain[0]
				if a.East != b.West {
					t.Errorf("horizontal mismatch at (%d,%d): east=%q west=%q", r, c, a.East, b.West)
				}
			}
			if r+1 < g.Rows {
				b := g.At(r+1, c).Domain[0]
				if a.South != b.North {
					t.Errorf("vertical mismatch at (%d,%d): south=%q north=%q", r, c, a.South, b.North)
				}
			}
		}
	}
}

func TestSolveStitchesWindowsWithoutBacktracking(t *testing.T) {
	alphabet := fourTileAlphabet()
	rows, cols := Dims(2, 2, 3)
	g := grid.New(rows, cols, grid.NewCell(alphabet))
	s := New(g, 1, 3, alphabet, false)
	if err := s.Solve(); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	assertGloballyConsistent(t, g)
}

func TestSolveWithBacktrackingStitchesSelfMatchingAlphabet(t *testing.T) {
	alphabet := []tile.Tile{
		{ID: 0, North: "A", South: "A", East: "A", West: "A"},
		{ID: 1, North: "B", South: "B", East: "B", West: "B"},
	}
	rows, cols := Dims(3, 3, 3)
	g := grid.New(rows, cols, grid.NewCell(alphabet))
	s := New(g, 5, 3, alphabet, true)
	if err := s.Solve(); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	assertGloballyConsistent(t, g)
	if s.BacktrackCount() < 0 {
		t.Fatal("BacktrackCount should never be negative")
	}
}

func TestOnCollapseReportsGlobalCoordinates(t *testing.T) {
	alphabet := fourTileAlphabet()
	rows, cols := Dims(2, 2, 3)
	g := grid.New(rows, cols, grid.NewCell(alphabet))
	s := New(g, 2, 3, alphabet, false)

	seen := make(map[[2]int]bool)
	s.OnCollapse = func(row, col, _ int) {
		if row < 0 || row >= rows || col < 0 || col >= cols {
			t.Fatalf("OnCollapse reported out-of-bounds position (%d, %d)", row, col)
		}
		seen[[2]int{row, col}] = true
	}
	if err := s.Solve(); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(seen) == 0 {
		t.Fatal("expected OnCollapse to fire at least once")
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	alphabet := fourTileAlphabet()
	rows, cols := Dims(2, 2, 3)
	run := func(seed int64) [][]int {
		g := grid.New(rows, cols, grid.NewCell(alphabet))
		s := New(g, seed, 3, alphabet, false)
		if err := s.Solve(); err != nil {
			t.Fatalf("Solve: %v", err)
		}
		out := make([][]int, rows)
		for r := 0; r < rows; r++ {
			out[r] = make([]int, cols)
			for c := 0; c < cols; c++ {
				out[r][c] = g.At(r, c).Collapsed
			}
		}
		return out
	}
	a := run(17)
	b := run(17)
	for r := range a {
		for c := range a[r] {
			if a[r][c] != b[r][c] {
				t.Fatalf("non-deterministic result at (%d,%d): %d != %d", r, c, a[r][c], b[r][c])
			}
		}
	}
}
