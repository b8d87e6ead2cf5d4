// Package fastprop implements the Fast-Propagation (FP) solver: visit
// cells in raster or anti-diagonal order, collapse each one, and prune
// only its forward (south, east) neighbours. No back-edges are ever
// revised, so FP is fast but not globally arc-consistent -- without
// backtracking it may leave a later cell with an empty domain.
package fastprop

import (
	"errors"

	"github.com/kellanmoore/tessera/internal/backtrack"
	"github.com/kellanmoore/tessera/internal/grid"
	"github.com/kellanmoore/tessera/internal/rng"
	"github.com/kellanmoore/tessera/internal/scanorder"
)

// ErrUnsolvable is returned when backtracking is enabled and the root
// decision frame is exhausted without finding a consistent assignment.
var ErrUnsolvable = errors.New("fastprop: exhausted backtracking without a solution")

// Order selects the cell-visitation strategy.
type Order int

const (
	Raster Order = iota
	AntiDiagonal
)

// Solver runs Fast-Propagation over a Grid.
type Solver struct {
	Grid       *grid.Grid
	Stream     *rng.Stream
	Order      Order
	Backtrack  bool
	OnCollapse func(row, col, tileID int)

	stack backtrack.Stack
}

// BacktrackCount returns how many times the solver has rolled back.
func (s *Solver) BacktrackCount() int {
	return s.stack.BacktrackCount()
}

// SnapshotBytes estimates the current decision-frame stack's memory
// footprint, a diagnostic figure only.
func (s *Solver) SnapshotBytes() int {
	return s.stack.Bytes()
}

// New builds a Solver for g using seed and the given traversal order.
func New(g *grid.Grid, seed int64, order Order, backtrackEnabled bool) *Solver {
	return &Solver{
		Grid:      g,
		Stream:    rng.New(seed),
		Order:     order,
		Backtrack: backtrackEnabled,
	}
}

// Solve runs the solver to completion. Without backtracking it always
// returns nil, even if it leaves uncollapsed cells behind (a terminal,
// non-error condition per the contradiction-without-backtracking
// contract). With backtracking it returns ErrUnsolvable if the root
// frame is exhausted.
func (s *Solver) Solve() error {
	var order []scanorder.Pos
	if s.Order == AntiDiagonal {
		order = scanorder.AntiDiagonal(s.Grid.Rows, s.Grid.Cols)
	} else {
		order = scanorder.Raster(s.Grid.Rows, s.Grid.Cols)
	}

	for _, pos := range order {
		if s.Grid.At(pos.Row, pos.Col).Collapsed != grid.Uncollapsed {
			continue
		}
		if err := s.visit(pos.Row, pos.Col); err != nil {
			return err
		}
	}
	return nil
}

func (s *Solver) visit(row, col int) error {
	if !s.Backtrack {
		cell := s.Grid.At(row, col)
		if len(cell.Domain) == 0 {
			return nil // contradiction; terminal, not an error (spec §4.7)
		}
		chosen := cell.Domain[s.Stream.Intn(len(cell.Domain))]
		cell.Collapse(chosen)
		if s.OnCollapse != nil {
			s.OnCollapse(row, col, chosen.ID)
		}
		s.propagate(row, col)
		return nil
	}

	if !s.stack.Decide(s.Grid, s.Stream, row, col, s.propagate, s.OnCollapse) {
		return ErrUnsolvable
	}
	return nil
}

// propagate forward-prunes only the south and east neighbours of the
// just-collapsed cell at (row, col); no back-edges are revised.
func (s *Solver) propagate(row, col int) {
	selected := s.Grid.At(row, col).Domain[0]

	if row+1 < s.Grid.Rows {
		south := s.Grid.At(row+1, col)
		remaining := south.Domain[:0:0]
		for _, t := range south.Domain {
			if selected.South == t.North {
				remaining = append(remaining, t)
			}
		}
		south.Domain = remaining
	}

	if col+1 < s.Grid.Cols {
		east := s.Grid.At(row, col+1)
		remaining := east.Domain[:0:0]
		for _, t := range east.Domain {
			if selected.East == t.West {
				remaining = append(remaining, t)
			}
		}
		east.Domain = remaining
	}
}
