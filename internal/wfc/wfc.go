// Package wfc implements the Wave-Function-Collapse solver: repeatedly
// collapse the lowest-entropy cell (or the next cell in anti-diagonal
// order) and run full AC-3 arc-consistency propagation outward from it,
// so a contradiction discovered anywhere in the grid is caught before
// the next collapse -- unlike fastprop's forward-only pruning.
package wfc

import (
	"errors"

	"github.com/kellanmoore/tessera/internal/backtrack"
	"github.com/kellanmoore/tessera/internal/grid"
	"github.com/kellanmoore/tessera/internal/rng"
	"github.com/kellanmoore/tessera/internal/scanorder"
	"github.com/kellanmoore/tessera/internal/tile"
)

// ErrUnsolvable is returned when backtracking is enabled and the root
// decision frame is exhausted without finding a consistent assignment.
var ErrUnsolvable = errors.New("wfc: exhausted backtracking without a solution")

// Selection picks which cell gets collapsed next.
type Selection int

const (
	// MRV collapses the uncollapsed cell with the fewest remaining
	// candidates, breaking ties in row-major order.
	MRV Selection = iota
	// AntiDiagonal visits cells in fixed anti-diagonal order, same as
	// fastprop's AntiDiagonal traversal, but with full AC-3 propagation
	// after each collapse rather than forward-only pruning.
	AntiDiagonal
)

// Solver runs Wave-Function-Collapse over a Grid.
type Solver struct {
	Grid       *grid.Grid
	Stream     *rng.Stream
	Selection  Selection
	Backtrack  bool
	OnCollapse func(row, col, tileID int)

	order []scanorder.Pos
	pos   int
	stack backtrack.Stack
}

// New builds a Solver for g using seed and the given cell-selection
// strategy.
func New(g *grid.Grid, seed int64, selection Selection, backtrackEnabled bool) *Solver {
	return NewWithStream(g, rng.New(seed), selection, backtrackEnabled)
}

// NewWithStream builds a Solver driven by an already-constructed stream,
// letting a caller (nwfc, deriving one independent sub-stream per
// window) supply decorrelated randomness instead of a raw seed.
func NewWithStream(g *grid.Grid, stream *rng.Stream, selection Selection, backtrackEnabled bool) *Solver {
	return &Solver{
		Grid:      g,
		Stream:    stream,
		Selection: selection,
		Backtrack: backtrackEnabled,
	}
}

// Propagate runs full AC-3 propagation outward from (row, col) as if a
// collapse had just happened there, without performing a collapse
// itself. nwfc uses this to reconcile a freshly opened window's
// already-collapsed border cells (copied in from the previously solved
// neighbouring window) against the rest of the window's domains.
func (s *Solver) Propagate(row, col int) {
	s.propagate(row, col)
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

// Solve runs the solver to completion. Without backtracking it returns
// nil even if a contradiction strands the grid mid-solve (terminal, not
// an error, per the contradiction-without-backtracking contract). With
// backtracking it returns ErrUnsolvable if the root frame is exhausted.
func (s *Solver) Solve() error {
	if s.Selection == AntiDiagonal {
		s.order = scanorder.AntiDiagonal(s.Grid.Rows, s.Grid.Cols)
	}

	for {
		if s.Grid.HasEmptyDomain() {
			if !s.Backtrack {
				return nil
			}
			if _, _, _, ok := s.stack.Rollback(s.Grid, s.Stream); !ok {
				return ErrUnsolvable
			}
			continue
		}

		row, col, found := s.next()
		if !found {
			return nil
		}
		if err := s.visit(row, col); err != nil {
			return err
		}
	}
}

// next returns the next position to collapse under the solver's
// selection strategy. found is false once every cell is collapsed.
func (s *Solver) next() (row, col int, found bool) {
	if s.Selection == AntiDiagonal {
		for s.pos < len(s.order) {
			p := s.order[s.pos]
			s.pos++
			if s.Grid.At(p.Row, p.Col).Collapsed == grid.Uncollapsed {
				return p.Row, p.Col, true
			}
		}
		return 0, 0, false
	}
	return s.findMRV()
}

// findMRV scans every cell for the uncollapsed one with the smallest
// domain, breaking ties by row-major first encounter.
func (s *Solver) findMRV() (row, col int, found bool) {
	smallest := -1
	for r := 0; r < s.Grid.Rows; r++ {
		for c := 0; c < s.Grid.Cols; c++ {
			cell := s.Grid.At(r, c)
			if cell.Collapsed != grid.Uncollapsed {
				continue
			}
			if smallest == -1 || len(cell.Domain) < smallest {
				smallest = len(cell.Domain)
				row, col, found = r, c, true
			}
		}
	}
	return row, col, found
}

func (s *Solver) visit(row, col int) error {
	if !s.Backtrack {
		cell := s.Grid.At(row, col)
		if len(cell.Domain) == 0 {
			return nil
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

// arc is a directed AC-3 work item: "revise the domain at (row, col)
// against the neighbour lying in direction from".
type arc struct {
	row, col int
	from     tile.Direction
}

// propagate runs full arc-consistency propagation outward from the
// cell just collapsed at (startRow, startCol): a FIFO queue of directed
// arcs, each revision removing incompatible tiles from one cell's
// domain against one neighbour, re-enqueueing the arc from every
// in-bounds neighbour back toward a cell whenever its domain actually
// shrinks. The only arc
// ever suppressed is the one pointing back at the literal (startRow,
// startCol) cell that began this propagate call -- an immediate
// predecessor at any other position is re-enqueued like any other
// neighbour, since its domain can need re-revision once the current
// cell's domain shrinks again.
func (s *Solver) propagate(startRow, startCol int) {
	var queue []arc
	enqueueNeighbours := func(row, col int) {
		for _, d := range tile.AllDirections() {
			dr, dc := d.Delta()
			nr, nc := row+dr, col+dc
			if !s.Grid.InBounds(nr, nc) {
				continue
			}
			if nr == startRow && nc == startCol {
				continue
			}
			queue = append(queue, arc{nr, nc, d.Opposite()})
		}
	}

	enqueueNeighbours(startRow, startCol)

	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]

		cell := s.Grid.At(a.row, a.col)
		dr, dc := a.from.Delta()
		neighbour := s.Grid.At(a.row+dr, a.col+dc)

		kept := cell.Domain[:0:0]
		changed := false
		for _, t := range cell.Domain {
			compatible := false
			for _, nt := range neighbour.Domain {
				if tile.Compatible(t, nt, a.from) {
					compatible = true
					break
				}
			}
			if compatible {
				kept = append(kept, t)
			} else {
				changed = true
			}
		}

		if changed {
			cell.Domain = kept
			enqueueNeighbours(a.row, a.col)
		}
	}
}
