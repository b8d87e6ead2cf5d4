// Package backtrack implements the decision-frame protocol shared by
// every backtracking-capable solver (FP, WFC, NWFC): save a snapshot
// before a collapse, choose a not-yet-tried tile, and roll back through
// the frame stack on contradiction.
//
// Frames are kept on success rather than popped, so a contradiction
// discovered arbitrarily far downstream can still unwind through any
// earlier decision -- the reference behaviour. A frame's tried-tile set
// is mutated in place on the same *Frame the stack already holds, never
// popped and blindly re-pushed before the next attempt, which avoids
// losing tried-tile bookkeeping across a rollback-then-retry cycle.
package backtrack

import (
	"github.com/kellanmoore/tessera/internal/grid"
	"github.com/kellanmoore/tessera/internal/rng"
	"github.com/kellanmoore/tessera/internal/tile"
)

// frameOverhead is a fixed per-frame bookkeeping cost added on top of
// the snapshot's own estimated footprint, matching the reference
// solver's sizeof(BacktrackState) component of get_total_backtrack_impact.
const frameOverhead = 64

// Frame is a single decision point: a grid snapshot, the cell it
// protects, and the set of tile ids already tried and rejected there.
type Frame struct {
	Snapshot grid.Snapshot
	Row, Col int
	Tried    map[int]bool
}

// Stack is the LIFO decision-frame stack owned by one solver instance.
type Stack struct {
	frames  []*Frame
	backtrackCount int
}

// Save pushes a new frame protecting (row, col), snapshotting g's
// current state.
func (s *Stack) Save(g *grid.Grid, row, col int) {
	s.frames = append(s.frames, &Frame{
		Snapshot: g.Snapshot(),
		Row:      row,
		Col:      col,
		Tried:    make(map[int]bool),
	})
}

// Len returns the number of frames currently on the stack.
func (s *Stack) Len() int {
	return len(s.frames)
}

// BacktrackCount returns how many times Rollback has unwound a frame.
func (s *Stack) BacktrackCount() int {
	return s.backtrackCount
}

// Bytes estimates the stack's total memory cost: each frame's snapshot
// footprint plus fixed per-frame overhead.
func (s *Stack) Bytes() int {
	total := 0
	for _, f := range s.frames {
		total += f.Snapshot.MemoryBytes() + frameOverhead
	}
	return total
}

func (s *Stack) top() *Frame {
	return s.frames[len(s.frames)-1]
}

// DiscardTop removes the most recently saved frame without attempting
// to roll back to it. Used when a freshly saved frame's cell already
// had an empty domain before any choice was ever made there -- that
// frame never represented a real decision and rollback should continue
// straight into its parent.
func (s *Stack) DiscardTop() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Choose samples uniformly from the top frame's cell's current domain,
// excluding tile ids already recorded in that frame's Tried set.
// Reports ok=false when the frame is exhausted.
func (s *Stack) Choose(g *grid.Grid, stream *rng.Stream) (chosen tile.Tile, ok bool) {
	f := s.top()
	cell := g.At(f.Row, f.Col)

	var available []tile.Tile
	for _, t := range cell.Domain {
		if !f.Tried[t.ID] {
			available = append(available, t)
		}
	}
	if len(available) == 0 {
		return tile.Tile{}, false
	}

	chosen = available[stream.Intn(len(available))]
	cell.Collapse(chosen)
	f.Tried[chosen.ID] = true
	return chosen, true
}

// Rollback unwinds the stack on contradiction: it restores the top
// frame's snapshot and retries Choose at that frame's position with its
// already-accumulated Tried set. If that frame is exhausted, the frame
// is discarded and rollback continues into the parent frame. Reports
// ok=false when the entire stack is exhausted -- the caller should
// treat this as globally unsolvable; g is left holding the bottommost
// frame's restored (pre-first-decision) state.
func (s *Stack) Rollback(g *grid.Grid, stream *rng.Stream) (row, col int, chosen tile.Tile, ok bool) {
	for len(s.frames) > 0 {
		s.backtrackCount++
		f := s.top()
		g.Restore(f.Snapshot)

		if chosen, ok = s.Choose(g, stream); ok {
			return f.Row, f.Col, chosen, true
		}
		s.frames = s.frames[:len(s.frames)-1]
	}
	return 0, 0, tile.Tile{}, false
}

// Decide runs one full decision-frame cycle for (row, col): save, choose,
// propagate, and validate, rolling back through the stack on contradiction
// until a consistent assignment is found or the stack is exhausted.
//
// propagate is called once after every successful collapse with the
// position that was actually just collapsed -- (row, col) itself, or an
// earlier position when a contradiction forced rollback into an ancestor
// decision. onCollapse, when non-nil, is invoked the same way just before
// propagate, with the chosen tile's id.
//
// A target frame is Saved once up front, and once more each time an
// ancestor retry succeeds and (row, col) itself needs a fresh attempt
// against the newly restored grid. It is never blindly re-pushed
// on every retry of its own decision -- Choose already tracks tried tiles
// in place on the frame the stack holds, so a failed attempt at (row,
// col) falls straight through to Rollback instead.
func (s *Stack) Decide(g *grid.Grid, stream *rng.Stream, row, col int, propagate func(row, col int), onCollapse func(row, col, tileID int)) bool {
	s.Save(g, row, col)
	curRow, curCol := row, col
	chosen, ok := s.Choose(g, stream)
	if !ok {
		s.DiscardTop()
		var rok bool
		curRow, curCol, chosen, rok = s.Rollback(g, stream)
		if !rok {
			return false
		}
	}

	for {
		if onCollapse != nil {
			onCollapse(curRow, curCol, chosen.ID)
		}
		propagate(curRow, curCol)

		if !g.HasEmptyDomain() {
			if curRow == row && curCol == col {
				return true
			}
			// The retried decision belonged to an ancestor frame; our own
			// target hasn't been attempted yet against the restored grid.
			s.Save(g, row, col)
			curRow, curCol = row, col
			if chosen, ok = s.Choose(g, stream); ok {
				continue
			}
			s.DiscardTop()
		}

		var rok bool
		curRow, curCol, chosen, rok = s.Rollback(g, stream)
		if !rok {
			return false
		}
	}
}
