// Package nwfc implements the sub-grid (windowed) WFC orchestrator:
// solve a large logical grid one overlapping S x S window at a time,
// stitching windows together by copying each window's core back into
// the shared grid and, when backtracking is enabled, carrying a
// one-cell phantom border into the next window so a later window's
// contradiction can still be absorbed without corrupting an already
// finished neighbour.
package nwfc

import (
	"fmt"

	"github.com/kellanmoore/tessera/internal/grid"
	"github.com/kellanmoore/tessera/internal/rng"
	"github.com/kellanmoore/tessera/internal/tile"
	"github.com/kellanmoore/tessera/internal/wfc"
)

// Dims returns the effective full-resolution grid dimensions for a
// layout of subgridRows x subgridCols windows of the given size, each
// window sharing its border row/column with its neighbours.
func Dims(subgridRows, subgridCols, subgridSize int) (rows, cols int) {
	return subgridRows*(subgridSize-1) + 1, subgridCols*(subgridSize-1) + 1
}

// Solver runs windowed WFC over Grid, which must already be sized per
// Dims for the desired subgrid layout and subgridSize.
type Solver struct {
	Grid           *grid.Grid
	Stream         *rng.Stream
	SubgridSize    int
	OriginalDomain []tile.Tile
	Backtrack      bool
	OnCollapse     func(row, col, tileID int)

	totalBacktracks int
	totalBytes      int
}

// New builds a Solver for g, windowed at subgridSize, drawing fresh
// tile domains for each window's uncopied cells from domain.
func New(g *grid.Grid, seed int64, subgridSize int, domain []tile.Tile, backtrackEnabled bool) *Solver {
	return &Solver{
		Grid:           g,
		Stream:         rng.New(seed),
		SubgridSize:    subgridSize,
		OriginalDomain: domain,
		Backtrack:      backtrackEnabled,
	}
}

// BacktrackCount returns the sum of backtracks across every window
// solved so far.
func (s *Solver) BacktrackCount() int {
	return s.totalBacktracks
}

// SnapshotBytes returns the sum, across every window solved so far, of
// each window's decision-frame-stack memory as it stood when that
// window's solve returned.
func (s *Solver) SnapshotBytes() int {
	return s.totalBytes
}

// Solve walks the subgrid layout in row-major window order. Each window
// is solved independently by an internal wfc.Solver seeded from an
// independent sub-stream; only its S x S core is written back to Grid.
func (s *Solver) Solve() error {
	s.totalBacktracks, s.totalBytes = 0, 0

	size := s.SubgridSize
	subgridsRows := (s.Grid.Rows - 1) / (size - 1)
	subgridsCols := (s.Grid.Cols - 1) / (size - 1)

	for sr := 0; sr < subgridsRows; sr++ {
		for sc := 0; sc < subgridsCols; sc++ {
			startRow := sr * (size - 1)
			startCol := sc * (size - 1)

			addBottom := s.Backtrack && sr < subgridsRows-1
			addRight := s.Backtrack && sc < subgridsCols-1

			wfcRows, wfcCols := size, size
			if addBottom {
				wfcRows++
			}
			if addRight {
				wfcCols++
			}

			window := grid.New(wfcRows, wfcCols, grid.NewCell(s.OriginalDomain))
			for i := 0; i < size; i++ {
				for j := 0; j < size; j++ {
					*window.At(i, j) = s.Grid.At(startRow+i, startCol+j).Clone()
				}
			}

			windowID := uint64(sr)*uint64(subgridsCols) + uint64(sc)
			sub := wfc.NewWithStream(window, s.Stream.Derive(windowID), wfc.MRV, s.Backtrack)
			sub.OnCollapse = func(row, col, tileID int) {
				if s.OnCollapse != nil {
					s.OnCollapse(startRow+row, startCol+col, tileID)
				}
			}

			if sr > 0 || sc > 0 {
				for i := 0; i < wfcRows; i++ {
					for j := 0; j < wfcCols; j++ {
						if window.At(i, j).Collapsed == grid.Uncollapsed {
							continue
						}
						onTopBorder := sr > 0 && i == 0
						onLeftBorder := sc > 0 && j == 0
						if onTopBorder || onLeftBorder {
							sub.Propagate(i, j)
						}
					}
				}
			}

			if err := sub.Solve(); err != nil {
				return fmt.Errorf("nwfc: window (%d, %d): %w", sr, sc, err)
			}
			s.totalBacktracks += sub.BacktrackCount()
			s.totalBytes += sub.SnapshotBytes()

			for i := 0; i < size; i++ {
				for j := 0; j < size; j++ {
					*s.Grid.At(startRow+i, startCol+j) = window.At(i, j).Clone()
				}
			}
		}
	}
	return nil
}
