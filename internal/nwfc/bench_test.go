package nwfc

import (
	"testing"

	"github.com/kellanmoore/tessera/internal/grid"
)

func BenchmarkSolve(b *testing.B) {
	alphabet := fourTileAlphabet()
	rows, cols := Dims(4, 4, 4)
	for i := 0; i < b.N; i++ {
		g := grid.New(rows, cols, grid.NewCell(alphabet))
		s := New(g, int64(i), 4, alphabet, true)
		if err := s.Solve(); err != nil {
			b.Fatalf("Solve: %v", err)
		}
	}
}
