package wfc

import (
	"testing"

	"github.com/kellanmoore/tessera/internal/grid"
)

func BenchmarkSolveMRV(b *testing.B) {
	alphabet := fourTileAlphabet()
	for i := 0; i < b.N; i++ {
		g := grid.New(8, 8, grid.NewCell(alphabet))
		s := New(g, int64(i), MRV, true)
		if err := s.Solve(); err != nil {
			b.Fatalf("Solve: %v", err)
		}
	}
}

func BenchmarkSolveAntiDiagonal(b *testing.B) {
	alphabet := fourTileAlphabet()
	for i := 0; i < b.N; i++ {
		g := grid.New(8, 8, grid.NewCell(alphabet))
		s := New(g, int64(i), AntiDiagonal, true)
		if err := s.Solve(); err != nil {
			b.Fatalf("Solve: %v", err)
		}
	}
}
