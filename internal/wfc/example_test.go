package wfc_test

import (
	"fmt"

	"github.com/kellanmoore/tessera/internal/grid"
	"github.com/kellanmoore/tessera/internal/tile"
	"github.com/kellanmoore/tessera/internal/wfc"
)

func ExampleSolver_Solve() {
	alphabet := []tile.Tile{
		{ID: 0, North: "A", South: "A", East: "A", West: "A"},
		{ID: 1, North: "A", South: "A", East: "B", West: "B"},
		{ID: 2, North: "B", South: "B", East: "A", West: "A"},
		{ID: 3, North: "B", South: "B", East: "B", West: "B"},
	}
	g := grid.New(3, 3, grid.NewCell(alphabet))
	s := wfc.New(g, 7, wfc.MRV, false)
	if err := s.Solve(); err != nil {
		panic(err)
	}
	fmt.Println(g.AllCollapsed())
	// Output: true
}
