package tile

import "testing"

func TestOpposite(t *testing.T) {
	tests := []struct {
		d    Direction
		want Direction
	}{
		{North, South},
		{South, North},
		{East, West},
		{West, East},
	}
	for _, tt := range tests {
		if got := tt.d.Opposite(); got != tt.want {
			t.Errorf("%v.Opposite() = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestDelta(t *testing.T) {
	tests := []struct {
		d            Direction
		dRow, dCol int
	}{
		{North, -1, 0},
		{South, 1, 0},
		{East, 0, 1},
		{West, 0, -1},
	}
	for _, tt := range tests {
		dRow, dCol := tt.d.Delta()
		if dRow != tt.dRow || dCol != tt.dCol {
			t.Errorf("%v.Delta() = (%d,%d), want (%d,%d)", tt.d, dRow, dCol, tt.dRow, tt.dCol)
		}
	}
}

func TestCompatible(t *testing.T) {
	a := Tile{ID: 0, North: "A", South: "B", East: "A", West: "B"}
	b := Tile{ID: 1, North: "B", South: "A", East: "B", West: "A"}

	// a's south edge ("B") must equal b's north edge ("B") for b to sit south of a.
	if !Compatible(a, b, South) {
		t.Error("expected a, b compatible southward")
	}
	if Compatible(a, a, South) {
		t.Error("expected a, a incompatible southward (A != B)")
	}
}

func TestAllDirectionsOrder(t *testing.T) {
	want := []Direction{North, East, South, West}
	got := AllDirections()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllDirections()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
