// Package scanorder generates the two cell-visitation orders shared by
// the Fast-Propagation and Wave-Function-Collapse solvers: plain
// row-major (raster) order, and anti-diagonal order. The reference
// solver duplicates the anti-diagonal loop verbatim in both its FP and
// WFC classes; here it lives once.
package scanorder

// Pos is a (row, col) grid position.
type Pos struct {
	Row, Col int
}

// Raster returns every position in row-major order.
func Raster(rows, cols int) []Pos {
	order := make([]Pos, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			order = append(order, Pos{i, j})
		}
	}
	return order
}

// AntiDiagonal returns every position ordered by anti-diagonal
// (row+col), increasing row within each diagonal: (0,0); (0,1),(1,0);
// (0,2),(1,1),(2,0); ...
func AntiDiagonal(rows, cols int) []Pos {
	order := make([]Pos, 0, rows*cols)
	for d := 0; d < rows+cols-1; d++ {
		startRow := d - cols + 1
		if startRow < 0 {
			startRow = 0
		}
		endRow := d
		if endRow > rows-1 {
			endRow = rows - 1
		}
		for row := startRow; row <= endRow; row++ {
			col := d - row
			if col >= 0 && col < cols {
				order = append(order, Pos{row, col})
			}
		}
	}
	return order
}
