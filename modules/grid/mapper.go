package grid

import "math"

// Layout describes the geometry of a rendered slot grid
type Layout struct {
	CellWidth    float64
	CellHeight   float64
	HeaderHeight float64
	// ScrollOffset is the current vertical scroll of the grid body
	ScrollOffset float64
	MaxRows      int
	MaxColumns   int
}

// CellPosition is a grid coordinate. It is validated against grid bounds
// before use and never persisted.
type CellPosition struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// ToCell converts a pixel coordinate to a cell position. Out-of-bounds input
// never errors; both indices saturate to the nearest valid cell.
func ToCell(x, y float64, layout Layout) CellPosition {
	col := 0
	if layout.CellWidth > 0 {
		col = int(math.Floor(x / layout.CellWidth))
	}

	row := 0
	if layout.CellHeight > 0 {
		row = int(math.Floor((y - layout.HeaderHeight + layout.ScrollOffset) / layout.CellHeight))
	}

	return CellPosition{
		Row:    clamp(row, 0, layout.MaxRows-1),
		Column: clamp(col, 0, layout.MaxColumns-1),
	}
}

// ToCoordinate returns the pixel center of a cell, used for visual snapping
func ToCoordinate(pos CellPosition, layout Layout) (x, y float64) {
	x = (float64(pos.Column) + 0.5) * layout.CellWidth
	y = layout.HeaderHeight - layout.ScrollOffset + (float64(pos.Row)+0.5)*layout.CellHeight
	return x, y
}

// CellsBetween returns the full rectangular span between two corners
// inclusive, in row-major order. The result is symmetric in its arguments
// as a set, which lets a single drag select a rectangular block.
func CellsBetween(start, end CellPosition) []CellPosition {
	minRow, maxRow := minMax(start.Row, end.Row)
	minCol, maxCol := minMax(start.Column, end.Column)

	cells := make([]CellPosition, 0, (maxRow-minRow+1)*(maxCol-minCol+1))
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			cells = append(cells, CellPosition{Row: row, Column: col})
		}
	}
	return cells
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minMax(a, b int) (int, int) {
	if a <= b {
		return a, b
	}
	return b, a
}
