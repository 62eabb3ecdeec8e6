package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayout() Layout {
	return Layout{
		CellWidth:    40,
		CellHeight:   30,
		HeaderHeight: 20,
		ScrollOffset: 0,
		MaxRows:      24,
		MaxColumns:   7,
	}
}

func TestToCell_MapsPixelToCell(t *testing.T) {
	cell := ToCell(85, 95, testLayout())
	assert.Equal(t, CellPosition{Row: 2, Column: 2}, cell)
}

func TestToCell_HeaderRowMapsToFirstRow(t *testing.T) {
	// y within the header still resolves to row 0 after clamping
	cell := ToCell(0, 5, testLayout())
	assert.Equal(t, CellPosition{Row: 0, Column: 0}, cell)
}

func TestToCell_ScrollOffsetShiftsRows(t *testing.T) {
	layout := testLayout()
	layout.ScrollOffset = 60 // two rows scrolled away

	cell := ToCell(0, 20, layout)
	assert.Equal(t, 2, cell.Row)
}

func TestToCell_ClampsOutOfBounds(t *testing.T) {
	layout := testLayout()

	t.Run("negative coordinates", func(t *testing.T) {
		cell := ToCell(-100, -100, layout)
		assert.Equal(t, CellPosition{Row: 0, Column: 0}, cell)
	})

	t.Run("beyond last cell", func(t *testing.T) {
		cell := ToCell(100000, 100000, layout)
		assert.Equal(t, CellPosition{Row: 23, Column: 6}, cell)
	})
}

func TestToCell_ZeroCellSizeIsSafe(t *testing.T) {
	layout := Layout{MaxRows: 24, MaxColumns: 7}

	cell := ToCell(50, 50, layout)
	assert.Equal(t, CellPosition{Row: 0, Column: 0}, cell)
}

func TestToCoordinate_ReturnsCellCenter(t *testing.T) {
	x, y := ToCoordinate(CellPosition{Row: 2, Column: 2}, testLayout())
	assert.InDelta(t, 100.0, x, 0.001)
	assert.InDelta(t, 95.0, y, 0.001)
}

func TestToCoordinate_RoundTripsThroughToCell(t *testing.T) {
	layout := testLayout()

	for row := 0; row < layout.MaxRows; row++ {
		for col := 0; col < layout.MaxColumns; col++ {
			want := CellPosition{Row: row, Column: col}
			x, y := ToCoordinate(want, layout)
			assert.Equal(t, want, ToCell(x, y, layout))
		}
	}
}

func TestCellsBetween_SingleCell(t *testing.T) {
	cells := CellsBetween(CellPosition{Row: 3, Column: 2}, CellPosition{Row: 3, Column: 2})

	require.Len(t, cells, 1)
	assert.Equal(t, CellPosition{Row: 3, Column: 2}, cells[0])
}

func TestCellsBetween_RectangleIsInclusiveAndRowMajor(t *testing.T) {
	cells := CellsBetween(CellPosition{Row: 1, Column: 1}, CellPosition{Row: 2, Column: 3})

	want := []CellPosition{
		{Row: 1, Column: 1}, {Row: 1, Column: 2}, {Row: 1, Column: 3},
		{Row: 2, Column: 1}, {Row: 2, Column: 2}, {Row: 2, Column: 3},
	}
	assert.Equal(t, want, cells)
}

func TestCellsBetween_OrderOfCornersDoesNotMatter(t *testing.T) {
	a := CellPosition{Row: 4, Column: 5}
	b := CellPosition{Row: 1, Column: 2}

	assert.Equal(t, CellsBetween(a, b), CellsBetween(b, a))
}
