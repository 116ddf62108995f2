package game

// Field geometry. The playfield keeps a hidden buffer of rows above the
// visible area so pieces can spawn off-screen; cell coordinates address it
// with y in [-HiddenRows, VisibleRows).
const (
	Columns     = 10
	VisibleRows = 20
	HiddenRows  = 4
)

// Playfield is the grid of locked cells, hidden rows included. A cell is
// either 0 (empty) or a color index 1-7.
type Playfield [][]int

func NewPlayfield() Playfield {
	field := make(Playfield, VisibleRows+HiddenRows)
	for i := range field {
		field[i] = make([]int, Columns)
	}

	return field
}

// At returns the cell at playfield coordinates; y may be negative inside
// the hidden region.
func (that Playfield) At(x, y int) int {
	return that[y+HiddenRows][x]
}

// Merge locks the piece into the field at its current position.
func (that Playfield) Merge(piece *Tetromino) {
	for i, row := range piece.Shape {
		for j, cell := range row {
			if cell == 0 {
				continue
			}
			that[piece.Y+i+HiddenRows][piece.X+j] = cell
		}
	}
}

// ClearFullLines removes every fully occupied row, shifting the rows above
// it down and inserting a fresh empty row at the top of the hidden region.
// It returns the number of rows cleared; the row count is invariant.
func (that Playfield) ClearFullLines() int {
	cleared := 0

	for i := 0; i < len(that); i++ {
		if !isFullRow(that[i]) {
			continue
		}

		copy(that[1:i+1], that[0:i])
		that[0] = make([]int, Columns)
		cleared++
	}

	return cleared
}

func isFullRow(row []int) bool {
	for _, cell := range row {
		if cell == 0 {
			return false
		}
	}

	return true
}

// Visible returns a copy of the rows below the hidden region, the part the
// client actually renders.
func (that Playfield) Visible() [][]int {
	rows := make([][]int, VisibleRows)
	for i := range rows {
		rows[i] = make([]int, Columns)
		copy(rows[i], that[i+HiddenRows])
	}

	return rows
}

// IsCollided reports whether any occupied cell of the piece falls outside
// the field bounds or overlaps an already occupied cell. Pure; it is called
// on every attempted move, rotate and spawn.
func IsCollided(piece *Tetromino, field Playfield) bool {
	for i, row := range piece.Shape {
		for j, cell := range row {
			if cell == 0 {
				continue
			}

			x := piece.X + j
			y := piece.Y + i

			if x < 0 || x >= Columns {
				return true
			}
			if y < -HiddenRows || y >= VisibleRows {
				return true
			}
			if field.At(x, y) != 0 {
				return true
			}
		}
	}

	return false
}
