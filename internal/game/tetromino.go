package game

// Shape is a small grid of color indices; 0 marks an empty cell and 1-7
// identify one of the seven canonical piece kinds.
type Shape [][]int

// The canonical kinds, indexed by color. Index 0 is unused so that a cell
// value can double as an index into this table.
const (
	KindI = 1
	KindJ = 2
	KindL = 3
	KindO = 4
	KindS = 5
	KindT = 6
	KindZ = 7
)

var kindShapes = [8]Shape{
	KindI: {
		{1, 1, 1, 1},
	},
	KindJ: {
		{2, 0, 0},
		{2, 2, 2},
	},
	KindL: {
		{0, 0, 3},
		{3, 3, 3},
	},
	KindO: {
		{4, 4},
		{4, 4},
	},
	KindS: {
		{0, 5, 5},
		{5, 5, 0},
	},
	KindT: {
		{0, 6, 0},
		{6, 6, 6},
	},
	KindZ: {
		{7, 7, 0},
		{0, 7, 7},
	},
}

// Tetromino is the falling piece: an anchor position in playfield cell
// coordinates plus its shape grid. Y may be negative while the piece is
// still inside the hidden spawn region.
type Tetromino struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Shape Shape `json:"shape"`
}

// NewTetromino spawns a piece of the given kind at the top-center of a
// field with the given column count.
func NewTetromino(kind, columns int) *Tetromino {
	shape := kindShapes[kind].Clone()

	return &Tetromino{
		X:     (columns - shape.Width()) / 2,
		Y:     -HiddenRows,
		Shape: shape,
	}
}

// Clone returns a deep copy; pieces are never aliased between owners.
func (that *Tetromino) Clone() *Tetromino {
	return &Tetromino{
		X:     that.X,
		Y:     that.Y,
		Shape: that.Shape.Clone(),
	}
}

func (that Shape) Clone() Shape {
	cloned := make(Shape, len(that))
	for i, row := range that {
		cloned[i] = make([]int, len(row))
		copy(cloned[i], row)
	}

	return cloned
}

func (that Shape) Width() int {
	if len(that) == 0 {
		return 0
	}
	return len(that[0])
}

func (that Shape) Height() int {
	return len(that)
}

// Rotated returns the shape turned a quarter turn without touching the
// receiver. Shapes may be rectangular, so the result swaps dimensions.
func (that Shape) Rotated(clockwise bool) Shape {
	rows := that.Height()
	cols := that.Width()

	rotated := make(Shape, cols)
	for i := range rotated {
		rotated[i] = make([]int, rows)
		for j := range rotated[i] {
			if clockwise {
				rotated[i][j] = that[rows-1-j][i]
			} else {
				rotated[i][j] = that[j][cols-1-i]
			}
		}
	}

	return rotated
}
