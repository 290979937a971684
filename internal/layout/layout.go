package layout

// Default geometry of the 24h front plate.
const (
	Rows    = 16
	Columns = 18
)

type Dim struct{ Rows, Columns int }

// Serpentine selects the wiring order. With FlipOddRows the strip runs
// left to right on even rows and right to left on odd rows.
type Serpentine struct {
	FlipOddRows bool
}

type Layout struct {
	Dim   Dim
	Order Serpentine
}

// Rect is one horizontal run of LEDs on the matrix.
type Rect struct {
	Row, Col, Len int
}

// Default returns the wiring of the production plate.
func Default() Layout {
	return Layout{
		Dim:   Dim{Rows: Rows, Columns: Columns},
		Order: Serpentine{FlipOddRows: true},
	}
}

// Index maps row,col -> linear LED index (0..N-1)
func (l Layout) Index(row, col int) int {
	cc := col
	if (row%2 == 1) && l.Order.FlipOddRows {
		cc = l.Dim.Columns - 1 - col
	}
	return row*l.Dim.Columns + cc
}

// Position is the inverse of Index.
func (l Layout) Position(index int) (row, col int) {
	row = index / l.Dim.Columns
	col = index % l.Dim.Columns
	if (row%2 == 1) && l.Order.FlipOddRows {
		col = l.Dim.Columns - 1 - col
	}
	return row, col
}

// Word returns the LED indices lit by r, in reading order.
func (l Layout) Word(r Rect) []int {
	out := make([]int, 0, r.Len)
	for k := 0; k < r.Len; k++ {
		out = append(out, l.Index(r.Row, r.Col+k))
	}
	return out
}

func (l Layout) Contains(row, col int) bool {
	return row >= 0 && row < l.Dim.Rows && col >= 0 && col < l.Dim.Columns
}

func (l Layout) Count() int {
	return l.Dim.Rows * l.Dim.Columns
}
