package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexSerpentine(t *testing.T) {
	l := Default()
	cases := []struct {
		row, col int
		want     int
	}{
		{0, 0, 0},
		{0, 17, 17},
		{1, 0, 35},
		{1, 17, 18},
		{2, 3, 39},
		{15, 0, 15*18 + 17},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, l.Index(c.row, c.col), "row %d col %d", c.row, c.col)
	}
}

func TestPositionInvertsIndex(t *testing.T) {
	l := Default()
	for i := 0; i < l.Count(); i++ {
		r, c := l.Position(i)
		assert.True(t, l.Contains(r, c))
		assert.Equal(t, i, l.Index(r, c))
	}
}

func TestWordOddRowRunsBackwards(t *testing.T) {
	l := Default()
	assert.Equal(t, []int{0, 1}, l.Word(Rect{Row: 0, Col: 0, Len: 2}))
	// row 1 col 0..2 sits at the far end of the second strip row
	assert.Equal(t, []int{35, 34, 33}, l.Word(Rect{Row: 1, Col: 0, Len: 3}))
}

func TestNoFlip(t *testing.T) {
	l := Layout{Dim: Dim{Rows: 2, Columns: 4}}
	assert.Equal(t, 5, l.Index(1, 1))
	assert.Equal(t, 8, l.Count())
}
