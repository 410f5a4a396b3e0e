package entity

import "fmt"

// BoardSize is the side length of the playing grid.
const BoardSize = 3

type Mark string

const (
	MarkEmpty Mark = ""
	MarkX     Mark = "X"
	MarkO     Mark = "O"
)

// Opponent returns the other player's mark.
func (m Mark) Opponent() Mark {
	switch m {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return MarkEmpty
	}
}

type LineKind string

const (
	LineRow          LineKind = "row"
	LineColumn       LineKind = "col"
	LineDiagonal     LineKind = "diagonal"
	LineAntiDiagonal LineKind = "anti-diagonal"
)

type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Line is one full row, column or diagonal of the board.
type Line struct {
	Kind  LineKind `json:"kind"`
	Index int      `json:"index"`
	Cells []Cell   `json:"cells"`
}

// String names the line the way clients display it, e.g. "row 0".
func (that Line) String() string {
	switch that.Kind {
	case LineRow, LineColumn:
		return fmt.Sprintf("%s %d", that.Kind, that.Index)
	default:
		return string(that.Kind)
	}
}

// Board is an N×N grid. A cell is written at most once.
type Board struct {
	size  int
	cells []Mark
}

func NewBoard(size int) *Board {
	return &Board{
		size:  size,
		cells: make([]Mark, size*size),
	}
}

func (that *Board) Size() int {
	return that.size
}

func (that *Board) InBounds(row, col int) bool {
	return row >= 0 && row < that.size && col >= 0 && col < that.size
}

// At returns the mark at (row, col); out-of-bounds reads are empty.
func (that *Board) At(row, col int) Mark {
	if !that.InBounds(row, col) {
		return MarkEmpty
	}

	return that.cells[row*that.size+col]
}

func (that *Board) set(row, col int, mark Mark) {
	that.cells[row*that.size+col] = mark
}

func (that *Board) IsFull() bool {
	for _, cell := range that.cells {
		if cell == MarkEmpty {
			return false
		}
	}

	return true
}

// Rows returns a copy of the grid, row by row.
func (that *Board) Rows() [][]Mark {
	rows := make([][]Mark, that.size)
	for r := range that.size {
		rows[r] = make([]Mark, that.size)
		copy(rows[r], that.cells[r*that.size:(r+1)*that.size])
	}

	return rows
}

// Lines returns every winning line: N rows, N columns and both diagonals.
func (that *Board) Lines() []Line {
	lines := make([]Line, 0, 2*that.size+2)
	for i := range that.size {
		lines = append(lines, that.row(i), that.column(i))
	}

	return append(lines, that.diagonal(), that.antiDiagonal())
}

// LinesThrough returns only the lines containing (row, col).
func (that *Board) LinesThrough(row, col int) []Line {
	lines := []Line{that.row(row), that.column(col)}
	if row == col {
		lines = append(lines, that.diagonal())
	}
	if row+col == that.size-1 {
		lines = append(lines, that.antiDiagonal())
	}

	return lines
}

// FindWin scans the whole board for a line completely filled with mark.
func (that *Board) FindWin(mark Mark) (Line, bool) {
	return that.firstComplete(that.Lines(), mark)
}

// WinThrough checks only the lines through the just-played cell.
func (that *Board) WinThrough(row, col int, mark Mark) (Line, bool) {
	return that.firstComplete(that.LinesThrough(row, col), mark)
}

func (that *Board) firstComplete(lines []Line, mark Mark) (Line, bool) {
	if mark == MarkEmpty {
		return Line{}, false
	}

	for _, line := range lines {
		if that.complete(line, mark) {
			return line, true
		}
	}

	return Line{}, false
}

func (that *Board) complete(line Line, mark Mark) bool {
	for _, cell := range line.Cells {
		if that.At(cell.Row, cell.Col) != mark {
			return false
		}
	}

	return true
}

func (that *Board) row(r int) Line {
	cells := make([]Cell, that.size)
	for c := range that.size {
		cells[c] = Cell{Row: r, Col: c}
	}

	return Line{Kind: LineRow, Index: r, Cells: cells}
}

func (that *Board) column(c int) Line {
	cells := make([]Cell, that.size)
	for r := range that.size {
		cells[r] = Cell{Row: r, Col: c}
	}

	return Line{Kind: LineColumn, Index: c, Cells: cells}
}

func (that *Board) diagonal() Line {
	cells := make([]Cell, that.size)
	for i := range that.size {
		cells[i] = Cell{Row: i, Col: i}
	}

	return Line{Kind: LineDiagonal, Cells: cells}
}

func (that *Board) antiDiagonal() Line {
	cells := make([]Cell, that.size)
	for i := range that.size {
		cells[i] = Cell{Row: i, Col: that.size - 1 - i}
	}

	return Line{Kind: LineAntiDiagonal, Cells: cells}
}
