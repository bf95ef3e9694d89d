// Package instance holds the immutable, precomputed board description
// shared read-only by every search worker: knight adjacency, per-square
// distance-to-region tables, and square classification.
//
// What:
//
//   - Square classification (Basic/White/Black) over a flattened board.
//   - Knight-move adjacency per square, pruned to on-board destinations.
//   - distToWhite/distToBlack: minimum knight-hops from any square to the
//     nearest square of that color, computed once via BFS.
//
// Why:
//
//   - The search hot path touches these tables on every node expansion;
//     they are built once and shared read-only across all goroutines.
//
// Errors:
//
//   - ErrInvalidDimensions: nCols or nRows is not positive.
//   - ErrAreaOutOfBounds: a region corner falls outside the board.
//   - ErrAreaSizeMismatch: the white and black areas differ in size, or
//     k disagrees with the area size.
package instance

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDimensions = errors.New("instance: nCols and nRows must be positive")
	ErrAreaOutOfBounds   = errors.New("instance: area corner falls outside the board")
	ErrAreaSizeMismatch  = errors.New("instance: white and black areas must both contain exactly k squares")
)

// unreachableDist is the sentinel distance assigned to a square whose knight
// graph component never touches the target color (e.g. an isolated square
// with no legal moves at all). It is large enough to never look admissible
// against any real board's upper bound, matching the original solver's
// 99999999 sentinel rather than failing instance construction outright.
const unreachableDist = int32(1 << 20)

// SquareType classifies a board square.
type SquareType uint8

const (
	Basic SquareType = iota
	White
	Black
)

func (t SquareType) String() string {
	switch t {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "Basic"
	}
}

// Corner is one corner of a rectangular area, given in (col, row) order to
// match the instance file's wire layout (spec.md §6).
type Corner struct {
	Col, Row int
}

// Rect is a rectangular area given by two, not-necessarily-ordered corners.
type Rect struct {
	A, B Corner
}

// normalized returns (minCol, minRow, maxCol, maxRow).
func (r Rect) normalized() (int, int, int, int) {
	minCol, maxCol := r.A.Col, r.B.Col
	if maxCol < minCol {
		minCol, maxCol = maxCol, minCol
	}
	minRow, maxRow := r.A.Row, r.B.Row
	if maxRow < minRow {
		minRow, maxRow = maxRow, minRow
	}
	return minCol, minRow, maxCol, maxRow
}

const maxKnightMoves = 8

var knightOffsets = [maxKnightMoves][2]int{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

// Instance is the immutable, precomputed description of one puzzle. It is
// safe for concurrent read access by any number of goroutines once built.
type Instance struct {
	NCols, NRows, NSquares, K int

	squareType  []SquareType
	moveOffsets []int32 // flat moves for all squares
	moveStart   []int32 // moveStart[p]..moveStart[p+1] indexes into moveOffsets
	distToWhite []int32
	distToBlack []int32
}

// Build constructs an Instance from board dimensions, party size k, and the
// two (unordered) area rectangles, normalizing corners per spec.md §4.1.
func Build(nCols, nRows, k int, whiteArea, blackArea Rect) (*Instance, error) {
	if nCols <= 0 || nRows <= 0 {
		return nil, ErrInvalidDimensions
	}

	wMinC, wMinR, wMaxC, wMaxR := whiteArea.normalized()
	bMinC, bMinR, bMaxC, bMaxR := blackArea.normalized()

	if wMinC < 0 || wMinR < 0 || wMaxC >= nCols || wMaxR >= nRows ||
		bMinC < 0 || bMinR < 0 || bMaxC >= nCols || bMaxR >= nRows {
		return nil, ErrAreaOutOfBounds
	}

	whiteCount := (wMaxC - wMinC + 1) * (wMaxR - wMinR + 1)
	blackCount := (bMaxC - bMinC + 1) * (bMaxR - bMinR + 1)
	if whiteCount != k || blackCount != k {
		return nil, fmt.Errorf("%w: white=%d black=%d k=%d", ErrAreaSizeMismatch, whiteCount, blackCount, k)
	}

	nSquares := nCols * nRows
	squareType := make([]SquareType, nSquares)
	for row := 0; row < nRows; row++ {
		for col := 0; col < nCols; col++ {
			p := flatten(nCols, row, col)
			switch {
			case col >= wMinC && col <= wMaxC && row >= wMinR && row <= wMaxR:
				squareType[p] = White
			case col >= bMinC && col <= bMaxC && row >= bMinR && row <= bMaxR:
				squareType[p] = Black
			default:
				squareType[p] = Basic
			}
		}
	}

	moveStart, moveOffsets := buildAdjacency(nCols, nRows)

	distToBlack := bfsDistanceToColor(nSquares, squareType, moveStart, moveOffsets, Black)
	distToWhite := bfsDistanceToColor(nSquares, squareType, moveStart, moveOffsets, White)

	return &Instance{
		NCols:       nCols,
		NRows:       nRows,
		NSquares:    nSquares,
		K:           k,
		squareType:  squareType,
		moveOffsets: moveOffsets,
		moveStart:   moveStart,
		distToWhite: distToWhite,
		distToBlack: distToBlack,
	}, nil
}

// FromTables rebuilds an Instance from already-decoded tables (the
// counterpart of wire.DecodeInstance), used by a worker that receives an
// InstanceBlob message instead of building the instance itself. NCols and
// NRows are not recoverable from the wire format (spec.md §6 only encodes
// NSquares), so callers that need them (e.g. for printing) must carry
// them separately; the search itself only needs NSquares/K/tables.
func FromTables(nSquares, k int, squareType []SquareType, moves [][]int32, distToBlack, distToWhite []int32) *Instance {
	moveStart := make([]int32, nSquares+1)
	total := int32(0)
	for p := 0; p < nSquares; p++ {
		moveStart[p] = total
		total += int32(len(moves[p]))
	}
	moveStart[nSquares] = total

	moveOffsets := make([]int32, total)
	cursor := int32(0)
	for p := 0; p < nSquares; p++ {
		cursor += int32(copy(moveOffsets[cursor:], moves[p]))
	}

	return &Instance{
		NSquares:    nSquares,
		K:           k,
		squareType:  squareType,
		moveOffsets: moveOffsets,
		moveStart:   moveStart,
		distToWhite: distToWhite,
		distToBlack: distToBlack,
	}
}

func flatten(nCols, row, col int) int { return row*nCols + col }

func buildAdjacency(nCols, nRows int) (moveStart, moveOffsets []int32) {
	nSquares := nCols * nRows
	moveStart = make([]int32, nSquares+1)

	// First pass: count.
	counts := make([]int32, nSquares)
	for row := 0; row < nRows; row++ {
		for col := 0; col < nCols; col++ {
			p := flatten(nCols, row, col)
			for _, off := range knightOffsets {
				r2, c2 := row+off[0], col+off[1]
				if r2 >= 0 && r2 < nRows && c2 >= 0 && c2 < nCols {
					counts[p]++
				}
			}
		}
	}
	total := int32(0)
	for p := 0; p < nSquares; p++ {
		moveStart[p] = total
		total += counts[p]
	}
	moveStart[nSquares] = total

	moveOffsets = make([]int32, total)
	cursor := make([]int32, nSquares)
	copy(cursor, moveStart[:nSquares])
	for row := 0; row < nRows; row++ {
		for col := 0; col < nCols; col++ {
			p := flatten(nCols, row, col)
			for _, off := range knightOffsets {
				r2, c2 := row+off[0], col+off[1]
				if r2 >= 0 && r2 < nRows && c2 >= 0 && c2 < nCols {
					q := flatten(nCols, r2, c2)
					moveOffsets[cursor[p]] = int32(q)
					cursor[p]++
				}
			}
		}
	}
	return moveStart, moveOffsets
}

func bfsDistanceToColor(nSquares int, squareType []SquareType, moveStart, moveOffsets []int32, color SquareType) []int32 {
	dist := make([]int32, nSquares)
	for p := 0; p < nSquares; p++ {
		d, ok := bfsFrom(p, nSquares, squareType, moveStart, moveOffsets, color)
		if !ok {
			d = unreachableDist
		}
		dist[p] = d
	}
	return dist
}

func bfsFrom(start, nSquares int, squareType []SquareType, moveStart, moveOffsets []int32, color SquareType) (int32, bool) {
	visited := make([]bool, nSquares)
	visited[start] = true
	queue := []int32{int32(start)}
	depth := []int32{0}

	for len(queue) > 0 {
		p := queue[0]
		d := depth[0]
		queue = queue[1:]
		depth = depth[1:]

		if squareType[p] == color {
			return d, true
		}

		for i := moveStart[p]; i < moveStart[p+1]; i++ {
			q := moveOffsets[i]
			if !visited[q] {
				visited[q] = true
				queue = append(queue, q)
				depth = append(depth, d+1)
			}
		}
	}
	return 0, false
}

// SquareType returns the classification of square p.
func (ins *Instance) SquareType(p int) SquareType { return ins.squareType[p] }

// Moves returns the knight-reachable squares from p, in a stable order.
func (ins *Instance) Moves(p int) []int32 {
	return ins.moveOffsets[ins.moveStart[p]:ins.moveStart[p+1]]
}

// DistToBlack returns the minimum knight-hop distance from p to the
// nearest Black square.
func (ins *Instance) DistToBlack(p int) int32 { return ins.distToBlack[p] }

// DistToWhite returns the minimum knight-hop distance from p to the
// nearest White square.
func (ins *Instance) DistToWhite(p int) int32 { return ins.distToWhite[p] }

// DistToColor is DistToBlack or DistToWhite selected by the destination
// color a knight of the opposite color is heading toward.
func (ins *Instance) DistToColor(p int, destination SquareType) int32 {
	if destination == Black {
		return ins.distToBlack[p]
	}
	return ins.distToWhite[p]
}

// WhiteSquares and BlackSquares return the squares of each color, in
// ascending index order — used to build the initial BoardState.
func (ins *Instance) WhiteSquares() []int32 { return ins.squaresOfColor(White) }
func (ins *Instance) BlackSquares() []int32 { return ins.squaresOfColor(Black) }

func (ins *Instance) squaresOfColor(color SquareType) []int32 {
	out := make([]int32, 0, ins.K)
	for p := 0; p < ins.NSquares; p++ {
		if ins.squareType[p] == color {
			out = append(out, int32(p))
		}
	}
	return out
}
