// Package wire implements the flat int32-sequence message encodings from
// spec.md §6, byte for byte. Even though internal/transport delivers
// these messages over Go channels rather than a socket, the encode/decode
// contract itself is exercised and tested — no buffer is ever sized from
// a hard-coded ceiling (spec.md §9's bufferSize caveat); every buffer is
// sized from the Instance's own NSquares/K.
package wire

import (
	"errors"
	"fmt"

	"github.com/vxm/knightswap/internal/boardstate"
	"github.com/vxm/knightswap/internal/instance"
)

var ErrTruncated = errors.New("wire: message truncated")

// Tag identifies a message kind. Exact values are only required to be
// consistent between encoder and decoder, per spec.md §6.
type Tag int32

const (
	TagInstanceBlob Tag = iota
	TagAssignRoot
	TagAssignMeta
	TagUpperBoundUpdate
	TagSolutionReport
	TagTerminate
)

// EncodeInstance produces the flat sequence:
// nSquares, k, {p, |moves[p]|, moves[p]...} x nSquares, {squareType[p]} x nSquares,
// {p, distToBlack[p]} x nSquares, {p, distToWhite[p]} x nSquares.
func EncodeInstance(ins *instance.Instance) []int32 {
	out := make([]int32, 0, 2+ins.NSquares*8)
	out = append(out, int32(ins.NSquares), int32(ins.K))

	for p := 0; p < ins.NSquares; p++ {
		moves := ins.Moves(p)
		out = append(out, int32(p), int32(len(moves)))
		out = append(out, moves...)
	}
	for p := 0; p < ins.NSquares; p++ {
		out = append(out, int32(ins.SquareType(p)))
	}
	for p := 0; p < ins.NSquares; p++ {
		out = append(out, int32(p), ins.DistToBlack(p))
	}
	for p := 0; p < ins.NSquares; p++ {
		out = append(out, int32(p), ins.DistToWhite(p))
	}
	return out
}

// DecodedInstance is the decoded form of EncodeInstance's payload — a
// plain data carrier rebuilt into an *instance.Instance by the receiving
// worker (instance.FromTables), since instance.Instance's fields are
// unexported by design (a worker never mutates it).
type DecodedInstance struct {
	NSquares, K int
	SquareType  []instance.SquareType
	Moves       [][]int32
	DistToBlack []int32
	DistToWhite []int32
}

// DecodeInstance parses the EncodeInstance wire format.
func DecodeInstance(buf []int32) (*DecodedInstance, error) {
	if len(buf) < 2 {
		return nil, ErrTruncated
	}
	nSquares := int(buf[0])
	k := int(buf[1])
	cursor := 2

	moves := make([][]int32, nSquares)
	for p := 0; p < nSquares; p++ {
		if cursor+2 > len(buf) {
			return nil, ErrTruncated
		}
		pIdx := buf[cursor]
		count := int(buf[cursor+1])
		cursor += 2
		if int(pIdx) != p || cursor+count > len(buf) {
			return nil, fmt.Errorf("%w: moves block for square %d", ErrTruncated, p)
		}
		m := make([]int32, count)
		copy(m, buf[cursor:cursor+count])
		moves[p] = m
		cursor += count
	}

	squareType := make([]instance.SquareType, nSquares)
	for p := 0; p < nSquares; p++ {
		if cursor >= len(buf) {
			return nil, ErrTruncated
		}
		squareType[p] = instance.SquareType(buf[cursor])
		cursor++
	}

	distToBlack := make([]int32, nSquares)
	for p := 0; p < nSquares; p++ {
		if cursor+2 > len(buf) {
			return nil, ErrTruncated
		}
		distToBlack[buf[cursor]] = buf[cursor+1]
		cursor += 2
	}

	distToWhite := make([]int32, nSquares)
	for p := 0; p < nSquares; p++ {
		if cursor+2 > len(buf) {
			return nil, ErrTruncated
		}
		distToWhite[buf[cursor]] = buf[cursor+1]
		cursor += 2
	}

	return &DecodedInstance{
		NSquares:    nSquares,
		K:           k,
		SquareType:  squareType,
		Moves:       moves,
		DistToBlack: distToBlack,
		DistToWhite: distToWhite,
	}, nil
}

// EncodeBoardState produces the flat sequence described in spec.md §6:
// whitesLeft, blacksLeft, |whites|, whites..., |blacks|, blacks...,
// |occupied|, occupied..., lowerBound, |movesTaken|, (from,to)....
func EncodeBoardState(ins *instance.Instance, s *boardstate.BoardState) []int32 {
	moves := s.Tail.Moves()

	out := make([]int32, 0, 4+len(s.Whites)+len(s.Blacks)+ins.NSquares+2+2*len(moves))
	out = append(out, int32(s.WhitesLeft), int32(s.BlacksLeft))

	out = append(out, int32(len(s.Whites)))
	out = append(out, s.Whites...)

	out = append(out, int32(len(s.Blacks)))
	out = append(out, s.Blacks...)

	out = append(out, int32(ins.NSquares))
	for p := 0; p < ins.NSquares; p++ {
		if s.Occupied(int32(p)) {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}

	out = append(out, s.LowerBound)
	out = append(out, int32(len(moves)))
	for _, m := range moves {
		out = append(out, m.From, m.To)
	}
	return out
}

// DecodedBoardState is the decoded form of EncodeBoardState's payload.
type DecodedBoardState struct {
	WhitesLeft, BlacksLeft int
	Whites, Blacks         []int32
	Occupied               []bool
	LowerBound             int32
	Moves                  []boardstate.Move
}

// DecodeBoardState parses the EncodeBoardState wire format.
func DecodeBoardState(buf []int32) (*DecodedBoardState, error) {
	cursor := 0
	readInt := func() (int32, error) {
		if cursor >= len(buf) {
			return 0, ErrTruncated
		}
		v := buf[cursor]
		cursor++
		return v, nil
	}

	whitesLeft, err := readInt()
	if err != nil {
		return nil, err
	}
	blacksLeft, err := readInt()
	if err != nil {
		return nil, err
	}

	nWhites, err := readInt()
	if err != nil {
		return nil, err
	}
	if cursor+int(nWhites) > len(buf) {
		return nil, ErrTruncated
	}
	whites := append([]int32(nil), buf[cursor:cursor+int(nWhites)]...)
	cursor += int(nWhites)

	nBlacks, err := readInt()
	if err != nil {
		return nil, err
	}
	if cursor+int(nBlacks) > len(buf) {
		return nil, ErrTruncated
	}
	blacks := append([]int32(nil), buf[cursor:cursor+int(nBlacks)]...)
	cursor += int(nBlacks)

	nSquares, err := readInt()
	if err != nil {
		return nil, err
	}
	if cursor+int(nSquares) > len(buf) {
		return nil, ErrTruncated
	}
	occupied := make([]bool, nSquares)
	for p := 0; p < int(nSquares); p++ {
		occupied[p] = buf[cursor] != 0
		cursor++
	}

	lowerBound, err := readInt()
	if err != nil {
		return nil, err
	}
	nMoves, err := readInt()
	if err != nil {
		return nil, err
	}
	moves := make([]boardstate.Move, nMoves)
	for i := 0; i < int(nMoves); i++ {
		from, err := readInt()
		if err != nil {
			return nil, err
		}
		to, err := readInt()
		if err != nil {
			return nil, err
		}
		moves[i] = boardstate.Move{From: from, To: to}
	}

	return &DecodedBoardState{
		WhitesLeft: int(whitesLeft),
		BlacksLeft: int(blacksLeft),
		Whites:     whites,
		Blacks:     blacks,
		Occupied:   occupied,
		LowerBound: lowerBound,
		Moves:      moves,
	}, nil
}

// AssignMeta is (initLowerBound, upperBound, step).
type AssignMeta struct {
	InitLowerBound, UpperBound, Step int32
}

func EncodeAssignMeta(m AssignMeta) []int32 {
	return []int32{m.InitLowerBound, m.UpperBound, m.Step}
}

func DecodeAssignMeta(buf []int32) (AssignMeta, error) {
	if len(buf) != 3 {
		return AssignMeta{}, ErrTruncated
	}
	return AssignMeta{InitLowerBound: buf[0], UpperBound: buf[1], Step: buf[2]}, nil
}

// EncodeUpperBoundUpdate/DecodeUpperBoundUpdate: a single integer.
func EncodeUpperBoundUpdate(newUpperBound int32) []int32 { return []int32{newUpperBound} }

func DecodeUpperBoundUpdate(buf []int32) (int32, error) {
	if len(buf) != 1 {
		return 0, ErrTruncated
	}
	return buf[0], nil
}

// SolutionReport is length, (from,to)xlength, iterationCount.
type SolutionReport struct {
	Moves          []boardstate.Move
	IterationCount int64
}

func EncodeSolutionReport(r SolutionReport) []int32 {
	out := make([]int32, 0, 2+2*len(r.Moves))
	out = append(out, int32(len(r.Moves)))
	for _, m := range r.Moves {
		out = append(out, m.From, m.To)
	}
	out = append(out, int32(r.IterationCount))
	return out
}

func DecodeSolutionReport(buf []int32) (SolutionReport, error) {
	if len(buf) < 1 {
		return SolutionReport{}, ErrTruncated
	}
	length := int(buf[0])
	cursor := 1
	if len(buf) < 1+2*length+1 {
		return SolutionReport{}, ErrTruncated
	}
	moves := make([]boardstate.Move, length)
	for i := 0; i < length; i++ {
		moves[i] = boardstate.Move{From: buf[cursor], To: buf[cursor+1]}
		cursor += 2
	}
	iterationCount := int64(buf[cursor])
	return SolutionReport{Moves: moves, IterationCount: iterationCount}, nil
}
