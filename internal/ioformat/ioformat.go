// Package ioformat reads Knight Swap instance files and renders
// solutions for display, per spec.md §6's text format and the example
// board printouts in spec.md §8.
package ioformat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vxm/knightswap/internal/boardstate"
	"github.com/vxm/knightswap/internal/instance"
)

// ErrMalformedInstance is returned for any instance file that does not
// match spec.md §6's "nCols nRows k k wc1 wr1 wc2 wr2 bc1 br1 bc2 br2"
// layout.
var ErrMalformedInstance = errors.New("ioformat: malformed instance file")

// ParsedInstance is the raw fields read from an instance file, before
// instance.Build validates and expands them.
type ParsedInstance struct {
	NCols, NRows, K int
	White, Black    instance.Rect
}

// ReadInstance parses one instance file from r.
func ReadInstance(r io.Reader) (ParsedInstance, error) {
	fields, err := readInts(r)
	if err != nil {
		return ParsedInstance{}, err
	}
	if len(fields) != 12 {
		return ParsedInstance{}, fmt.Errorf("%w: expected 12 integers, got %d", ErrMalformedInstance, len(fields))
	}

	nCols, nRows, k1, k2 := fields[0], fields[1], fields[2], fields[3]
	if k1 != k2 {
		return ParsedInstance{}, fmt.Errorf("%w: party size repeated twice must match (%d != %d)", ErrMalformedInstance, k1, k2)
	}

	white := instance.Rect{
		A: instance.Corner{Col: fields[4], Row: fields[5]},
		B: instance.Corner{Col: fields[6], Row: fields[7]},
	}
	black := instance.Rect{
		A: instance.Corner{Col: fields[8], Row: fields[9]},
		B: instance.Corner{Col: fields[10], Row: fields[11]},
	}

	return ParsedInstance{NCols: nCols, NRows: nRows, K: k1, White: white, Black: black}, nil
}

func readInts(r io.Reader) ([]int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var out []int
	for scanner.Scan() {
		v, err := strconv.Atoi(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInstance, err)
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteSolution renders a solution (or its absence) the way spec.md §8's
// worked examples show: a length line, an iteration-count line, the
// starting board ("Step 0"), then one board snapshot per move, W/B/. per
// cell.
func WriteSolution(w io.Writer, ins *instance.Instance, found bool, moves []boardstate.Move, iterationCount int64) error {
	if !found {
		_, err := fmt.Fprintln(w, "No solution exists or the puzzle is already trivial.")
		return err
	}

	if _, err := fmt.Fprintf(w, "Solution length: %d\n", len(moves)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Found after %d iterations\n", iterationCount); err != nil {
		return err
	}

	state := boardstate.Initial(ins)
	if err := writeBoard(w, ins, state, 0); err != nil {
		return err
	}

	whiteIdx, blackIdx := indexMaps(state)
	for i, m := range moves {
		applyDisplayMove(ins, state, whiteIdx, blackIdx, m)
		if err := writeBoard(w, ins, state, i+1); err != nil {
			return err
		}
	}
	return nil
}

func indexMaps(s *boardstate.BoardState) (map[int32]int, map[int32]int) {
	whiteIdx := make(map[int32]int, len(s.Whites))
	for i, p := range s.Whites {
		whiteIdx[p] = i
	}
	blackIdx := make(map[int32]int, len(s.Blacks))
	for i, p := range s.Blacks {
		blackIdx[p] = i
	}
	return whiteIdx, blackIdx
}

// applyDisplayMove mutates state and the from->index maps in place to
// reflect move m, for rendering purposes only (it does not recompute a
// lower bound, unlike boardstate.ApplyWhiteMove/ApplyBlackMove).
func applyDisplayMove(ins *instance.Instance, s *boardstate.BoardState, whiteIdx, blackIdx map[int32]int, m boardstate.Move) {
	if i, ok := whiteIdx[m.From]; ok {
		s.Whites[i] = m.To
		delete(whiteIdx, m.From)
		whiteIdx[m.To] = i
		return
	}
	if i, ok := blackIdx[m.From]; ok {
		s.Blacks[i] = m.To
		delete(blackIdx, m.From)
		blackIdx[m.To] = i
	}
}

func writeBoard(w io.Writer, ins *instance.Instance, s *boardstate.BoardState, step int) error {
	if _, err := fmt.Fprintf(w, "Step %d:\n", step); err != nil {
		return err
	}

	occupied := make(map[int32]byte, len(s.Whites)+len(s.Blacks))
	for _, p := range s.Whites {
		occupied[p] = 'W'
	}
	for _, p := range s.Blacks {
		occupied[p] = 'B'
	}

	var sb strings.Builder
	for row := 0; row < ins.NRows; row++ {
		for col := 0; col < ins.NCols; col++ {
			p := int32(row*ins.NCols + col)
			if c, ok := occupied[p]; ok {
				sb.WriteByte(c)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
