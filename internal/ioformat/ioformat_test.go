package ioformat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vxm/knightswap/internal/boardstate"
	"github.com/vxm/knightswap/internal/instance"
)

func TestReadInstanceParsesTwelveFields(t *testing.T) {
	r := strings.NewReader("4 4 2 2 0 0 1 0 2 3 3 3")
	parsed, err := ReadInstance(r)
	require.NoError(t, err)

	require.Equal(t, 4, parsed.NCols)
	require.Equal(t, 4, parsed.NRows)
	require.Equal(t, 2, parsed.K)
	require.Equal(t, instance.Corner{Col: 0, Row: 0}, parsed.White.A)
	require.Equal(t, instance.Corner{Col: 1, Row: 0}, parsed.White.B)
	require.Equal(t, instance.Corner{Col: 2, Row: 3}, parsed.Black.A)
	require.Equal(t, instance.Corner{Col: 3, Row: 3}, parsed.Black.B)
}

func TestReadInstanceRejectsMismatchedK(t *testing.T) {
	r := strings.NewReader("4 4 2 3 0 0 1 0 2 3 3 3")
	_, err := ReadInstance(r)
	require.ErrorIs(t, err, ErrMalformedInstance)
}

func TestReadInstanceRejectsWrongFieldCount(t *testing.T) {
	r := strings.NewReader("4 4 2 2 0 0")
	_, err := ReadInstance(r)
	require.ErrorIs(t, err, ErrMalformedInstance)
}

func TestReadInstanceRejectsNonIntegerTokens(t *testing.T) {
	r := strings.NewReader("four 4 2 2 0 0 1 0 2 3 3 3")
	_, err := ReadInstance(r)
	require.ErrorIs(t, err, ErrMalformedInstance)
}

func TestWriteSolutionReportsNoSolution(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSolution(&buf, nil, false, nil, 0)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "No solution exists")
}

func TestWriteSolutionRendersLengthAndBoards(t *testing.T) {
	ins, err := instance.Build(3, 3, 1,
		instance.Rect{A: instance.Corner{Col: 0, Row: 0}, B: instance.Corner{Col: 0, Row: 0}},
		instance.Rect{A: instance.Corner{Col: 2, Row: 2}, B: instance.Corner{Col: 2, Row: 2}},
	)
	require.NoError(t, err)

	moves := []boardstate.Move{{From: 0, To: 5}, {From: 8, To: 3}}

	var buf bytes.Buffer
	err = WriteSolution(&buf, ins, true, moves, 42)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "Solution length: 2")
	require.Contains(t, out, "Found after 42 iterations")
	require.Contains(t, out, "Step 0:")
	require.Contains(t, out, "Step 2:")
}
