package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vxm/knightswap/internal/boardstate"
	"github.com/vxm/knightswap/internal/instance"
)

func smallInstance(t *testing.T) *instance.Instance {
	t.Helper()
	ins, err := instance.Build(4, 4, 2,
		instance.Rect{A: instance.Corner{Col: 0, Row: 0}, B: instance.Corner{Col: 1, Row: 0}},
		instance.Rect{A: instance.Corner{Col: 2, Row: 3}, B: instance.Corner{Col: 3, Row: 3}},
	)
	require.NoError(t, err)
	return ins
}

func TestEncodeDecodeInstanceRoundTrips(t *testing.T) {
	ins := smallInstance(t)
	buf := EncodeInstance(ins)

	decoded, err := DecodeInstance(buf)
	require.NoError(t, err)
	require.Equal(t, ins.NSquares, decoded.NSquares)
	require.Equal(t, ins.K, decoded.K)

	for p := 0; p < ins.NSquares; p++ {
		require.Equal(t, ins.Moves(p), decoded.Moves[p])
		require.Equal(t, ins.SquareType(p), decoded.SquareType[p])
		require.Equal(t, ins.DistToBlack(p), decoded.DistToBlack[p])
		require.Equal(t, ins.DistToWhite(p), decoded.DistToWhite[p])
	}
}

func TestDecodeInstanceRejectsTruncatedBuffer(t *testing.T) {
	ins := smallInstance(t)
	buf := EncodeInstance(ins)

	_, err := DecodeInstance(buf[:len(buf)-1])
	require.ErrorIs(t, err, ErrTruncated)
}

func TestEncodeDecodeBoardStateRoundTrips(t *testing.T) {
	ins := smallInstance(t)
	s := boardstate.Initial(ins)

	from := s.Whites[0]
	to := ins.Moves(int(from))[0]
	for _, m := range ins.Moves(int(from)) {
		if !s.Occupied(m) {
			to = m
			break
		}
	}
	s.ApplyWhiteMove(ins, 0, from, to, s.LowerBound)

	buf := EncodeBoardState(ins, s)
	decoded, err := DecodeBoardState(buf)
	require.NoError(t, err)

	require.Equal(t, s.WhitesLeft, decoded.WhitesLeft)
	require.Equal(t, s.BlacksLeft, decoded.BlacksLeft)
	require.Equal(t, s.Whites, decoded.Whites)
	require.Equal(t, s.Blacks, decoded.Blacks)
	require.Equal(t, s.LowerBound, decoded.LowerBound)
	require.Equal(t, s.Tail.Moves(), decoded.Moves)

	for p := 0; p < ins.NSquares; p++ {
		require.Equal(t, s.Occupied(int32(p)), decoded.Occupied[p])
	}
}

func TestEncodeDecodeAssignMeta(t *testing.T) {
	m := AssignMeta{InitLowerBound: 4, UpperBound: 9, Step: 2}
	decoded, err := DecodeAssignMeta(EncodeAssignMeta(m))
	require.NoError(t, err)
	require.Equal(t, m, decoded)
}

func TestEncodeDecodeUpperBoundUpdate(t *testing.T) {
	decoded, err := DecodeUpperBoundUpdate(EncodeUpperBoundUpdate(7))
	require.NoError(t, err)
	require.Equal(t, int32(7), decoded)
}

func TestEncodeDecodeSolutionReport(t *testing.T) {
	report := SolutionReport{
		Moves:          []boardstate.Move{{From: 1, To: 2}, {From: 2, To: 9}},
		IterationCount: 12345,
	}
	decoded, err := DecodeSolutionReport(EncodeSolutionReport(report))
	require.NoError(t, err)
	require.Equal(t, report, decoded)
}
