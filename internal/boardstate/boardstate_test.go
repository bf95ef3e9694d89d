package boardstate

import (
	"testing"

	"github.com/stretchr/testify/require"

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

func TestInitialOccupancyMatchesOrigins(t *testing.T) {
	ins := smallInstance(t)
	s := Initial(ins)

	require.Equal(t, 2*ins.K, s.OccupiedCount())
	for _, p := range s.Whites {
		require.True(t, s.Occupied(p))
	}
	for _, p := range s.Blacks {
		require.True(t, s.Occupied(p))
	}
	require.Equal(t, RecomputeLowerBound(ins, s), s.LowerBound)
}

func TestCloneIsIndependent(t *testing.T) {
	ins := smallInstance(t)
	s := Initial(ins)
	clone := s.Clone()

	clone.Whites[0] = 999
	require.NotEqual(t, s.Whites[0], clone.Whites[0])

	clone.ApplyWhiteMove(ins, 1, s.Whites[1], s.Whites[1], s.LowerBound)
	require.True(t, s.Occupied(s.Whites[1]))
}

func TestApplyWhiteMoveUpdatesOccupancyAndTail(t *testing.T) {
	ins := smallInstance(t)
	s := Initial(ins)

	from := s.Whites[0]
	var to int32 = -1
	for _, m := range ins.Moves(int(from)) {
		if !s.Occupied(m) {
			to = m
			break
		}
	}
	if to == -1 {
		t.Skip("no free destination from this origin on this tiny board")
	}

	newLB := s.LowerBound - ins.DistToBlack(int(from)) + ins.DistToBlack(int(to))
	s.ApplyWhiteMove(ins, 0, from, to, newLB)

	require.False(t, s.Occupied(from))
	require.True(t, s.Occupied(to))
	require.Equal(t, to, s.Whites[0])
	require.Equal(t, newLB, s.LowerBound)

	moves := s.Tail.Moves()
	require.Len(t, moves, 1)
	require.Equal(t, Move{From: from, To: to}, moves[0])
}

func TestWhitesLeftUnchangedWhenLeavingOriginForNonDestination(t *testing.T) {
	ins := smallInstance(t)
	s := Initial(ins)
	initialLeft := s.WhitesLeft

	// Move a white knight off its own origin onto a Basic square: leaving
	// White doesn't change whitesLeft (it only counts presence on Black).
	from := s.Whites[0]
	var to int32 = -1
	for _, m := range ins.Moves(int(from)) {
		if !s.Occupied(m) && ins.SquareType(int(m)) != instance.Black {
			to = m
			break
		}
	}
	if to == -1 {
		t.Skip("no Basic destination reachable on this tiny board")
	}

	s.ApplyWhiteMove(ins, 0, from, to, s.LowerBound)
	require.Equal(t, initialLeft, s.WhitesLeft)
}

func TestIsGoalWhenNoKnightsLeft(t *testing.T) {
	s := &BoardState{WhitesLeft: 0, BlacksLeft: 0}
	require.True(t, s.IsGoal())

	s.WhitesLeft = 1
	require.False(t, s.IsGoal())
}

func TestMoveNodeMaterializesInOrder(t *testing.T) {
	var tail *MoveNode
	for i := int32(0); i < 3; i++ {
		tail = &MoveNode{Move: Move{From: i, To: i + 1}, Prev: tail, Len: int(i) + 1}
	}
	moves := tail.Moves()
	require.Len(t, moves, 3)
	require.Equal(t, Move{From: 0, To: 1}, moves[0])
	require.Equal(t, Move{From: 2, To: 3}, moves[2])
}
