package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vxm/knightswap/internal/boardstate"
	"github.com/vxm/knightswap/internal/bound"
	"github.com/vxm/knightswap/internal/instance"
	"github.com/vxm/knightswap/internal/refsolver"
)

func tinyInstance(t *testing.T) *instance.Instance {
	t.Helper()
	ins, err := instance.Build(3, 3, 1,
		instance.Rect{A: instance.Corner{Col: 0, Row: 0}, B: instance.Corner{Col: 0, Row: 0}},
		instance.Rect{A: instance.Corner{Col: 2, Row: 2}, B: instance.Corner{Col: 2, Row: 2}},
	)
	require.NoError(t, err)
	return ins
}

func runSearch(t *testing.T, ins *instance.Instance) ([]boardstate.Move, bool) {
	t.Helper()
	root := boardstate.Initial(ins)
	upper := bound.InitialUpperBound(ins, root.Whites, root.Blacks)
	shared := NewShared(upper, root.LowerBound)
	pool := NewPool(2)

	Search(context.Background(), ins, shared, pool, root, 0, 0)
	pool.Wait()
	return shared.Best()
}

func TestSearchFindsOptimalLengthOnTinyBoard(t *testing.T) {
	ins := tinyInstance(t)
	moves, found := runSearch(t, ins)
	require.True(t, found)

	want := refsolver.Solve(ins, 40)
	require.NotEqual(t, -1, want, "reference solver should find a solution within the depth cap")
	require.Len(t, moves, want)
}

// TestSearchSolutionEndsAtGoal replays the reported move list against a
// hand-tracked occupancy map (independent of boardstate.BoardState's own
// apply methods) and checks every move starts on an occupied square and
// lands on a free one, and that the party counts both reach zero.
func TestSearchSolutionEndsAtGoal(t *testing.T) {
	ins := tinyInstance(t)
	moves, found := runSearch(t, ins)
	require.True(t, found)

	root := boardstate.Initial(ins)
	occupied := map[int32]bool{}
	knightColor := map[int32]instance.SquareType{}
	for _, p := range root.Whites {
		occupied[p] = true
		knightColor[p] = instance.White
	}
	for _, p := range root.Blacks {
		occupied[p] = true
		knightColor[p] = instance.Black
	}

	whitesLeft, blacksLeft := root.WhitesLeft, root.BlacksLeft
	for _, m := range moves {
		require.True(t, occupied[m.From], "move must originate from an occupied square")
		require.False(t, occupied[m.To], "move must land on an unoccupied square")

		color, ok := knightColor[m.From]
		require.True(t, ok, "move %+v does not originate from a tracked knight", m)

		switch color {
		case instance.White:
			if ins.SquareType(int(m.From)) == instance.Black {
				whitesLeft++
			}
			if ins.SquareType(int(m.To)) == instance.Black {
				whitesLeft--
			}
		case instance.Black:
			if ins.SquareType(int(m.From)) == instance.White {
				blacksLeft++
			}
			if ins.SquareType(int(m.To)) == instance.White {
				blacksLeft--
			}
		}

		delete(occupied, m.From)
		delete(knightColor, m.From)
		occupied[m.To] = true
		knightColor[m.To] = color
	}

	require.Equal(t, 0, whitesLeft)
	require.Equal(t, 0, blacksLeft)
}
