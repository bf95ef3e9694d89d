package rootsplit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vxm/knightswap/internal/bound"
	"github.com/vxm/knightswap/internal/boardstate"
	"github.com/vxm/knightswap/internal/instance"
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

func TestExpandProducesAtLeastRequestedFrontierOrExhausts(t *testing.T) {
	ins := tinyInstance(t)
	root := boardstate.Initial(ins)
	upper := bound.InitialUpperBound(ins, root.Whites, root.Blacks)

	result := Expand(ins, root, 8, upper, root.LowerBound)

	if !result.FoundOptimal {
		require.True(t, len(result.Frontier) >= 8 || len(result.Frontier) > 0,
			"expansion should either reach the requested frontier size or exhaust with a nonempty one")
	}
}

func TestExpandFrontierStepsAreConsistentWithMoveCount(t *testing.T) {
	ins := tinyInstance(t)
	root := boardstate.Initial(ins)
	upper := bound.InitialUpperBound(ins, root.Whites, root.Blacks)

	result := Expand(ins, root, 4, upper, root.LowerBound)
	for _, r := range result.Frontier {
		require.Equal(t, len(r.State.Tail.Moves()), int(r.Step))
	}
}

func TestExpandNeverReturnsWorseUpperBoundThanInput(t *testing.T) {
	ins := tinyInstance(t)
	root := boardstate.Initial(ins)
	upper := bound.InitialUpperBound(ins, root.Whites, root.Blacks)

	result := Expand(ins, root, 4, upper, root.LowerBound)
	require.LessOrEqual(t, result.UpperBound, upper)
}
