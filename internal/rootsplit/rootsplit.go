// Package rootsplit expands the search tree breadth-first from a single
// root until there are enough frontier nodes to keep every worker's
// threads busy, per spec.md §4.6 ("Root Splitting"). Any goal state
// discovered during the expansion is folded into a running best-so-far
// result instead of being discarded.
package rootsplit

import (
	"github.com/vxm/knightswap/internal/bound"
	"github.com/vxm/knightswap/internal/boardstate"
	"github.com/vxm/knightswap/internal/instance"
)

// Root is one frontier sub-problem produced by Expand: a board state
// together with the step at which it occurs. internal/coordinator hands
// it to a worker as an in-memory value.
type Root struct {
	State *boardstate.BoardState
	Step  int32
}

// Result is the outcome of Expand: the frontier to distribute, plus any
// complete solution stumbled upon while expanding (which may already be
// optimal, or may simply tighten the upper bound workers start from).
type Result struct {
	Frontier     []Root
	BestMoves    []boardstate.Move
	UpperBound   int32
	FoundOptimal bool
}

// node is one BFS frontier entry carried internally, paired with the
// step it was reached at.
type node struct {
	state *boardstate.BoardState
	step  int32
}

// Expand performs a level-order expansion of the search tree starting
// at (root, step=0), stopping once the frontier has at least minRoots
// entries or no further expansion is possible (every frontier node is
// terminal or already pruned). initLowerBound is the root's own lower
// bound, used for the early-exit check once a matching solution is
// found during expansion.
func Expand(ins *instance.Instance, root *boardstate.BoardState, minRoots int, initialUpperBound, initLowerBound int32) Result {
	upperBound := initialUpperBound
	var best []boardstate.Move

	frontier := []node{{state: root, step: 0}}

	for len(frontier) < minRoots {
		var next []node
		progressed := false

		for _, n := range frontier {
			if n.state.IsGoal() {
				if int32(len(n.state.Tail.Moves())) < upperBound {
					best = n.state.Tail.Moves()
					upperBound = int32(len(best))
				}
				if best != nil && upperBound <= initLowerBound {
					// Early exit (spec.md §4.4): a solution matching the
					// root's lower bound cannot be beaten.
					return Result{BestMoves: best, UpperBound: upperBound, FoundOptimal: true}
				}
				continue
			}

			children := expandOne(ins, n, upperBound)
			if len(children) == 0 {
				// Dead end under the current bound: drop it, rather than
				// re-enqueueing a childless node forever.
				continue
			}
			progressed = true
			next = append(next, children...)

			if upperBound <= initLowerBound {
				// Early exit (spec.md §4.4): nothing in `frontier` or `next`
				// can possibly beat this any further.
				return Result{BestMoves: best, UpperBound: upperBound, FoundOptimal: true}
			}
		}

		if !progressed {
			// Whatever remains in `frontier` is exactly the usable frontier:
			// either goal states already folded above, or terminal dead ends.
			break
		}
		frontier = next
	}

	out := make([]Root, 0, len(frontier))
	for _, n := range frontier {
		if n.state.IsGoal() {
			if int32(len(n.state.Tail.Moves())) < upperBound {
				best = n.state.Tail.Moves()
				upperBound = int32(len(best))
			}
			continue
		}
		out = append(out, Root{State: n.state, Step: n.step})
	}

	return Result{Frontier: out, BestMoves: best, UpperBound: upperBound}
}

// expandOne generates every pruning-surviving child of n, sorted by
// ascending child lower bound (best-first, matching the Search Worker's
// own ordering — spec.md §4.4).
func expandOne(ins *instance.Instance, n node, upperBound int32) []node {
	whiteOnTurn := (n.step%2 == 1 && n.state.WhitesLeft > 0) || n.state.BlacksLeft == 0

	var knights []int32
	var destColor instance.SquareType
	if whiteOnTurn {
		knights = n.state.Whites
		destColor = instance.Black
	} else {
		knights = n.state.Blacks
		destColor = instance.White
	}

	var cands []*candidateItem
	for i, from := range knights {
		distFrom := ins.DistToColor(int(from), destColor)
		for _, to := range ins.Moves(int(from)) {
			if n.state.Occupied(to) {
				continue
			}
			distTo := ins.DistToColor(int(to), destColor)
			childLB := bound.ChildLowerBound(n.state.LowerBound, distFrom, distTo)
			if n.step+childLB+1 >= upperBound {
				continue
			}
			cands = append(cands, &candidateItem{childLB: childLB, knightIndex: i, from: from, to: to})
		}
	}
	cands = drainSortedByLowerBound(cands)

	out := make([]node, 0, len(cands))
	for _, c := range cands {
		child := n.state.Clone()
		if whiteOnTurn {
			child.ApplyWhiteMove(ins, c.knightIndex, c.from, c.to, c.childLB)
		} else {
			child.ApplyBlackMove(ins, c.knightIndex, c.from, c.to, c.childLB)
		}
		out = append(out, node{state: child, step: n.step + 1})
	}
	return out
}
