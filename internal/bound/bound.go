// Package bound computes the two bounds that drive the branch-and-bound
// search: the admissible lower bound (spec.md §4.2) and the heuristic
// initial upper bound / search-depth ceiling (spec.md §4.3).
package bound

import "github.com/vxm/knightswap/internal/instance"

// ChildLowerBound computes the incrementally-updated lower bound for a
// knight moving from `from` to `to`, given the parent's lower bound and
// the per-knight destination-distance table selected by the mover's
// color (spec.md §4.2).
func ChildLowerBound(parentLB int32, distFrom, distTo int32) int32 {
	return parentLB - distFrom + distTo
}

// InitialUpperBound computes U0: for each knight, a BFS from its square
// counts distinct destination-color squares dequeued until all k have
// been seen; that depth is the knight's contribution (the "most distant
// destination" reading of original_source/src/SolverMaster.h's
// getInitUpperBound). Summed over every knight, plus 1.
//
// This is a heuristic search-depth ceiling, not a proven upper bound —
// see spec.md §9's Open Questions and SPEC_FULL.md §4.3.
func InitialUpperBound(ins *instance.Instance, whites, blacks []int32) int32 {
	var total int32
	for _, w := range whites {
		total += mostDistantDestinationDepth(ins, w, instance.Black)
	}
	for _, b := range blacks {
		total += mostDistantDestinationDepth(ins, b, instance.White)
	}
	return total + 1
}

type bfsEntry struct {
	pos   int32
	depth int32
}

// mostDistantDestinationDepth runs a knight-move BFS from start, each
// square dequeued exactly once, counting distinct squares of `color` seen
// so far, and returns the depth at which the k-th one is first reached.
func mostDistantDestinationDepth(ins *instance.Instance, start int32, color instance.SquareType) int32 {
	k := int32(ins.K)
	visited := map[int32]bool{start: true}

	var seen int32
	if ins.SquareType(int(start)) == color {
		seen++
	}
	if seen == k {
		return 0
	}

	queue := []bfsEntry{{pos: start, depth: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range ins.Moves(int(cur.pos)) {
			if visited[next] {
				continue
			}
			visited[next] = true
			depth := cur.depth + 1
			if ins.SquareType(int(next)) == color {
				seen++
			}
			if seen == k {
				return depth
			}
			queue = append(queue, bfsEntry{pos: next, depth: depth})
		}
	}
	// start's connected component never accumulates k destination-color
	// squares (e.g. an isolated square, or a board whose knight graph
	// splits into components smaller than k per color). 0 is a safe
	// heuristic floor here, not a proven bound; see spec.md §9.
	return 0
}
