// Package refsolver is a deliberately naive, exhaustive BFS-over-state-
// space solver used only by tests to check internal/coordinator's
// branch-and-bound answer against ground truth on small boards. It
// trades all performance for obvious correctness: no bounds, no
// pruning, no parallelism, a visited-set keyed on the full board
// encoding.
package refsolver

import (
	"github.com/vxm/knightswap/internal/boardstate"
	"github.com/vxm/knightswap/internal/instance"
)

// state is a hashable snapshot of knight positions, sorted per color so
// that two states with the same set of occupied squares per color
// compare equal regardless of which individual knight is "knight 0". It
// also carries step parity: the spec.md §4.4 player-to-move rule depends
// on step%2, so the same positions reached at opposite parities can have
// different legal next moves and must not be deduped together.
type state struct {
	whites, blacks [8]int32 // fixed-size to stay comparable (map key); k is small in test fixtures
	nWhites        int
	nBlacks        int
	parity         int
}

func snapshot(whites, blacks []int32, parity int) state {
	var s state
	s.nWhites = copy(s.whites[:], whites)
	s.nBlacks = copy(s.blacks[:], blacks)
	sortSlice(s.whites[:s.nWhites])
	sortSlice(s.blacks[:s.nBlacks])
	s.parity = parity
	return s
}

func sortSlice(a []int32) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}

// Solve performs a breadth-first search over the full state space and
// returns the length of a shortest solution, or -1 if none exists
// within maxDepth moves (a safety valve so a bug in the puzzle's own
// structure cannot hang a test suite).
func Solve(ins *instance.Instance, maxDepth int) int {
	root := boardstate.Initial(ins)
	if root.IsGoal() {
		return 0
	}

	type queued struct {
		whites, blacks []int32
		whitesLeft     int
		blacksLeft     int
		occupied       map[int32]bool
		step           int
	}

	startOccupied := map[int32]bool{}
	for _, p := range root.Whites {
		startOccupied[p] = true
	}
	for _, p := range root.Blacks {
		startOccupied[p] = true
	}

	visited := map[state]bool{snapshot(root.Whites, root.Blacks, 0): true}
	queue := []queued{{
		whites: append([]int32(nil), root.Whites...), blacks: append([]int32(nil), root.Blacks...),
		whitesLeft: root.WhitesLeft, blacksLeft: root.BlacksLeft,
		occupied: startOccupied, step: 0,
	}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.step >= maxDepth {
			continue
		}

		whiteOnTurn := (cur.step%2 == 1 && cur.whitesLeft > 0) || cur.blacksLeft == 0

		var knights []int32
		if whiteOnTurn {
			knights = cur.whites
		} else {
			knights = cur.blacks
		}

		for i, from := range knights {
			for _, to := range ins.Moves(int(from)) {
				if cur.occupied[to] {
					continue
				}

				nextWhites := append([]int32(nil), cur.whites...)
				nextBlacks := append([]int32(nil), cur.blacks...)
				nextWhitesLeft, nextBlacksLeft := cur.whitesLeft, cur.blacksLeft

				if whiteOnTurn {
					if ins.SquareType(int(from)) == instance.Black {
						nextWhitesLeft++
					}
					if ins.SquareType(int(to)) == instance.Black {
						nextWhitesLeft--
					}
					nextWhites[i] = to
				} else {
					if ins.SquareType(int(from)) == instance.White {
						nextBlacksLeft++
					}
					if ins.SquareType(int(to)) == instance.White {
						nextBlacksLeft--
					}
					nextBlacks[i] = to
				}

				if nextWhitesLeft+nextBlacksLeft == 0 {
					return cur.step + 1
				}

				key := snapshot(nextWhites, nextBlacks, (cur.step+1)%2)
				if visited[key] {
					continue
				}
				visited[key] = true

				nextOccupied := make(map[int32]bool, len(cur.occupied))
				for p, v := range cur.occupied {
					if v && p != from {
						nextOccupied[p] = true
					}
				}
				nextOccupied[to] = true

				queue = append(queue, queued{
					whites: nextWhites, blacks: nextBlacks,
					whitesLeft: nextWhitesLeft, blacksLeft: nextBlacksLeft,
					occupied: nextOccupied, step: cur.step + 1,
				})
			}
		}
	}

	return -1
}
