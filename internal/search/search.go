// Package search implements the parallel branch-and-bound Search Worker
// of spec.md §4.4–§4.5: a recursive, best-first-ordered depth-first
// exploration guarded by an admissible lower bound and a shared,
// monotonically-shrinking upper bound, parallelized across a bounded
// task pool (see pool.go).
package search

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/vxm/knightswap/internal/bound"
	"github.com/vxm/knightswap/internal/boardstate"
	"github.com/vxm/knightswap/internal/instance"
)

// Shared is the mutable state shared by every task descending from one
// worker's assigned root: globalUpper (lock-free fast-path reads,
// critical-section writes with double-checked re-verification — spec.md
// §4.5), globalBest (mutex-guarded), and iterationCount.
type Shared struct {
	GlobalUpper    atomic.Int32
	IterationCount atomic.Int64

	mu          sync.Mutex
	globalBest  []boardstate.Move
	bestUpdated bool

	// InitLowerBound is the root's lower bound. Per spec.md §4.4's Early
	// Exit: once a solution matching this bound is found, no better
	// solution can exist and the whole search may unwind.
	InitLowerBound int32

	// DisablePruning, when set, makes generateCandidates emit every legal
	// move regardless of the admissible-bound check. It exists only to
	// give tests a no-prune baseline to measure the pruned search's
	// iteration savings against (spec.md §8's scenario 5); production
	// callers never set it.
	DisablePruning bool
}

// NewShared creates Shared with the given initial upper bound and the
// root's lower bound (for the early-exit check).
func NewShared(initialUpperBound, initLowerBound int32) *Shared {
	s := &Shared{InitLowerBound: initLowerBound}
	s.GlobalUpper.Store(initialUpperBound)
	return s
}

// TryImproveSolution adopts candidate as the new global best if it is
// strictly shorter than the current upper bound, using double-checked
// locking: the fast check happens lock-free, the authoritative check
// happens inside the critical section (spec.md §4.5).
func (s *Shared) TryImproveSolution(candidate []boardstate.Move) bool {
	length := int32(len(candidate))
	if length >= s.GlobalUpper.Load() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if length >= s.GlobalUpper.Load() {
		return false
	}
	s.globalBest = candidate
	s.bestUpdated = true
	s.GlobalUpper.Store(length)
	return true
}

// AdoptExternalUpperBound tightens the local upper bound in response to
// an UpperBoundUpdate message, a min-merge that is safe under message
// reordering (spec.md §5).
func (s *Shared) AdoptExternalUpperBound(candidate int32) bool {
	for {
		current := s.GlobalUpper.Load()
		if candidate >= current {
			return false
		}
		if s.GlobalUpper.CompareAndSwap(current, candidate) {
			return true
		}
	}
}

// Best returns the current best move sequence and whether it has ever
// been set.
func (s *Shared) Best() ([]boardstate.Move, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.globalBest, s.bestUpdated
}

// solved reports whether the early-exit condition of spec.md §4.4 has
// been reached: the best known solution already matches the root's
// lower bound, so no shorter solution can exist.
func (s *Shared) solved() bool {
	return s.GlobalUpper.Load() <= s.InitLowerBound
}

// candidate is one viable next move, as emitted by generateCandidates.
type candidate struct {
	childLB     int32
	knightIndex int
	from, to    int32
}

// Search explores the subtree rooted at state/step, per spec.md §4.4. It
// is safe to call concurrently for independent states sharing one
// *Shared and one *search.Pool. Cancellation is cooperative: ctx is
// checked at task-pool submission points and between candidate
// descents (spec.md §4.5/§5).
func Search(ctx context.Context, ins *instance.Instance, shared *Shared, pool *Pool, state *boardstate.BoardState, step int, depthHint int) {
	if ctx.Err() != nil || shared.solved() {
		return
	}

	shared.IterationCount.Add(1)

	if state.IsGoal() {
		shared.TryImproveSolution(state.Tail.Moves())
		return
	}

	candidates := generateCandidates(ins, shared, state, step)
	if len(candidates) == 0 {
		return
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].childLB < candidates[j].childLB })

	whiteOnTurn := playerToMove(step, state)

	var wg sync.WaitGroup
	for _, c := range candidates {
		if ctx.Err() != nil || shared.solved() {
			break
		}

		c := c
		child := state.Clone()
		if whiteOnTurn {
			child.ApplyWhiteMove(ins, c.knightIndex, c.from, c.to, c.childLB)
		} else {
			child.ApplyBlackMove(ins, c.knightIndex, c.from, c.to, c.childLB)
		}

		spawn := depthHint < 3
		wg.Add(1)
		pool.Submit(spawn, func() {
			defer wg.Done()
			Search(ctx, ins, shared, pool, child, step+1, depthHint+1)
		})
	}
	wg.Wait()
}

// playerToMove implements spec.md §4.4's rule:
// whiteOnTurn = (step is odd AND whitesLeft > 0) OR (blacksLeft == 0)
func playerToMove(step int, state *boardstate.BoardState) bool {
	return (step%2 == 1 && state.WhitesLeft > 0) || state.BlacksLeft == 0
}

func generateCandidates(ins *instance.Instance, shared *Shared, state *boardstate.BoardState, step int) []candidate {
	whiteOnTurn := playerToMove(step, state)

	var knights []int32
	var destColor instance.SquareType
	if whiteOnTurn {
		knights = state.Whites
		destColor = instance.Black
	} else {
		knights = state.Blacks
		destColor = instance.White
	}

	globalUpper := shared.GlobalUpper.Load()

	var out []candidate
	for i, from := range knights {
		distFrom := ins.DistToColor(int(from), destColor)
		for _, to := range ins.Moves(int(from)) {
			if state.Occupied(to) {
				continue
			}
			distTo := ins.DistToColor(int(to), destColor)
			childLB := bound.ChildLowerBound(state.LowerBound, distFrom, distTo)
			if !shared.DisablePruning && int32(step)+childLB+1 >= globalUpper {
				continue
			}
			out = append(out, candidate{childLB: childLB, knightIndex: i, from: from, to: to})
		}
	}
	return out
}
