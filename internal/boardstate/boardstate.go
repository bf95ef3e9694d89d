// Package boardstate holds the mutable per-search-node state: knight
// positions, occupancy, the running admissible lower bound, and the
// partial move list that led to this node.
//
// What:
//
//   - BoardState: whitesLeft/blacksLeft, knight position arrays, an
//     occupancy bitset, lowerBound, and a persistent (shared-tail) move
//     list so a child node never copies its parent's full move history.
//
// Why:
//
//   - Per spec.md §9's rewriting guidance: the per-node state copy
//     dominates allocation in a branch-and-bound search: fixed-size
//     arrays plus a bitset keep each clone cheap, and the persistent
//     move list turns an O(depth) copy into an O(1) cons.
package boardstate

import "github.com/vxm/knightswap/internal/instance"

// Move is one (from, to) knight hop.
type Move struct {
	From, To int32
}

// MoveNode is one cons cell of a persistent, shared-tail move list.
// Multiple in-flight search branches can share the same prefix without
// copying it.
type MoveNode struct {
	Move Move
	Prev *MoveNode
	Len  int
}

// Moves materializes the move list from root to this node, in order.
func (n *MoveNode) Moves() []Move {
	if n == nil {
		return nil
	}
	out := make([]Move, n.Len)
	for cur := n; cur != nil; cur = cur.Prev {
		out[cur.Len-1] = cur.Move
	}
	return out
}

// occupancy is a fixed-width bitset over the instance's squares.
type occupancy []uint64

func newOccupancy(nSquares int) occupancy {
	return make(occupancy, (nSquares+63)/64)
}

func (o occupancy) get(p int32) bool {
	return o[p/64]&(1<<(uint(p)%64)) != 0
}

func (o occupancy) set(p int32, v bool) {
	word, bit := p/64, uint(p)%64
	if v {
		o[word] |= 1 << bit
	} else {
		o[word] &^= 1 << bit
	}
}

func (o occupancy) clone() occupancy {
	out := make(occupancy, len(o))
	copy(out, o)
	return out
}

// BoardState is the mutable state owned by exactly one search node. Use
// Clone to produce a child before mutating it for a descent.
type BoardState struct {
	WhitesLeft, BlacksLeft int
	Whites, Blacks         []int32
	LowerBound             int32
	occupied               occupancy
	Tail                   *MoveNode
}

// Initial builds the root BoardState: every white knight on its origin
// White square, every black knight on its origin Black square.
func Initial(ins *instance.Instance) *BoardState {
	whites := ins.WhiteSquares()
	blacks := ins.BlackSquares()

	occ := newOccupancy(ins.NSquares)
	for _, p := range whites {
		occ.set(p, true)
	}
	for _, p := range blacks {
		occ.set(p, true)
	}

	var lb int32
	for _, w := range whites {
		lb += ins.DistToBlack(int(w))
	}
	for _, b := range blacks {
		lb += ins.DistToWhite(int(b))
	}

	return &BoardState{
		WhitesLeft: len(whites),
		BlacksLeft: len(blacks),
		Whites:     whites,
		Blacks:     blacks,
		LowerBound: lb,
		occupied:   occ,
		Tail:       nil,
	}
}

// Occupied reports whether square p is currently occupied by a knight.
func (s *BoardState) Occupied(p int32) bool { return s.occupied.get(p) }

// IsGoal reports whether every knight has reached its destination region.
func (s *BoardState) IsGoal() bool { return s.WhitesLeft+s.BlacksLeft == 0 }

// Clone returns a deep copy suitable for an independent recursive descent.
// Whites/Blacks/occupied are copied; Tail (the persistent move list) is
// shared, since it is immutable.
func (s *BoardState) Clone() *BoardState {
	whites := make([]int32, len(s.Whites))
	copy(whites, s.Whites)
	blacks := make([]int32, len(s.Blacks))
	copy(blacks, s.Blacks)

	return &BoardState{
		WhitesLeft: s.WhitesLeft,
		BlacksLeft: s.BlacksLeft,
		Whites:     whites,
		Blacks:     blacks,
		LowerBound: s.LowerBound,
		occupied:   s.occupied.clone(),
		Tail:       s.Tail,
	}
}

// ApplyWhiteMove mutates the clone in place to reflect white knight index
// i moving from `from` to `to`, per spec.md §4.4 step "Descent".
func (s *BoardState) ApplyWhiteMove(ins *instance.Instance, i int, from, to int32, newLowerBound int32) {
	if ins.SquareType(int(from)) == instance.Black {
		s.WhitesLeft++
	}
	if ins.SquareType(int(to)) == instance.Black {
		s.WhitesLeft--
	}
	s.applyCommon(from, to, newLowerBound)
	s.Whites[i] = to
}

// ApplyBlackMove is the black-party analogue of ApplyWhiteMove.
func (s *BoardState) ApplyBlackMove(ins *instance.Instance, i int, from, to int32, newLowerBound int32) {
	if ins.SquareType(int(from)) == instance.White {
		s.BlacksLeft++
	}
	if ins.SquareType(int(to)) == instance.White {
		s.BlacksLeft--
	}
	s.applyCommon(from, to, newLowerBound)
	s.Blacks[i] = to
}

func (s *BoardState) applyCommon(from, to int32, newLowerBound int32) {
	s.occupied.set(from, false)
	s.occupied.set(to, true)
	s.LowerBound = newLowerBound
	s.Tail = &MoveNode{
		Move: Move{From: from, To: to},
		Prev: s.Tail,
		Len:  tailLen(s.Tail) + 1,
	}
}

func tailLen(n *MoveNode) int {
	if n == nil {
		return 0
	}
	return n.Len
}

// Invariant-checking helpers (used by tests, cheap enough to call in
// property tests but not on the hot path).

// OccupiedCount returns the number of occupied squares, for the
// sum(occupied) == 2k invariant.
func (s *BoardState) OccupiedCount() int {
	count := 0
	for _, w := range s.occupied {
		count += popcount64(w)
	}
	return count
}

func popcount64(w uint64) int {
	count := 0
	for w != 0 {
		w &= w - 1
		count++
	}
	return count
}

// RecomputeLowerBound recomputes the admissible lower bound from scratch
// — used by tests to check the incremental update against the
// definitional formula in spec.md §3.
func RecomputeLowerBound(ins *instance.Instance, s *BoardState) int32 {
	var lb int32
	for _, w := range s.Whites {
		lb += ins.DistToBlack(int(w))
	}
	for _, b := range s.Blacks {
		lb += ins.DistToWhite(int(b))
	}
	return lb
}
