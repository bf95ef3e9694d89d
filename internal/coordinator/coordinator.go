// Package coordinator runs one search over an Instance: it computes the
// initial bounds, splits the root into enough sub-problems to keep all
// workers busy, broadcasts the wire-encoded Instance to every worker rank
// over internal/transport, and hands the sub-problems to the worker
// goroutines through a shared in-memory channel until the frontier is
// exhausted. All workers of a run share one search.Shared, so a bound or
// solution found by one worker is seen by the others directly. No
// AssignRoot, AssignMeta or UpperBoundUpdate message is sent, and the
// SolutionReport messages that workers put on the bus are not read.
package coordinator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vxm/knightswap/internal/boardstate"
	"github.com/vxm/knightswap/internal/bound"
	"github.com/vxm/knightswap/internal/instance"
	"github.com/vxm/knightswap/internal/rootsplit"
	"github.com/vxm/knightswap/internal/search"
	"github.com/vxm/knightswap/internal/telemetry"
	"github.com/vxm/knightswap/internal/transport"
	"github.com/vxm/knightswap/internal/wire"
)

// Options configures one coordinated run.
type Options struct {
	Workers                   int
	SplitFactor               int
	ThreadsPerWorker          int
	FallbackCeilingMultiplier float64
	MaxCeilingDoublings       int
	Logger                    *telemetry.Logger
}

// Result is the final outcome of Run: whether a solution was found, the
// move sequence if so, and the total iteration count across every
// worker and every ceiling-doubling round.
type Result struct {
	Found          bool
	Moves          []boardstate.Move
	IterationCount int64
}

// Run executes the full coordinator protocol against a single Instance.
// It never itself runs the Go toolchain's race detector or any other
// external process; all parallelism is goroutines plus the
// internal/transport bus.
func Run(ctx context.Context, ins *instance.Instance, opts Options) Result {
	log := opts.Logger
	if log == nil {
		log = telemetry.Default()
	}

	root := boardstate.Initial(ins)
	initLowerBound := root.LowerBound
	upperBound := bound.InitialUpperBound(ins, root.Whites, root.Blacks)

	log.Info("starting search", map[string]any{
		"nSquares": ins.NSquares, "k": ins.K,
		"initLowerBound": initLowerBound, "initialUpperBound": upperBound,
	})

	result := runOnce(ctx, ins, opts, log, root, initLowerBound, upperBound)

	// Fallback ceiling doubling (SPEC_FULL.md §4.3): only engaged if no
	// solution was found AND the feature is enabled. Disabled by default
	// (FallbackCeilingMultiplier == 0), per SPEC_FULL.md §9's resolution
	// of spec.md's Open Question about whether U0 is provably an upper
	// bound.
	rounds := 0
	for !result.Found && opts.FallbackCeilingMultiplier > 0 && rounds < opts.MaxCeilingDoublings {
		rounds++
		upperBound = int32(float64(upperBound) * opts.FallbackCeilingMultiplier)
		log.Warn("no solution under current ceiling; doubling and retrying", map[string]any{
			"round": rounds, "newCeiling": upperBound,
		})
		retry := runOnce(ctx, ins, opts, log, root, initLowerBound, upperBound)
		retry.IterationCount += result.IterationCount
		result = retry
	}

	return result
}

func runOnce(ctx context.Context, ins *instance.Instance, opts Options, log *telemetry.Logger, root *boardstate.BoardState, initLowerBound, upperBound int32) Result {
	threads := opts.ThreadsPerWorker
	if threads < 1 {
		threads = 1
	}
	minFrontier := opts.Workers * threads * opts.SplitFactor
	if minFrontier < 1 {
		minFrontier = opts.Workers
	}

	split := rootsplit.Expand(ins, root, minFrontier, upperBound, initLowerBound)
	if split.FoundOptimal {
		log.Info("optimal solution found during root split", map[string]any{"length": len(split.BestMoves)})
		return Result{Found: true, Moves: split.BestMoves}
	}

	shared := search.NewShared(upperBound, initLowerBound)
	if split.BestMoves != nil {
		shared.TryImproveSolution(split.BestMoves)
	}

	if len(split.Frontier) == 0 {
		best, ok := shared.Best()
		return Result{Found: ok, Moves: best, IterationCount: shared.IterationCount.Load()}
	}

	bus := transport.NewBus(opts.Workers)
	instanceBlob := wire.EncodeInstance(ins)
	bus.Broadcast(wire.TagInstanceBlob, instanceBlob)

	group, groupCtx := errgroup.WithContext(ctx)

	work := make(chan rootsplit.Root)
	group.Go(func() error {
		defer close(work)
		for _, r := range split.Frontier {
			select {
			case work <- r:
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}
		return nil
	})

	for rank := 1; rank <= opts.Workers; rank++ {
		rank := rank
		group.Go(func() error {
			return runWorker(groupCtx, bus.Link(rank), shared, work, threads, log)
		})
	}

	// Every goroutine here is cooperative (spec.md §5): a worker
	// returning a non-nil error only happens on a malformed InstanceBlob,
	// which should never occur since this process encoded it itself.
	_ = group.Wait()

	// Terminate (spec.md §4.7): every rank has already exited its receive
	// loop by this point, but closing each inbox makes the rank's channel
	// half of the protocol explicit rather than leaving it to finalization.
	for rank := 1; rank <= opts.Workers; rank++ {
		bus.CloseWorker(rank)
	}

	best, ok := shared.Best()
	return Result{Found: ok, Moves: best, IterationCount: shared.IterationCount.Load()}
}

// runWorker is one worker rank: it first receives its InstanceBlob off
// the bus and rebuilds a private *instance.Instance from it (spec.md
// §4.7's "coordinator broadcasts the instance to every rank"), then
// pulls Root sub-problems off the shared work channel until it is
// closed or ctx is done (once the search is solved, each further
// search.Search call returns at once), each time running search.Search with
// its own bounded task pool (spec.md §4.5's intra-worker parallelism,
// nested inside spec.md §4.7's inter-worker dispatch).
func runWorker(ctx context.Context, link transport.Link, shared *search.Shared, work <-chan rootsplit.Root, threads int, log *telemetry.Logger) error {
	ins, err := receiveInstance(link)
	if err != nil {
		log.Error("worker failed to decode instance blob", map[string]any{"rank": link.Rank, "error": err.Error()})
		return err
	}

	pool := search.NewPool(threads)
	for {
		select {
		case <-ctx.Done():
			return nil
		case r, ok := <-work:
			if !ok {
				pool.Wait()
				return nil
			}
			search.Search(ctx, ins, shared, pool, r.State, int(r.Step), 0)
			pool.Wait()

			if best, found := shared.Best(); found {
				report := wire.SolutionReport{Moves: best, IterationCount: shared.IterationCount.Load()}
				select {
				case link.Out <- transport.Message{Tag: wire.TagSolutionReport, Rank: link.Rank, Payload: wire.EncodeSolutionReport(report)}:
				default:
				}
			}
		}
	}
}

// receiveInstance blocks until the coordinator's InstanceBlob broadcast
// arrives on link.Inbox, decodes it, and rebuilds a private
// *instance.Instance via instance.FromTables.
func receiveInstance(link transport.Link) (*instance.Instance, error) {
	msg, ok := <-link.Inbox
	if !ok {
		return nil, wire.ErrTruncated
	}
	decoded, err := wire.DecodeInstance(msg.Payload)
	if err != nil {
		return nil, err
	}
	return instance.FromTables(decoded.NSquares, decoded.K, decoded.SquareType, decoded.Moves, decoded.DistToBlack, decoded.DistToWhite), nil
}
