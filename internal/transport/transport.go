// Package transport stands in for spec.md §4.7's MPI ranks: a
// coordinator and N workers exchanging exactly the wire-encoded
// payloads of spec.md §6, over Go channels instead of MPI_Send/
// MPI_Iprobe. Per spec.md §9 ("a thread-safe message queue... or a
// standard message-passing substrate all suffice"), this preserves the
// literal serialization contract while staying idiomatic Go: every
// message that crosses a channel has already been through
// internal/wire, so the channel boundary is exercised exactly like a
// socket boundary would be.
package transport

import "github.com/vxm/knightswap/internal/wire"

// Message is one wire-encoded payload tagged with its kind and the
// sending rank, mirroring an MPI message's (tag, source) envelope.
type Message struct {
	Tag     wire.Tag
	Rank    int
	Payload []int32
}

// Link is a single rank's private view of a shared bus: it sends to
// the coordinator and receives whatever the coordinator addresses to
// it, without seeing traffic meant for other ranks.
type Link struct {
	Rank   int
	Out    chan<- Message // this rank -> coordinator
	Inbox  <-chan Message // coordinator -> this rank
}

// Bus is the coordinator's end: one shared inbound channel fed by every
// worker, and one outbound channel per worker.
type Bus struct {
	ToCoordinator chan Message
	toWorker      []chan Message
}

// NewBus creates a Bus wired for the given number of worker ranks
// (ranks 1..n; rank 0 is reserved for the coordinator, matching
// spec.md §4.7's MPI rank numbering).
func NewBus(workers int) *Bus {
	b := &Bus{
		ToCoordinator: make(chan Message, workers*8),
		toWorker:      make([]chan Message, workers+1),
	}
	for r := 1; r <= workers; r++ {
		b.toWorker[r] = make(chan Message, 8)
	}
	return b
}

// Link returns the private Link for worker rank r.
func (b *Bus) Link(r int) Link {
	return Link{Rank: r, Out: b.ToCoordinator, Inbox: b.toWorker[r]}
}

// Send addresses a message to worker rank r (the coordinator's half of
// the protocol; spec.md §4.7's "coordinator sends AssignRoot+AssignMeta").
func (b *Bus) Send(rank int, tag wire.Tag, payload []int32) {
	b.toWorker[rank] <- Message{Tag: tag, Rank: 0, Payload: payload}
}

// Broadcast addresses the same message to every worker rank, used once
// at startup for the InstanceBlob (spec.md §4.7).
func (b *Bus) Broadcast(tag wire.Tag, payload []int32) {
	for r := 1; r < len(b.toWorker); r++ {
		b.Send(r, tag, payload)
	}
}

// CloseWorker closes the inbound channel for worker rank r, the
// channel-based analogue of a Terminate message followed by rank exit.
func (b *Bus) CloseWorker(r int) {
	close(b.toWorker[r])
}
