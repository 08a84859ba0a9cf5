package stream

import (
	"weak"

	"github.com/google/uuid"
)

// Connection is the minimal outbound surface the streaming orchestrator
// needs from a player's network connection: pushing a framed packet onto
// the low-priority queue (chunk data, unloads, center updates never
// preempt gameplay packets on the high-priority queue).
type Connection interface {
	SendLow(packet []byte)
}

// PlayerHandle is the orchestrator's view of one connected player: identity,
// current viewport state, and a weak reference to its connection so a
// worker that outlives a disconnect can detect it and abort silently
// rather than panicking on a closed channel, per spec §4.5's backpressure
// rule. Grounded on chunk_system.rs's Weak<PlayerData> handle stored in
// ChunkLoadTask.
type PlayerHandle struct {
	ID           uuid.UUID
	Dim          int32
	ViewDistance int32

	conn weak.Pointer[Connection]

	CenterX, CenterZ int32
	Viewport         map[uint64]struct{}
}

// NewPlayerHandle derives a weak reference to connPtr. The caller must keep
// a strong reference to *connPtr alive elsewhere (typically the
// connection's own send-loop goroutine state) for Upgrade to succeed.
func NewPlayerHandle(id uuid.UUID, dim, viewDistance int32, connPtr *Connection) *PlayerHandle {
	return &PlayerHandle{
		ID:           id,
		Dim:          dim,
		ViewDistance: viewDistance,
		conn:         weak.Make(connPtr),
		Viewport:     make(map[uint64]struct{}),
	}
}

// Upgrade resolves the weak connection reference, reporting ok=false if the
// connection has already been garbage collected (player disconnected).
func (p *PlayerHandle) Upgrade() (conn Connection, ok bool) {
	ptr := p.conn.Value()
	if ptr == nil {
		return nil, false
	}
	return *ptr, true
}
