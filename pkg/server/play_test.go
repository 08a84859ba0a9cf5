package server

import (
	"bytes"
	"testing"

	"github.com/StoreStation/VibeShitCraft/internal/stream"
	"github.com/StoreStation/VibeShitCraft/pkg/protocol"
)

func TestBuildKeepAlivePacketFramesIDAndPayload(t *testing.T) {
	raw := buildKeepAlivePacket(7)
	r := bytes.NewReader(raw)
	id, _, err := protocol.ReadVarInt(r)
	if err != nil {
		t.Fatalf("ReadVarInt: %v", err)
	}
	if id != 0x26 {
		t.Fatalf("keep-alive packet id = 0x%02X, want 0x26", id)
	}
	got, err := protocol.ReadInt64(r)
	if err != nil {
		t.Fatalf("ReadInt64: %v", err)
	}
	if got != 7 {
		t.Fatalf("keep-alive payload = %d, want 7", got)
	}
}

func TestHandlePlayPacketIgnoresUnrecognizedIDs(t *testing.T) {
	s := &Server{}
	handle := &stream.PlayerHandle{}
	// Any packet id outside the position handlers must be a no-op: it must
	// not touch s.orchestrator (nil here, which would panic if dereferenced).
	s.handlePlayPacket(handle, &protocol.Packet{ID: 0x1F, Data: nil})
}

func TestUpdateViewportSkipsDispatchWhenChunkUnchanged(t *testing.T) {
	s := &Server{config: Config{ViewDistance: 2}}
	handle := &stream.PlayerHandle{CenterX: 0, CenterZ: 0, Viewport: stream.Viewport(0, 0, 2)}
	// (8.5, 8.5) is still chunk (0,0): must return before touching the nil
	// orchestrator.
	s.updateViewport(handle, 8.5, 8.5)
	if handle.CenterX != 0 || handle.CenterZ != 0 {
		t.Fatalf("center moved on a same-chunk position update: (%d,%d)", handle.CenterX, handle.CenterZ)
	}
}
