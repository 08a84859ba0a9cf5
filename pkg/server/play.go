package server

import (
	"bytes"

	"github.com/StoreStation/VibeShitCraft/internal/coord"
	"github.com/StoreStation/VibeShitCraft/internal/stream"
	"github.com/StoreStation/VibeShitCraft/pkg/protocol"
)

// finishConfiguration drives the (minimal) Configuration state: spec §1
// treats everything before Play as an external collaborator beyond a
// state-machine stub, so this skips registry/tag sync and moves straight to
// Finish Configuration.
func (c *Connection) finishConfiguration() error {
	finish := protocol.MarshalPacket(0x03, func(w *bytes.Buffer) {})
	if err := c.WritePacketNow(finish); err != nil {
		return err
	}
	for {
		pkt, err := c.ReadPacket()
		if err != nil {
			return err
		}
		if pkt.ID == 0x03 { // Acknowledge Finish Configuration
			return nil
		}
		// Ignore client-info/plugin-message/etc sent during configuration.
	}
}

// writeRawNow writes a pre-marshaled id+payload packet (the shape
// EncodeLogin/EncodeSynchronizePlayerPos build) synchronously.
func (c *Connection) writeRawNow(raw []byte) error {
	r := bytes.NewReader(raw)
	id, idLen, err := protocol.ReadVarInt(r)
	if err != nil {
		return err
	}
	return c.WritePacketNow(&protocol.Packet{ID: id, Data: raw[idLen:]})
}

// enterPlay sends the bit-exact Login/SynchronizePlayerPos sequence,
// registers the player with the chunk streaming orchestrator, and runs the
// connection's send loop, keep-alive beacon, and Play-state packet read
// loop until the client disconnects.
func (s *Server) enterPlay(c *Connection, id *handshakeResult) {
	entityID := s.nextEntityID()

	rawLogin := protocol.EncodeLogin(protocol.LoginInfo{
		EntityID:     entityID,
		MaxPlayers:   int32(s.config.MaxPlayers),
		ViewDistance: s.config.ViewDistance,
		SimDistance:  s.config.ViewDistance,
		HashedSeed:   s.config.Seed,
		Gamemode:     1, // creative: spec excludes survival mechanics (combat/hunger/inventory)
		PrevGamemode: 255,
	})
	if err := c.writeRawNow(rawLogin); err != nil {
		return
	}

	spawnX, spawnZ := 8.0, 8.0
	spawnY := 80.0
	if err := c.writeRawNow(protocol.EncodeSynchronizePlayerPos(0, spawnX, spawnY, spawnZ)); err != nil {
		return
	}

	player := &serverPlayer{entityID: entityID, username: id.Username, uuid: id.UUID, conn: c}

	var connIface stream.Connection = c
	handle := stream.NewPlayerHandle(id.UUID, 0, s.config.ViewDistance, &connIface)

	cx, cz := coord.PosToChunk(spawnX, spawnZ)
	handle.CenterX, handle.CenterZ = cx, cz
	handle.Viewport = stream.Viewport(cx, cz, s.config.ViewDistance)

	s.registerPlayer(player)
	defer s.unregisterPlayer(player)

	go c.RunSendLoop()
	go c.RunKeepAlive(buildKeepAlivePacket)

	loads, unloads := stream.Diff(nil, handle.Viewport)
	s.orchestrator.Dispatch(handle, true, cx, cz, loads, unloads)

	for {
		pkt, err := c.ReadPacket()
		if err != nil {
			return
		}
		s.handlePlayPacket(handle, pkt)
	}
}

// buildKeepAlivePacket frames a clientbound KeepAlive packet carrying the
// given id.
func buildKeepAlivePacket(id int64) []byte {
	var buf bytes.Buffer
	protocol.WriteVarInt(&buf, 0x26) // clientbound Keep Alive (play)
	protocol.WriteInt64(&buf, id)
	return buf.Bytes()
}

// Serverbound Play packet ids this minimal dispatch reacts to.
const (
	serverboundPlayerPosition  = 0x1A
	serverboundPlayerPosAndRot = 0x1B
)

// handlePlayPacket implements the narrow slice of Play-state packets the
// chunk streaming pipeline cares about: position updates drive the
// viewport diff, everything else is ignored.
func (s *Server) handlePlayPacket(handle *stream.PlayerHandle, pkt *protocol.Packet) {
	switch pkt.ID {
	case serverboundPlayerPosition, serverboundPlayerPosAndRot:
		r := bytes.NewReader(pkt.Data)
		x, err := protocol.ReadFloat64(r)
		if err != nil {
			return
		}
		_, _ = protocol.ReadFloat64(r) // y, unused by the viewport computation
		z, err := protocol.ReadFloat64(r)
		if err != nil {
			return
		}
		s.updateViewport(handle, x, z)
	}
}

// updateViewport recomputes the player's chunk viewport on a position
// update and dispatches the load/unload diff, per spec §4.5.
func (s *Server) updateViewport(handle *stream.PlayerHandle, x, z float64) {
	cx, cz := coord.PosToChunk(x, z)
	centerChanged := cx != handle.CenterX || cz != handle.CenterZ
	if !centerChanged {
		return
	}
	next := stream.Viewport(cx, cz, s.config.ViewDistance)
	loads, unloads := stream.Diff(handle.Viewport, next)
	handle.CenterX, handle.CenterZ = cx, cz
	handle.Viewport = next
	s.orchestrator.Dispatch(handle, centerChanged, cx, cz, loads, unloads)
}
