package server

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/StoreStation/VibeShitCraft/pkg/protocol"
)

// offlineUUIDNamespace is an arbitrary fixed namespace for deriving a
// stable per-username UUID in offline mode; real Mojang authentication is
// explicitly out of scope (spec §1), so this only needs to be stable and
// collision-resistant across logins, not bit-exact with vanilla's
// nameUUIDFromBytes.
var offlineUUIDNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

func offlineUUID(username string) uuid.UUID {
	return uuid.NewMD5(offlineUUIDNamespace, []byte("OfflinePlayer:"+username))
}

// handshakeResult is what a successful login handshake hands back to the
// play-state setup.
type handshakeResult struct {
	Username string
	UUID     uuid.UUID
}

// handleHandshake reads the Handshake packet (protocol version, server
// address, port, next_state) and returns the requested next state.
func handleHandshake(pkt *protocol.Packet) (connState, error) {
	r := bytes.NewReader(pkt.Data)
	if _, _, err := protocol.ReadVarInt(r); err != nil { // protocol version, unchecked
		return 0, err
	}
	if _, err := protocol.ReadString(r); err != nil { // server address
		return 0, err
	}
	if _, err := protocol.ReadUint16(r); err != nil { // server port
		return 0, err
	}
	next, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return 0, err
	}
	switch next {
	case 1:
		return stateStatus, nil
	case 2:
		return stateLogin, nil
	default:
		return 0, fmt.Errorf("server: unknown next_state %d", next)
	}
}

// handleStatusRequest answers a Status Request with version/players/MOTD.
func (s *Server) handleStatusRequest(c *Connection) {
	resp := fmt.Sprintf(
		`{"version":{"name":"1.21.6","protocol":%d},"players":{"max":%d,"online":%d,"sample":[]},"description":{"text":%q}}`,
		protocol.ProtocolVersion, s.config.MaxPlayers, s.PlayerCount(), s.config.MOTD,
	)
	pkt := protocol.MarshalPacket(0x00, func(w *bytes.Buffer) {
		protocol.WriteString(w, resp)
	})
	c.WritePacketNow(pkt)
}

func (s *Server) handlePing(c *Connection, pkt *protocol.Packet) {
	r := bytes.NewReader(pkt.Data)
	payload, err := protocol.ReadInt64(r)
	if err != nil {
		return
	}
	resp := protocol.MarshalPacket(0x01, func(w *bytes.Buffer) {
		protocol.WriteInt64(w, payload)
	})
	c.WritePacketNow(resp)
}

// handleLoginStart drives the rest of login: Login Start -> (optional)
// Encryption Request/Response -> (optional) Set Compression -> Login
// Success -> Login Acknowledged, then returns the logged-in identity.
func (s *Server) handleLoginStart(c *Connection, pkt *protocol.Packet) (*handshakeResult, error) {
	r := bytes.NewReader(pkt.Data)
	username, err := protocol.ReadString(r)
	if err != nil {
		return nil, err
	}
	if _, err := protocol.ReadUUID(r); err != nil { // client-supplied UUID, ignored in offline mode
		return nil, err
	}

	playerUUID := offlineUUID(username)

	if s.config.OnlineMode {
		secret, err := s.runEncryptionHandshake(c)
		if err != nil {
			return nil, err
		}
		if err := c.EnableEncryption(secret); err != nil {
			return nil, err
		}
	}

	if s.config.CompressionThreshold >= 0 {
		setCompression := protocol.MarshalPacket(0x03, func(w *bytes.Buffer) {
			protocol.WriteVarInt(w, s.config.CompressionThreshold)
		})
		if err := c.WritePacketNow(setCompression); err != nil {
			return nil, err
		}
		c.EnableCompression(s.config.CompressionThreshold)
	}

	loginSuccess := protocol.MarshalPacket(0x02, func(w *bytes.Buffer) {
		uuidBytes, _ := playerUUID.MarshalBinary()
		var raw [16]byte
		copy(raw[:], uuidBytes)
		protocol.WriteUUID(w, raw)
		protocol.WriteString(w, username)
		protocol.WriteVarInt(w, 0) // number of properties
	})
	if err := c.WritePacketNow(loginSuccess); err != nil {
		return nil, err
	}

	// Login Acknowledged (serverbound 0x03) advances the client into the
	// Configuration state; wait for it before moving on.
	ack, err := c.ReadPacket()
	if err != nil {
		return nil, err
	}
	if ack.ID != 0x03 {
		return nil, fmt.Errorf("server: expected Login Acknowledged, got 0x%02X", ack.ID)
	}

	log.Info().Str("username", username).Str("uuid", playerUUID.String()).Msg("player logging in")
	return &handshakeResult{Username: username, UUID: playerUUID}, nil
}

// runEncryptionHandshake sends an Encryption Request and decrypts the
// client's shared secret, grounded on encryption.rs's send/receive pair.
func (s *Server) runEncryptionHandshake(c *Connection) ([]byte, error) {
	verifyToken, err := protocol.GenerateVerifyToken()
	if err != nil {
		return nil, err
	}
	raw := protocol.EncodeEncryptionRequest(s.keyPair.PublicDER, verifyToken)
	r := bytes.NewReader(raw)
	id, idLen, _ := protocol.ReadVarInt(r)
	if err := c.WritePacketNow(&protocol.Packet{ID: id, Data: raw[idLen:]}); err != nil {
		return nil, err
	}

	resp, err := c.ReadPacket()
	if err != nil {
		return nil, err
	}
	encResp, err := protocol.DecodeEncryptionResponse(resp.Data)
	if err != nil {
		return nil, err
	}
	secret, err := s.keyPair.DecryptPKCS1v15(encResp.EncryptedSharedSecret)
	if err != nil {
		return nil, err
	}
	gotToken, err := s.keyPair.DecryptPKCS1v15(encResp.EncryptedVerifyToken)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(gotToken, verifyToken) {
		return nil, fmt.Errorf("server: verify token mismatch")
	}
	return secret, nil
}
