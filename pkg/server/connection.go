package server

import (
	"bytes"
	"net"
	"sync"
	"time"

	"github.com/StoreStation/VibeShitCraft/pkg/protocol"
)

// keepAliveInterval matches spec §4.6's documented periodic KeepAlive
// cadence.
const keepAliveInterval = 15 * time.Second

const readDeadline = 30 * time.Second

// connState tracks the handshake/login/configuration/play progression a
// single TCP connection walks through, independent of protocol.Packet's
// wire-level framing.
type connState int

const (
	stateHandshaking connState = iota
	stateStatus
	stateLogin
	stateConfiguration
	statePlay
)

// Connection wraps one client's TCP socket with the negotiated wire-layer
// state (compression threshold, encryption) and the high/low priority
// outbound queues spec §5 requires: gameplay packets on the high queue are
// always drained ahead of queued chunk-stream packets on the low queue.
type Connection struct {
	raw  net.Conn
	conn net.Conn // raw, or wrapped in protocol.EncryptedConn once encryption is on

	compressionThreshold int32 // protocol.CompressionThresholdDisabled until negotiated on
	encrypted            bool

	mu        sync.Mutex
	highQueue [][]byte
	lowQueue  [][]byte
	wake      chan struct{}
	closed    chan struct{}
	closeOnce sync.Once

	state connState
}

// NewConnection wraps an accepted socket, compression disabled and
// encryption off until the login handshake turns them on.
func NewConnection(raw net.Conn) *Connection {
	c := &Connection{
		raw:                  raw,
		conn:                 raw,
		compressionThreshold: protocol.CompressionThresholdDisabled,
		wake:                 make(chan struct{}, 1),
		closed:               make(chan struct{}),
		state:                stateHandshaking,
	}
	return c
}

// SendHigh queues a gameplay packet (KeepAlive, position sync, chat) ahead
// of any pending chunk-stream traffic.
func (c *Connection) SendHigh(packet []byte) {
	c.mu.Lock()
	c.highQueue = append(c.highQueue, packet)
	c.mu.Unlock()
	c.signal()
}

// SendLow queues a chunk-stream packet (ChunkData, UnloadChunk,
// SetCenterChunk, bundle delimiters), satisfying internal/stream.Connection.
func (c *Connection) SendLow(packet []byte) {
	c.mu.Lock()
	c.lowQueue = append(c.lowQueue, packet)
	c.mu.Unlock()
	c.signal()
}

func (c *Connection) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// popAll drains both queues, high-priority packets first, returning nil if
// nothing is queued.
func (c *Connection) popAll() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.highQueue) == 0 && len(c.lowQueue) == 0 {
		return nil
	}
	out := make([][]byte, 0, len(c.highQueue)+len(c.lowQueue))
	out = append(out, c.highQueue...)
	out = append(out, c.lowQueue...)
	c.highQueue = nil
	c.lowQueue = nil
	return out
}

// RunSendLoop drains the outbound queues until Close, writing framed
// packets with whatever compression/encryption is currently negotiated.
func (c *Connection) RunSendLoop() {
	for {
		select {
		case <-c.closed:
			return
		case <-c.wake:
		}
		for _, raw := range c.popAll() {
			if err := c.writeFramed(raw); err != nil {
				c.Close()
				return
			}
		}
	}
}

// writeFramed writes one pre-marshaled packet (id+payload, no length
// prefix, the shape rawPacket/MarshalPacket build) applying the negotiated
// compression framing.
func (c *Connection) writeFramed(raw []byte) error {
	r := bytes.NewReader(raw)
	id, idLen, err := protocol.ReadVarInt(r)
	if err != nil {
		return err
	}
	pkt := &protocol.Packet{ID: id, Data: raw[idLen:]}
	if c.compressionThreshold == protocol.CompressionThresholdDisabled {
		return protocol.WritePacket(c.conn, pkt)
	}
	return protocol.WriteCompressedPacket(c.conn, pkt, c.compressionThreshold)
}

// ReadPacket reads the next inbound packet, applying decompression and
// decryption as currently negotiated.
func (c *Connection) ReadPacket() (*protocol.Packet, error) {
	c.raw.SetReadDeadline(time.Now().Add(readDeadline))
	if c.compressionThreshold == protocol.CompressionThresholdDisabled {
		return protocol.ReadPacket(c.conn)
	}
	return protocol.ReadCompressedPacket(c.conn)
}

// WritePacketNow writes a single packet synchronously, bypassing the
// priority queues; used for the handshake/login/configuration sequence
// before the play-state send loop starts.
func (c *Connection) WritePacketNow(pkt *protocol.Packet) error {
	if c.compressionThreshold == protocol.CompressionThresholdDisabled {
		return protocol.WritePacket(c.conn, pkt)
	}
	return protocol.WriteCompressedPacket(c.conn, pkt, c.compressionThreshold)
}

// EnableCompression turns on packet compression for the rest of the
// session; spec §4.6: encryption and compression are independent and, once
// on, stay on.
func (c *Connection) EnableCompression(threshold int32) {
	c.compressionThreshold = threshold
}

// EnableEncryption wraps the raw socket in a whole-stream AES-128-CFB8
// cipher keyed by the shared secret negotiated during login.
func (c *Connection) EnableEncryption(sharedSecret []byte) error {
	ec, err := protocol.NewEncryptedConn(c.raw, sharedSecret)
	if err != nil {
		return err
	}
	c.conn = ec
	c.encrypted = true
	return nil
}

// Close shuts the connection down exactly once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.raw.Close()
	})
}

// RunKeepAlive sends a KeepAlive packet every keepAliveInterval until the
// connection closes.
func (c *Connection) RunKeepAlive(buildKeepAlive func(id int64) []byte) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	var id int64
	for {
		select {
		case <-c.closed:
			return
		case <-ticker.C:
			id++
			c.SendHigh(buildKeepAlive(id))
		}
	}
}
