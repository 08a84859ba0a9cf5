package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/StoreStation/VibeShitCraft/internal/region"
	"github.com/StoreStation/VibeShitCraft/internal/stream"
	"github.com/StoreStation/VibeShitCraft/internal/worldgen"
	"github.com/StoreStation/VibeShitCraft/pkg/protocol"
)

// serverPlayer is the server's bookkeeping record for one connected
// player, kept deliberately small: identity plus its connection, since
// inventory/combat/entity state are out of scope.
type serverPlayer struct {
	entityID int32
	username string
	uuid     uuid.UUID
	conn     *Connection
}

// Server owns the listener, the chunk streaming orchestrator, and the set
// of connected players. It is the top-level type cmd/server wires up.
type Server struct {
	config   Config
	listener net.Listener
	stopCh   chan struct{}
	stopOnce sync.Once

	keyPair *protocol.KeyPair

	regions      *region.Manager
	generator    *worldgen.Generator
	biomes       *worldgen.BiomeGenerator
	orchestrator *stream.Orchestrator
	cancelOrch   context.CancelFunc

	mu      sync.RWMutex
	players map[int32]*serverPlayer
	nextEID atomic.Int32
}

// New builds a server from config: loads (or falls back to) block/biome
// mapping tables, assembles the default chunk generator and region cache,
// and starts the fixed shard pool (spec §4.5).
func New(config Config) (*Server, error) {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		config.Seed = seed
	}

	tables := loadTables(config.AssetsDir)
	gen := buildGenerator(seed, tables)
	biomes := buildBiomeGenerator(tables)
	regions := region.NewManager(config.LevelDir, config.RegionCacheCapacity, tables)

	airID, _ := tables.Block.ID("air")
	encoder := &protocol.ChunkPacketEncoder{AirBlockID: airID}

	ctx, cancel := context.WithCancel(context.Background())
	orchestrator := stream.NewOrchestrator(ctx, config.NumShards, regions, gen, encoder, biomes)

	keyPair, err := protocol.GenerateKeyPair()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("server: generate RSA keypair: %w", err)
	}

	log.Info().Int64("seed", seed).Msg("world seed")

	return &Server{
		config:       config,
		stopCh:       make(chan struct{}),
		keyPair:      keyPair,
		regions:      regions,
		generator:    gen,
		biomes:       biomes,
		orchestrator: orchestrator,
		cancelOrch:   cancel,
		players:      make(map[int32]*serverPlayer),
	}, nil
}

// Start begins listening for connections.
func (s *Server) Start() error {
	var err error
	s.listener, err = net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.config.Address, err)
	}
	log.Info().Str("addr", s.config.Address).Msg("server listening")

	go s.acceptLoop()
	go s.regions.RunStaleSweeper(s.stopCh)
	return nil
}

// Stop gracefully shuts the server down, closing the listener, every
// player connection, and the chunk streaming orchestrator.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if s.listener != nil {
			s.listener.Close()
		}
		s.mu.RLock()
		for _, p := range s.players {
			p.conn.Close()
		}
		s.mu.RUnlock()
		s.orchestrator.Close()
		s.cancelOrch()
	})
}

// StopChan exposes the shutdown signal so cmd/server can wait on it
// alongside OS signal handling.
func (s *Server) StopChan() <-chan struct{} { return s.stopCh }

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
				log.Warn().Err(err).Msg("accept error")
				continue
			}
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) nextEntityID() int32 { return s.nextEID.Add(1) }

func (s *Server) registerPlayer(p *serverPlayer) {
	s.mu.Lock()
	s.players[p.entityID] = p
	s.mu.Unlock()
}

func (s *Server) unregisterPlayer(p *serverPlayer) {
	s.mu.Lock()
	delete(s.players, p.entityID)
	s.mu.Unlock()
	log.Info().Str("username", p.username).Msg("player disconnected")
}

// PlayerCount returns the number of currently connected players.
func (s *Server) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

// handleConnection walks one socket through
// Handshake -> Status|Login -> Configuration -> Play.
func (s *Server) handleConnection(raw net.Conn) {
	c := NewConnection(raw)
	defer c.Close()

	raw.SetReadDeadline(time.Now().Add(readDeadline))
	pkt, err := c.ReadPacket()
	if err != nil || pkt.ID != 0x00 {
		return
	}
	next, err := handleHandshake(pkt)
	if err != nil {
		log.Debug().Err(err).Msg("handshake error")
		return
	}
	c.state = next

	switch next {
	case stateStatus:
		for {
			pkt, err := c.ReadPacket()
			if err != nil {
				return
			}
			switch pkt.ID {
			case 0x00:
				s.handleStatusRequest(c)
			case 0x01:
				s.handlePing(c, pkt)
				return
			}
		}
	case stateLogin:
		pkt, err := c.ReadPacket()
		if err != nil || pkt.ID != 0x00 {
			return
		}
		id, err := s.handleLoginStart(c, pkt)
		if err != nil {
			log.Debug().Err(err).Msg("login error")
			return
		}
		c.state = stateConfiguration
		if err := c.finishConfiguration(); err != nil {
			return
		}
		c.state = statePlay
		s.enterPlay(c, id)
	}
}
