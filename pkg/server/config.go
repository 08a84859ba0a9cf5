package server

import "github.com/StoreStation/VibeShitCraft/internal/stream"

// Config holds server configuration: everything spec §1 treats as an
// external collaborator (flag/file parsing, EULA, asset download) lives
// outside this package; Config is just the resulting values.
type Config struct {
	Address              string
	MaxPlayers           int
	MOTD                 string
	Seed                 int64
	ViewDistance         int32
	LevelDir             string // world save directory; region files live under LevelDir+"/region"
	AssetsDir            string
	CompressionThreshold int32 // protocol.CompressionThresholdDisabled to turn compression off
	OnlineMode           bool  // whether to run the RSA encryption handshake
	RegionCacheCapacity  int
	NumShards            int
}

// DefaultConfig returns a default server configuration.
func DefaultConfig() Config {
	return Config{
		Address:              ":25565",
		MaxPlayers:           20,
		MOTD:                 "A VibeShitCraft Server",
		ViewDistance:         7,
		LevelDir:             "world",
		AssetsDir:            "assets",
		CompressionThreshold: 256,
		OnlineMode:           false,
		RegionCacheCapacity:  32,
		NumShards:            stream.DefaultShardCount,
	}
}
