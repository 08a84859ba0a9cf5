package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/StoreStation/VibeShitCraft/internal/config"
	"github.com/StoreStation/VibeShitCraft/pkg/server"
)

// propertiesPathFromArgs scans argv for -properties/--properties before the
// full flag set (which depends on the properties file for its defaults) is
// registered, so an unrecognized flag at this stage can't abort startup.
func propertiesPathFromArgs(args []string) string {
	const defaultPath = "server.properties"
	for i, arg := range args {
		name := strings.TrimLeft(arg, "-")
		if name == arg { // no leading dash, not a flag
			continue
		}
		if val, ok := strings.CutPrefix(name, "properties="); ok {
			return val
		}
		if name == "properties" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return defaultPath
}

func main() {
	propsPath := propertiesPathFromArgs(os.Args[1:])
	props, err := config.Load(propsPath)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", propsPath, err)
	}
	def := server.DefaultConfig()

	flag.String("properties", propsPath, "server.properties file (missing file uses flag defaults)")
	address := flag.String("address", props.String("server-ip", "")+":"+props.String("server-port", "25565"), "Server address to listen on")
	maxPlayers := flag.Int("max-players", props.Int("max-players", def.MaxPlayers), "Maximum number of players")
	motd := flag.String("motd", props.String("motd", def.MOTD), "Server MOTD")
	seed := flag.Int64("seed", props.Int64("level-seed", def.Seed), "World seed (0 = random)")
	viewDistance := flag.Int("view-distance", props.Int("view-distance", int(def.ViewDistance)), "Chunk view distance")
	levelDir := flag.String("level-dir", props.String("level-name", def.LevelDir), "World save directory (contains a region/ subfolder)")
	assetsDir := flag.String("assets-dir", props.String("assets-dir", def.AssetsDir), "Block/biome mapping asset directory")
	compressionThreshold := flag.Int("compression-threshold", props.Int("network-compression-threshold", int(def.CompressionThreshold)), "Packet compression threshold in bytes (-1 disables)")
	onlineMode := flag.Bool("online-mode", props.Bool("online-mode", def.OnlineMode), "Require the RSA encryption handshake")
	regionCacheCapacity := flag.Int("region-cache-capacity", def.RegionCacheCapacity, "Region cache capacity (must exceed shard count)")
	shards := flag.Int("shards", def.NumShards, "Chunk streaming shard count")
	flag.Parse()

	cfg := server.Config{
		Address:              *address,
		MaxPlayers:           *maxPlayers,
		MOTD:                 *motd,
		Seed:                 *seed,
		ViewDistance:         int32(*viewDistance),
		LevelDir:             *levelDir,
		AssetsDir:            *assetsDir,
		CompressionThreshold: int32(*compressionThreshold),
		OnlineMode:           *onlineMode,
		RegionCacheCapacity:  *regionCacheCapacity,
		NumShards:            *shards,
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}
	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Printf("VibeShitCraft server started (Minecraft 1.21.6, Protocol 771)")
	log.Printf("Address: %s | Max Players: %d", cfg.Address, cfg.MaxPlayers)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Shutting down server (received signal: %v)...", sig)
	case <-srv.StopChan():
		log.Println("Shutting down server (internal)...")
	}

	srv.Stop()
	log.Println("Server stopped.")
}
