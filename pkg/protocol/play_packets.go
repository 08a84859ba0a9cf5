package protocol

import "bytes"

// LoginInfo carries the fields the Login (join-game) packet needs beyond
// the fixed constants vanilla always sends for this server (single
// overworld dimension, no limited crafting, sea level 0).
type LoginInfo struct {
	EntityID      int32
	Hardcore      bool
	MaxPlayers    int32
	ViewDistance  int32
	SimDistance   int32
	ReducedDebug  bool
	RespawnScreen bool
	HashedSeed    int64
	Gamemode      byte
	PrevGamemode  byte
	IsDebug       bool
	IsFlat        bool
	HasDeathLoc   bool
	SecureChat    bool
}

const overworldDimName = "minecraft:overworld"

// EncodeLogin builds the bit-exact Login packet payload.
func EncodeLogin(info LoginInfo) []byte {
	var body bytes.Buffer
	WriteInt32(&body, info.EntityID)
	WriteBool(&body, info.Hardcore)
	WriteVarInt(&body, 1) // dims
	WriteString(&body, overworldDimName)
	WriteVarInt(&body, info.MaxPlayers)
	WriteVarInt(&body, info.ViewDistance)
	WriteVarInt(&body, info.SimDistance)
	WriteBool(&body, info.ReducedDebug)
	WriteBool(&body, info.RespawnScreen)
	WriteVarInt(&body, 0) // limited_crafting
	WriteVarInt(&body, 0) // dim_type
	WriteString(&body, overworldDimName)
	WriteInt64(&body, info.HashedSeed)
	WriteByte(&body, info.Gamemode)
	WriteByte(&body, info.PrevGamemode)
	WriteBool(&body, info.IsDebug)
	WriteBool(&body, info.IsFlat)
	WriteBool(&body, info.HasDeathLoc)
	WriteVarInt(&body, 0) // portal_cooldown
	WriteVarInt(&body, 0) // sea_level
	WriteBool(&body, info.SecureChat)
	return rawPacket(PacketIDLogin, body.Bytes())
}

// EncodeSynchronizePlayerPos builds the teleport packet that pins down an
// authoritative position; velocity, yaw, pitch and flags are zeroed since
// this server only uses it at spawn and after generation catches up.
func EncodeSynchronizePlayerPos(teleportID int32, x, y, z float64) []byte {
	var body bytes.Buffer
	WriteVarInt(&body, teleportID)
	WriteFloat64(&body, x)
	WriteFloat64(&body, y)
	WriteFloat64(&body, z)
	WriteInt64(&body, 0) // velocity x
	WriteInt64(&body, 0) // velocity y
	WriteInt64(&body, 0) // velocity z
	WriteInt32(&body, 0) // yaw
	WriteInt32(&body, 0) // pitch
	WriteInt32(&body, 0) // flags
	return rawPacket(PacketIDSynchronizePlayerPos, body.Bytes())
}
