package packets

import (
	jp "github.com/go-mclib/protocol/java_protocol"
	ns "github.com/go-mclib/protocol/net_structures"
)

// S2CServerDifficultyPacket represents "Server Difficulty" (clientbound/play).
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Server_Difficulty
var S2CServerDifficultyPacket = jp.NewPacket(jp.StatePlay, jp.S2C, 0x0E)

type S2CServerDifficultyPacketData struct {
	// 0 Peaceful, 1 Easy, 2 Normal, 3 Hard.
	Difficulty ns.UnsignedByte
	Locked     ns.Boolean
}

// S2CPluginMessagePacket represents "Plugin Message (play)" (clientbound).
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Plugin_Message_(clientbound)
var S2CPluginMessagePacket = jp.NewPacket(jp.StatePlay, jp.S2C, 0x19)

type S2CPluginMessagePacketData struct {
	Channel ns.Identifier
	Data    ns.ByteArray
}

// S2CDisconnectPlayPacket represents "Disconnect (play)" (clientbound).
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Disconnect_(play)
var S2CDisconnectPlayPacket = jp.NewPacket(jp.StatePlay, jp.S2C, 0x1B)

type S2CDisconnectPlayPacketData struct {
	Reason ns.JSONTextComponent
}

// S2CKeepAlivePlayPacket represents "Keep Alive (play)" (clientbound):
// server-initiated, echoed by the client's C2SKeepAlivePlayPacket.
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Keep_Alive_(play)
var S2CKeepAlivePlayPacket = jp.NewPacket(jp.StatePlay, jp.S2C, 0x1F)

type S2CKeepAlivePlayPacketData struct {
	KeepAliveID ns.Long
}

// S2CChunkDataPacket represents "Chunk Data" (clientbound/play). The body
// is an opaque, already-framed blob: chunk encoding sits above this
// codec, so the field is exposed as raw bytes rather than decoded.
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Chunk_Data
var S2CChunkDataPacket = jp.NewPacket(jp.StatePlay, jp.S2C, 0x22)

type S2CChunkDataPacketData struct {
	Body ns.ByteArray
}

// S2CJoinGamePacket represents "Join Game" (clientbound/play).
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Join_Game
var S2CJoinGamePacket = jp.NewPacket(jp.StatePlay, jp.S2C, 0x26)

type S2CJoinGamePacketData struct {
	EntityID ns.Int
	// Low 2 bits: 0 Survival, 1 Creative, 2 Adventure, 3 Spectator.
	// Bit 0x08 set marks the world hardcore.
	GameMode            ns.UnsignedByte
	Dimension           ns.Int
	HashedSeed          ns.Long
	UnusedMaxPlayers    ns.UnsignedByte
	LevelType           ns.String
	ViewDistance        ns.VarInt
	ReduceDebugInfo     ns.Boolean
	EnableRespawnScreen ns.Boolean
}

// S2CPlayerPositionAndLookPacket represents "Player Position And Look"
// (clientbound/play).
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Player_Position_And_Look_(clientbound)
var S2CPlayerPositionAndLookPacket = jp.NewPacket(jp.StatePlay, jp.S2C, 0x36)

type S2CPlayerPositionAndLookPacketData struct {
	Position ns.Vec3
	Yaw      ns.Float
	Pitch    ns.Float
	// Bitmask: each set bit makes the corresponding field (X, Y, Z, Y_ROT,
	// X_ROT, in ascending bit order) relative instead of absolute.
	Flags      ns.UnsignedByte
	TeleportID ns.VarInt
}

// S2CHeldItemChangePacket represents "Held Item Change" (clientbound/play).
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Held_Item_Change_(clientbound)
var S2CHeldItemChangePacket = jp.NewPacket(jp.StatePlay, jp.S2C, 0x40)

type S2CHeldItemChangePacketData struct {
	Slot ns.UnsignedByte
}
