package packets

import (
	jp "github.com/go-mclib/protocol/java_protocol"
	ns "github.com/go-mclib/protocol/net_structures"
)

// C2SClientSettingsPacket represents "Client Settings" (serverbound/play).
// Informational only: the connection skips the body without decoding or
// storing any of its fields.
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Client_Settings
var C2SClientSettingsPacket = jp.NewPacket(jp.StatePlay, jp.C2S, 0x0B)

type C2SClientSettingsPacketData struct {
	Locale             ns.String `mc:"length:16"`
	ViewDistance       ns.Byte
	ChatMode           ns.VarInt
	ChatColors         ns.Boolean
	DisplayedSkinParts ns.UnsignedByte
	MainHand           ns.VarInt
}

// C2SKeepAlivePlayPacket represents "Keep Alive (play)" (serverbound).
// The connection echoes the ID straight back via S2CKeepAlivePlayPacket.
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Keep_Alive_(play)
var C2SKeepAlivePlayPacket = jp.NewPacket(jp.StatePlay, jp.C2S, 0x14)

type C2SKeepAlivePlayPacketData struct {
	KeepAliveID ns.Long
}
