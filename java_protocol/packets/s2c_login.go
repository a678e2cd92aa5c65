package packets

import (
	jp "github.com/go-mclib/protocol/java_protocol"
	ns "github.com/go-mclib/protocol/net_structures"
)

// S2CDisconnectLoginPacket represents "Disconnect (login)"
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Disconnect_(login)
var S2CDisconnectLoginPacket = jp.NewPacket(jp.StateLogin, jp.S2C, 0x00)

type S2CDisconnectLoginPacketData struct {
	Reason ns.JSONTextComponent
}

// S2CEncryptionRequestPacket represents "Encryption Request". ServerID is
// always empty at this protocol version; it exists only because vanilla
// clients expect a server_id field to be present on the wire.
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Encryption_Request
var S2CEncryptionRequestPacket = jp.NewPacket(jp.StateLogin, jp.S2C, 0x01)

type S2CEncryptionRequestPacketData struct {
	ServerID    ns.String
	PublicKey   ns.PrefixedByteArray
	VerifyToken ns.PrefixedByteArray
}

// S2CLoginSuccessPacket represents "Login Success"
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Login_Success
var S2CLoginSuccessPacket = jp.NewPacket(jp.StateLogin, jp.S2C, 0x02)

type S2CLoginSuccessPacketData struct {
	UUID     ns.UUID
	Username ns.String
}

// S2CSetCompressionPacket represents "Set Compression"
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Set_Compression
var S2CSetCompressionPacket = jp.NewPacket(jp.StateLogin, jp.S2C, 0x03)

type S2CSetCompressionPacketData struct {
	Threshold ns.VarInt
}
