package packets

// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Login

import (
	jp "github.com/go-mclib/protocol/java_protocol"
	ns "github.com/go-mclib/protocol/net_structures"
)

// C2SLoginStartPacket represents "Login Start" (serverbound/login).
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Login_Start
var C2SLoginStartPacket = jp.NewPacket(jp.StateLogin, jp.C2S, 0x00)

type C2SLoginStartPacketData struct {
	// Player's username.
	Name ns.String `mc:"length:16"`
}

// C2SEncryptionResponsePacket represents "Encryption Response"
// (serverbound/login).
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Encryption_Response
// https://minecraft.wiki/w/Protocol_encryption
var C2SEncryptionResponsePacket = jp.NewPacket(jp.StateLogin, jp.C2S, 0x01)

type C2SEncryptionResponsePacketData struct {
	// Shared Secret value, encrypted with the server's public key.
	SharedSecret ns.PrefixedByteArray
	// Verify Token value, encrypted with the same public key as the shared secret.
	VerifyToken ns.PrefixedByteArray
}
