// Package packets holds the per-state packet descriptors and their field
// layouts for protocol 578, split into one file per (direction, state)
// pair, matching the teacher's own packets/ layout convention.
package packets

import (
	jp "github.com/go-mclib/protocol/java_protocol"
	ns "github.com/go-mclib/protocol/net_structures"
)

// Next-state values carried by Handshake; 0x03 (Transfer) does not exist
// at protocol 578 and is intentionally absent.
const (
	NextStateStatus ns.VarInt = 1
	NextStateLogin  ns.VarInt = 2
)

// C2SHandshakePacket represents "Handshake" (serverbound, open state).
//
// > This packet causes the server to switch into the target state. It
// should be sent right after opening the TCP connection.
var C2SHandshakePacket = jp.NewPacket(jp.StateHandshake, jp.C2S, 0x00)

type C2SHandshakePacketData struct {
	ProtocolVersion ns.VarInt
	ServerAddress   ns.String `mc:"length:255"`
	ServerPort      ns.UnsignedShort
	NextState       ns.VarInt
}
