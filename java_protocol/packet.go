// Package java_protocol implements the Minecraft Java Edition wire protocol,
// version 1.15.2 (protocol number 578): the framed packet codec and the
// connection state machine built on top of it.
//
// > The Minecraft server accepts connections from TCP clients and communicates
// with them using packets. A packet is a sequence of bytes sent over the TCP
// connection. The meaning of a packet depends both on its packet ID and the
// current state of the connection (each state has its own packet ID space).
//
// See https://minecraft.wiki/w/Java_Edition_protocol/Packets
package java_protocol

import (
	"fmt"

	ns "github.com/go-mclib/protocol/net_structures"
)

// State is the phase a connection is in. Each state has its own packet ID
// space; it is never sent on the wire, only inferred from the Handshake
// packet and the Login Success / encryption transitions.
type State uint8

const (
	StateHandshake State = iota
	StateStatus
	StateLogin
	StatePlay
)

func (s State) String() string {
	switch s {
	case StateHandshake:
		return "Handshake"
	case StateStatus:
		return "Status"
	case StateLogin:
		return "Login"
	case StatePlay:
		return "Play"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Bound is the direction a packet travels.
type Bound uint8

const (
	// C2S: client -> server (serverbound).
	C2S Bound = iota
	// S2C: server -> client (clientbound).
	S2C
)

// Packet is a packet descriptor: its state, direction and ID, paired with
// its marshaled body once WithData has been called. Packet variables
// declared in the packets sub-package (e.g. C2SHandshakePacket) are bare
// descriptors; WithData produces a new value carrying encoded Data.
type Packet struct {
	State State
	Bound Bound
	ID    ns.VarInt
	Data  ns.ByteArray
}

// NewPacket returns a bare descriptor for a packet with no data attached.
func NewPacket(state State, bound Bound, id ns.VarInt) *Packet {
	return &Packet{State: state, Bound: bound, ID: id}
}

// WithData marshals data (a struct, using the `mc` struct-tag codec in
// packet_codec.go) and returns a new Packet carrying the ID of the
// receiver and the marshaled body.
func (p *Packet) WithData(data any) (*Packet, error) {
	body, err := PacketDataToBytes(data)
	if err != nil {
		return nil, fmt.Errorf("marshal packet 0x%02X: %w", p.ID, err)
	}
	return &Packet{State: p.State, Bound: p.Bound, ID: p.ID, Data: body}, nil
}

// ToBytes renders the full wire frame for this packet: length-prefixed,
// and zlib-compressed per the set-compression envelope when
// compressionThreshold >= 0. Use compressionThreshold < 0 to disable
// compression framing entirely.
//
// This is a convenience one-shot encoder for callers that don't hold a
// live StreamWriter (tests, synthetic responses); connections in the
// normal run loop go through StreamWriter directly so that encryption and
// insertion points are handled uniformly. See §4.5/§4.6.
func (p *Packet) ToBytes(compressionThreshold int) ([]byte, error) {
	var sink byteSink
	w := NewStreamWriter(&sink)
	if compressionThreshold >= 0 {
		w.SetCompressionThreshold(compressionThreshold)
	}

	idBytes, err := p.ID.ToBytes()
	if err != nil {
		return nil, err
	}

	pi := w.StartPacket()
	w.Append(idBytes)
	w.Append(p.Data)
	if err := w.CompletePacket(pi); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return sink.buf, nil
}

// byteSink is a minimal io.Writer accumulating bytes, used by ToBytes so it
// doesn't need a net.Conn or bytes.Buffer import just to render a frame.
type byteSink struct{ buf []byte }

func (s *byteSink) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

// Unknown represents an inbound packet whose ID is not recognized in the
// connection's current state. The connection itself never builds one:
// Handshake and Login reject an unexpected id with ErrInvalidTransition,
// while Status and Play skip its body (Play through the fixed switch in
// Connection.readLoop).
type Unknown struct {
	PacketID ns.VarInt
}
