package java_protocol

import "errors"

// Error kinds propagated up the connection state machine. Every error in
// this codec is fatal to the connection: there is no in-band recovery
// protocol in the Minecraft wire format, only disconnection with a reason.
var (
	// ErrEndOfData is returned when the byte source closes mid-frame.
	ErrEndOfData = errors.New("java_protocol: end of data")
	// ErrReadPastPacket is returned when a field read would consume more
	// bytes than remain in the current packet body.
	ErrReadPastPacket = errors.New("java_protocol: read past packet boundary")
	// ErrInvalidLengthPrefix is returned for a negative or over-bound
	// length-prefixed field.
	ErrInvalidLengthPrefix = errors.New("java_protocol: invalid length prefix")
	// ErrLengthTooLarge is returned when a write-side length would exceed
	// what a VarInt32 can represent.
	ErrLengthTooLarge = errors.New("java_protocol: encoded length too large")
	// ErrInvalidVarint is returned when a varint continues past its type
	// width without terminating.
	ErrInvalidVarint = errors.New("java_protocol: invalid varint")
	// ErrInvalidString is returned when a string field is not valid UTF-8.
	ErrInvalidString = errors.New("java_protocol: invalid utf-8 string")
	// ErrCompressedDataTooLarge is returned when an inflated packet body
	// exceeds its declared uncompressed length.
	ErrCompressedDataTooLarge = errors.New("java_protocol: compressed data too large")
	// ErrInvalidState is returned when a Handshake's next_state is
	// neither Status (1) nor Login (2).
	ErrInvalidState = errors.New("java_protocol: invalid next_state")
	// ErrInvalidKey is returned when the login RSA key material is malformed.
	ErrInvalidKey = errors.New("java_protocol: invalid key")
	// ErrInvalidVerifier is returned when the decrypted verify token does
	// not match the one the server issued.
	ErrInvalidVerifier = errors.New("java_protocol: invalid verify token")
	// ErrAuthenticationFailed is returned when the session-server
	// hasJoined check fails.
	ErrAuthenticationFailed = errors.New("java_protocol: authentication failed")
	// ErrUnsupportedVersion is returned when the Handshake's protocol
	// version is not 578.
	ErrUnsupportedVersion = errors.New("java_protocol: unsupported protocol version")
	// ErrUnknownPacketType is returned when a packet ID has no registered
	// handler in a state where unknown IDs are fatal.
	ErrUnknownPacketType = errors.New("java_protocol: unknown packet type")
	// ErrInvalidTransition is returned when a packet arrives in a state
	// that does not expect it.
	ErrInvalidTransition = errors.New("java_protocol: invalid state transition")
	// ErrServerClosing is returned when the connection's outbox channel
	// closes, signalling a clean server-initiated shutdown.
	ErrServerClosing = errors.New("java_protocol: server closing")
)
