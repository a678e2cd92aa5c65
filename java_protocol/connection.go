package java_protocol

import (
	"crypto/aes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"net"

	"github.com/go-mclib/protocol/config"
	"github.com/go-mclib/protocol/crypto"
	"github.com/go-mclib/protocol/java_protocol/packets"
	ns "github.com/go-mclib/protocol/net_structures"
)

// PlayerAuthenticator validates a completed encryption handshake against
// an external identity provider (Mojang's session server, in production),
// returning the canonical identity to use for the session. See §6.
type PlayerAuthenticator interface {
	PlayerAuthenticated(name, serverID string, sharedSecret, publicKeyDER []byte) (uuid, canonicalName string, err error)
}

// PlayerRegistry tracks which players currently occupy the world. The
// codec has no persistence or simulation of its own (§1 Non-goals); this
// is the minimal seam a real server hangs gameplay state off of.
type PlayerRegistry interface {
	Join(name, uuid string) error
	Leave(name string)
}

// httpOK is the fixed HTTP/1.1 response emitted for the Open
// state's HttpOK probe-compatibility path (§4.9): a browser or monitoring
// tool that connects and sends a raw HTTP request gets a real HTTP
// response instead of being held open waiting for a Handshake packet.
const httpOK = "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nConnection: close\r\n\r\nThis is a Minecraft server, not an HTTP server.\r\n"

// Connection runs the per-connection state machine described in §4.9,
// from the initial Handshake through to draining the outbox in
// RunningGame. One Connection is created per accepted net.Conn and is
// exclusively owned by the goroutine that calls Run.
type Connection struct {
	conn   net.Conn
	reader *StreamReader
	writer *StreamWriter
	state  State

	cfg          *config.Config
	privateKey   *rsa.PrivateKey
	publicKeyDER []byte

	auth     PlayerAuthenticator
	registry PlayerRegistry

	logger *log.Logger

	version     int32
	playerName  string
	verifyToken []byte
	playerUUID  string

	// Outbox carries server-initiated messages (keep-alives, broadcasts)
	// to the write side without the read loop ever blocking on them.
	Outbox chan *Packet
}

// PlayerUUID returns the authenticated player's UUID, valid once Run has
// advanced past Login into RunningGame.
func (c *Connection) PlayerUUID() string {
	return c.playerUUID
}

// PlayerName returns the player's canonical (Mojang-cased) username, valid
// once Run has advanced past Login into RunningGame.
func (c *Connection) PlayerName() string {
	return c.playerName
}

func (c *Connection) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	} else {
		log.Printf(format, args...)
	}
}

// NewConnection wires a freshly accepted net.Conn into the state machine.
func NewConnection(conn net.Conn, cfg *config.Config, privateKey *rsa.PrivateKey, publicKeyDER []byte, auth PlayerAuthenticator, registry PlayerRegistry, logger *log.Logger) *Connection {
	return &Connection{
		conn:         conn,
		reader:       NewStreamReader(conn),
		writer:       NewStreamWriter(conn),
		state:        StateHandshake,
		cfg:          cfg,
		privateKey:   privateKey,
		publicKeyDER: publicKeyDER,
		auth:         auth,
		registry:     registry,
		logger:       logger,
		Outbox:       make(chan *Packet, 32),
	}
}

// Run drives the connection to completion: Open through Status or Login,
// and for Login, through the encryption handshake into RunningGame. It
// returns nil after answering an HTTP probe or when the exchange ends
// without error before Play. In RunningGame a closed Outbox yields
// ErrServerClosing; any other return is the error that terminated the
// connection (ErrEndOfData when the peer closed it).
func (c *Connection) Run() error {
	defer c.conn.Close()
	c.logf("connection opened: %s", c.conn.RemoteAddr())

	prefix, err := c.reader.PeekPrefix(4)
	if err != nil {
		return err
	}
	if string(prefix) == "GET " {
		_, err := io.WriteString(c.conn, httpOK)
		return err
	}

	if err := c.runHandshake(); err != nil {
		return c.disconnect(err)
	}

	switch c.state {
	case StateStatus:
		err = c.runStatus()
	case StateLogin:
		err = c.runLogin()
	}
	if err != nil {
		return c.disconnect(err)
	}

	if c.state != StatePlay {
		return nil
	}
	return c.disconnect(c.runGame())
}

// disconnect sends a best-effort Disconnect packet in the form the
// current state expects before returning the original error; err is
// returned unchanged (or nil) so callers can propagate it.
func (c *Connection) disconnect(err error) error {
	if err == nil || errors.Is(err, ErrServerClosing) || errors.Is(err, ErrEndOfData) {
		c.logf("connection closed: %s", c.conn.RemoteAddr())
		return err
	}
	c.logf("connection closed: %s: %v", c.conn.RemoteAddr(), err)

	reason := ns.JSONTextComponent{"text": err.Error()}
	switch c.state {
	case StateLogin:
		pkt, marshalErr := packets.S2CDisconnectLoginPacket.WithData(packets.S2CDisconnectLoginPacketData{Reason: reason})
		if marshalErr == nil {
			_ = c.send(pkt)
		}
	case StatePlay:
		pkt, marshalErr := packets.S2CDisconnectPlayPacket.WithData(packets.S2CDisconnectPlayPacketData{Reason: reason})
		if marshalErr == nil {
			_ = c.send(pkt)
		}
	}
	return err
}

func (c *Connection) runHandshake() error {
	id, err := c.reader.PacketHeader()
	if err != nil {
		return err
	}
	if ns.VarInt(id) != packets.C2SHandshakePacket.ID {
		return fmt.Errorf("%w: expected Handshake, got 0x%02X", ErrInvalidTransition, id)
	}

	body, err := c.reader.ReadBody()
	if err != nil {
		return err
	}
	var data packets.C2SHandshakePacketData
	if err := BytesToPacketData(body, &data); err != nil {
		return err
	}

	c.version = int32(data.ProtocolVersion)

	switch data.NextState {
	case packets.NextStateStatus:
		c.state = StateStatus
	case packets.NextStateLogin:
		c.state = StateLogin
	default:
		return fmt.Errorf("%w: next_state %d", ErrInvalidState, data.NextState)
	}
	return nil
}

func (c *Connection) runStatus() error {
	for {
		id, err := c.reader.PacketHeader()
		if err != nil {
			return err
		}

		switch ns.VarInt(id) {
		case packets.C2SStatusRequestPacket.ID:
			if err := c.reader.ConsumeRemainder(); err != nil {
				return err
			}
			if err := c.sendStatusResponse(); err != nil {
				return err
			}
		case packets.C2SPingRequestPacket.ID:
			body, err := c.reader.ReadBody()
			if err != nil {
				return err
			}
			var ping packets.C2SPingRequestPacketData
			if err := BytesToPacketData(body, &ping); err != nil {
				return err
			}
			pong, err := packets.S2CPongResponseStatusPacket.WithData(packets.S2CPongResponseStatusPacketData{Payload: ping.Timestamp})
			if err != nil {
				return err
			}
			if err := c.send(pong); err != nil {
				return err
			}
		default:
			if err := c.reader.ConsumeRemainder(); err != nil {
				return err
			}
		}
	}
}

func (c *Connection) sendStatusResponse() error {
	body := fmt.Sprintf(
		`{"version":{"name":"1.15.2","protocol":578},"players":{"max":%d,"online":0},"description":{"text":%q}}`,
		c.cfg.Game.MaxPlayers, c.cfg.Network.Motd,
	)
	pkt, err := packets.S2CStatusResponsePacket.WithData(packets.S2CStatusResponsePacketData{JSON: ns.String(body)})
	if err != nil {
		return err
	}
	return c.send(pkt)
}

func (c *Connection) runLogin() error {
	id, err := c.reader.PacketHeader()
	if err != nil {
		return err
	}
	if ns.VarInt(id) != packets.C2SLoginStartPacket.ID {
		return fmt.Errorf("%w: expected Login Start, got 0x%02X", ErrInvalidTransition, id)
	}
	body, err := c.reader.ReadBody()
	if err != nil {
		return err
	}
	var start packets.C2SLoginStartPacketData
	if err := BytesToPacketData(body, &start); err != nil {
		return err
	}
	c.playerName = string(start.Name)

	if c.version != 578 {
		return fmt.Errorf("%w: client reports protocol %d", ErrUnsupportedVersion, c.version)
	}

	c.verifyToken = make([]byte, 16)
	if _, err := rand.Read(c.verifyToken); err != nil {
		return fmt.Errorf("generate verify token: %w", err)
	}

	encReq, err := packets.S2CEncryptionRequestPacket.WithData(packets.S2CEncryptionRequestPacketData{
		ServerID:    "",
		PublicKey:   ns.PrefixedByteArray(c.publicKeyDER),
		VerifyToken: ns.PrefixedByteArray(c.verifyToken),
	})
	if err != nil {
		return err
	}
	if err := c.send(encReq); err != nil {
		return err
	}

	id, err = c.reader.PacketHeader()
	if err != nil {
		return err
	}
	if ns.VarInt(id) != packets.C2SEncryptionResponsePacket.ID {
		return fmt.Errorf("%w: expected Encryption Response, got 0x%02X", ErrInvalidTransition, id)
	}
	body, err = c.reader.ReadBody()
	if err != nil {
		return err
	}
	var encResp packets.C2SEncryptionResponsePacketData
	if err := BytesToPacketData(body, &encResp); err != nil {
		return err
	}

	sharedSecret, err := c.completeEncryptionHandshake(encResp)
	if err != nil {
		return err
	}

	uuid, canonicalName, err := c.auth.PlayerAuthenticated(c.playerName, "", sharedSecret, c.publicKeyDER)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	c.playerUUID = uuid
	c.playerName = canonicalName

	if c.cfg.Network.CompressionThreshold >= 0 {
		setComp, err := packets.S2CSetCompressionPacket.WithData(packets.S2CSetCompressionPacketData{
			Threshold: ns.VarInt(c.cfg.Network.CompressionThreshold),
		})
		if err != nil {
			return err
		}
		if err := c.send(setComp); err != nil {
			return err
		}
		c.reader.SetCompressionEnabled(true)
		c.writer.SetCompressionThreshold(c.cfg.Network.CompressionThreshold)
	}

	uuidBytes, err := ns.NewUUID(uuid)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	success, err := packets.S2CLoginSuccessPacket.WithData(packets.S2CLoginSuccessPacketData{
		UUID:     uuidBytes,
		Username: ns.String(c.playerName),
	})
	if err != nil {
		return err
	}
	if err := c.send(success); err != nil {
		return err
	}

	if err := c.registry.Join(c.playerName, uuid); err != nil {
		return err
	}

	c.logf("%s (%s) joined", c.playerName, c.playerUUID)
	c.state = StatePlay
	return nil
}

// completeEncryptionHandshake validates the client's encrypted verify
// token against the one the server issued, derives the shared secret,
// and arms both the reader and writer with independent AES-128-CFB8
// ciphers keyed (and IV'd) by that secret. See §4.9.
func (c *Connection) completeEncryptionHandshake(resp packets.C2SEncryptionResponsePacketData) ([]byte, error) {
	decryptedVerifier, err := rsa.DecryptPKCS1v15(rand.Reader, c.privateKey, resp.VerifyToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVerifier, err)
	}
	if len(decryptedVerifier) < len(c.verifyToken) {
		return nil, ErrInvalidVerifier
	}
	tail := decryptedVerifier[len(decryptedVerifier)-len(c.verifyToken):]
	if subtle.ConstantTimeCompare(tail, c.verifyToken) != 1 {
		return nil, ErrInvalidVerifier
	}

	decryptedSecret, err := rsa.DecryptPKCS1v15(rand.Reader, c.privateKey, resp.SharedSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(decryptedSecret) < 16 {
		return nil, ErrInvalidKey
	}
	sharedSecret := decryptedSecret[len(decryptedSecret)-16:]

	block, err := aes.NewCipher(sharedSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	c.reader.Decrypt(crypto.NewDecryptStream(block, sharedSecret))
	c.writer.Encrypt(crypto.NewEncryptStream(block, sharedSecret))

	return sharedSecret, nil
}

// runGame implements RunningGame: send the initial join sequence, then
// alternate between draining the outbox and handling inbound packets
// until the connection closes.
func (c *Connection) runGame() error {
	if err := c.sendJoinSequence(); err != nil {
		return err
	}

	inbound := make(chan error, 1)
	go c.readLoop(inbound)

	for {
		select {
		case pkt, ok := <-c.Outbox:
			if !ok {
				return ErrServerClosing
			}
			if err := c.send(pkt); err != nil {
				return err
			}
		case err := <-inbound:
			return err
		}
	}
}

func (c *Connection) readLoop(done chan<- error) {
	for {
		id, err := c.reader.PacketHeader()
		if err != nil {
			done <- err
			return
		}

		switch ns.VarInt(id) {
		case packets.C2SKeepAlivePlayPacket.ID:
			body, err := c.reader.ReadBody()
			if err != nil {
				done <- err
				return
			}
			var ka packets.C2SKeepAlivePlayPacketData
			if err := BytesToPacketData(body, &ka); err != nil {
				done <- err
				return
			}
			echo, err := packets.S2CKeepAlivePlayPacket.WithData(packets.S2CKeepAlivePlayPacketData{KeepAliveID: ka.KeepAliveID})
			if err != nil {
				done <- err
				return
			}
			// Queued on the Outbox rather than sent directly: the writer
			// is only ever touched by runGame's select loop.
			c.Outbox <- echo
		case packets.C2SClientSettingsPacket.ID:
			if err := c.reader.ConsumeRemainder(); err != nil {
				done <- err
				return
			}
		default:
			if err := c.reader.ConsumeRemainder(); err != nil {
				done <- err
				return
			}
		}
	}
}

func (c *Connection) sendJoinSequence() error {
	gameMode := byte(c.cfg.Game.GameMode & 0x03)
	if c.cfg.Game.Hardcore {
		gameMode |= 0x08
	}

	join, err := packets.S2CJoinGamePacket.WithData(packets.S2CJoinGamePacketData{
		EntityID:            1,
		GameMode:            ns.UnsignedByte(gameMode),
		Dimension:           0,
		HashedSeed:          ns.Long(hashSeed(c.cfg.Game.Seed)),
		UnusedMaxPlayers:    0,
		LevelType:           "default",
		ViewDistance:        ns.VarInt(c.cfg.Game.ViewDistance),
		ReduceDebugInfo:     ns.Boolean(c.cfg.Game.ReduceDebugInfo),
		EnableRespawnScreen: ns.Boolean(c.cfg.Game.EnableRespawnScreen),
	})
	if err != nil {
		return err
	}
	if err := c.send(join); err != nil {
		return err
	}

	diff, err := packets.S2CServerDifficultyPacket.WithData(packets.S2CServerDifficultyPacketData{
		Difficulty: ns.UnsignedByte(c.cfg.Game.Difficulty),
		Locked:     false,
	})
	if err != nil {
		return err
	}
	if err := c.send(diff); err != nil {
		return err
	}

	spawn, err := packets.S2CPlayerPositionAndLookPacket.WithData(packets.S2CPlayerPositionAndLookPacketData{
		Position:   ns.Vec3{X: 0, Y: 64, Z: 0},
		Yaw:        0,
		Pitch:      0,
		Flags:      0,
		TeleportID: 0,
	})
	if err != nil {
		return err
	}
	return c.send(spawn)
}

// send renders pkt through the StreamWriter, applying the connection's
// current compression and encryption settings, and flushes it to the
// wire. Packet writes are serialized by being called only from the
// goroutine that owns this Connection (the read loop only reads).
func (c *Connection) send(pkt *Packet) error {
	idBytes, err := pkt.ID.ToBytes()
	if err != nil {
		return err
	}
	pi := c.writer.StartPacket()
	c.writer.Append(idBytes)
	c.writer.Append(pkt.Data)
	if err := c.writer.CompletePacket(pi); err != nil {
		return err
	}
	return c.writer.Flush()
}

// hashSeed derives a 64-bit world seed from arbitrary configuration text
// (§6): the first 8 bytes of its SHA-1 digest, big-endian. This is an
// ordinary hash, unrelated to the Mojang-specific signed server-hash
// format crypto.MinecraftSHA1 implements for the join handshake.
func hashSeed(text string) int64 {
	sum := sha1.Sum([]byte(text))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}
