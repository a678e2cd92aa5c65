package server

import (
	"fmt"

	"github.com/go-mclib/protocol/java_protocol/session_server"
)

// SessionAuthenticator implements java_protocol.PlayerAuthenticator against
// Mojang's session server: it recomputes the server hash the client was
// asked to sign and asks the session server whether that player actually
// holds the account they claim (§4.9, §6).
type SessionAuthenticator struct {
	client *session_server.SessionServerClient
}

// NewSessionAuthenticator returns an authenticator backed by the default
// session-server endpoint.
func NewSessionAuthenticator() *SessionAuthenticator {
	return &SessionAuthenticator{client: session_server.NewSessionServerClient()}
}

// PlayerAuthenticated recomputes the signed server hash from the shared
// secret and server public key and validates it with the session server.
func (a *SessionAuthenticator) PlayerAuthenticated(name, serverID string, sharedSecret, publicKeyDER []byte) (uuid, canonicalName string, err error) {
	hash := session_server.ComputeServerHash(serverID, sharedSecret, publicKeyDER)

	resp, err := a.client.HasJoined(name, hash)
	if err != nil {
		return "", "", fmt.Errorf("session server: %w", err)
	}
	if resp == nil {
		return "", "", fmt.Errorf("session server: %s has not joined", name)
	}
	return resp.ID, resp.Name, nil
}
