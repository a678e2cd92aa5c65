package session_server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-mclib/protocol/crypto"
)

// SessionServerClient talks to Mojang's session server to validate that a
// connecting player actually owns the account they claim, as the final step
// of the login encryption handshake (§4.9).
type SessionServerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewSessionServerClient creates a new session server client
func NewSessionServerClient() *SessionServerClient {
	return &SessionServerClient{
		baseURL: "https://sessionserver.mojang.com",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// HasJoinedRequest represents the request for /session/minecraft/hasJoined
type HasJoinedRequest struct {
	Username string `json:"username"`
	ServerID string `json:"serverId"`
	IP       string `json:"ip,omitempty"`
}

// HasJoinedResponse represents the response from /session/minecraft/hasJoined
type HasJoinedResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Properties []Property `json:"properties"`
}

// Property represents a profile property
type Property struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Signature string `json:"signature,omitempty"`
}

// ErrorResponse represents an error response from Mojang
type ErrorResponse struct {
	Error        string `json:"error"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	Path         string `json:"path,omitempty"`
}

func (e ErrorResponse) String() string {
	if e.ErrorMessage != "" {
		return fmt.Sprintf("%s: %s (path: %s)", e.Error, e.ErrorMessage, e.Path)
	}
	return fmt.Sprintf("%s (path: %s)", e.Error, e.Path)
}

// NewClientWithURL creates a new session server client with a custom base URL
func NewClientWithURL(baseURL string) *SessionServerClient {
	return &SessionServerClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// HasJoined checks if a user has joined a server
func (c *SessionServerClient) HasJoined(username, serverID string, ip ...string) (*HasJoinedResponse, error) {
	url := fmt.Sprintf("%s/session/minecraft/hasJoined?username=%s&serverId=%s",
		c.baseURL, username, serverID)

	if len(ip) > 0 && ip[0] != "" {
		url += "&ip=" + ip[0]
	}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create hasJoined request: %w", err)
	}
	req.Header.Set("User-Agent", "gomc-protocol/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send hasJoined request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == 204 {
		// user hasn't joined or session expired
		return nil, nil
	}

	if resp.StatusCode != 200 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("hasJoined failed: %s (status %d)", string(body), resp.StatusCode)
		}
		return nil, fmt.Errorf("hasJoined failed: %s (status %d)", errResp.String(), resp.StatusCode)
	}

	var hasJoinedResp HasJoinedResponse
	if err := json.Unmarshal(body, &hasJoinedResp); err != nil {
		return nil, fmt.Errorf("failed to parse hasJoined response: %w", err)
	}

	return &hasJoinedResp, nil
}

// ComputeServerHash is the "server hash" passed as serverId to hasJoined:
// SHA-1 of the server ID string, the shared secret and the DER-encoded
// public key, formatted per Mojang's signed-hex-digest convention.
func ComputeServerHash(serverID string, sharedSecret, publicKey []byte) string {
	hasher := crypto.NewMinecraftSHA1()

	hasher.Write([]byte(serverID))
	hasher.Write(sharedSecret)
	hasher.Write(publicKey)

	return hasher.HexDigest()
}
