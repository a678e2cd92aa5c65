package server

import (
	"crypto/rsa"
	"fmt"
	"log"
	"net"
	"os"

	mcconfig "github.com/go-mclib/protocol/config"
	mccrypto "github.com/go-mclib/protocol/crypto"
	"github.com/go-mclib/protocol/java_protocol"
)

// Server accepts connections on a single TCP listener and drives each one
// through java_protocol.Connection on its own goroutine.
type Server struct {
	cfg          *mcconfig.Config
	privateKey   *rsa.PrivateKey
	publicKeyDER []byte
	registry     *Registry
	auth         *SessionAuthenticator
	logger       *log.Logger
}

// New loads the RSA key pair named in cfg.Security and returns a Server
// ready to Listen. Keys are PEM files generated out of band (see §11).
func New(cfg *mcconfig.Config) (*Server, error) {
	privatePEM, err := os.ReadFile(cfg.Security.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("server: read private key: %w", err)
	}
	publicPEM, err := os.ReadFile(cfg.Security.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("server: read public key: %w", err)
	}

	privateKey, err := mccrypto.ParseRSAPrivateKey(string(privatePEM))
	if err != nil {
		return nil, fmt.Errorf("server: parse private key: %w", err)
	}
	publicKey, err := mccrypto.ParseRSAPublicKey(string(publicPEM))
	if err != nil {
		return nil, fmt.Errorf("server: parse public key: %w", err)
	}
	publicKeyDER, err := mccrypto.ConvertPublicKeyToSPKI(publicKey)
	if err != nil {
		return nil, fmt.Errorf("server: encode public key: %w", err)
	}

	return &Server{
		cfg:          cfg,
		privateKey:   privateKey,
		publicKeyDER: publicKeyDER,
		registry:     NewRegistry(),
		auth:         NewSessionAuthenticator(),
		logger:       log.New(os.Stdout, "[server] ", log.LstdFlags),
	}, nil
}

// Listen binds the configured address and accepts connections until the
// listener is closed or accepting fails.
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.cfg.Network.IP, fmt.Sprintf("%d", s.cfg.Network.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	defer ln.Close()
	s.logger.Printf("listening on %s", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("server: accept: %w", err)
		}
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	c := java_protocol.NewConnection(conn, s.cfg, s.privateKey, s.publicKeyDER, s.auth, s.registry, s.logger)
	if err := c.Run(); err != nil {
		s.logger.Printf("connection from %s ended: %v", conn.RemoteAddr(), err)
	}
}
