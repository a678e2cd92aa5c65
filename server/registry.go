// Package server ties the protocol codec together into a runnable
// listener: it owns the RSA key pair, the player registry and the
// session-server authenticator that java_protocol.Connection depends on.
package server

import (
	"fmt"
	"sync"
)

// Registry is a minimal in-process PlayerRegistry: a mutex-guarded table
// of currently connected players, keyed by name. A real deployment would
// back this with whatever world/session store it already has; the codec
// itself has no persistence of its own.
type Registry struct {
	mu      sync.Mutex
	players map[string]string // name -> uuid
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{players: make(map[string]string)}
}

// Join records name as occupying the world under uuid, rejecting a
// second login under a name already present.
func (r *Registry) Join(name, uuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.players[name]; exists {
		return fmt.Errorf("player %q already connected", name)
	}
	r.players[name] = uuid
	return nil
}

// Leave removes name from the registry, if present.
func (r *Registry) Leave(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, name)
}

// Count returns the number of players currently registered.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}
