package peer

import (
	"github.com/uncaged-coder/echogit/pkg/config"
)

// Registry holds the single Peer instance of every configured peer.
type Registry struct {
	peers  []*Peer
	byName map[string]*Peer
}

// NewRegistry creates a Peer for each peer declared in `local`, in
// declaration order.
func NewRegistry(local *config.Local, remote RemoteExecutor, opts ...Option) *Registry {
	r := &Registry{byName: map[string]*Peer{}}
	for _, spec := range local.Peers {
		p := New(spec, local, remote, opts...)
		r.peers = append(r.peers, p)
		r.byName[spec.Name] = p
	}
	return r
}

// Get returns the peer named `name`.
func (r *Registry) Get(name string) (*Peer, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Names returns the names of the peers in declaration order.
func (r *Registry) Names() []string {
	var names []string
	for _, p := range r.peers {
		names = append(names, p.name)
	}
	return names
}

// All returns the peers in declaration order.
func (r *Registry) All() []*Peer {
	return r.peers
}
