package device

import "sync"

// Registry resolves terminal codes to their gateways. Terminals register at
// startup; lookups for unknown codes get an Unavailable gateway.
type Registry struct {
	mu       sync.RWMutex
	gateways map[string]Gateway
}

func NewRegistry() *Registry {
	return &Registry{gateways: make(map[string]Gateway)}
}

func (r *Registry) Register(atmCode string, gateway Gateway) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateways[atmCode] = gateway
}

func (r *Registry) GatewayFor(atmCode string) Gateway {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gateway, ok := r.gateways[atmCode]
	if !ok {
		return Unavailable{}
	}
	return gateway
}
