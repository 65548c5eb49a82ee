// Package registry holds the static service registry and the round-robin
// balancer the gateway dispatches through. Membership is fixed for the
// process lifetime; there is no health state, so a dead endpoint stays in
// rotation and is simply selected again on the next pass.
package registry

import (
	"fmt"
	"net/url"
	"sync"
)

// Registry maps a service name to its ordered endpoint list.
type Registry map[string][]*url.URL

// New parses and validates the endpoint lists. An unknown or empty list is a
// configuration error: it fails here, at startup, never per request.
func New(services map[string][]string) (Registry, error) {
	reg := make(Registry, len(services))
	for name, endpoints := range services {
		if len(endpoints) == 0 {
			return nil, fmt.Errorf("registry: service %q has no endpoints", name)
		}
		parsed := make([]*url.URL, 0, len(endpoints))
		for _, e := range endpoints {
			u, err := url.Parse(e)
			if err != nil {
				return nil, fmt.Errorf("registry: invalid endpoint %q for service %q: %w", e, name, err)
			}
			if u.Scheme == "" || u.Host == "" {
				return nil, fmt.Errorf("registry: endpoint %q for service %q must be an absolute URL", e, name)
			}
			parsed = append(parsed, u)
		}
		reg[name] = parsed
	}
	return reg, nil
}

// Balancer selects endpoints round-robin. One cursor per service name,
// shared across every request to that service.
type Balancer struct {
	mu       sync.Mutex
	registry Registry
	cursors  map[string]uint64
}

func NewBalancer(reg Registry) *Balancer {
	return &Balancer{
		registry: reg,
		cursors:  make(map[string]uint64, len(reg)),
	}
}

// Next returns the next endpoint for the service in registration order and
// advances the shared cursor.
func (b *Balancer) Next(service string) (*url.URL, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	endpoints, ok := b.registry[service]
	if !ok {
		return nil, fmt.Errorf("registry: unknown service %q", service)
	}

	cursor := b.cursors[service]
	b.cursors[service] = cursor + 1
	return endpoints[cursor%uint64(len(endpoints))], nil
}
