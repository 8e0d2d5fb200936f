package gateway

import (
	"fmt"
	"sort"

	errs "github.com/researchlink/payment-processor/internal/domain/error"
	gatewayport "github.com/researchlink/payment-processor/internal/domain/port/gateway"
)

// Registry is the compile-time map from gateway name to adapter instance.
// It is built once at startup and never mutated afterwards, so lookups need
// no locking.
type Registry struct {
	adapters map[string]gatewayport.Adapter
}

// NewRegistry builds a registry from the given adapters
func NewRegistry(adapters ...gatewayport.Adapter) *Registry {
	r := &Registry{adapters: make(map[string]gatewayport.Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Name()] = a
	}
	return r
}

// Get resolves an adapter by name. Unknown names fail fast.
func (r *Registry) Get(name string) (gatewayport.Adapter, error) {
	adapter, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrGatewayNotFound, name)
	}
	return adapter, nil
}

// All returns every registered adapter in stable name order
func (r *Registry) All() []gatewayport.Adapter {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)

	adapters := make([]gatewayport.Adapter, 0, len(names))
	for _, name := range names {
		adapters = append(adapters, r.adapters[name])
	}
	return adapters
}
