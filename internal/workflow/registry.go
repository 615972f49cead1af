package workflow

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
)

// Factory builds a per-tenant strategy instance. Construction is where the
// guard runs: factories must fail with a strategy-guard error when the
// tenant is not entitled to the variant.
type Factory func(ctx context.Context, tenantID uuid.UUID, deps Deps) (Strategy, error)

// Registry maps strategy keys to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry preloaded with the built-in variants.
func NewRegistry() *Registry {
	r := &Registry{factories: map[string]Factory{}}
	r.Register(KeyRiskTiered, NewRiskTiered)
	r.Register(KeyCategoryGated, NewCategoryGated)
	r.Register(KeyRenewalAlternation, NewRenewalAlternation)
	r.Register(KeyFlagNotify, NewFlagNotify)
	return r
}

// Register adds or replaces a factory under the given key.
func (r *Registry) Register(key string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[key] = factory
}

// Keys lists the registered strategy keys in stable order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.factories))
	for key := range r.factories {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// New constructs the keyed strategy for a tenant.
func (r *Registry) New(ctx context.Context, key string, tenantID uuid.UUID, deps Deps) (Strategy, error) {
	r.mu.RLock()
	factory, ok := r.factories[key]
	r.mu.RUnlock()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("unknown strategy key %q", key))
	}
	return factory(ctx, tenantID, deps)
}
