package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/internal/tenants"
	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
)

// Resolver picks and constructs the strategy instance for a tenant.
type Resolver interface {
	ResolveForTenant(ctx context.Context, tenantID uuid.UUID) (Strategy, error)
}

type resolver struct {
	tenantRepo tenants.Repository
	registry   *Registry
	deps       Deps
}

// NewResolver wires a strategy resolver.
func NewResolver(tenantRepo tenants.Repository, registry *Registry, deps Deps) (Resolver, error) {
	if tenantRepo == nil || registry == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "tenant repository and registry required")
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	return &resolver{tenantRepo: tenantRepo, registry: registry, deps: deps}, nil
}

// ResolveForTenant returns the tenant's bound strategy. Tenants without a
// binding, with an unknown key, or whose strategy refuses its guard all get
// the noop strategy; only infrastructure failures surface as errors.
func (r *resolver) ResolveForTenant(ctx context.Context, tenantID uuid.UUID) (Strategy, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	ctx = r.deps.Logger.WithTenantID(ctx, tenantID.String())

	binding, err := r.tenantRepo.StrategyBinding(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading strategy binding")
	}
	if binding == nil {
		return NewNoop(tenantID), nil
	}

	strategy, err := r.registry.New(ctx, binding.StrategyKey, tenantID, r.deps)
	if err != nil {
		switch {
		case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
			r.deps.Logger.Warn(ctx, fmt.Sprintf("unknown strategy key %q bound, using noop", binding.StrategyKey))
			return NewNoop(tenantID), nil
		case pkgerrors.IsCode(err, pkgerrors.CodeStrategyGuard):
			r.deps.Logger.Warn(ctx, fmt.Sprintf("strategy %q guard refused tenant, using noop", binding.StrategyKey))
			return NewNoop(tenantID), nil
		default:
			return nil, err
		}
	}
	return strategy, nil
}
