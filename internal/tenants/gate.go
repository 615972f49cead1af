package tenants

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
	"github.com/oharrington/thirdline-backend/pkg/enums"
)

// Gate answers capability questions about tenants: coarse feature flags and
// fine-grained numbered workflow events. All queries are pure reads.
type Gate interface {
	TenantHasWorkflow(ctx context.Context, tenantID uuid.UUID) (bool, error)
	TenantHasFeature(ctx context.Context, tenantID uuid.UUID, feature enums.TenantFeature) (bool, error)
	TenantHasEvent(ctx context.Context, tenantID uuid.UUID, event enums.WorkflowEvent) (bool, error)
	TenantHasEvents(ctx context.Context, tenantID uuid.UUID, events ...enums.WorkflowEvent) (bool, error)
	Snapshot(ctx context.Context, tenantID uuid.UUID) (*Entitlements, error)
}

type gate struct {
	repo Repository
}

// NewGate wires a feature/event gate over the tenant configuration store.
func NewGate(repo Repository) (Gate, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "tenant repository required")
	}
	return &gate{repo: repo}, nil
}

// Entitlements is a point-in-time view of one tenant's flags, loaded once per
// strategy instance so hooks avoid re-querying configuration.
type Entitlements struct {
	TenantID uuid.UUID
	features map[enums.TenantFeature]struct{}
	events   map[enums.WorkflowEvent]struct{}
}

// HasFeature reports whether the coarse feature is enabled.
func (e *Entitlements) HasFeature(feature enums.TenantFeature) bool {
	if e == nil {
		return false
	}
	_, ok := e.features[feature]
	return ok
}

// HasEvent reports whether the numbered workflow event is enabled.
func (e *Entitlements) HasEvent(event enums.WorkflowEvent) bool {
	if e == nil {
		return false
	}
	_, ok := e.events[event]
	return ok
}

// HasEvents reports whether every listed event is enabled.
func (e *Entitlements) HasEvents(events ...enums.WorkflowEvent) bool {
	for _, event := range events {
		if !e.HasEvent(event) {
			return false
		}
	}
	return true
}

// HasWorkflow reports workflow entitlement: either both legacy subsystem
// flags are present, or the v2 flag is. The OR of the two combinations is
// kept for migration compatibility.
func (e *Entitlements) HasWorkflow() bool {
	if e.HasFeature(enums.FeatureScreeningLegacy) && e.HasFeature(enums.FeatureCaseworkLegacy) {
		return true
	}
	return e.HasFeature(enums.FeatureWorkflowV2)
}

func (g *gate) Snapshot(ctx context.Context, tenantID uuid.UUID) (*Entitlements, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}

	features, err := g.repo.ListFeatures(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading tenant features")
	}
	events, err := g.repo.ListEvents(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading tenant events")
	}

	ent := &Entitlements{
		TenantID: tenantID,
		features: make(map[enums.TenantFeature]struct{}, len(features)),
		events:   make(map[enums.WorkflowEvent]struct{}, len(events)),
	}
	for _, feature := range features {
		ent.features[feature] = struct{}{}
	}
	for _, event := range events {
		ent.events[event] = struct{}{}
	}
	return ent, nil
}

func (g *gate) TenantHasWorkflow(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	ent, err := g.Snapshot(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return ent.HasWorkflow(), nil
}

func (g *gate) TenantHasFeature(ctx context.Context, tenantID uuid.UUID, feature enums.TenantFeature) (bool, error) {
	ent, err := g.Snapshot(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return ent.HasFeature(feature), nil
}

func (g *gate) TenantHasEvent(ctx context.Context, tenantID uuid.UUID, event enums.WorkflowEvent) (bool, error) {
	if !event.IsValid() {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "invalid workflow event")
	}
	ent, err := g.Snapshot(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return ent.HasEvent(event), nil
}

func (g *gate) TenantHasEvents(ctx context.Context, tenantID uuid.UUID, events ...enums.WorkflowEvent) (bool, error) {
	for _, event := range events {
		if !event.IsValid() {
			return false, pkgerrors.New(pkgerrors.CodeValidation, "invalid workflow event")
		}
	}
	ent, err := g.Snapshot(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return ent.HasEvents(events...), nil
}
