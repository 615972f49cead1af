package tenants

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
)

type fakeRepository struct {
	features map[uuid.UUID][]enums.TenantFeature
	events   map[uuid.UUID][]enums.WorkflowEvent
	binding  *models.StrategyBinding
	err      error
}

func (f *fakeRepository) ListFeatures(ctx context.Context, tenantID uuid.UUID) ([]enums.TenantFeature, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.features[tenantID], nil
}

func (f *fakeRepository) ListEvents(ctx context.Context, tenantID uuid.UUID) ([]enums.WorkflowEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events[tenantID], nil
}

func (f *fakeRepository) StrategyBinding(ctx context.Context, tenantID uuid.UUID) (*models.StrategyBinding, error) {
	return f.binding, f.err
}

func TestTenantHasWorkflow(t *testing.T) {
	legacyTenant := uuid.New()
	v2Tenant := uuid.New()
	partialTenant := uuid.New()
	bareTenant := uuid.New()

	repo := &fakeRepository{
		features: map[uuid.UUID][]enums.TenantFeature{
			legacyTenant:  {enums.FeatureScreeningLegacy, enums.FeatureCaseworkLegacy},
			v2Tenant:      {enums.FeatureWorkflowV2},
			partialTenant: {enums.FeatureScreeningLegacy},
		},
	}
	gate, err := NewGate(repo)
	if err != nil {
		t.Fatalf("unexpected gate error: %v", err)
	}

	tests := []struct {
		name     string
		tenantID uuid.UUID
		want     bool
	}{
		{"both legacy features", legacyTenant, true},
		{"workflow v2", v2Tenant, true},
		{"only one legacy feature", partialTenant, false},
		{"no features", bareTenant, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := gate.TenantHasWorkflow(context.Background(), tc.tenantID)
			if err != nil {
				t.Fatalf("TenantHasWorkflow error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestTenantHasEvents(t *testing.T) {
	tenantID := uuid.New()
	repo := &fakeRepository{
		events: map[uuid.UUID][]enums.WorkflowEvent{
			tenantID: {enums.EventAutoSendOnCreate, enums.EventScorecardAutomation},
		},
	}
	gate, _ := NewGate(repo)

	got, err := gate.TenantHasEvent(context.Background(), tenantID, enums.EventAutoSendOnCreate)
	if err != nil || !got {
		t.Fatalf("expected enabled event, got %v err %v", got, err)
	}

	got, err = gate.TenantHasEvents(context.Background(), tenantID, enums.EventAutoSendOnCreate, enums.EventScorecardAutomation)
	if err != nil || !got {
		t.Fatalf("expected all events enabled, got %v err %v", got, err)
	}

	got, err = gate.TenantHasEvents(context.Background(), tenantID, enums.EventAutoSendOnCreate, enums.EventBatchReviewLaunch)
	if err != nil || got {
		t.Fatalf("expected AND over events to fail, got %v err %v", got, err)
	}

	if _, err := gate.TenantHasEvent(context.Background(), tenantID, enums.WorkflowEvent(99)); err == nil {
		t.Fatal("expected validation error for out-of-range event")
	}
}

func TestSnapshotPropagatesRepoError(t *testing.T) {
	repo := &fakeRepository{err: errors.New("connection refused")}
	gate, _ := NewGate(repo)

	if _, err := gate.Snapshot(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected dependency error")
	}
	if _, err := gate.Snapshot(context.Background(), uuid.Nil); err == nil {
		t.Fatal("expected validation error for nil tenant")
	}
}

func TestEntitlementsNilIsInert(t *testing.T) {
	var ent *Entitlements
	if ent.HasWorkflow() || ent.HasFeature(enums.FeatureWorkflowV2) || ent.HasEvent(enums.EventManualSend) {
		t.Fatal("nil entitlements should report nothing enabled")
	}
}
