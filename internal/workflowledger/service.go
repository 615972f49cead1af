package workflowledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/pkg/db/models"
	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
)

// Service records that a profile's workflow has been started. The record is
// the only persisted workflow state; it backs start-workflow idempotency.
type Service interface {
	Exists(ctx context.Context, tenantID, profileID uuid.UUID) (bool, error)
	Claim(ctx context.Context, tenantID, profileID uuid.UUID) (bool, error)
}

type service struct {
	repo Repository
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "workflow ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Exists(ctx context.Context, tenantID, profileID uuid.UUID) (bool, error) {
	if tenantID == uuid.Nil || profileID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "tenant and profile ids required")
	}
	exists, err := s.repo.Exists(ctx, tenantID, profileID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking workflow record")
	}
	return exists, nil
}

// Claim attempts to create the existence record and reports whether this
// caller won. Concurrent claims for the same (tenant, profile) resolve to a
// single winner through the unique index, so duplicate side effects cannot
// slip through the old check-then-insert window.
func (s *service) Claim(ctx context.Context, tenantID, profileID uuid.UUID) (bool, error) {
	if tenantID == uuid.Nil || profileID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "tenant and profile ids required")
	}
	created, err := s.repo.Insert(ctx, &models.WorkflowRecord{
		TenantID:  tenantID,
		ProfileID: profileID,
	})
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claiming workflow record")
	}
	return created, nil
}
