package transactions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
	"github.com/oharrington/thirdline-backend/pkg/metrics"
)

// Record describes one outbox entry to queue.
type Record struct {
	TenantID          uuid.UUID
	Operation         enums.TransactionOperation
	Type              enums.TransactionType
	EntityID          uuid.UUID
	EntityType        enums.EntityType
	TriggerEntityID   *uuid.UUID
	TriggerEntityType *enums.EntityType
}

// Service is the producer side of the transaction outbox. It only ever
// writes PEND rows; consuming, retrying and terminal transitions live in a
// separate worker outside this service.
type Service interface {
	WithTx(tx *gorm.DB) Service
	CreateTransactionRecord(ctx context.Context, record Record) (*models.Transaction, error)
	HasActiveTransaction(ctx context.Context, tenantID uuid.UUID, txType enums.TransactionType, entityID uuid.UUID) (bool, error)
	EmitIfNotActive(ctx context.Context, record Record) (bool, error)
}

type service struct {
	repo    Repository
	metrics *metrics.WorkflowMetrics
}

// NewService wires an outbox producer.
func NewService(repo Repository, workflowMetrics *metrics.WorkflowMetrics) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction repository required")
	}
	return &service{repo: repo, metrics: workflowMetrics}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	if tx == nil {
		return s
	}
	return &service{repo: s.repo.WithTx(tx), metrics: s.metrics}
}

func (r Record) validate() error {
	switch {
	case r.TenantID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	case r.EntityID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "entity id required")
	case !r.Operation.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction operation")
	case !r.Type.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction type")
	case !r.EntityType.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid entity type")
	}
	return nil
}

func (s *service) CreateTransactionRecord(ctx context.Context, record Record) (*models.Transaction, error) {
	if err := record.validate(); err != nil {
		return nil, err
	}
	row := &models.Transaction{
		TenantID:          record.TenantID,
		Operation:         record.Operation,
		Type:              record.Type,
		Status:            enums.TransactionStatusPending,
		EntityID:          record.EntityID,
		EntityType:        record.EntityType,
		TriggerEntityID:   record.TriggerEntityID,
		TriggerEntityType: record.TriggerEntityType,
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queueing outbox transaction")
	}
	s.metrics.IncOutboxQueued(string(record.Type))
	return row, nil
}

func (s *service) HasActiveTransaction(ctx context.Context, tenantID uuid.UUID, txType enums.TransactionType, entityID uuid.UUID) (bool, error) {
	if tenantID == uuid.Nil || entityID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "tenant and entity ids required")
	}
	count, err := s.repo.CountActive(ctx, tenantID, txType, entityID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking active transactions")
	}
	return count > 0, nil
}

// EmitIfNotActive queues the record unless an untouched PEND row of the same
// type already targets the entity. It reports whether a row was queued. The
// check and insert are not atomic; a rare duplicate is tolerated because the
// downstream consumer replays syncs idempotently.
func (s *service) EmitIfNotActive(ctx context.Context, record Record) (bool, error) {
	if err := record.validate(); err != nil {
		return false, err
	}
	active, err := s.HasActiveTransaction(ctx, record.TenantID, record.Type, record.EntityID)
	if err != nil {
		return false, err
	}
	if active {
		return false, nil
	}
	if _, err := s.CreateTransactionRecord(ctx, record); err != nil {
		return false, err
	}
	return true, nil
}
