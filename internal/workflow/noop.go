package workflow

import (
	"context"

	"github.com/google/uuid"
)

// KeyNoop is the fallback strategy key.
const KeyNoop = "noop"

// Noop is the do-nothing strategy. It serves tenants with no binding and is
// the fallback when a bound strategy refuses construction.
type Noop struct {
	tenantID uuid.UUID
}

// NewNoop returns a noop strategy for the tenant. Unlike real variants it
// never fails: it must be constructible even for unentitled tenants.
func NewNoop(tenantID uuid.UUID) *Noop {
	return &Noop{tenantID: tenantID}
}

func (n *Noop) Key() string         { return KeyNoop }
func (n *Noop) TenantID() uuid.UUID { return n.tenantID }

func (n *Noop) StartProfileWorkflow(ctx context.Context, in StartProfileWorkflowInput) Result {
	return skipped()
}

func (n *Noop) DDQSubmitted(ctx context.Context, in DDQSubmittedInput) Result {
	return skipped()
}

func (n *Noop) CaseFolderReview(ctx context.Context, in CaseFolderReviewInput) Result {
	return skipped()
}

func (n *Noop) ProfileApproval(ctx context.Context, in ProfileApprovalInput) Result {
	return skipped()
}

func (n *Noop) ScorecardSubmitted(ctx context.Context, in ScorecardSubmittedInput) Result {
	return skipped()
}

func (n *Noop) ManualSend(ctx context.Context, in ManualSendInput) Result {
	return skipped()
}

func (n *Noop) UserCanLaunchBatchReview(ctx context.Context, userID uuid.UUID) (bool, error) {
	return false, nil
}

func (n *Noop) ReviewBatchLaunchAvailable(ctx context.Context) (bool, error) {
	return false, nil
}

func (n *Noop) InitialReviewBatchLaunch(ctx context.Context, in InitialReviewBatchLaunchInput) Result {
	return skipped()
}
