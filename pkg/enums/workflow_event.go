package enums

import "fmt"

// WorkflowEvent is a numbered, tenant-configurable capability gating one
// specific workflow behavior. The numbering is stable and mirrors the
// tenant configuration tables.
type WorkflowEvent int

const (
	EventAutoSendOnCreate      WorkflowEvent = 1
	EventAutoSendOnCaseLink    WorkflowEvent = 2
	EventScorecardAutomation   WorkflowEvent = 3
	EventFlaggedAnswerNotify   WorkflowEvent = 4
	EventBatchReviewLaunch     WorkflowEvent = 5
	EventRenewalAlternation    WorkflowEvent = 6
	EventCaseReviewNotify      WorkflowEvent = 7
	EventApprovalNotify        WorkflowEvent = 8
	EventContactSync           WorkflowEvent = 9
	EventDownstreamSync        WorkflowEvent = 10
	EventManualSend            WorkflowEvent = 11
	EventAttestationIssuance   WorkflowEvent = 12
	EventRiskTierGate          WorkflowEvent = 13
	EventCategoryGate          WorkflowEvent = 14
	EventSecondaryStakeholder  WorkflowEvent = 15
	EventUploadTriggeredLaunch WorkflowEvent = 16
)

const (
	minWorkflowEvent = 1
	maxWorkflowEvent = 16
)

// IsValid reports whether the event falls inside the configured range.
func (e WorkflowEvent) IsValid() bool {
	return e >= minWorkflowEvent && e <= maxWorkflowEvent
}

// ParseWorkflowEvent converts a raw integer into a WorkflowEvent.
func ParseWorkflowEvent(value int) (WorkflowEvent, error) {
	event := WorkflowEvent(value)
	if !event.IsValid() {
		return 0, fmt.Errorf("invalid workflow event %d", value)
	}
	return event, nil
}
