package enums

import "fmt"

// ReviewAction is the human decision taken on a case folder or profile.
type ReviewAction string

const (
	ReviewActionApprove  ReviewAction = "approve"
	ReviewActionReject   ReviewAction = "reject"
	ReviewActionEscalate ReviewAction = "escalate"
)

var validReviewActions = []ReviewAction{
	ReviewActionApprove,
	ReviewActionReject,
	ReviewActionEscalate,
}

// IsValid reports whether the value matches a known review action.
func (a ReviewAction) IsValid() bool {
	for _, candidate := range validReviewActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseReviewAction converts raw input into a ReviewAction.
func ParseReviewAction(value string) (ReviewAction, error) {
	for _, candidate := range validReviewActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid review action %q", value)
}
