package flagged

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
)

// AnswerSource fetches submitted answer values for the given question ids.
// Only the configured questions are projected; full submissions are never
// loaded into memory.
type AnswerSource interface {
	AnswerValues(ctx context.Context, questionnaireID uuid.UUID, questionIDs []string) (map[string]string, error)
}

// Evaluator decides whether a submitted questionnaire contains at least one
// flagged answer under the tenant's configured conditions.
type Evaluator interface {
	HasFlaggedAnswer(ctx context.Context, tenantID, questionnaireID uuid.UUID) (bool, error)
}

type evaluator struct {
	config  ConfigRepository
	answers AnswerSource
}

// NewEvaluator wires a flagged-answer evaluator.
func NewEvaluator(config ConfigRepository, answers AnswerSource) (Evaluator, error) {
	if config == nil || answers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "flag config repository and answer source required")
	}
	return &evaluator{config: config, answers: answers}, nil
}

// HasFlaggedAnswer short-circuits on the first matching condition. A tenant
// with no configured conditions never flags anything.
func (e *evaluator) HasFlaggedAnswer(ctx context.Context, tenantID, questionnaireID uuid.UUID) (bool, error) {
	if tenantID == uuid.Nil || questionnaireID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "tenant and questionnaire ids required")
	}

	conditions, err := e.config.ListConditions(ctx, tenantID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading flag conditions")
	}
	if len(conditions) == 0 {
		return false, nil
	}

	questionIDs := make([]string, 0, len(conditions))
	for _, condition := range conditions {
		questionIDs = append(questionIDs, condition.QuestionID)
	}

	values, err := e.answers.AnswerValues(ctx, questionnaireID, questionIDs)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading submitted answers")
	}

	for _, condition := range conditions {
		value, ok := values[condition.QuestionID]
		if ok && value == condition.ExpectedValue {
			return true, nil
		}
	}
	return false, nil
}
