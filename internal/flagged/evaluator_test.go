package flagged

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/pkg/db/models"
)

type fakeConfig struct {
	conditions []models.FlaggedQuestion
	err        error
}

func (f *fakeConfig) ListConditions(ctx context.Context, tenantID uuid.UUID) ([]models.FlaggedQuestion, error) {
	return f.conditions, f.err
}

type fakeAnswers struct {
	values   map[string]string
	asked    []string
	err      error
	askCount int
}

func (f *fakeAnswers) AnswerValues(ctx context.Context, questionnaireID uuid.UUID, questionIDs []string) (map[string]string, error) {
	f.askCount++
	f.asked = questionIDs
	if f.err != nil {
		return nil, f.err
	}
	return f.values, nil
}

func TestHasFlaggedAnswer(t *testing.T) {
	tenantID := uuid.New()
	ddqID := uuid.New()

	tests := []struct {
		name       string
		conditions []models.FlaggedQuestion
		values     map[string]string
		want       bool
	}{
		{
			name: "matching answer flags",
			conditions: []models.FlaggedQuestion{
				{TenantID: tenantID, QuestionID: "q.sanctions", ExpectedValue: "yes"},
			},
			values: map[string]string{"q.sanctions": "yes"},
			want:   true,
		},
		{
			name: "non-matching answer does not flag",
			conditions: []models.FlaggedQuestion{
				{TenantID: tenantID, QuestionID: "q.sanctions", ExpectedValue: "yes"},
			},
			values: map[string]string{"q.sanctions": "no"},
			want:   false,
		},
		{
			name: "unanswered configured question does not flag",
			conditions: []models.FlaggedQuestion{
				{TenantID: tenantID, QuestionID: "q.sanctions", ExpectedValue: "yes"},
			},
			values: map[string]string{},
			want:   false,
		},
		{
			name: "any one match is enough",
			conditions: []models.FlaggedQuestion{
				{TenantID: tenantID, QuestionID: "q.sanctions", ExpectedValue: "yes"},
				{TenantID: tenantID, QuestionID: "q.pep", ExpectedValue: "yes"},
			},
			values: map[string]string{"q.sanctions": "no", "q.pep": "yes"},
			want:   true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eval, err := NewEvaluator(&fakeConfig{conditions: tc.conditions}, &fakeAnswers{values: tc.values})
			if err != nil {
				t.Fatalf("unexpected evaluator error: %v", err)
			}
			got, err := eval.HasFlaggedAnswer(context.Background(), tenantID, ddqID)
			if err != nil {
				t.Fatalf("HasFlaggedAnswer error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestEmptyConfigSkipsAnswerLoad(t *testing.T) {
	answers := &fakeAnswers{}
	eval, _ := NewEvaluator(&fakeConfig{}, answers)

	got, err := eval.HasFlaggedAnswer(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("HasFlaggedAnswer error: %v", err)
	}
	if got {
		t.Fatal("expected no flag with empty config")
	}
	if answers.askCount != 0 {
		t.Fatal("expected answer source to be skipped for empty config")
	}
}

func TestOnlyConfiguredQuestionsProjected(t *testing.T) {
	tenantID := uuid.New()
	answers := &fakeAnswers{values: map[string]string{"q.one": "no"}}
	eval, _ := NewEvaluator(&fakeConfig{
		conditions: []models.FlaggedQuestion{
			{TenantID: tenantID, QuestionID: "q.one", ExpectedValue: "yes"},
			{TenantID: tenantID, QuestionID: "q.two", ExpectedValue: "maybe"},
		},
	}, answers)

	if _, err := eval.HasFlaggedAnswer(context.Background(), tenantID, uuid.New()); err != nil {
		t.Fatalf("HasFlaggedAnswer error: %v", err)
	}
	if len(answers.asked) != 2 {
		t.Fatalf("expected projection of 2 question ids, got %v", answers.asked)
	}
}

func TestHasFlaggedAnswerErrors(t *testing.T) {
	eval, _ := NewEvaluator(&fakeConfig{err: errors.New("boom")}, &fakeAnswers{})
	if _, err := eval.HasFlaggedAnswer(context.Background(), uuid.New(), uuid.New()); err == nil {
		t.Fatal("expected dependency error from config load")
	}

	eval, _ = NewEvaluator(&fakeConfig{
		conditions: []models.FlaggedQuestion{{QuestionID: "q", ExpectedValue: "yes"}},
	}, &fakeAnswers{err: errors.New("boom")})
	if _, err := eval.HasFlaggedAnswer(context.Background(), uuid.New(), uuid.New()); err == nil {
		t.Fatal("expected dependency error from answer load")
	}

	if _, err := eval.HasFlaggedAnswer(context.Background(), uuid.Nil, uuid.New()); err == nil {
		t.Fatal("expected validation error")
	}
}
