package cases

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
)

func newRepo(t *testing.T) Repository {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Case{},
		&models.Questionnaire{},
		&models.QuestionnaireAnswer{},
		&models.CaseElement{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewRepository(conn)
}

func TestLatestSubmitted(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	tenantID := uuid.New()
	profileID := uuid.New()
	now := time.Now().UTC()

	mk := func(formType enums.FormType, submittedAt *time.Time) {
		t.Helper()
		err := repo.CreateQuestionnaire(ctx, &models.Questionnaire{
			TenantID:    tenantID,
			CaseID:      uuid.New(),
			ProfileID:   &profileID,
			FormType:    formType,
			SubmittedAt: submittedAt,
		})
		if err != nil {
			t.Fatalf("CreateQuestionnaire error: %v", err)
		}
	}

	old := now.AddDate(-3, 0, 0)
	recent := now.AddDate(0, -2, 0)
	newest := now.AddDate(0, -1, 0)

	mk(enums.FormTypeFull, &old)
	mk(enums.FormTypeFull, &recent)
	mk(enums.FormTypeAttestation, &newest)
	mk(enums.FormTypeScorecard, &newest)
	mk(enums.FormTypeFull, nil) // pending, must never match

	got, err := repo.LatestSubmitted(ctx, tenantID, profileID,
		[]enums.FormType{enums.FormTypeFull, enums.FormTypeAttestation}, now.AddDate(-1, 0, 0))
	if err != nil {
		t.Fatalf("LatestSubmitted error: %v", err)
	}
	if got == nil || got.FormType != enums.FormTypeAttestation {
		t.Fatalf("expected newest attestation, got %+v", got)
	}

	got, err = repo.LatestSubmitted(ctx, tenantID, profileID,
		[]enums.FormType{enums.FormTypeFull}, now.AddDate(-1, 0, 0))
	if err != nil {
		t.Fatalf("LatestSubmitted error: %v", err)
	}
	if got == nil || !got.SubmittedAt.Equal(recent) {
		t.Fatalf("expected the recent full submission, got %+v", got)
	}

	got, err = repo.LatestSubmitted(ctx, tenantID, profileID,
		[]enums.FormType{enums.FormTypeFull}, now.AddDate(0, -1, -5))
	if err != nil {
		t.Fatalf("LatestSubmitted error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nothing inside the narrow window, got %+v", got)
	}
}

func TestAnswerValuesProjectsRequestedOnly(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	ddq := &models.Questionnaire{TenantID: uuid.New(), CaseID: uuid.New(), FormType: enums.FormTypeFull}
	if err := repo.CreateQuestionnaire(ctx, ddq); err != nil {
		t.Fatalf("CreateQuestionnaire error: %v", err)
	}

	conn := repo.(*repository).db
	answers := []models.QuestionnaireAnswer{
		{QuestionnaireID: ddq.ID, QuestionID: "q.one", Value: "yes"},
		{QuestionnaireID: ddq.ID, QuestionID: "q.two", Value: "no"},
		{QuestionnaireID: ddq.ID, QuestionID: "q.three", Value: "maybe"},
	}
	if err := conn.Create(&answers).Error; err != nil {
		t.Fatalf("seeding answers: %v", err)
	}

	values, err := repo.AnswerValues(ctx, ddq.ID, []string{"q.one", "q.three", "q.missing"})
	if err != nil {
		t.Fatalf("AnswerValues error: %v", err)
	}
	if len(values) != 2 || values["q.one"] != "yes" || values["q.three"] != "maybe" {
		t.Fatalf("unexpected projection: %v", values)
	}

	values, err = repo.AnswerValues(ctx, ddq.ID, nil)
	if err != nil || len(values) != 0 {
		t.Fatalf("expected empty projection for no question ids, got %v err %v", values, err)
	}
}

func TestElementExistsAndRelink(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	tenantID := uuid.New()
	profileID := uuid.New()

	record := &models.Case{TenantID: tenantID, CaseType: enums.CaseTypeDefault, CreatedBy: uuid.New()}
	if err := repo.CreateCase(ctx, record); err != nil {
		t.Fatalf("CreateCase error: %v", err)
	}

	exists, err := repo.ElementExists(ctx, tenantID, enums.EntityTypeProfile, profileID, enums.EntityTypeCase, record.ID)
	if err != nil {
		t.Fatalf("ElementExists error: %v", err)
	}
	if exists {
		t.Fatal("expected no element before create")
	}

	err = repo.CreateElement(ctx, &models.CaseElement{
		TenantID:   tenantID,
		ParentType: enums.EntityTypeProfile,
		ParentID:   profileID,
		ChildType:  enums.EntityTypeCase,
		ChildID:    record.ID,
	})
	if err != nil {
		t.Fatalf("CreateElement error: %v", err)
	}

	exists, err = repo.ElementExists(ctx, tenantID, enums.EntityTypeProfile, profileID, enums.EntityTypeCase, record.ID)
	if err != nil || !exists {
		t.Fatalf("expected element after create, got %v err %v", exists, err)
	}

	if err := repo.UpdateCaseProfile(ctx, record.ID, profileID); err != nil {
		t.Fatalf("UpdateCaseProfile error: %v", err)
	}
	reloaded, err := repo.GetCase(ctx, tenantID, record.ID)
	if err != nil {
		t.Fatalf("GetCase error: %v", err)
	}
	if reloaded.ProfileID == nil || *reloaded.ProfileID != profileID {
		t.Fatalf("expected relinked profile id, got %+v", reloaded.ProfileID)
	}
}
