package invitations

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oharrington/thirdline-backend/internal/cases"
	"github.com/oharrington/thirdline-backend/internal/tenants"
	"github.com/oharrington/thirdline-backend/pkg/config"
	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
	"github.com/oharrington/thirdline-backend/pkg/logger"
	"github.com/oharrington/thirdline-backend/pkg/mail"
)

type gormRunner struct {
	conn *gorm.DB
}

func (r gormRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.conn.WithContext(ctx).Transaction(fn)
}

type stubGate struct {
	features map[enums.TenantFeature]bool
}

func (s *stubGate) TenantHasWorkflow(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	return true, nil
}

func (s *stubGate) TenantHasFeature(ctx context.Context, tenantID uuid.UUID, feature enums.TenantFeature) (bool, error) {
	return s.features[feature], nil
}

func (s *stubGate) TenantHasEvent(ctx context.Context, tenantID uuid.UUID, event enums.WorkflowEvent) (bool, error) {
	return true, nil
}

func (s *stubGate) TenantHasEvents(ctx context.Context, tenantID uuid.UUID, events ...enums.WorkflowEvent) (bool, error) {
	return true, nil
}

func (s *stubGate) Snapshot(ctx context.Context, tenantID uuid.UUID) (*tenants.Entitlements, error) {
	return nil, errors.New("not implemented")
}

type recordingSender struct {
	sent []mail.Message
	fail bool
}

func (r *recordingSender) Send(ctx context.Context, msg mail.Message) error {
	if r.fail {
		return errors.New("smtp unavailable")
	}
	r.sent = append(r.sent, msg)
	return nil
}

type fixture struct {
	svc    Service
	conn   *gorm.DB
	sender *recordingSender
	gate   *stubGate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Case{},
		&models.Questionnaire{},
		&models.CaseElement{},
		&models.InvitationControl{},
		&models.InvitationLanguage{},
		&models.CountryLanguage{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	sender := &recordingSender{}
	gate := &stubGate{features: map[enums.TenantFeature]bool{}}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})

	svc, err := NewService(
		gormRunner{conn: conn},
		NewRepository(conn),
		cases.NewRepository(conn),
		gate,
		sender,
		logg,
		nil,
		config.WorkflowConfig{BaselineLanguage: "en", InvitationLink: "https://portal.example.com/questionnaire"},
	)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return &fixture{svc: svc, conn: conn, sender: sender, gate: gate}
}

func profileFixture(tenantID uuid.UUID) *models.ThirdPartyProfile {
	return &models.ThirdPartyProfile{
		ID:           uuid.New(),
		TenantID:     tenantID,
		OwnerUserID:  uuid.New(),
		Name:         "Acme Logistics",
		ContactName:  "Dana Reyes",
		ContactEmail: "dana@acme.example",
		Country:      "BR",
	}
}

func TestSendCreatesCaseAndQuestionnaire(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	profile := profileFixture(tenantID)
	actingUser := uuid.New()

	result, err := f.svc.Send(context.Background(), SendParams{
		Profile:      profile,
		FormType:     enums.FormTypeFull,
		ActingUserID: actingUser,
	})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if result.Skipped {
		t.Fatal("expected an issued invitation")
	}

	var caseRecord models.Case
	if err := f.conn.First(&caseRecord, "id = ?", result.CaseID).Error; err != nil {
		t.Fatalf("loading case: %v", err)
	}
	if caseRecord.CaseType != enums.CaseTypeDefault || caseRecord.CreatedBy != actingUser {
		t.Fatalf("unexpected case: %+v", caseRecord)
	}

	var ddq models.Questionnaire
	if err := f.conn.First(&ddq, "id = ?", result.QuestionnaireID).Error; err != nil {
		t.Fatalf("loading questionnaire: %v", err)
	}
	if ddq.Internal || ddq.RecipientEmail != profile.ContactEmail || ddq.Language != "en" {
		t.Fatalf("unexpected questionnaire: %+v", ddq)
	}

	if len(f.sender.sent) != 1 || f.sender.sent[0].ToEmail != profile.ContactEmail {
		t.Fatalf("expected one invitation email, got %+v", f.sender.sent)
	}

	var links int64
	f.conn.Model(&models.CaseElement{}).Where("tenant_id = ?", tenantID).Count(&links)
	if links != 2 {
		t.Fatalf("expected repaired profile->case and case->questionnaire links, got %d", links)
	}
}

func TestSendSkipsWhenNoContactEmail(t *testing.T) {
	f := newFixture(t)
	profile := profileFixture(uuid.New())
	profile.ContactEmail = ""

	result, err := f.svc.Send(context.Background(), SendParams{
		Profile:  profile,
		FormType: enums.FormTypeFull,
	})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if !result.Skipped {
		t.Fatal("expected skipped result without contact email")
	}

	var count int64
	f.conn.Model(&models.Case{}).Count(&count)
	if count != 0 || len(f.sender.sent) != 0 {
		t.Fatal("expected no records and no email for skipped invitation")
	}
}

func TestSendScorecardIsInternalAndUnmailed(t *testing.T) {
	f := newFixture(t)
	profile := profileFixture(uuid.New())
	profile.ContactEmail = "" // internal forms never need a contact

	result, err := f.svc.Send(context.Background(), SendParams{
		Profile:  profile,
		FormType: enums.FormTypeScorecard,
	})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if result.Skipped {
		t.Fatal("internal form must not be skipped for missing contact")
	}

	var ddq models.Questionnaire
	if err := f.conn.First(&ddq, "id = ?", result.QuestionnaireID).Error; err != nil {
		t.Fatalf("loading questionnaire: %v", err)
	}
	if !ddq.Internal || ddq.RecipientEmail != "" {
		t.Fatalf("expected internal unmailed questionnaire, got %+v", ddq)
	}
	if len(f.sender.sent) != 0 {
		t.Fatal("expected no email for internal form")
	}
}

func TestSendUsesTenantControlRow(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	err := f.conn.Create(&models.InvitationControl{
		ID:             uuid.New(),
		TenantID:       &tenantID,
		FormType:       enums.FormTypeFull,
		CaseType:       enums.CaseType(44),
		Version:        3,
		LegacyFormCode: "DDQ-F44",
	}).Error
	if err != nil {
		t.Fatalf("seeding control: %v", err)
	}

	result, err := f.svc.Send(context.Background(), SendParams{
		Profile:  profileFixture(tenantID),
		FormType: enums.FormTypeFull,
	})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}

	var caseRecord models.Case
	if err := f.conn.First(&caseRecord, "id = ?", result.CaseID).Error; err != nil {
		t.Fatalf("loading case: %v", err)
	}
	if caseRecord.CaseType != enums.CaseType(44) || caseRecord.Version != 3 {
		t.Fatalf("expected control-driven case type and version, got %+v", caseRecord)
	}
}

func TestSendLanguageResolution(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	defaultCase := enums.CaseTypeDefault
	err := f.conn.Create(&models.InvitationLanguage{
		ID:       uuid.New(),
		TenantID: &tenantID,
		CaseType: &defaultCase,
		Language: "de",
	}).Error
	if err != nil {
		t.Fatalf("seeding language: %v", err)
	}
	if err := f.conn.Create(&models.CountryLanguage{Country: "BR", Language: "pt"}).Error; err != nil {
		t.Fatalf("seeding country language: %v", err)
	}

	// Without the country feature the configured chain wins.
	result, err := f.svc.Send(context.Background(), SendParams{
		Profile:  profileFixture(tenantID),
		FormType: enums.FormTypeFull,
	})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if result.Language != "de" {
		t.Fatalf("expected configured language, got %q", result.Language)
	}

	// With the feature enabled the profile country takes precedence.
	f.gate.features[enums.FeatureCountryLanguage] = true
	result, err = f.svc.Send(context.Background(), SendParams{
		Profile:  profileFixture(tenantID),
		FormType: enums.FormTypeFull,
	})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if result.Language != "pt" {
		t.Fatalf("expected country language, got %q", result.Language)
	}
}

func TestSendFallsBackToOwnerAsActor(t *testing.T) {
	f := newFixture(t)
	profile := profileFixture(uuid.New())

	result, err := f.svc.Send(context.Background(), SendParams{
		Profile:  profile,
		FormType: enums.FormTypeAttestation,
	})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}

	var caseRecord models.Case
	if err := f.conn.First(&caseRecord, "id = ?", result.CaseID).Error; err != nil {
		t.Fatalf("loading case: %v", err)
	}
	if caseRecord.CreatedBy != profile.OwnerUserID {
		t.Fatal("expected owner fallback for acting user")
	}
}

func TestSendSurvivesMailFailure(t *testing.T) {
	f := newFixture(t)
	f.sender.fail = true

	result, err := f.svc.Send(context.Background(), SendParams{
		Profile:  profileFixture(uuid.New()),
		FormType: enums.FormTypeFull,
	})
	if err != nil {
		t.Fatalf("Send should tolerate mail failure, got %v", err)
	}
	if result.Skipped || result.CaseID == uuid.Nil {
		t.Fatal("expected issued invitation despite mail failure")
	}
}
