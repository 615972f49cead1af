package workflow

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/oharrington/thirdline-backend/internal/cases"
	"github.com/oharrington/thirdline-backend/internal/invitations"
	"github.com/oharrington/thirdline-backend/internal/notifications"
	"github.com/oharrington/thirdline-backend/internal/profiles"
	"github.com/oharrington/thirdline-backend/internal/tenants"
	"github.com/oharrington/thirdline-backend/internal/transactions"
	"github.com/oharrington/thirdline-backend/pkg/config"
	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
	"github.com/oharrington/thirdline-backend/pkg/logger"
)

type fakeTenantRepo struct {
	features map[uuid.UUID][]enums.TenantFeature
	events   map[uuid.UUID][]enums.WorkflowEvent
	bindings map[uuid.UUID]*models.StrategyBinding
	err      error
}

func (f *fakeTenantRepo) ListFeatures(ctx context.Context, tenantID uuid.UUID) ([]enums.TenantFeature, error) {
	return f.features[tenantID], f.err
}

func (f *fakeTenantRepo) ListEvents(ctx context.Context, tenantID uuid.UUID) ([]enums.WorkflowEvent, error) {
	return f.events[tenantID], f.err
}

func (f *fakeTenantRepo) StrategyBinding(ctx context.Context, tenantID uuid.UUID) (*models.StrategyBinding, error) {
	return f.bindings[tenantID], f.err
}

type fakeLedger struct {
	records map[string]bool
	claims  int
}

func ledgerKey(tenantID, profileID uuid.UUID) string {
	return tenantID.String() + "/" + profileID.String()
}

func (f *fakeLedger) Exists(ctx context.Context, tenantID, profileID uuid.UUID) (bool, error) {
	return f.records[ledgerKey(tenantID, profileID)], nil
}

func (f *fakeLedger) Claim(ctx context.Context, tenantID, profileID uuid.UUID) (bool, error) {
	key := ledgerKey(tenantID, profileID)
	if f.records[key] {
		return false, nil
	}
	f.records[key] = true
	f.claims++
	return true, nil
}

type fakeInvitations struct {
	sent   []invitations.SendParams
	result *invitations.SendResult
	err    error
}

func (f *fakeInvitations) Send(ctx context.Context, params invitations.SendParams) (*invitations.SendResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	if f.result != nil {
		return f.result, nil
	}
	return &invitations.SendResult{CaseID: uuid.New(), QuestionnaireID: uuid.New()}, nil
}

type fakeFlagged struct {
	flagged bool
	err     error
}

func (f *fakeFlagged) HasFlaggedAnswer(ctx context.Context, tenantID, questionnaireID uuid.UUID) (bool, error) {
	return f.flagged, f.err
}

type fakeProfiles struct {
	byID        map[uuid.UUID]*models.ThirdPartyProfile
	tiers       map[uuid.UUID]enums.RiskTier
	allAssessed bool
	contacts    []profiles.ContactUpdate
}

func (f *fakeProfiles) WithTx(tx *gorm.DB) profiles.Repository { return f }

func (f *fakeProfiles) Get(ctx context.Context, tenantID, profileID uuid.UUID) (*models.ThirdPartyProfile, error) {
	profile, ok := f.byID[profileID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return profile, nil
}

func (f *fakeProfiles) RiskTier(ctx context.Context, tenantID, profileID uuid.UUID) (enums.RiskTier, error) {
	tier, ok := f.tiers[profileID]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "profile has no risk assessment")
	}
	return tier, nil
}

func (f *fakeProfiles) AllAssessed(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	return f.allAssessed, nil
}

func (f *fakeProfiles) UpdateContact(ctx context.Context, tenantID, profileID uuid.UUID, update profiles.ContactUpdate) error {
	f.contacts = append(f.contacts, update)
	return nil
}

type fakeCases struct {
	questionnaires map[uuid.UUID]*models.Questionnaire
	casesByID      map[uuid.UUID]*models.Case
	answers        map[uuid.UUID]map[string]string
	submissions    []*models.Questionnaire
}

func (f *fakeCases) WithTx(tx *gorm.DB) cases.Repository { return f }

func (f *fakeCases) CreateCase(ctx context.Context, record *models.Case) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.casesByID[record.ID] = record
	return nil
}

func (f *fakeCases) GetCase(ctx context.Context, tenantID, caseID uuid.UUID) (*models.Case, error) {
	record, ok := f.casesByID[caseID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (f *fakeCases) UpdateCaseProfile(ctx context.Context, caseID, profileID uuid.UUID) error {
	return nil
}

func (f *fakeCases) CreateQuestionnaire(ctx context.Context, record *models.Questionnaire) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.questionnaires[record.ID] = record
	return nil
}

func (f *fakeCases) GetQuestionnaire(ctx context.Context, tenantID, questionnaireID uuid.UUID) (*models.Questionnaire, error) {
	record, ok := f.questionnaires[questionnaireID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (f *fakeCases) LatestSubmitted(ctx context.Context, tenantID, profileID uuid.UUID, formTypes []enums.FormType, since time.Time) (*models.Questionnaire, error) {
	var newest *models.Questionnaire
	for _, ddq := range f.submissions {
		if ddq.ProfileID == nil || *ddq.ProfileID != profileID || ddq.SubmittedAt == nil {
			continue
		}
		if ddq.SubmittedAt.Before(since) {
			continue
		}
		match := len(formTypes) == 0
		for _, formType := range formTypes {
			if ddq.FormType == formType {
				match = true
			}
		}
		if !match {
			continue
		}
		if newest == nil || ddq.SubmittedAt.After(*newest.SubmittedAt) {
			newest = ddq
		}
	}
	return newest, nil
}

func (f *fakeCases) AnswerValues(ctx context.Context, questionnaireID uuid.UUID, questionIDs []string) (map[string]string, error) {
	all := f.answers[questionnaireID]
	values := map[string]string{}
	for _, id := range questionIDs {
		if v, ok := all[id]; ok {
			values[id] = v
		}
	}
	return values, nil
}

func (f *fakeCases) ElementExists(ctx context.Context, tenantID uuid.UUID, parentType enums.EntityType, parentID uuid.UUID, childType enums.EntityType, childID uuid.UUID) (bool, error) {
	return true, nil
}

func (f *fakeCases) CreateElement(ctx context.Context, record *models.CaseElement) error {
	return nil
}

type fakeOutbox struct {
	emitted []transactions.Record
	active  map[string]bool
}

func outboxKey(tenantID uuid.UUID, txType enums.TransactionType, entityID uuid.UUID) string {
	return tenantID.String() + "/" + string(txType) + "/" + entityID.String()
}

func (f *fakeOutbox) WithTx(tx *gorm.DB) transactions.Service { return f }

func (f *fakeOutbox) CreateTransactionRecord(ctx context.Context, record transactions.Record) (*models.Transaction, error) {
	f.emitted = append(f.emitted, record)
	f.active[outboxKey(record.TenantID, record.Type, record.EntityID)] = true
	return &models.Transaction{ID: uuid.New(), Status: enums.TransactionStatusPending}, nil
}

func (f *fakeOutbox) HasActiveTransaction(ctx context.Context, tenantID uuid.UUID, txType enums.TransactionType, entityID uuid.UUID) (bool, error) {
	return f.active[outboxKey(tenantID, txType, entityID)], nil
}

func (f *fakeOutbox) EmitIfNotActive(ctx context.Context, record transactions.Record) (bool, error) {
	if f.active[outboxKey(record.TenantID, record.Type, record.EntityID)] {
		return false, nil
	}
	_, err := f.CreateTransactionRecord(ctx, record)
	return err == nil, err
}

type fakeNotifier struct {
	notices []notifications.Notice
	labels  map[string]string
	lists   map[string]bool
}

func (f *fakeNotifier) Notify(ctx context.Context, notice notifications.Notice) (int, error) {
	f.notices = append(f.notices, notice)
	return 1, nil
}

func (f *fakeNotifier) ResolveLabel(ctx context.Context, tenantID uuid.UUID, listKey, code string) (string, error) {
	if label, ok := f.labels[listKey+"/"+code]; ok {
		return label, nil
	}
	return code, nil
}

func (f *fakeNotifier) CodeInList(ctx context.Context, tenantID uuid.UUID, listKey, code string) (bool, error) {
	return f.lists[listKey+"/"+code], nil
}

type fakeLocker struct {
	held     map[string]bool
	denyNext bool
}

func (f *fakeLocker) AcquireLock(ctx context.Context, scope, id string, ttl time.Duration) (bool, error) {
	if f.denyNext {
		f.denyNext = false
		return false, nil
	}
	key := scope + ":" + id
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

func (f *fakeLocker) ReleaseLock(ctx context.Context, scope, id string) error {
	delete(f.held, scope+":"+id)
	return nil
}

type harness struct {
	deps        Deps
	tenantRepo  *fakeTenantRepo
	ledger      *fakeLedger
	invitations *fakeInvitations
	flagged     *fakeFlagged
	profiles    *fakeProfiles
	cases       *fakeCases
	outbox      *fakeOutbox
	notifier    *fakeNotifier
	locker      *fakeLocker
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tenantRepo := &fakeTenantRepo{
		features: map[uuid.UUID][]enums.TenantFeature{},
		events:   map[uuid.UUID][]enums.WorkflowEvent{},
		bindings: map[uuid.UUID]*models.StrategyBinding{},
	}
	gate, err := tenants.NewGate(tenantRepo)
	if err != nil {
		t.Fatalf("unexpected gate error: %v", err)
	}
	h := &harness{
		tenantRepo:  tenantRepo,
		ledger:      &fakeLedger{records: map[string]bool{}},
		invitations: &fakeInvitations{},
		flagged:     &fakeFlagged{},
		profiles: &fakeProfiles{
			byID:  map[uuid.UUID]*models.ThirdPartyProfile{},
			tiers: map[uuid.UUID]enums.RiskTier{},
		},
		cases: &fakeCases{
			questionnaires: map[uuid.UUID]*models.Questionnaire{},
			casesByID:      map[uuid.UUID]*models.Case{},
			answers:        map[uuid.UUID]map[string]string{},
		},
		outbox:   &fakeOutbox{active: map[string]bool{}},
		notifier: &fakeNotifier{labels: map[string]string{}, lists: map[string]bool{}},
		locker:   &fakeLocker{held: map[string]bool{}},
	}
	h.deps = Deps{
		Gate:          gate,
		Ledger:        h.ledger,
		Invitations:   h.invitations,
		Flagged:       h.flagged,
		Profiles:      h.profiles,
		Cases:         h.cases,
		Outbox:        h.outbox,
		Notifications: h.notifier,
		Locker:        h.locker,
		Logger:        logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard}),
		Metrics:       nil,
		Workflow:      config.WorkflowConfig{LockTTL: 30 * time.Second, BaselineLanguage: "en"},
	}
	return h
}

// entitle grants the tenant workflow entitlement plus the listed extras.
func (h *harness) entitle(tenantID uuid.UUID, features []enums.TenantFeature, events []enums.WorkflowEvent) {
	h.tenantRepo.features[tenantID] = append([]enums.TenantFeature{enums.FeatureWorkflowV2}, features...)
	h.tenantRepo.events[tenantID] = events
}

func (h *harness) addProfile(tenantID uuid.UUID) *models.ThirdPartyProfile {
	profile := &models.ThirdPartyProfile{
		ID:           uuid.New(),
		TenantID:     tenantID,
		OwnerUserID:  uuid.New(),
		Name:         "Globex Services",
		ContactName:  "Kim Ortega",
		ContactEmail: "kim@globex.example",
		CategoryCode: "logistics",
		Country:      "DE",
	}
	h.profiles.byID[profile.ID] = profile
	return profile
}
