package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/internal/cases"
	"github.com/oharrington/thirdline-backend/internal/flagged"
	"github.com/oharrington/thirdline-backend/internal/invitations"
	"github.com/oharrington/thirdline-backend/internal/notifications"
	"github.com/oharrington/thirdline-backend/internal/profiles"
	"github.com/oharrington/thirdline-backend/internal/tenants"
	"github.com/oharrington/thirdline-backend/internal/transactions"
	"github.com/oharrington/thirdline-backend/internal/workflowledger"
	"github.com/oharrington/thirdline-backend/pkg/config"
	"github.com/oharrington/thirdline-backend/pkg/db/models"
	"github.com/oharrington/thirdline-backend/pkg/enums"
	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
	"github.com/oharrington/thirdline-backend/pkg/logger"
	"github.com/oharrington/thirdline-backend/pkg/metrics"
	"github.com/oharrington/thirdline-backend/pkg/redis"
)

// Well-known question ids synced back onto the profile contact when the
// contact-sync event is enabled for the tenant.
const (
	questionContactName  = "q.contact.name"
	questionContactEmail = "q.contact.email"
	questionContactPhone = "q.contact.phone"
)

const lockScopeWorkflow = "workflow"

// Deps bundles everything a strategy can touch. One Deps value is shared by
// all strategy instances; per-tenant state lives on the strategy itself.
type Deps struct {
	Gate          tenants.Gate
	Ledger        workflowledger.Service
	Invitations   invitations.Service
	Flagged       flagged.Evaluator
	Profiles      profiles.Repository
	Cases         cases.Repository
	Outbox        transactions.Service
	Notifications notifications.Service
	Locker        redis.Locker
	Logger        *logger.Logger
	Metrics       *metrics.WorkflowMetrics
	Workflow      config.WorkflowConfig
}

func (d Deps) validate() error {
	if d.Gate == nil || d.Ledger == nil || d.Invitations == nil || d.Flagged == nil ||
		d.Profiles == nil || d.Cases == nil || d.Outbox == nil || d.Notifications == nil ||
		d.Locker == nil || d.Logger == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "workflow strategy dependencies incomplete")
	}
	return nil
}

// Base carries the shared plumbing every strategy variant builds on: the
// tenant entitlement snapshot, launch serialization and the standard
// post-submission side effects.
type Base struct {
	deps Deps
	key  string
	ent  *tenants.Entitlements
}

// NewBase snapshots the tenant's entitlements and verifies the workflow
// guard. Construction fails with a strategy-guard error when the tenant is
// not entitled to workflows at all; the resolver turns that into a noop.
func NewBase(ctx context.Context, key string, tenantID uuid.UUID, deps Deps) (*Base, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	ent, err := deps.Gate.Snapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !ent.HasWorkflow() {
		return nil, pkgerrors.New(pkgerrors.CodeStrategyGuard,
			fmt.Sprintf("tenant not entitled to workflow strategy %q", key))
	}
	return &Base{deps: deps, key: key, ent: ent}, nil
}

// Key returns the strategy key the instance was built for.
func (b *Base) Key() string { return b.key }

// TenantID returns the tenant the instance is bound to.
func (b *Base) TenantID() uuid.UUID { return b.ent.TenantID }

// Entitlements exposes the snapshot taken at construction.
func (b *Base) Entitlements() *tenants.Entitlements { return b.ent }

func (b *Base) logg() *logger.Logger { return b.deps.Logger }

// run wraps one hook execution with metrics and failure logging. Hook errors
// are logged here once; callers may discard the Result.
func (b *Base) run(ctx context.Context, hook string, fn func(ctx context.Context) Result) Result {
	ctx = b.logg().WithTenantID(ctx, b.ent.TenantID.String())
	start := time.Now()
	result := fn(ctx)
	b.deps.Metrics.ObserveHookDuration(hook, time.Since(start))
	b.deps.Metrics.IncHookOutcome(b.key, hook, string(result.Outcome))
	if result.Err != nil {
		b.logg().Error(ctx, fmt.Sprintf("workflow hook %s failed", hook), result.Err)
	}
	return result
}

// launchDecision is a variant's verdict on what a workflow launch should do.
type launchDecision struct {
	Send     bool
	FormType enums.FormType
	Renewal  bool
}

type decideLaunch func(ctx context.Context, profile *models.ThirdPartyProfile) (launchDecision, error)

// launchTrigger maps the launch origin to the event that must be enabled
// for an automatic send.
func launchTrigger(in StartProfileWorkflowInput) enums.WorkflowEvent {
	switch {
	case in.FromUpload:
		return enums.EventUploadTriggeredLaunch
	case in.CaseID != uuid.Nil:
		return enums.EventAutoSendOnCaseLink
	default:
		return enums.EventAutoSendOnCreate
	}
}

// launch runs the common start-workflow sequence: serialize via the advisory
// lock, claim the existence record exactly once, then apply the variant's
// decision. The record is claimed before the decision runs, so a declined
// launch still marks the workflow as started.
func (b *Base) launch(ctx context.Context, in StartProfileWorkflowInput, decide decideLaunch) Result {
	return b.run(ctx, "start_profile_workflow", func(ctx context.Context) Result {
		if in.Profile == nil {
			return failed(pkgerrors.New(pkgerrors.CodeValidation, "profile required"))
		}
		profile := in.Profile
		ctx = b.logg().WithProfileID(ctx, profile.ID.String())

		lockID := fmt.Sprintf("%s:%s", profile.TenantID, profile.ID)
		won, err := b.deps.Locker.AcquireLock(ctx, lockScopeWorkflow, lockID, b.deps.Workflow.LockTTL)
		if err != nil {
			return failed(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring workflow lock"))
		}
		if !won {
			b.logg().Info(ctx, "workflow launch already in flight")
			return skipped()
		}
		defer func() {
			if err := b.deps.Locker.ReleaseLock(ctx, lockScopeWorkflow, lockID); err != nil {
				b.logg().Warn(ctx, "failed to release workflow lock")
			}
		}()

		exists, err := b.deps.Ledger.Exists(ctx, profile.TenantID, profile.ID)
		if err != nil {
			return failed(err)
		}
		if exists {
			b.logg().Info(ctx, "workflow already started for profile")
			return skipped()
		}
		claimed, err := b.deps.Ledger.Claim(ctx, profile.TenantID, profile.ID)
		if err != nil {
			return failed(err)
		}
		if !claimed {
			b.logg().Info(ctx, "lost workflow claim to concurrent launch")
			return skipped()
		}

		// The trigger that launched the workflow must be enabled for an
		// automatic send; the record above stands either way.
		if !b.ent.HasEvent(launchTrigger(in)) {
			b.logg().Info(ctx, "workflow started, launch trigger not enabled for tenant")
			return declined()
		}

		decision, err := decide(ctx, profile)
		if err != nil {
			return failed(err)
		}
		if !decision.Send {
			b.logg().Info(ctx, "workflow started without invitation")
			return declined()
		}

		result, err := b.deps.Invitations.Send(ctx, invitations.SendParams{
			Profile:      profile,
			FormType:     decision.FormType,
			ActingUserID: in.ActingUserID,
			Renewal:      decision.Renewal,
		})
		if err != nil {
			return failed(err)
		}
		b.emitProfileSync(ctx, profile)
		if result.Skipped {
			return skipped()
		}
		return completed()
	})
}

// ManualSend issues an operator-requested invitation. It bypasses the
// variant launch gates but still records workflow existence so later
// automated launches stay idempotent. Shared by all variants.
func (b *Base) ManualSend(ctx context.Context, in ManualSendInput) Result {
	return b.run(ctx, "manual_send", func(ctx context.Context) Result {
		if in.Profile == nil {
			return failed(pkgerrors.New(pkgerrors.CodeValidation, "profile required"))
		}
		if !in.FormType.IsExternal() {
			return failed(pkgerrors.New(pkgerrors.CodeValidation, "manual send requires an external form type"))
		}
		profile := in.Profile
		ctx = b.logg().WithProfileID(ctx, profile.ID.String())

		if !b.ent.HasEvent(enums.EventManualSend) {
			return declined()
		}

		result, err := b.deps.Invitations.Send(ctx, invitations.SendParams{
			Profile:      profile,
			FormType:     in.FormType,
			ActingUserID: in.ActingUserID,
			Renewal:      in.Renewal,
		})
		if err != nil {
			return failed(err)
		}
		if result.Skipped {
			return skipped()
		}

		exists, err := b.deps.Ledger.Exists(ctx, profile.TenantID, profile.ID)
		if err != nil {
			b.logg().Error(ctx, "checking workflow record after manual send failed", err)
		} else if !exists {
			if _, err := b.deps.Ledger.Claim(ctx, profile.TenantID, profile.ID); err != nil {
				b.logg().Error(ctx, "recording workflow start after manual send failed", err)
			}
		}

		b.emitProfileSync(ctx, profile)
		return completed()
	})
}

// submitted runs the standard post-submission side effects shared by all
// variants. notifyFlag customizes how a flagged submission is announced.
func (b *Base) submitted(ctx context.Context, in DDQSubmittedInput, notifyFlag func(ctx context.Context) error) Result {
	return b.run(ctx, "ddq_submitted", func(ctx context.Context) Result {
		if in.Profile == nil || in.Questionnaire == nil {
			return failed(pkgerrors.New(pkgerrors.CodeValidation, "profile and questionnaire required"))
		}
		if !in.Questionnaire.IsSubmitted() {
			return failed(pkgerrors.New(pkgerrors.CodeStateConflict, "questionnaire not submitted"))
		}
		ctx = b.logg().WithProfileID(ctx, in.Profile.ID.String())
		ctx = b.logg().WithCaseID(ctx, in.Questionnaire.CaseID.String())

		if b.ent.HasEvent(enums.EventContactSync) {
			if err := b.syncContact(ctx, in.Profile, in.Questionnaire); err != nil {
				b.logg().Error(ctx, "contact sync failed", err)
			}
		}

		if b.ent.HasEvent(enums.EventFlaggedAnswerNotify) {
			hasFlag, err := b.deps.Flagged.HasFlaggedAnswer(ctx, in.Profile.TenantID, in.Questionnaire.ID)
			if err != nil {
				b.logg().Error(ctx, "flag evaluation failed", err)
			} else if hasFlag {
				if err := notifyFlag(ctx); err != nil {
					b.logg().Error(ctx, "flag notification failed", err)
				}
			}
		}

		if b.ent.HasEvent(enums.EventScorecardAutomation) && in.Questionnaire.FormType.IsExternal() {
			_, err := b.deps.Invitations.Send(ctx, invitations.SendParams{
				Profile:  in.Profile,
				FormType: enums.FormTypeScorecard,
			})
			if err != nil {
				b.logg().Error(ctx, "scorecard issuance failed", err)
			}
		}

		b.emitCaseSync(ctx, in.Profile.TenantID, in.Questionnaire.CaseID, in.Questionnaire.ID)
		return completed()
	})
}

// notifyFlagDefault is the plain flag announcement used by most variants.
func (b *Base) notifyFlagDefault(in DDQSubmittedInput) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := b.deps.Notifications.Notify(ctx, notifications.Notice{
			TenantID: in.Profile.TenantID,
			Purpose:  enums.PurposeComplianceFlag,
			Subject:  fmt.Sprintf("Flagged answer on submission for %s", in.Profile.Name),
			TextBody: fmt.Sprintf("A submission for %s contains at least one flagged answer.", in.Profile.Name),
		})
		return err
	}
}

// syncContact copies submitted point-of-contact answers onto the profile.
func (b *Base) syncContact(ctx context.Context, profile *models.ThirdPartyProfile, ddq *models.Questionnaire) error {
	values, err := b.deps.Cases.AnswerValues(ctx, ddq.ID, []string{
		questionContactName, questionContactEmail, questionContactPhone,
	})
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	update := profiles.ContactUpdate{
		Name:  profile.ContactName,
		Email: profile.ContactEmail,
		Phone: profile.ContactPhone,
	}
	if v, ok := values[questionContactName]; ok && v != "" {
		update.Name = v
	}
	if v, ok := values[questionContactEmail]; ok && v != "" {
		update.Email = v
	}
	if v, ok := values[questionContactPhone]; ok && v != "" {
		update.Phone = v
	}
	return b.deps.Profiles.UpdateContact(ctx, profile.TenantID, profile.ID, update)
}

func (b *Base) emitProfileSync(ctx context.Context, profile *models.ThirdPartyProfile) {
	if !b.ent.HasEvent(enums.EventDownstreamSync) {
		return
	}
	_, err := b.deps.Outbox.EmitIfNotActive(ctx, transactions.Record{
		TenantID:   profile.TenantID,
		Operation:  enums.TransactionOperationUpdate,
		Type:       enums.TransactionTypeProfileSync,
		EntityID:   profile.ID,
		EntityType: enums.EntityTypeProfile,
	})
	if err != nil {
		b.logg().Error(ctx, "profile sync emit failed", err)
	}
}

func (b *Base) emitCaseSync(ctx context.Context, tenantID, caseID, ddqID uuid.UUID) {
	if !b.ent.HasEvent(enums.EventDownstreamSync) {
		return
	}
	record := transactions.Record{
		TenantID:   tenantID,
		Operation:  enums.TransactionOperationUpdate,
		Type:       enums.TransactionTypeCaseSync,
		EntityID:   caseID,
		EntityType: enums.EntityTypeCase,
	}
	if ddqID != uuid.Nil {
		triggerType := enums.EntityTypeQuestionnaire
		trigger := ddqID
		record.TriggerEntityID = &trigger
		record.TriggerEntityType = &triggerType
	}
	_, err := b.deps.Outbox.EmitIfNotActive(ctx, record)
	if err != nil {
		b.logg().Error(ctx, "case sync emit failed", err)
	}
}

// reviewed runs the standard case-folder review side effects.
func (b *Base) reviewed(ctx context.Context, in CaseFolderReviewInput) Result {
	return b.run(ctx, "case_folder_review", func(ctx context.Context) Result {
		if in.Case == nil {
			return failed(pkgerrors.New(pkgerrors.CodeValidation, "case required"))
		}
		if !in.Action.IsValid() {
			return failed(pkgerrors.New(pkgerrors.CodeValidation, "invalid review action"))
		}
		ctx = b.logg().WithCaseID(ctx, in.Case.ID.String())
		ctx = b.logg().WithActorID(ctx, in.ActorID.String())

		if b.ent.HasEvent(enums.EventCaseReviewNotify) {
			name := "a third party"
			if in.Profile != nil {
				name = in.Profile.Name
			}
			_, err := b.deps.Notifications.Notify(ctx, notifications.Notice{
				TenantID: in.Case.TenantID,
				Purpose:  enums.PurposeSpecialistReview,
				Subject:  fmt.Sprintf("Case folder %s for %s", in.Action, name),
				TextBody: fmt.Sprintf("A case folder for %s was marked %s.", name, in.Action),
			})
			if err != nil {
				b.logg().Error(ctx, "case review notification failed", err)
			}
		}

		b.emitCaseSync(ctx, in.Case.TenantID, in.Case.ID, uuid.Nil)
		return completed()
	})
}

// approved runs the standard profile approval side effects.
func (b *Base) approved(ctx context.Context, in ProfileApprovalInput) Result {
	return b.run(ctx, "profile_approval", func(ctx context.Context) Result {
		if in.Profile == nil {
			return failed(pkgerrors.New(pkgerrors.CodeValidation, "profile required"))
		}
		if !in.Action.IsValid() {
			return failed(pkgerrors.New(pkgerrors.CodeValidation, "invalid review action"))
		}
		ctx = b.logg().WithProfileID(ctx, in.Profile.ID.String())
		ctx = b.logg().WithActorID(ctx, in.ActorID.String())

		if in.Action == enums.ReviewActionApprove && b.ent.HasEvent(enums.EventApprovalNotify) {
			_, err := b.deps.Notifications.Notify(ctx, notifications.Notice{
				TenantID: in.Profile.TenantID,
				Purpose:  enums.PurposeSpecialistReview,
				Subject:  fmt.Sprintf("Profile approved: %s", in.Profile.Name),
				TextBody: fmt.Sprintf("The profile %s was approved.", in.Profile.Name),
			})
			if err != nil {
				b.logg().Error(ctx, "approval notification failed", err)
			}
		}
		if b.ent.HasEvent(enums.EventSecondaryStakeholder) {
			_, err := b.deps.Notifications.Notify(ctx, notifications.Notice{
				TenantID: in.Profile.TenantID,
				Purpose:  enums.PurposeSecondaryStakeholder,
				Subject:  fmt.Sprintf("Review decision on %s", in.Profile.Name),
				TextBody: fmt.Sprintf("The profile %s was marked %s.", in.Profile.Name, in.Action),
			})
			if err != nil {
				b.logg().Error(ctx, "stakeholder notification failed", err)
			}
		}

		b.emitProfileSync(ctx, in.Profile)
		return completed()
	})
}

// scorecardDone runs the standard internal-scorecard submission handling.
func (b *Base) scorecardDone(ctx context.Context, in ScorecardSubmittedInput) Result {
	return b.run(ctx, "scorecard_submitted", func(ctx context.Context) Result {
		if in.Profile == nil || in.Questionnaire == nil {
			return failed(pkgerrors.New(pkgerrors.CodeValidation, "profile and questionnaire required"))
		}
		if in.Questionnaire.FormType != enums.FormTypeScorecard {
			return failed(pkgerrors.New(pkgerrors.CodeStateConflict, "questionnaire is not a scorecard"))
		}
		ctx = b.logg().WithProfileID(ctx, in.Profile.ID.String())

		if b.ent.HasEvent(enums.EventCaseReviewNotify) {
			_, err := b.deps.Notifications.Notify(ctx, notifications.Notice{
				TenantID: in.Profile.TenantID,
				Purpose:  enums.PurposeSpecialistReview,
				Subject:  fmt.Sprintf("Scorecard completed for %s", in.Profile.Name),
				TextBody: fmt.Sprintf("An internal scorecard for %s is ready for review.", in.Profile.Name),
			})
			if err != nil {
				b.logg().Error(ctx, "scorecard notification failed", err)
			}
		}
		b.emitCaseSync(ctx, in.Profile.TenantID, in.Questionnaire.CaseID, in.Questionnaire.ID)
		return completed()
	})
}

// canLaunchBatch answers the batch-review permission check shared by all
// variants: the tenant needs the feature and the launch event.
func (b *Base) canLaunchBatch(userID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return b.ent.HasFeature(enums.FeatureBatchReview) && b.ent.HasEvent(enums.EventBatchReviewLaunch), nil
}

// batchAvailable additionally requires every profile to carry a risk
// assessment before the first batch can run.
func (b *Base) batchAvailable(ctx context.Context) (bool, error) {
	if !b.ent.HasFeature(enums.FeatureBatchReview) || !b.ent.HasEvent(enums.EventBatchReviewLaunch) {
		return false, nil
	}
	assessed, err := b.deps.Profiles.AllAssessed(ctx, b.ent.TenantID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking assessment coverage")
	}
	return assessed, nil
}

// launchBatch queues the batch review run through the outbox, deduplicated
// per tenant so an in-flight launch cannot be queued twice.
func (b *Base) launchBatch(ctx context.Context, in InitialReviewBatchLaunchInput) Result {
	return b.run(ctx, "initial_review_batch_launch", func(ctx context.Context) Result {
		available, err := b.batchAvailable(ctx)
		if err != nil {
			return failed(err)
		}
		if !available {
			return declined()
		}
		userType := enums.EntityTypeUser
		record := transactions.Record{
			TenantID:   b.ent.TenantID,
			Operation:  enums.TransactionOperationInsert,
			Type:       enums.TransactionTypeReviewBatch,
			EntityID:   b.ent.TenantID,
			EntityType: enums.EntityTypeTenant,
		}
		if in.LaunchedBy != uuid.Nil {
			launchedBy := in.LaunchedBy
			record.TriggerEntityID = &launchedBy
			record.TriggerEntityType = &userType
		}
		queued, err := b.deps.Outbox.EmitIfNotActive(ctx, record)
		if err != nil {
			return failed(err)
		}
		if !queued {
			b.logg().Info(ctx, "batch review launch already queued")
			return skipped()
		}
		return completed()
	})
}
