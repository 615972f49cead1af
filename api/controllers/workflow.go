package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/api/responses"
	"github.com/oharrington/thirdline-backend/internal/workflow"
	"github.com/oharrington/thirdline-backend/pkg/enums"
	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
	"github.com/oharrington/thirdline-backend/pkg/logger"
)

var validate = validator.New()

func decodeAndValidate(r *http.Request, payload any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}
	if err := validate.Struct(payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request validation failed").
			WithDetails(err.Error())
	}
	return nil
}

type hookResponse struct {
	Outcome string `json:"outcome"`
}

func writeResult(w http.ResponseWriter, result workflow.Result) {
	responses.WriteSuccessStatus(w, http.StatusAccepted, hookResponse{Outcome: string(result.Outcome)})
}

type startWorkflowPayload struct {
	TenantID     uuid.UUID `json:"tenant_id" validate:"required"`
	ProfileID    uuid.UUID `json:"profile_id" validate:"required"`
	CaseID       uuid.UUID `json:"case_id"`
	FromUpload   bool      `json:"from_upload"`
	ActingUserID uuid.UUID `json:"acting_user_id"`
}

// StartProfileWorkflow launches the workflow for a profile. The hook result
// is advisory; a declined or skipped launch is still a 202.
func StartProfileWorkflow(engine *workflow.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload startWorkflowPayload
		if err := decodeAndValidate(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := engine.StartProfileWorkflow(r.Context(), payload.TenantID, payload.ProfileID, payload.CaseID, payload.ActingUserID, payload.FromUpload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeResult(w, result)
	}
}

type submissionPayload struct {
	TenantID        uuid.UUID `json:"tenant_id" validate:"required"`
	QuestionnaireID uuid.UUID `json:"questionnaire_id" validate:"required"`
}

func DDQSubmitted(engine *workflow.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload submissionPayload
		if err := decodeAndValidate(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := engine.DDQSubmitted(r.Context(), payload.TenantID, payload.QuestionnaireID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeResult(w, result)
	}
}

func ScorecardSubmitted(engine *workflow.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload submissionPayload
		if err := decodeAndValidate(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := engine.ScorecardSubmitted(r.Context(), payload.TenantID, payload.QuestionnaireID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeResult(w, result)
	}
}

type caseReviewPayload struct {
	TenantID uuid.UUID `json:"tenant_id" validate:"required"`
	CaseID   uuid.UUID `json:"case_id" validate:"required"`
	Action   string    `json:"action" validate:"required"`
	ActorID  uuid.UUID `json:"actor_id" validate:"required"`
}

func CaseFolderReview(engine *workflow.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload caseReviewPayload
		if err := decodeAndValidate(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		action, err := enums.ParseReviewAction(payload.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action"))
			return
		}
		result, err := engine.CaseFolderReview(r.Context(), payload.TenantID, payload.CaseID, action, payload.ActorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeResult(w, result)
	}
}

type profileApprovalPayload struct {
	TenantID  uuid.UUID `json:"tenant_id" validate:"required"`
	ProfileID uuid.UUID `json:"profile_id" validate:"required"`
	Action    string    `json:"action" validate:"required"`
	ActorID   uuid.UUID `json:"actor_id" validate:"required"`
}

func ProfileApproval(engine *workflow.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload profileApprovalPayload
		if err := decodeAndValidate(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		action, err := enums.ParseReviewAction(payload.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action"))
			return
		}
		result, err := engine.ProfileApproval(r.Context(), payload.TenantID, payload.ProfileID, action, payload.ActorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeResult(w, result)
	}
}

type manualSendPayload struct {
	TenantID     uuid.UUID `json:"tenant_id" validate:"required"`
	ProfileID    uuid.UUID `json:"profile_id" validate:"required"`
	FormType     string    `json:"form_type" validate:"required"`
	ActingUserID uuid.UUID `json:"acting_user_id"`
	Renewal      bool      `json:"renewal"`
}

// ManualSend issues an operator-requested invitation for a chosen form type.
func ManualSend(engine *workflow.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload manualSendPayload
		if err := decodeAndValidate(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		formType, err := enums.ParseFormType(payload.FormType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form type"))
			return
		}
		result, err := engine.ManualSend(r.Context(), payload.TenantID, payload.ProfileID, formType, payload.ActingUserID, payload.Renewal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeResult(w, result)
	}
}

type batchAvailabilityResponse struct {
	CanLaunch bool `json:"can_launch"`
	Available bool `json:"available"`
}

// BatchReviewAvailability answers whether the calling user may launch a
// batch review and whether the launch preconditions hold.
func BatchReviewAvailability(engine *workflow.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := uuid.Parse(r.URL.Query().Get("tenant_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tenant id"))
			return
		}
		userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		canLaunch, err := engine.UserCanLaunchBatchReview(r.Context(), tenantID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		available := false
		if canLaunch {
			available, err = engine.ReviewBatchLaunchAvailable(r.Context(), tenantID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, batchAvailabilityResponse{CanLaunch: canLaunch, Available: available})
	}
}

type batchLaunchPayload struct {
	TenantID   uuid.UUID `json:"tenant_id" validate:"required"`
	LaunchedBy uuid.UUID `json:"launched_by" validate:"required"`
}

func InitialReviewBatchLaunch(engine *workflow.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload batchLaunchPayload
		if err := decodeAndValidate(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		canLaunch, err := engine.UserCanLaunchBatchReview(r.Context(), payload.TenantID, payload.LaunchedBy)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !canLaunch {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeStateConflict, "batch review launch not permitted for tenant"))
			return
		}
		result, err := engine.InitialReviewBatchLaunch(r.Context(), payload.TenantID, payload.LaunchedBy)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeResult(w, result)
	}
}
