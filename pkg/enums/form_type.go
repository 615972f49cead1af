package enums

import "fmt"

// FormType selects which questionnaire template an invitation issues.
type FormType string

const (
	// FormTypeFull is the complete external due-diligence questionnaire.
	FormTypeFull FormType = "full"
	// FormTypeAttestation is the lightweight renewal variant alternated with
	// full questionnaires based on risk tier and submission history.
	FormTypeAttestation FormType = "attestation"
	// FormTypeScorecard is the internal-only variant filled by staff; it is
	// never dispatched to the third party.
	FormTypeScorecard FormType = "scorecard"
)

var validFormTypes = []FormType{FormTypeFull, FormTypeAttestation, FormTypeScorecard}

// IsValid reports whether the value matches a known form type.
func (f FormType) IsValid() bool {
	for _, candidate := range validFormTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// IsExternal reports whether the form is sent to the third party.
func (f FormType) IsExternal() bool {
	return f == FormTypeFull || f == FormTypeAttestation
}

// ParseFormType converts raw input into a FormType.
func ParseFormType(value string) (FormType, error) {
	for _, candidate := range validFormTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid form type %q", value)
}
