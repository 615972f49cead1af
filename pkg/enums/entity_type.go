package enums

import "fmt"

// EntityType names the table a polymorphic reference points at.
type EntityType string

const (
	EntityTypeProfile       EntityType = "third_party_profile"
	EntityTypeCase          EntityType = "case"
	EntityTypeQuestionnaire EntityType = "questionnaire"
	EntityTypeUser          EntityType = "user"
	EntityTypeTenant        EntityType = "tenant"
)

var validEntityTypes = []EntityType{
	EntityTypeProfile,
	EntityTypeCase,
	EntityTypeQuestionnaire,
	EntityTypeUser,
	EntityTypeTenant,
}

// IsValid reports whether the value matches a known entity type.
func (e EntityType) IsValid() bool {
	for _, candidate := range validEntityTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEntityType converts raw input into an EntityType.
func ParseEntityType(value string) (EntityType, error) {
	for _, candidate := range validEntityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entity type %q", value)
}
