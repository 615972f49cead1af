package enums

// CaseType is the numeric case classification carried over from the legacy
// casework system. Invitation control rows map form types onto case types.
type CaseType int

// CaseTypeDefault is the fallback classification used when language and
// control lookups have no exact match.
const CaseTypeDefault CaseType = 12

// IsValid reports whether the case type is in the legacy range.
func (c CaseType) IsValid() bool {
	return c > 0 && c < 100
}
