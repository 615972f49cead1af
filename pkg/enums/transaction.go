package enums

import "fmt"

// TransactionOperation describes the CRUD verb a downstream sync must replay.
type TransactionOperation string

const (
	TransactionOperationInsert TransactionOperation = "insert"
	TransactionOperationUpdate TransactionOperation = "update"
	TransactionOperationDelete TransactionOperation = "delete"
)

var validTransactionOperations = []TransactionOperation{
	TransactionOperationInsert,
	TransactionOperationUpdate,
	TransactionOperationDelete,
}

// IsValid reports whether the operation is a known CRUD verb.
func (o TransactionOperation) IsValid() bool {
	for _, candidate := range validTransactionOperations {
		if candidate == o {
			return true
		}
	}
	return false
}

// TransactionStatus is the outbox row lifecycle state. Only PEND is written
// by this service; terminal transitions belong to the downstream consumer.
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "PEND"
	TransactionStatusDone     TransactionStatus = "DONE"
	TransactionStatusFailed   TransactionStatus = "FAIL"
	TransactionStatusCanceled TransactionStatus = "CANC"
)

// IsTerminal reports whether the status ends the row's lifecycle.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusDone, TransactionStatusFailed, TransactionStatusCanceled:
		return true
	default:
		return false
	}
}

// IsValid reports whether the value matches a known status.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusDone, TransactionStatusFailed, TransactionStatusCanceled:
		return true
	default:
		return false
	}
}

// TransactionType codes the kind of cross-system sync a row represents.
type TransactionType string

const (
	TransactionTypeProfileSync   TransactionType = "TP_PROFILE_SYNC"
	TransactionTypeCaseSync      TransactionType = "CASE_SYNC"
	TransactionTypeScreeningSync TransactionType = "SCREENING_SYNC"
	TransactionTypeReviewBatch   TransactionType = "REVIEW_BATCH"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeProfileSync,
	TransactionTypeCaseSync,
	TransactionTypeScreeningSync,
	TransactionTypeReviewBatch,
}

// IsValid reports whether the value matches a known transaction type.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionType converts raw input into a TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
