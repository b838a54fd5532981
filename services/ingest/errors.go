package ingest

import (
	"errors"
	"fmt"
	"strings"

	"menupick-admin-worker/services/taxonomy"
)

var (
	ErrEmptyName         = errors.New("meal item name is empty")
	ErrNegativeNutrition = errors.New("nutrition values must not be negative")
)

// CapacityExceededError rejects the whole call before anything is written.
type CapacityExceededError struct {
	Leaf       taxonomy.Leaf
	MaxAllowed int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("leaf %s reached its capacity of %d items", e.Leaf, e.MaxAllowed)
}

// PartialIngestionFailure means the groups in CommittedLeaves stay written; nothing is rolled back.
type PartialIngestionFailure struct {
	CommittedLeaves Counts
	FailedLeaf      taxonomy.Leaf
	Cause           error
}

func (e *PartialIngestionFailure) Error() string {
	committed := make([]string, 0, len(e.CommittedLeaves))
	for _, leaf := range e.CommittedLeaves.Leaves() {
		committed = append(committed, fmt.Sprintf("%s=%d", leaf, e.CommittedLeaves[leaf]))
	}
	return fmt.Sprintf("ingestion of leaf %s failed after committing [%s]: %v", e.FailedLeaf, strings.Join(committed, ", "), e.Cause)
}

func (e *PartialIngestionFailure) Unwrap() error {
	return e.Cause
}
