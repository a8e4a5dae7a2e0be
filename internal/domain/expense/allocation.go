package expense

import (
	"barinalp/internal/core/apperror"
)

// AllocationMode selects how the invoice cost is assigned to cost objects.
type AllocationMode string

const (
	// ModeWholeInvoice assigns every position to one cost object.
	ModeWholeInvoice AllocationMode = "whole"
	// ModePerLine assigns each position to its own cost object.
	ModePerLine AllocationMode = "split"
)

// IsValid reports whether m is a known mode.
func (m AllocationMode) IsValid() bool {
	return m == ModeWholeInvoice || m == ModePerLine
}

// Allocation holds the active mode and the whole-invoice selection.
// Per-line selections live on the positions. Both are kept across mode switches.
type Allocation struct {
	Mode          AllocationMode
	WholeObjectID string
}

// ObjectFor returns the cost object p is allocated to under this allocation.
func (a Allocation) ObjectFor(p Position) string {
	if a.Mode == ModeWholeInvoice {
		return a.WholeObjectID
	}
	return p.CostObjectID
}

// check verifies the allocation covers every valid position.
func (a Allocation) check(valid []Position) error {
	switch a.Mode {
	case ModeWholeInvoice:
		if a.WholeObjectID == "" {
			return apperror.NewBusinessRule(apperror.CodeMissingAllocation, MsgSelectObject).
				WithDetail("field", "wholeObjectId")
		}
	case ModePerLine:
		var unallocated []string
		for _, p := range valid {
			if p.CostObjectID == "" {
				unallocated = append(unallocated, p.ID)
			}
		}
		if len(unallocated) > 0 {
			return apperror.NewBusinessRule(apperror.CodeMissingAllocation, MsgAllocateAll).
				WithDetail("positions", unallocated)
		}
	default:
		return apperror.NewValidation("unknown allocation mode").
			WithDetail("mode", a.Mode)
	}
	return nil
}
