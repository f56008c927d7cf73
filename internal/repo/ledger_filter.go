package repo

import (
	"strings"
	"time"
)

// LedgerFilter holds the optional search constraints over ledger entries.
// A blank description or a nil/zero date means "no constraint".
type LedgerFilter struct {
	Description string
	DueDateFrom *time.Time
	DueDateTo   *time.Time
}

func (f LedgerFilter) HasDescription() bool {
	return strings.TrimSpace(f.Description) != ""
}

func (f LedgerFilter) HasDueDateFrom() bool {
	return f.DueDateFrom != nil && !f.DueDateFrom.IsZero()
}

func (f LedgerFilter) HasDueDateTo() bool {
	return f.DueDateTo != nil && !f.DueDateTo.IsZero()
}
