package repo

import (
	"context"

	"github.com/rogerio-castellano/algamoney-api/internal/models"
)

// LedgerExecutor runs a predicate set against a ledger entry store.
// A nil page means the whole filtered result. Results are ordered by code.
type LedgerExecutor interface {
	Find(ctx context.Context, preds []Predicate, page *PageRequest) ([]models.LedgerEntry, error)
	Count(ctx context.Context, preds []Predicate) (int64, error)
}
