// Package ledger exposes filtered searches over ledger entries.
package ledger

import (
	"context"

	"github.com/rogerio-castellano/algamoney-api/internal/models"
	"github.com/rogerio-castellano/algamoney-api/internal/repo"
	"github.com/sirupsen/logrus"
)

// Service composes the filter predicates, pagination and total count on top
// of two executors: one building structured clause expressions and one
// building SQL text. Both receive the same predicate list.
type Service struct {
	criteria repo.LedgerExecutor
	text     repo.LedgerExecutor
}

func NewService(criteria, text repo.LedgerExecutor) *Service {
	return &Service{criteria: criteria, text: text}
}

// Filter returns one page of entries matching f together with the total
// number of matches. Fetch and count are two independent queries, so the
// total can drift from the page if entries change in between.
func (s *Service) Filter(ctx context.Context, f repo.LedgerFilter, p repo.PageRequest) (repo.Page[models.LedgerEntry], error) {
	return filterPage(ctx, s.criteria, f, p)
}

// FilterAll returns every entry matching f.
func (s *Service) FilterAll(ctx context.Context, f repo.LedgerFilter) ([]models.LedgerEntry, error) {
	return s.criteria.Find(ctx, f.Predicates(), nil)
}

func (s *Service) FilterWithTextQuery(ctx context.Context, f repo.LedgerFilter, p repo.PageRequest) (repo.Page[models.LedgerEntry], error) {
	return filterPage(ctx, s.text, f, p)
}

func (s *Service) FilterAllWithTextQuery(ctx context.Context, f repo.LedgerFilter) ([]models.LedgerEntry, error) {
	return s.text.Find(ctx, f.Predicates(), nil)
}

func filterPage(ctx context.Context, exec repo.LedgerExecutor, f repo.LedgerFilter, p repo.PageRequest) (repo.Page[models.LedgerEntry], error) {
	preds := f.Predicates()

	logrus.WithFields(logrus.Fields{
		"predicates": len(preds),
		"page":       p.Number,
		"size":       p.Size,
	}).Debug("ledger search")

	items, err := exec.Find(ctx, preds, &p)
	if err != nil {
		return repo.Page[models.LedgerEntry]{}, err
	}

	total, err := exec.Count(ctx, preds)
	if err != nil {
		return repo.Page[models.LedgerEntry]{}, err
	}

	return repo.NewPage(items, p, total), nil
}
