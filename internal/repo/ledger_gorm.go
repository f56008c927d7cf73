package repo

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/algamoney-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedgerRepository builds searches from GORM clause expressions bound
// to typed columns.
type GormLedgerRepository struct {
	db *gorm.DB
}

func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Find returns the entries matching preds, optionally restricted to a page.
func (r *GormLedgerRepository) Find(ctx context.Context, preds []Predicate, page *PageRequest) ([]models.LedgerEntry, error) {
	tx := r.scoped(ctx, preds).Order(clause.OrderByColumn{Column: clause.Column{Name: "code"}})
	if page != nil {
		tx = applyPage(tx, *page)
	}

	entries := []models.LedgerEntry{}
	if err := tx.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch ledger entries: %w", err)
	}
	return entries, nil
}

// Count runs a count aggregate over the same predicates, ignoring pagination.
func (r *GormLedgerRepository) Count(ctx context.Context, preds []Predicate) (int64, error) {
	var total int64
	if err := r.scoped(ctx, preds).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return total, nil
}

func (r *GormLedgerRepository) scoped(ctx context.Context, preds []Predicate) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.LedgerEntry{})
	if exprs := Expressions(preds); len(exprs) > 0 {
		tx = tx.Clauses(clause.Where{Exprs: exprs})
	}
	return tx
}

// Expressions converts predicates into clause expressions, ANDed by the
// WHERE clause they are placed in.
func Expressions(preds []Predicate) []clause.Expression {
	exprs := make([]clause.Expression, 0, len(preds))
	for _, p := range preds {
		if expr := expression(p); expr != nil {
			exprs = append(exprs, expr)
		}
	}
	return exprs
}

func expression(p Predicate) clause.Expression {
	column := clause.Column{Name: string(p.Field)}

	switch p.Op {
	case OpContainsFold:
		return clause.Expr{
			SQL:  `LOWER(?) LIKE ? ESCAPE '\'`,
			Vars: []any{column, likePattern(p.Value.(string))},
		}
	case OpGte:
		return clause.Gte{Column: column, Value: p.Value}
	case OpLte:
		return clause.Lte{Column: column, Value: p.Value}
	}
	return nil
}

func applyPage(tx *gorm.DB, page PageRequest) *gorm.DB {
	return tx.Offset(page.Offset()).Limit(page.Size)
}
