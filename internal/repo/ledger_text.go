package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/algamoney-api/internal/models"
	"gorm.io/gorm"
)

const ledgerTable = "ledger_entries"

// TextQuery is a filter rendered as SQL text with named @placeholders.
type TextQuery struct {
	Where string
	Args  map[string]any
}

// BuildTextQuery renders the predicates as a WHERE clause. The date range
// comes first (BETWEEN when both bounds are set), then the description match.
// The first clause opens with WHERE and every following one with AND.
func BuildTextQuery(preds []Predicate) TextQuery {
	var (
		from, to    *time.Time
		description *string
	)
	for _, p := range preds {
		switch {
		case p.Field == FieldDueDate && p.Op == OpGte:
			v := p.Value.(time.Time)
			from = &v
		case p.Field == FieldDueDate && p.Op == OpLte:
			v := p.Value.(time.Time)
			to = &v
		case p.Field == FieldDescription && p.Op == OpContainsFold:
			v := p.Value.(string)
			description = &v
		}
	}

	var sb strings.Builder
	args := map[string]any{}
	keyword := "WHERE"
	appendClause := func(clause string) {
		sb.WriteString(" " + keyword + " " + clause)
		keyword = "AND"
	}

	switch {
	case from != nil && to != nil:
		appendClause("due_date BETWEEN @dueDateFrom AND @dueDateTo")
		args["dueDateFrom"] = *from
		args["dueDateTo"] = *to
	case from != nil:
		appendClause("due_date >= @dueDateFrom")
		args["dueDateFrom"] = *from
	case to != nil:
		appendClause("due_date <= @dueDateTo")
		args["dueDateTo"] = *to
	}

	if description != nil {
		appendClause(`LOWER(description) LIKE @description ESCAPE '\'`)
		args["description"] = likePattern(*description)
	}

	return TextQuery{Where: sb.String(), Args: args}
}

func (q TextQuery) SelectSQL() string {
	return "SELECT * FROM " + ledgerTable + q.Where + " ORDER BY code"
}

func (q TextQuery) CountSQL() string {
	return "SELECT COUNT(*) FROM " + ledgerTable + q.Where
}

// Paged returns the select statement with LIMIT/OFFSET placeholders and a
// copy of the args extended with their values.
func (q TextQuery) Paged(page PageRequest) (string, map[string]any) {
	args := make(map[string]any, len(q.Args)+2)
	for k, v := range q.Args {
		args[k] = v
	}
	args["limit"] = page.Size
	args["offset"] = page.Offset()
	return q.SelectSQL() + " LIMIT @limit OFFSET @offset", args
}

// TextLedgerRepository runs searches as raw SQL strings with named args.
type TextLedgerRepository struct {
	db *gorm.DB
}

func NewTextLedgerRepository(db *gorm.DB) *TextLedgerRepository {
	return &TextLedgerRepository{db: db}
}

func (r *TextLedgerRepository) Find(ctx context.Context, preds []Predicate, page *PageRequest) ([]models.LedgerEntry, error) {
	q := BuildTextQuery(preds)
	query, args := q.SelectSQL(), q.Args
	if page != nil {
		query, args = q.Paged(*page)
	}

	entries := []models.LedgerEntry{}
	if err := raw(r.db.WithContext(ctx), query, args).Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to execute ledger query: %w", err)
	}
	return entries, nil
}

// Count issues a dedicated COUNT(*) with the same clauses.
func (r *TextLedgerRepository) Count(ctx context.Context, preds []Predicate) (int64, error) {
	q := BuildTextQuery(preds)

	var total int64
	if err := raw(r.db.WithContext(ctx), q.CountSQL(), q.Args).Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return total, nil
}

// raw binds named args only when there are any; an empty map would be sent
// to the driver as a stray positional argument.
func raw(tx *gorm.DB, query string, args map[string]any) *gorm.DB {
	if len(args) == 0 {
		return tx.Raw(query)
	}
	return tx.Raw(query, args)
}
