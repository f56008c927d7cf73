package repo

import (
	"strings"
	"time"

	"github.com/rogerio-castellano/algamoney-api/internal/models"
)

// Field is a filterable ledger entry column.
type Field string

const (
	FieldDescription Field = "description"
	FieldDueDate     Field = "due_date"
)

// Op is the comparison a predicate applies to its field.
type Op string

const (
	OpContainsFold Op = "contains_fold"
	OpGte          Op = "gte"
	OpLte          Op = "lte"
)

// Predicate is a single condition contributed by one populated filter field.
// Every executor consumes the same predicate list; they only differ in how
// they render it.
type Predicate struct {
	Field Field
	Op    Op
	Value any
}

// Predicates returns one predicate per populated field, in a fixed order:
// description, due date lower bound, due date upper bound. Absent fields are
// left out, so an empty filter yields no predicates at all.
func (f LedgerFilter) Predicates() []Predicate {
	var preds []Predicate

	if f.HasDescription() {
		preds = append(preds, Predicate{
			Field: FieldDescription,
			Op:    OpContainsFold,
			Value: strings.ToLower(f.Description),
		})
	}
	if f.HasDueDateFrom() {
		preds = append(preds, Predicate{Field: FieldDueDate, Op: OpGte, Value: *f.DueDateFrom})
	}
	if f.HasDueDateTo() {
		preds = append(preds, Predicate{Field: FieldDueDate, Op: OpLte, Value: *f.DueDateTo})
	}

	return preds
}

// Matches evaluates the predicate against an entry held in memory.
func (p Predicate) Matches(e models.LedgerEntry) bool {
	switch p.Op {
	case OpContainsFold:
		return strings.Contains(strings.ToLower(e.Description), p.Value.(string))
	case OpGte:
		return !e.DueDate.Before(p.Value.(time.Time))
	case OpLte:
		return !e.DueDate.After(p.Value.(time.Time))
	}
	return false
}

func matchesAll(e models.LedgerEntry, preds []Predicate) bool {
	for _, p := range preds {
		if !p.Matches(e) {
			return false
		}
	}
	return true
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a substring into a LIKE pattern. Wildcards typed by the
// user are escaped so SQL matching agrees with strings.Contains.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
