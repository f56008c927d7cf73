package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTextQuery(t *testing.T) {
	from, to := date(2024, 1, 1), date(2024, 1, 31)

	tests := []struct {
		name      string
		filter    LedgerFilter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "no predicates",
			filter:    LedgerFilter{},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
		{
			name:      "description only opens with WHERE",
			filter:    LedgerFilter{Description: "Rent"},
			wantWhere: ` WHERE LOWER(description) LIKE @description ESCAPE '\'`,
			wantArgs:  map[string]any{"description": "%rent%"},
		},
		{
			name:      "lower bound only",
			filter:    LedgerFilter{DueDateFrom: &from},
			wantWhere: " WHERE due_date >= @dueDateFrom",
			wantArgs:  map[string]any{"dueDateFrom": from},
		},
		{
			name:      "upper bound only",
			filter:    LedgerFilter{DueDateTo: &to},
			wantWhere: " WHERE due_date <= @dueDateTo",
			wantArgs:  map[string]any{"dueDateTo": to},
		},
		{
			name:      "both bounds become BETWEEN",
			filter:    LedgerFilter{DueDateFrom: &from, DueDateTo: &to},
			wantWhere: " WHERE due_date BETWEEN @dueDateFrom AND @dueDateTo",
			wantArgs:  map[string]any{"dueDateFrom": from, "dueDateTo": to},
		},
		{
			name:      "date clause precedes description",
			filter:    LedgerFilter{Description: "bill", DueDateFrom: &from},
			wantWhere: ` WHERE due_date >= @dueDateFrom AND LOWER(description) LIKE @description ESCAPE '\'`,
			wantArgs:  map[string]any{"dueDateFrom": from, "description": "%bill%"},
		},
		{
			name:      "all fields",
			filter:    LedgerFilter{Description: "bill", DueDateFrom: &from, DueDateTo: &to},
			wantWhere: ` WHERE due_date BETWEEN @dueDateFrom AND @dueDateTo AND LOWER(description) LIKE @description ESCAPE '\'`,
			wantArgs:  map[string]any{"dueDateFrom": from, "dueDateTo": to, "description": "%bill%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := BuildTextQuery(tt.filter.Predicates())
			assert.Equal(t, tt.wantWhere, q.Where)
			assert.Equal(t, tt.wantArgs, q.Args)
		})
	}
}

func TestTextQueryStatements(t *testing.T) {
	q := BuildTextQuery(LedgerFilter{Description: "rent"}.Predicates())

	assert.Equal(t, `SELECT * FROM ledger_entries WHERE LOWER(description) LIKE @description ESCAPE '\' ORDER BY code`, q.SelectSQL())
	assert.Equal(t, `SELECT COUNT(*) FROM ledger_entries WHERE LOWER(description) LIKE @description ESCAPE '\'`, q.CountSQL())

	query, args := q.Paged(PageRequest{Number: 2, Size: 5})
	assert.Equal(t, q.SelectSQL()+" LIMIT @limit OFFSET @offset", query)
	assert.Equal(t, 5, args["limit"])
	assert.Equal(t, 10, args["offset"])
	assert.NotContains(t, q.Args, "limit", "paging must not leak into the count args")
}
