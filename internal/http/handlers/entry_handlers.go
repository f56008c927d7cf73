package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rogerio-castellano/algamoney-api/internal/models"
	"github.com/rogerio-castellano/algamoney-api/internal/repo"
	"github.com/sirupsen/logrus"
)

const defaultPageSize = 20

// SearchEntriesHandler godoc
// @Summary Search ledger entries
// @Description Filters entries by description substring and due date range. Omitting page and size returns every match.
// @Tags entries
// @Security BearerAuth
// @Produce json
// @Param description query string false "Case-insensitive description substring"
// @Param dueDateFrom query string false "Due date lower bound (YYYY-MM-DD, inclusive)"
// @Param dueDateTo query string false "Due date upper bound (YYYY-MM-DD, inclusive)"
// @Param page query int false "Zero-based page number"
// @Param size query int false "Page size"
// @Param mode query string false "Query builder: criteria or text" Enums(criteria, text)
// @Success 200 {object} EntriesSearchResult
// @Failure 400 {object} map[string]string "Validation errors"
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {string} string "Server error"
// @Router /entries [get]
func SearchEntriesHandler(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q := EntriesQuery{
		Description: values.Get("description"),
		DueDateFrom: values.Get("dueDateFrom"),
		DueDateTo:   values.Get("dueDateTo"),
		Page:        values.Get("page"),
		Size:        values.Get("size"),
		Mode:        values.Get("mode"),
	}

	if err := q.Validate(); err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"errors": err})
		return
	}

	filter := repo.LedgerFilter{
		Description: q.Description,
		DueDateFrom: parseDate(q.DueDateFrom),
		DueDateTo:   parseDate(q.DueDateTo),
	}
	text := q.Mode == modeText

	if q.Page == "" && q.Size == "" {
		searchAll(w, r, filter, text)
		return
	}

	page := repo.PageRequest{Number: atoiOr(q.Page, 0), Size: atoiOr(q.Size, defaultPageSize)}
	searchPage(w, r, filter, page, text)
}

func searchAll(w http.ResponseWriter, r *http.Request, filter repo.LedgerFilter, text bool) {
	var (
		entries []models.LedgerEntry
		err     error
	)
	if text {
		entries, err = ledgerService.FilterAllWithTextQuery(r.Context(), filter)
	} else {
		entries, err = ledgerService.FilterAll(r.Context(), filter)
	}
	if err != nil {
		logrus.WithError(err).Error("failed to search entries")
		http.Error(w, "failed to search entries", http.StatusInternalServerError)
		return
	}

	respond(w, http.StatusOK, EntriesSearchResult{
		Data: toEntryResponses(entries),
		Meta: Meta{TotalCount: int64(len(entries))},
	})
}

func searchPage(w http.ResponseWriter, r *http.Request, filter repo.LedgerFilter, req repo.PageRequest, text bool) {
	var (
		page repo.Page[models.LedgerEntry]
		err  error
	)
	if text {
		page, err = ledgerService.FilterWithTextQuery(r.Context(), filter, req)
	} else {
		page, err = ledgerService.Filter(r.Context(), filter, req)
	}
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"page": req.Number,
			"size": req.Size,
		}).Error("failed to search entries")
		http.Error(w, "failed to search entries", http.StatusInternalServerError)
		return
	}

	totalPages := page.TotalPages()
	respond(w, http.StatusOK, EntriesSearchResult{
		Data: toEntryResponses(page.Items),
		Meta: Meta{
			TotalCount: page.Total,
			Page:       &req.Number,
			Size:       &req.Size,
			TotalPages: &totalPages,
		},
	})
}

func toEntryResponses(entries []models.LedgerEntry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := EntryResponse{
			Code:         e.Code,
			Description:  e.Description,
			DueDate:      e.DueDate.Format(dateLayout),
			Value:        e.Value,
			Type:         string(e.Type),
			Note:         e.Note,
			CategoryCode: e.CategoryCode,
			PersonCode:   e.PersonCode,
		}
		if e.PaymentDate != nil {
			resp.PaymentDate = e.PaymentDate.Format(dateLayout)
		}
		out = append(out, resp)
	}
	return out
}

// parseDate expects input already checked by EntriesQuery.Validate.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
