package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/rogerio-castellano/algamoney-api/internal/models"
)

// InMemoryLedgerRepository is an in-memory implementation of LedgerExecutor.
type InMemoryLedgerRepository struct {
	mu       sync.RWMutex
	entries  []models.LedgerEntry
	nextCode int64
}

// NewInMemoryLedgerRepository creates a new instance of InMemoryLedgerRepository.
func NewInMemoryLedgerRepository() *InMemoryLedgerRepository {
	return &InMemoryLedgerRepository{
		entries:  []models.LedgerEntry{},
		nextCode: 1,
	}
}

// Create stores an entry and assigns it the next code.
func (r *InMemoryLedgerRepository) Create(entry models.LedgerEntry) models.LedgerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.Code = r.nextCode
	r.nextCode++
	r.entries = append(r.entries, entry)
	return entry
}

// Clear drops every entry and restarts code assignment at 1.
func (r *InMemoryLedgerRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = []models.LedgerEntry{}
	r.nextCode = 1
}

func (r *InMemoryLedgerRepository) Find(_ context.Context, preds []Predicate, page *PageRequest) ([]models.LedgerEntry, error) {
	filtered := r.filter(preds)
	if page == nil {
		return filtered, nil
	}

	// Mirror SQL OFFSET/LIMIT: a negative offset skips nothing and a
	// negative size means no limit.
	start := clamp(page.Offset(), 0, len(filtered))
	end := len(filtered)
	if page.Size >= 0 {
		end = clamp(start+page.Size, start, len(filtered))
	}

	return filtered[start:end], nil
}

func (r *InMemoryLedgerRepository) Count(_ context.Context, preds []Predicate) (int64, error) {
	return int64(len(r.filter(preds))), nil
}

func (r *InMemoryLedgerRepository) filter(preds []Predicate) []models.LedgerEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := []models.LedgerEntry{}
	for _, e := range r.entries {
		if matchesAll(e, preds) {
			filtered = append(filtered, e)
		}
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Code < filtered[j].Code })
	return filtered
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
