package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"country-insights/internal/domain"
	"country-insights/internal/storage"
)

// CountryStore is an in-memory implementation of storage.CountryStore.
// Used by tests and by the server's --use-memory mode.
type CountryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Country // keyed by lower(name)
}

// NewCountryStore creates a new in-memory country store.
func NewCountryStore() *CountryStore {
	return &CountryStore{
		data: make(map[string]*domain.Country),
	}
}

// Verify interface compliance at compile time.
var _ storage.CountryStore = (*CountryStore)(nil)

// UpsertBatch inserts or updates records keyed by case-insensitive name.
// Mirrors the PostgreSQL engine's accounting: one affected row per input
// record, insert or update alike.
func (s *CountryStore) UpsertBatch(_ context.Context, countries []*domain.Country) (int64, error) {
	if len(countries) == 0 {
		return 0, nil
	}

	for _, c := range countries {
		if c == nil || c.Name == "" {
			return 0, storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	for _, c := range countries {
		// Store a copy to prevent external mutation
		countryCopy := *c
		s.data[strings.ToLower(c.Name)] = &countryCopy
		affected++
	}
	return affected, nil
}

// Filter retrieves records matching opts, ordered by estimated GDP with
// unknown values last in both directions.
func (s *CountryStore) Filter(_ context.Context, opts storage.FilterOptions) ([]*domain.Country, error) {
	switch opts.Sort {
	case storage.SortGDPAsc, storage.SortGDPDesc, "":
	default:
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Country
	for _, c := range s.data {
		if opts.Region != "" && (c.Region == nil || !strings.EqualFold(*c.Region, opts.Region)) {
			continue
		}
		if opts.Currency != "" && (c.CurrencyCode == nil || !strings.EqualFold(*c.CurrencyCode, opts.Currency)) {
			continue
		}
		countryCopy := *c
		result = append(result, &countryCopy)
	}

	asc := opts.Sort == storage.SortGDPAsc
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		// Unknown GDP sorts last regardless of direction.
		switch {
		case a.EstimatedGDP == nil && b.EstimatedGDP == nil:
			return a.Name < b.Name
		case a.EstimatedGDP == nil:
			return false
		case b.EstimatedGDP == nil:
			return true
		}
		cmp := a.EstimatedGDP.Cmp(*b.EstimatedGDP)
		if cmp == 0 {
			return a.Name < b.Name
		}
		if asc {
			return cmp < 0
		}
		return cmp > 0
	})

	return result, nil
}

// GetByName retrieves one record. Returns ErrNotFound if not exists.
func (s *CountryStore) GetByName(_ context.Context, name string) (*domain.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[strings.ToLower(name)]
	if !exists {
		return nil, storage.ErrNotFound
	}

	countryCopy := *c
	return &countryCopy, nil
}

// DeleteByName removes one record. Reports whether a record existed.
func (s *CountryStore) DeleteByName(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(name)
	if _, exists := s.data[key]; !exists {
		return false, nil
	}
	delete(s.data, key)
	return true, nil
}

// Count returns the total number of records.
func (s *CountryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.data)), nil
}

// LastRefreshTime returns the most recent cycle timestamp, or nil when the
// store is empty.
func (s *CountryStore) LastRefreshTime(_ context.Context) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *time.Time
	for _, c := range s.data {
		if latest == nil || c.LastRefreshedAt.After(*latest) {
			ts := c.LastRefreshedAt
			latest = &ts
		}
	}
	return latest, nil
}
