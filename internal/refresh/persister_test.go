package refresh

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"country-insights/internal/domain"
	"country-insights/internal/storage"
)

// recordingStore captures UpsertBatch calls and can fail a given chunk.
type recordingStore struct {
	batchSizes []int
	failAt     int // 1-based chunk index to fail, 0 = never
}

func (s *recordingStore) UpsertBatch(_ context.Context, countries []*domain.Country) (int64, error) {
	s.batchSizes = append(s.batchSizes, len(countries))
	if s.failAt > 0 && len(s.batchSizes) == s.failAt {
		return 0, errors.New("storage fault")
	}
	return int64(len(countries)), nil
}

func (s *recordingStore) Filter(context.Context, storage.FilterOptions) ([]*domain.Country, error) {
	return nil, nil
}
func (s *recordingStore) GetByName(context.Context, string) (*domain.Country, error) {
	return nil, storage.ErrNotFound
}
func (s *recordingStore) DeleteByName(context.Context, string) (bool, error) { return false, nil }
func (s *recordingStore) Count(context.Context) (int64, error)               { return 0, nil }
func (s *recordingStore) LastRefreshTime(context.Context) (*time.Time, error) {
	return nil, nil
}

func makeCountries(n int) []*domain.Country {
	countries := make([]*domain.Country, n)
	for i := range countries {
		countries[i] = &domain.Country{Name: fmt.Sprintf("Country-%03d", i)}
	}
	return countries
}

func TestPersister_EmptyInputIsNoOp(t *testing.T) {
	store := &recordingStore{}
	affected, err := NewPersister(store).Persist(context.Background(), nil)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if affected != 0 {
		t.Errorf("expected 0 affected, got %d", affected)
	}
	if len(store.batchSizes) != 0 {
		t.Errorf("expected no storage calls, got %d", len(store.batchSizes))
	}
}

func TestPersister_ChunksOfAtMost100(t *testing.T) {
	cases := []struct {
		records    int
		wantChunks []int
	}{
		{1, []int{1}},
		{100, []int{100}},
		{101, []int{100, 1}},
		{250, []int{100, 100, 50}},
	}

	for _, tc := range cases {
		store := &recordingStore{}
		affected, err := NewPersister(store).Persist(context.Background(), makeCountries(tc.records))
		if err != nil {
			t.Fatalf("%d records: unexpected error: %v", tc.records, err)
		}

		if affected != int64(tc.records) {
			t.Errorf("%d records: affected %d, want %d", tc.records, affected, tc.records)
		}
		if len(store.batchSizes) != len(tc.wantChunks) {
			t.Fatalf("%d records: %d chunks, want %d", tc.records, len(store.batchSizes), len(tc.wantChunks))
		}
		for i, size := range tc.wantChunks {
			if store.batchSizes[i] != size {
				t.Errorf("%d records: chunk %d size %d, want %d", tc.records, i, store.batchSizes[i], size)
			}
		}
	}
}

func TestPersister_FaultAbortsRemainingChunks(t *testing.T) {
	store := &recordingStore{failAt: 2}
	affected, err := NewPersister(store).Persist(context.Background(), makeCountries(250))

	if err == nil {
		t.Fatal("expected error from failing chunk")
	}
	// Chunk 1 was written and is not rolled back; chunk 3 never runs.
	if len(store.batchSizes) != 2 {
		t.Errorf("expected 2 chunk submissions, got %d", len(store.batchSizes))
	}
	if affected != 100 {
		t.Errorf("expected 100 affected rows from the surviving prefix, got %d", affected)
	}
}
