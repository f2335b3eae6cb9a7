package refresh

import (
	"context"
	"fmt"

	"country-insights/internal/domain"
	"country-insights/internal/storage"
)

// ChunkSize is the fixed number of records submitted per upsert statement.
const ChunkSize = 100

// Persister writes enriched records to the store in fixed-size chunks.
type Persister struct {
	store     storage.CountryStore
	chunkSize int
}

// NewPersister creates a Persister over the given store.
func NewPersister(store storage.CountryStore) *Persister {
	return &Persister{store: store, chunkSize: ChunkSize}
}

// Persist upserts records sequentially in chunks of ChunkSize, each chunk
// one statement. A fault on chunk k aborts the remaining chunks but does
// not roll back chunks 1..k-1: a failed refresh may have written a prefix
// of its input. Empty input is a no-op returning 0 with no storage call.
//
// The returned count sums the storage engine's own affected-row
// accounting, which may exceed the number of distinct countries touched.
func (p *Persister) Persist(ctx context.Context, countries []*domain.Country) (int64, error) {
	if len(countries) == 0 {
		return 0, nil
	}

	var affected int64
	for start := 0; start < len(countries); start += p.chunkSize {
		end := start + p.chunkSize
		if end > len(countries) {
			end = len(countries)
		}

		n, err := p.store.UpsertBatch(ctx, countries[start:end])
		affected += n
		if err != nil {
			return affected, fmt.Errorf("persist chunk at offset %d: %w", start, err)
		}
	}

	return affected, nil
}
