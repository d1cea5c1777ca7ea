package index

import "context"

// UpsertResult reports the outcome for one product in a batch.
type UpsertResult struct {
	ID  string
	Err error
}

// Upserter writes products into the index. Upserts are idempotent:
// re-writing an existing product updates its fields and last_seen_at
// while first_seen_at keeps its original value.
type Upserter interface {
	// Upsert writes one product.
	Upsert(ctx context.Context, p Product) error

	// UpsertBatch writes a batch and returns one result per product,
	// in input order. A partial failure never aborts the rest of the
	// batch.
	UpsertBatch(ctx context.Context, products []Product) []UpsertResult

	// Count reports how many products the index holds.
	Count(ctx context.Context) (int64, error)

	Close() error
}
