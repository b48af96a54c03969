// Package repository owns the durable activity log and its merge policy.
package repository

import (
	"context"

	"github.com/hucklog/hucklog/internal/domain/model"
)

// Store provides access to the durable record log. The store exclusively
// owns the log file; readers only ever see a merged snapshot.
type Store interface {
	// Merge folds new records into the log keyed by ts. A known ts is
	// overwritten only when its text changed (the most recent text wins; no
	// edit history is retained). The merged log is persisted atomically
	// before Merge returns.
	Merge(ctx context.Context, msgs []model.Message) (model.MergeStats, error)

	// List returns every stored record. A List immediately after a Merge
	// observes exactly the merged state.
	List(ctx context.Context) ([]model.Message, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}
