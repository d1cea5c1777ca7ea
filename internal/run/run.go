// Package run tracks the lifecycle of scrape runs.
package run

import "context"

// State is a run's lifecycle phase.
type State string

const (
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// SellerError records one seller's failure inside an otherwise live run.
type SellerError struct {
	SellerID string `json:"seller_id"`
	Message  string `json:"message"`
}

// ScrapeRun is the durable status record of one run. A run with seller
// errors still completes; only an orchestrator-level fault fails it.
type ScrapeRun struct {
	ID            string        `json:"id"`
	State         State         `json:"state"`
	StartedAt     int64         `json:"started_at"`
	FinishedAt    int64         `json:"finished_at,omitempty"`
	SellersTotal  int           `json:"sellers_total"`
	SellersDone   int           `json:"sellers_done"`
	ProductsSeen  int           `json:"products_seen"`
	ProductsSaved int           `json:"products_saved"`
	Errors        []SellerError `json:"errors,omitempty"`
}

// Clone deep-copies the run so callers can hand out snapshots without
// sharing the errors slice.
func (r *ScrapeRun) Clone() *ScrapeRun {
	if r == nil {
		return nil
	}
	dup := *r
	if len(r.Errors) > 0 {
		dup.Errors = make([]SellerError, len(r.Errors))
		copy(dup.Errors, r.Errors)
	}
	return &dup
}

// Store persists scrape runs.
type Store interface {
	// Create inserts a new run record.
	Create(ctx context.Context, r *ScrapeRun) error

	// Update overwrites the run's mutable fields.
	Update(ctx context.Context, r *ScrapeRun) error

	// Get loads one run by id.
	Get(ctx context.Context, id string) (*ScrapeRun, error)

	// Latest loads the most recently started run, nil when none exist.
	Latest(ctx context.Context) (*ScrapeRun, error)

	Close() error
}
