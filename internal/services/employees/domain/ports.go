package domain

import "context"

// WriterPort persists repaired rows for one organization
type WriterPort interface {
	// WriteAll upserts rows in sub-batches, isolating failures per row.
	// onBatch, when set, sees cumulative progress after every sub-batch.
	WriteAll(ctx context.Context, orgID string, rows []EmployeeWrite, onBatch func(Progress)) WriteOutcome

	// ReplaceAll deletes every employee of the organization
	ReplaceAll(ctx context.Context, orgID string) (int64, error)
}

// CalculatorPort refreshes derived fields
type CalculatorPort interface {
	Recompute(ctx context.Context, orgID, employeeID string) (Derived, error)
	RecomputeBand(ctx context.Context, orgID, code string) FanoutResult
}

// ReaderPort reads single records
type ReaderPort interface {
	Get(ctx context.Context, orgID, employeeID string) (Employee, error)
}
