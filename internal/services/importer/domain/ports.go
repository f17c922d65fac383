package domain

import "context"

// ImporterPort runs uploads in the background
type ImporterPort interface {
	// Start validates synchronously and returns before any row is written
	Start(ctx context.Context, req Request) (Accepted, error)
	Status(runID string) (Status, error)
	Cancel(runID string) error
	Wait(ctx context.Context, runID string) (Result, error)
	Template() []byte
}
