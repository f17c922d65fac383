// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"context"

	"compsync/internal/platform/store"
)

// Queryer is the minimal read and write surface for SQL repos
type Queryer = store.RowQuerier

// RowQuerier is kept for compatibility with existing callers
type RowQuerier = store.RowQuerier

// TxRunner can execute a function inside a transaction
type TxRunner = store.TxRunner

type (
	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result from a query
	Row = store.Row

	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag
)

// InOrg runs fn in a transaction pinned to orgID for row-level security.
// ctx passed to fn carries the org for store.OrgID.
func InOrg(ctx context.Context, tx TxRunner, orgID string, fn func(ctx context.Context, q Queryer) error) error {
	if orgID == "" {
		return store.ErrNoOrg
	}
	ctx = store.WithOrg(ctx, orgID)
	return WithBeginHooks(tx, PinOrg(orgID)).Tx(ctx, func(q Queryer) error {
		return fn(ctx, q)
	})
}
