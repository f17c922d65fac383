// Package net holds request-scoped context values shared by transports
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey uint8

const keyOrgID ctxKey = iota

// WithRequest annotates ctx with the request id and acting organization
func WithRequest(ctx context.Context, reqID, orgID string) context.Context {
	if reqID != "" {
		// chi's key, so chimw.GetReqID sees it too
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if orgID != "" {
		ctx = context.WithValue(ctx, keyOrgID, orgID)
	}
	return ctx
}

// RequestID returns the request id on ctx, or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// OrgID returns the organization on ctx, or ""
func OrgID(ctx context.Context) string {
	s, _ := ctx.Value(keyOrgID).(string)
	return s
}
