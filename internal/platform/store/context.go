package store

import (
	"context"
	"errors"
)

// ErrNoOrg is returned when an org-scoped unit of work has no organization
var ErrNoOrg = errors.New("store: org id required")

type (
	orgKey   struct{}
	reqIDKey struct{}
)

// WithOrg attaches the acting organization id
func WithOrg(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, orgKey{}, orgID)
}

// OrgID returns the organization id attached by WithOrg
func OrgID(ctx context.Context) (string, bool) {
	s, _ := ctx.Value(orgKey{}).(string)
	return s, s != ""
}

// WithRequestID attaches a request id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

// RequestID returns the request id attached by WithRequestID
func RequestID(ctx context.Context) (string, bool) {
	s, _ := ctx.Value(reqIDKey{}).(string)
	return s, s != ""
}
