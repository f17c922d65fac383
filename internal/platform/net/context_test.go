package net

import (
	"context"
	"testing"
)

func TestWithRequest(t *testing.T) {
	ctx := WithRequest(context.Background(), "req-1", "org-1")
	if RequestID(ctx) != "req-1" || OrgID(ctx) != "org-1" {
		t.Fatalf("got %q %q", RequestID(ctx), OrgID(ctx))
	}
	bare := WithRequest(context.Background(), "", "")
	if RequestID(bare) != "" || OrgID(bare) != "" {
		t.Fatal("empty values should not be stored")
	}
}
