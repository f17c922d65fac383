package module

import (
	"context"

	"compsync/internal/services/bands/domain"
	bsvc "compsync/internal/services/bands/service"
)

// SaverPort is what other modules and the CLI use to configure bands
type SaverPort interface {
	Save(ctx context.Context, orgID string, in domain.Input) (domain.Saved, error)
}

type adaptBandsPort struct{ svc bsvc.Service }

// Save upserts a band and recomputes its employees
func (a adaptBandsPort) Save(ctx context.Context, orgID string, in domain.Input) (domain.Saved, error) {
	return a.svc.Save(ctx, orgID, in)
}
