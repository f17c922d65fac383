// Package repo provides postgres access for salary bands
package repo

import (
	"context"

	"github.com/shopspring/decimal"

	"compsync/internal/modkit/repokit"
	"compsync/internal/platform/store"
	str "compsync/internal/platform/strings"
	"compsync/internal/services/bands/domain"
)

// Repo defines the repository contract for bands
type Repo interface {
	Upsert(ctx context.Context, orgID string, b domain.Band) (domain.Band, error)
	List(ctx context.Context, orgID string) ([]domain.Band, error)
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const cols = `id::text, org_id::text, code, coalesce(job_area, ''),
	min_amount::text, mid_amount::text, max_amount::text, currency, updated_at`

// one band per (org, code, job area); a null job area is its own slot
const upsertSQL = `
insert into salary_bands (org_id, code, job_area, min_amount, mid_amount, max_amount, currency)
values ($1::uuid, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7)
on conflict (org_id, code, (coalesce(job_area, ''))) do update set
	min_amount = excluded.min_amount,
	mid_amount = excluded.mid_amount,
	max_amount = excluded.max_amount,
	currency   = excluded.currency,
	updated_at = now()
returning ` + cols

func (r *queries) Upsert(ctx context.Context, orgID string, b domain.Band) (domain.Band, error) {
	return store.One(ctx, r.q, scan, upsertSQL,
		orgID, b.Code, str.SQLNull(b.JobArea), b.Min.String(), b.Mid.String(), b.Max.String(), b.Currency)
}

func (r *queries) List(ctx context.Context, orgID string) ([]domain.Band, error) {
	return store.Many(ctx, r.q, scan,
		`select `+cols+` from salary_bands where org_id = $1::uuid order by code, job_area nulls first`, orgID)
}

func scan(row store.Row) (domain.Band, error) {
	var (
		b          domain.Band
		mn, md, mx string
	)
	if err := row.Scan(&b.ID, &b.OrgID, &b.Code, &b.JobArea, &mn, &md, &mx, &b.Currency, &b.UpdatedAt); err != nil {
		return domain.Band{}, err
	}
	var err error
	if b.Min, err = decimal.NewFromString(mn); err != nil {
		return domain.Band{}, err
	}
	if b.Mid, err = decimal.NewFromString(md); err != nil {
		return domain.Band{}, err
	}
	if b.Max, err = decimal.NewFromString(mx); err != nil {
		return domain.Band{}, err
	}
	return b, nil
}
