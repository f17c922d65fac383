// Package domain defines salary bands and their configuration input
package domain

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"compsync/internal/core/values"
	perr "compsync/internal/platform/errors"
	"compsync/internal/platform/net/http/bind"
	empdomain "compsync/internal/services/employees/domain"
	"compsync/internal/services/fanout"
)

// DefaultCurrency applies when an input omits it
const DefaultCurrency = "INR"

// Band is a persisted salary band. An empty JobArea is the org-wide band for Code.
type Band struct {
	ID        string          `json:"id"`
	OrgID     string          `json:"orgId"`
	Code      string          `json:"code"`
	JobArea   string          `json:"jobArea,omitempty"`
	Min       decimal.Decimal `json:"min"`
	Mid       decimal.Decimal `json:"mid"`
	Max       decimal.Decimal `json:"max"`
	Currency  string          `json:"currency"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Input is the PUT /bands body. Amounts are decimal strings.
type Input struct {
	Code     string `json:"code" validate:"required,band"`
	JobArea  string `json:"jobArea" validate:"omitempty,max=120"`
	Min      string `json:"min" validate:"required,amount"`
	Mid      string `json:"mid" validate:"required,amount"`
	Max      string `json:"max" validate:"required,amount"`
	Currency string `json:"currency" validate:"omitempty,iso4217"`
}

func init() {
	_ = bind.RegisterValidation("band", "{0} must be one of "+strings.Join(values.Bands, ", "), func(fl validator.FieldLevel) bool {
		return values.IsBand(values.Band(fl.Field().String()))
	})
	_ = bind.RegisterValidation("amount", "{0} must be a non-negative decimal amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && !d.IsNegative()
	})
}

// Parse folds the code and amounts and checks min <= mid <= max
func (in Input) Parse() (Band, error) {
	b := Band{
		Code:     values.Band(in.Code),
		JobArea:  strings.TrimSpace(in.JobArea),
		Currency: strings.ToUpper(strings.TrimSpace(in.Currency)),
	}
	if !values.IsBand(b.Code) {
		return Band{}, perr.WithField(perr.Validationf("unknown band %q", in.Code), "code")
	}
	if b.Currency == "" {
		b.Currency = DefaultCurrency
	}
	var err error
	for _, f := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{{"min", in.Min, &b.Min}, {"mid", in.Mid, &b.Mid}, {"max", in.Max, &b.Max}} {
		if *f.dst, err = decimal.NewFromString(strings.TrimSpace(f.raw)); err != nil {
			return Band{}, perr.WithField(perr.Validationf("%s must be a decimal amount", f.name), f.name)
		}
	}
	if b.Min.IsNegative() {
		return Band{}, perr.WithField(perr.Validationf("min must not be negative"), "min")
	}
	if b.Mid.LessThan(b.Min) {
		return Band{}, perr.WithField(perr.Validationf("mid must be at least min"), "mid")
	}
	if b.Max.LessThan(b.Mid) {
		return Band{}, perr.WithField(perr.Validationf("max must be at least mid"), "max")
	}
	return b, nil
}

// Saved is the PUT /bands response
type Saved struct {
	Band          Band                         `json:"band"`
	Recomputed    int                          `json:"recomputed"`
	Failures      []empdomain.RecomputeFailure `json:"failures"`
	CacheDegraded bool                         `json:"cacheDegraded,omitempty"`
}

// CalculatorPort refreshes derived fields of the employees on a band
type CalculatorPort interface {
	RecomputeBand(ctx context.Context, orgID, code string) empdomain.FanoutResult
}

// InvalidatorPort drops cached aggregates after a band edit
type InvalidatorPort interface {
	AfterWrite(ctx context.Context, orgID string) fanout.Outcome
}
