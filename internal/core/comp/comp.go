// Package comp computes the compensation metrics derived from an employee's
// fixed pay and the band they sit in
package comp

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Band is the min, mid and max of a salary band
type Band struct {
	Min decimal.Decimal
	Mid decimal.Decimal
	Max decimal.Decimal
}

// Derived holds the computed metrics. Nil ratios mean the band could not support them.
type Derived struct {
	CompaRatio          *decimal.Decimal
	PayRangePenetration *decimal.Decimal
	TimeInCurrentGrade  int
}

// Compute derives the metrics for fixed pay against band (nil when no band applies)
// and the joining date, relative to now. Ratios are percentages rounded to 2 places.
func Compute(fixed decimal.Decimal, band *Band, joined, now time.Time) Derived {
	d := Derived{TimeInCurrentGrade: MonthsBetween(joined, now)}
	if band == nil {
		return d
	}
	if !band.Mid.IsZero() {
		v := fixed.Div(band.Mid).Mul(hundred).Round(2)
		d.CompaRatio = &v
	}
	if span := band.Max.Sub(band.Min); !span.IsZero() {
		v := fixed.Sub(band.Min).Div(span).Mul(hundred).Round(2)
		d.PayRangePenetration = &v
	}
	return d
}

// MonthsBetween counts whole calendar months from from to to; 0 when from is later
func MonthsBetween(from, to time.Time) int {
	from, to = from.UTC(), to.UTC()
	if !from.Before(to) {
		return 0
	}
	m := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		m--
	}
	if m < 0 {
		return 0
	}
	return m
}
