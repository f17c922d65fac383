// Package values converts canonical text cells to typed values. It never fails:
// unreadable money is zero, unreadable dates are absent, and unknown enum text is
// passed through upper-cased for the repair stage to judge.
package values

import (
	"strings"

	"github.com/shopspring/decimal"

	"compsync/internal/core/canon"
	"compsync/internal/core/normalize"
)

// Normalize types every present field of r; extras are carried through untouched
func Normalize(r canon.Row) canon.Values {
	v := canon.Values{
		Position:       r.Position,
		EmployeeID:     text(r.EmployeeID),
		FirstName:      text(r.FirstName),
		LastName:       text(r.LastName),
		Email:          mapped(r.Email, email),
		Phone:          text(r.Phone),
		Department:     text(r.Department),
		Designation:    text(r.Designation),
		JobArea:        text(r.JobArea),
		Location:       text(r.Location),
		Manager:        text(r.Manager),
		Gender:         mapped(r.Gender, Gender),
		WorkMode:       mapped(r.WorkMode, WorkMode),
		EmploymentType: mapped(r.EmploymentType, EmploymentType),
		Band:           mapped(r.Band, Band),
		Grade:          mapped(r.Grade, strings.ToUpper),
		AnnualFixed:    money(r.AnnualFixed),
		AnnualCTC:      money(r.AnnualCTC),
		VariablePay:    money(r.VariablePay),
		Extras:         r.Extras,
	}
	if s, ok := r.DateOfJoining.Get(); ok {
		if d, ok := Date(s); ok {
			v.DateOfJoining = canon.Some(d)
		}
	}
	return v
}

func text(o canon.Opt[string]) canon.Opt[string] { return mapped(o, nil) }

// mapped cleans o and applies fn; a value that cleans to blank becomes absent
func mapped(o canon.Opt[string], fn func(string) string) canon.Opt[string] {
	s, ok := o.Get()
	if !ok {
		return canon.Opt[string]{}
	}
	s = normalize.Text(s)
	if s != "" && fn != nil {
		s = fn(s)
	}
	if s == "" {
		return canon.Opt[string]{}
	}
	return canon.Some(s)
}

func money(o canon.Opt[string]) canon.Opt[decimal.Decimal] {
	s, ok := o.Get()
	if !ok {
		return canon.Opt[decimal.Decimal]{}
	}
	return canon.Some(Currency(s))
}

func email(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "mailto:")
	return strings.Trim(s, "<>")
}
