// Package canon defines the fixed employee vocabulary every upload is mapped onto
// and the optional-field row shapes that carry it between pipeline stages
package canon

import "github.com/shopspring/decimal"

// Field is one canonical attribute
type Field uint8

// canonical fields in template column order
const (
	EmployeeID Field = iota + 1
	FirstName
	LastName
	Email
	Phone
	Department
	Designation
	JobArea
	Location
	Manager
	Gender
	WorkMode
	EmploymentType
	Band
	Grade
	AnnualFixed
	AnnualCTC
	VariablePay
	DateOfJoining
)

var names = [...]string{
	EmployeeID:     "employeeId",
	FirstName:      "firstName",
	LastName:       "lastName",
	Email:          "email",
	Phone:          "phone",
	Department:     "department",
	Designation:    "designation",
	JobArea:        "jobArea",
	Location:       "location",
	Manager:        "manager",
	Gender:         "gender",
	WorkMode:       "workMode",
	EmploymentType: "employmentType",
	Band:           "band",
	Grade:          "grade",
	AnnualFixed:    "annualFixed",
	AnnualCTC:      "annualCtc",
	VariablePay:    "variablePay",
	DateOfJoining:  "dateOfJoining",
}

// Fields lists every canonical field in order
func Fields() []Field {
	out := make([]Field, 0, len(names)-1)
	for f := EmployeeID; f <= DateOfJoining; f++ {
		out = append(out, f)
	}
	return out
}

// String returns the wire name, e.g. "employeeId"
func (f Field) String() string {
	if f < EmployeeID || f > DateOfJoining {
		return "unknown"
	}
	return names[f]
}

// Money reports whether the field holds a compensation figure
func (f Field) Money() bool { return f == AnnualFixed || f == AnnualCTC || f == VariablePay }

// Opt is a value that may be absent
type Opt[T any] struct {
	V   T
	Set bool
}

// Some wraps v as present
func Some[T any](v T) Opt[T] { return Opt[T]{V: v, Set: true} }

// Get returns the value and whether it is present
func (o Opt[T]) Get() (T, bool) { return o.V, o.Set }

// Or returns the value, or def when absent
func (o Opt[T]) Or(def T) T {
	if o.Set {
		return o.V
	}
	return def
}

// Extra is a source column that matched no canonical field, kept verbatim
type Extra struct {
	Key   string
	Value string
}

// Row is one upload line after header canonicalization. Every field is the
// source text of the column that mapped to it; nothing is parsed yet.
type Row struct {
	// Position is the 0-based index among non-blank data rows
	Position int

	EmployeeID     Opt[string]
	FirstName      Opt[string]
	LastName       Opt[string]
	Email          Opt[string]
	Phone          Opt[string]
	Department     Opt[string]
	Designation    Opt[string]
	JobArea        Opt[string]
	Location       Opt[string]
	Manager        Opt[string]
	Gender         Opt[string]
	WorkMode       Opt[string]
	EmploymentType Opt[string]
	Band           Opt[string]
	Grade          Opt[string]
	AnnualFixed    Opt[string]
	AnnualCTC      Opt[string]
	VariablePay    Opt[string]
	DateOfJoining  Opt[string]

	// Extras keeps unmapped columns in source order
	Extras []Extra
}

// Slot returns the storage for f, or nil for an unknown field
func (r *Row) Slot(f Field) *Opt[string] {
	switch f {
	case EmployeeID:
		return &r.EmployeeID
	case FirstName:
		return &r.FirstName
	case LastName:
		return &r.LastName
	case Email:
		return &r.Email
	case Phone:
		return &r.Phone
	case Department:
		return &r.Department
	case Designation:
		return &r.Designation
	case JobArea:
		return &r.JobArea
	case Location:
		return &r.Location
	case Manager:
		return &r.Manager
	case Gender:
		return &r.Gender
	case WorkMode:
		return &r.WorkMode
	case EmploymentType:
		return &r.EmploymentType
	case Band:
		return &r.Band
	case Grade:
		return &r.Grade
	case AnnualFixed:
		return &r.AnnualFixed
	case AnnualCTC:
		return &r.AnnualCTC
	case VariablePay:
		return &r.VariablePay
	case DateOfJoining:
		return &r.DateOfJoining
	}
	return nil
}

// Has reports whether f is present
func (r *Row) Has(f Field) bool {
	s := r.Slot(f)
	return s != nil && s.Set
}

// Values is a Row after value normalization: text trimmed, enums mapped,
// money parsed, and the joining date in ISO form when it could be read
type Values struct {
	Position int

	EmployeeID     Opt[string]
	FirstName      Opt[string]
	LastName       Opt[string]
	Email          Opt[string]
	Phone          Opt[string]
	Department     Opt[string]
	Designation    Opt[string]
	JobArea        Opt[string]
	Location       Opt[string]
	Manager        Opt[string]
	Gender         Opt[string]
	WorkMode       Opt[string]
	EmploymentType Opt[string]
	Band           Opt[string]
	Grade          Opt[string]

	// money is zero when the source text could not be read
	AnnualFixed Opt[decimal.Decimal]
	AnnualCTC   Opt[decimal.Decimal]
	VariablePay Opt[decimal.Decimal]

	// DateOfJoining is YYYY-MM-DD, absent when missing or unreadable
	DateOfJoining Opt[string]

	Extras []Extra
}
