// Package repair fills every field a persisted employee needs, deterministically,
// so that no salvageable upload row is rejected. Repairs run in a fixed order
// because later ones read earlier results: the synthesized id and email use
// the repaired name, and band inference uses the repaired designation.
package repair

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"compsync/internal/core/canon"
	"compsync/internal/core/normalize"
	"compsync/internal/core/values"
)

// defaults applied when a row has nothing usable
const (
	DefaultEmailDomain = "company.com"
	DefaultDepartment  = "General"
	DefaultDesignation = "Employee"
	DefaultBand        = "A1"
	placeholderName    = "Employee"
	syntheticPrefix    = "EMP"
)

// DefaultFloor is the annual fixed pay used when a row carries no positive figure
var DefaultFloor = decimal.NewFromInt(300000)

var (
	vOnce sync.Once
	vInst *validator.Validate
)

func validEmail(s string) bool {
	vOnce.Do(func() { vInst = validator.New() })
	return vInst.Var(s, "required,email") == nil
}

// Policy holds the knobs of the repair rules
type Policy struct {
	// Now anchors the default joining date; nil means time.Now
	Now func() time.Time
	// EmailDomain is used for synthesized addresses
	EmailDomain string
	// FloorAnnualFixed is the last-resort annual fixed pay
	FloorAnnualFixed decimal.Decimal
	// Validate checks an email; nil means the validator "email" rule
	Validate func(string) bool
}

// DefaultPolicy returns the production rules
func DefaultPolicy() Policy {
	return Policy{Now: time.Now, EmailDomain: DefaultEmailDomain, FloorAnnualFixed: DefaultFloor}
}

// Run repairs the rows of one import. It owns the synthetic id counter, so two
// concurrent imports never share or skip numbers.
type Run struct {
	policy Policy
	now    time.Time
	seq    int
}

// NewRun starts a run; the default joining date is fixed at this instant
func (p Policy) NewRun() *Run {
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.EmailDomain == "" {
		p.EmailDomain = DefaultEmailDomain
	}
	if !p.FloorAnnualFixed.IsPositive() {
		p.FloorAnnualFixed = DefaultFloor
	}
	if p.Validate == nil {
		p.Validate = validEmail
	}
	return &Run{policy: p, now: p.Now().UTC()}
}

// Explicit records which identity fields came from the source rather than a default
type Explicit struct {
	FirstName bool
	LastName  bool
	Email     bool
}

// Record is a row that satisfies every persistence invariant.
// Optional text is "" when absent; WorkMode and EmploymentType are "" unless valid.
type Record struct {
	Position int

	EmployeeID     string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Department     string
	Designation    string
	JobArea        string
	Location       string
	Manager        string
	Gender         string
	WorkMode       string
	EmploymentType string
	Band           string
	Grade          string

	AnnualFixed decimal.Decimal
	// AnnualCTC and VariablePay are kept only when the source had a positive figure
	AnnualCTC   canon.Opt[decimal.Decimal]
	VariablePay canon.Opt[decimal.Decimal]

	// DateOfJoining is YYYY-MM-DD
	DateOfJoining string

	Explicit Explicit
	// Defaulted lists fields that were synthesized or replaced, in repair order
	Defaulted []canon.Field
}

// Repair fills the row at v.Position. ok is false only for a functionally empty
// row: no name-like text and no positive compensation anywhere. Such rows are
// dropped without being reported as failures.
func (r *Run) Repair(v canon.Values) (Record, bool) {
	if !hasNameLike(v) && !hasPositivePay(v) {
		return Record{}, false
	}
	rec := Record{
		Position: v.Position,
		Phone:    v.Phone.V,
		JobArea:  v.JobArea.V,
		Location: v.Location.V,
		Manager:  v.Manager.V,
	}
	r.name(&rec, v)
	r.identifier(&rec, v)
	r.email(&rec, v)
	r.compensation(&rec, v)

	rec.Department = r.text(&rec, v.Department, canon.Department, DefaultDepartment)
	rec.Designation = r.text(&rec, v.Designation, canon.Designation, DefaultDesignation)

	if g, ok := v.Gender.Get(); ok && values.IsGender(g) {
		rec.Gender = g
	} else {
		rec.Gender = values.GenderUndisclosed
		rec.Defaulted = append(rec.Defaulted, canon.Gender)
	}

	r.band(&rec, v)

	if g, ok := v.Grade.Get(); ok {
		rec.Grade = g
	} else {
		rec.Grade = rec.Band
		rec.Defaulted = append(rec.Defaulted, canon.Grade)
	}

	if d, ok := v.DateOfJoining.Get(); ok {
		rec.DateOfJoining = d
	} else {
		rec.DateOfJoining = r.now.AddDate(-2, 0, 0).Format(time.DateOnly)
		rec.Defaulted = append(rec.Defaulted, canon.DateOfJoining)
	}

	if m, ok := v.WorkMode.Get(); ok && values.IsWorkMode(m) {
		rec.WorkMode = m
	}
	if e, ok := v.EmploymentType.Get(); ok && values.IsEmploymentType(e) {
		rec.EmploymentType = e
	}
	return rec, true
}

func (r *Run) text(rec *Record, o canon.Opt[string], f canon.Field, def string) string {
	if s, ok := o.Get(); ok {
		return s
	}
	rec.Defaulted = append(rec.Defaulted, f)
	return def
}

func (r *Run) name(rec *Record, v canon.Values) {
	first, last := v.FirstName.V, v.LastName.V
	rec.Explicit.FirstName, rec.Explicit.LastName = v.FirstName.Set, v.LastName.Set
	if first == "" && last != "" {
		first, last = last, ""
		rec.Explicit.FirstName, rec.Explicit.LastName = true, false
	}
	if first == "" {
		rec.Defaulted = append(rec.Defaulted, canon.FirstName)
		if s, ok := leftoverName(v); ok {
			parts := normalize.Fields(s)
			first, last = parts[0], strings.Join(parts[1:], " ")
		} else {
			first, last = placeholderName, strconv.Itoa(v.Position+1)
		}
	}
	rec.FirstName, rec.LastName = first, last
}

// identifier keeps the source id or mints EMP-<first 3 letters>-<counter>
func (r *Run) identifier(rec *Record, v canon.Values) {
	if id, ok := v.EmployeeID.Get(); ok {
		rec.EmployeeID = id
		return
	}
	r.seq++
	rec.EmployeeID = fmt.Sprintf("%s-%s-%04d", syntheticPrefix, initials(rec.FirstName), r.seq)
	rec.Defaulted = append(rec.Defaulted, canon.EmployeeID)
}

func initials(first string) string {
	var b strings.Builder
	for _, r := range normalize.Key(first) {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
			if b.Len() == 3 {
				break
			}
		}
	}
	for b.Len() < 3 {
		b.WriteByte('X')
	}
	return b.String()
}

func (r *Run) email(rec *Record, v canon.Values) {
	if e, ok := v.Email.Get(); ok && r.policy.Validate(e) {
		rec.Email = e
		rec.Explicit.Email = true
		return
	}
	local := strings.Trim(asciiAlnum(rec.FirstName)+"."+asciiAlnum(rec.LastName), ".")
	if local == "" {
		local = "employee" + strconv.Itoa(rec.Position+1)
	}
	rec.Email = local + "@" + r.policy.EmailDomain
	rec.Defaulted = append(rec.Defaulted, canon.Email)
}

func asciiAlnum(s string) string {
	var b strings.Builder
	for _, r := range normalize.Key(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// compensation takes the first positive of fixed, ctc and variable, else the floor
func (r *Run) compensation(rec *Record, v canon.Values) {
	if d, ok := v.AnnualCTC.Get(); ok && d.IsPositive() {
		rec.AnnualCTC = canon.Some(d)
	}
	if d, ok := v.VariablePay.Get(); ok && d.IsPositive() {
		rec.VariablePay = canon.Some(d)
	}
	for i, o := range []canon.Opt[decimal.Decimal]{v.AnnualFixed, v.AnnualCTC, v.VariablePay} {
		if d, ok := o.Get(); ok && d.IsPositive() {
			rec.AnnualFixed = d
			if i > 0 {
				rec.Defaulted = append(rec.Defaulted, canon.AnnualFixed)
			}
			return
		}
	}
	rec.AnnualFixed = r.policy.FloorAnnualFixed
	rec.Defaulted = append(rec.Defaulted, canon.AnnualFixed)
}

func (r *Run) band(rec *Record, v canon.Values) {
	if b, ok := v.Band.Get(); ok && values.IsBand(b) {
		rec.Band = b
		return
	}
	rec.Defaulted = append(rec.Defaulted, canon.Band)
	if b, ok := inferBand(rec.Designation); ok {
		rec.Band = b
		return
	}
	rec.Band = DefaultBand
}

func hasNameLike(v canon.Values) bool {
	if v.FirstName.Set || v.LastName.Set {
		return true
	}
	_, ok := leftoverName(v)
	return ok
}

func hasPositivePay(v canon.Values) bool {
	for _, o := range []canon.Opt[decimal.Decimal]{v.AnnualFixed, v.AnnualCTC, v.VariablePay} {
		if o.Set && o.V.IsPositive() {
			return true
		}
	}
	for _, e := range v.Extras {
		if strings.ContainsAny(e.Value, "0123456789") && values.Currency(e.Value).IsPositive() {
			return true
		}
	}
	return false
}

// leftoverName returns the first extra, in column order, that reads as a name
// and is not a value some canonical field already holds
func leftoverName(v canon.Values) (string, bool) {
	held := map[string]bool{}
	for _, o := range []canon.Opt[string]{
		v.EmployeeID, v.Email, v.Phone, v.Department, v.Designation, v.JobArea, v.Location,
		v.Manager, v.Gender, v.WorkMode, v.EmploymentType, v.Band, v.Grade,
	} {
		if o.Set {
			held[strings.ToLower(o.V)] = true
		}
	}
	for _, e := range v.Extras {
		s := normalize.Text(e.Value)
		if nameLike(s) && !held[strings.ToLower(s)] {
			return s, true
		}
	}
	return "", false
}
