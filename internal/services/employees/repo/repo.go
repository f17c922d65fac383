// Package repo provides postgres access for employees
package repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"compsync/internal/core/comp"
	"compsync/internal/modkit/repokit"
	perr "compsync/internal/platform/errors"
	str "compsync/internal/platform/strings"
	"compsync/internal/services/employees/domain"
)

// Repo defines the repository contract for employees.
// Every call expects a Queryer already pinned to orgID by repokit.InOrg.
type Repo interface {
	Upsert(ctx context.Context, orgID string, w domain.EmployeeWrite) error
	DeleteAll(ctx context.Context, orgID string) (int64, error)
	Get(ctx context.Context, orgID, employeeID string) (domain.Employee, error)
	ListActiveByBand(ctx context.Context, orgID, code string) ([]string, error)
	ResolveBand(ctx context.Context, orgID, code, jobArea string) (*comp.Band, error)
	UpdateDerived(ctx context.Context, orgID, employeeID string, d domain.Derived) error
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

// Upsert keys on (org_id, employee_id). Identity columns keep their stored value
// unless the row explicitly carried them; everything else is replaced.
const upsertSQL = `
insert into employees (
	org_id, employee_id, first_name, last_name, email, phone, department, designation,
	job_area, location, manager, gender, work_mode, employment_type, band, grade,
	annual_fixed, annual_ctc, variable_pay, date_of_joining, status
) values (
	$1::uuid, $2, $3, $4, $5, $6, $7, $8,
	$9, $10, $11, $12, $13, $14, $15, $16,
	$17::numeric, $18::numeric, $19::numeric, $20::date, 'ACTIVE'
)
on conflict (org_id, employee_id) do update set
	first_name      = case when $21::bool then excluded.first_name else employees.first_name end,
	last_name       = case when $22::bool then excluded.last_name else employees.last_name end,
	email           = case when $23::bool then excluded.email else employees.email end,
	phone           = excluded.phone,
	department      = excluded.department,
	designation     = excluded.designation,
	job_area        = excluded.job_area,
	location        = excluded.location,
	manager         = excluded.manager,
	gender          = excluded.gender,
	work_mode       = excluded.work_mode,
	employment_type = excluded.employment_type,
	band            = excluded.band,
	grade           = excluded.grade,
	annual_fixed    = excluded.annual_fixed,
	annual_ctc      = excluded.annual_ctc,
	variable_pay    = excluded.variable_pay,
	date_of_joining = excluded.date_of_joining,
	status          = 'ACTIVE',
	updated_at      = now()
`

func (r *queries) Upsert(ctx context.Context, orgID string, w domain.EmployeeWrite) error {
	_, err := r.q.Exec(ctx, upsertSQL,
		orgID, w.EmployeeID, w.FirstName, str.SQLNull(w.LastName), w.Email, str.SQLNull(w.Phone),
		w.Department, w.Designation, str.SQLNull(w.JobArea), str.SQLNull(w.Location),
		str.SQLNull(w.Manager), w.Gender, str.SQLNull(w.WorkMode), str.SQLNull(w.EmploymentType),
		w.Band, w.Grade,
		w.AnnualFixed.String(), optDecimal(w.AnnualCTC.V, w.AnnualCTC.Set), optDecimal(w.VariablePay.V, w.VariablePay.Set),
		w.DateOfJoining,
		w.Explicit.FirstName, w.Explicit.LastName, w.Explicit.Email,
	)
	return err
}

func optDecimal(d decimal.Decimal, ok bool) any {
	if !ok {
		return nil
	}
	return d.String()
}

func (r *queries) DeleteAll(ctx context.Context, orgID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `delete from employees where org_id = $1::uuid`, orgID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *queries) Get(ctx context.Context, orgID, employeeID string) (domain.Employee, error) {
	const sql = `
select id::text, org_id::text, employee_id, first_name, coalesce(last_name, ''), email,
	coalesce(phone, ''), department, designation, coalesce(job_area, ''), coalesce(location, ''),
	coalesce(manager, ''), gender, coalesce(work_mode, ''), coalesce(employment_type, ''),
	band, grade, status,
	annual_fixed::text, annual_ctc::text, variable_pay::text, date_of_joining::text,
	compa_ratio::text, pay_range_penetration::text, time_in_current_grade, updated_at
from employees
where org_id = $1::uuid and employee_id = $2
`
	rows, err := r.q.Query(ctx, sql, orgID, employeeID)
	if err != nil {
		return domain.Employee{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.Employee{}, err
		}
		return domain.Employee{}, perr.NotFoundf("employee %s not found", employeeID)
	}

	var (
		e             domain.Employee
		fixed, doj    string
		ctc, variable *string
		compa, pen    *string
		tig           *int
	)
	if err := rows.Scan(
		&e.ID, &e.OrgID, &e.EmployeeID, &e.FirstName, &e.LastName, &e.Email,
		&e.Phone, &e.Department, &e.Designation, &e.JobArea, &e.Location,
		&e.Manager, &e.Gender, &e.WorkMode, &e.EmploymentType,
		&e.Band, &e.Grade, &e.Status,
		&fixed, &ctc, &variable, &doj,
		&compa, &pen, &tig, &e.UpdatedAt,
	); err != nil {
		return domain.Employee{}, err
	}
	if e.AnnualFixed, err = decimal.NewFromString(fixed); err != nil {
		return domain.Employee{}, err
	}
	if e.DateOfJoining, err = time.Parse(time.DateOnly, doj); err != nil {
		return domain.Employee{}, err
	}
	e.AnnualCTC, e.VariablePay = decimalPtr(ctc), decimalPtr(variable)
	e.CompaRatio, e.PayRangePenetration, e.TimeInCurrentGrade = decimalPtr(compa), decimalPtr(pen), tig
	return e, rows.Err()
}

func decimalPtr(s *string) *decimal.Decimal {
	if s == nil {
		return nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil
	}
	return &d
}

func (r *queries) ListActiveByBand(ctx context.Context, orgID, code string) ([]string, error) {
	rows, err := r.q.Query(ctx, `
select employee_id from employees
where org_id = $1::uuid and band = $2 and status = 'ACTIVE'
order by employee_id`, orgID, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ResolveBand prefers the band scoped to jobArea, then the unscoped one, then any
// band with the code. nil, nil means no band applies.
func (r *queries) ResolveBand(ctx context.Context, orgID, code, jobArea string) (*comp.Band, error) {
	rows, err := r.q.Query(ctx, `
select min_amount::text, mid_amount::text, max_amount::text
from salary_bands
where org_id = $1::uuid and code = $2
order by
	case
		when $3 <> '' and lower(job_area) = lower($3) then 0
		when job_area is null then 1
		else 2
	end,
	updated_at desc
limit 1`, orgID, code, jobArea)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	var lo, mid, hi string
	if err := rows.Scan(&lo, &mid, &hi); err != nil {
		return nil, err
	}
	var b comp.Band
	for _, p := range []struct {
		s   string
		dst *decimal.Decimal
	}{{lo, &b.Min}, {mid, &b.Mid}, {hi, &b.Max}} {
		if *p.dst, err = decimal.NewFromString(p.s); err != nil {
			return nil, err
		}
	}
	return &b, rows.Err()
}

func (r *queries) UpdateDerived(ctx context.Context, orgID, employeeID string, d domain.Derived) error {
	tag, err := r.q.Exec(ctx, `
update employees set
	compa_ratio = $3::numeric,
	pay_range_penetration = $4::numeric,
	time_in_current_grade = $5
where org_id = $1::uuid and employee_id = $2`,
		orgID, employeeID, ptrDecimal(d.CompaRatio), ptrDecimal(d.PayRangePenetration), d.TimeInCurrentGrade)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("employee %s not found", employeeID)
	}
	return nil
}

func ptrDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
