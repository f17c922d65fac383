package headers

import (
	"fmt"

	"compsync/internal/core/canon"
	"compsync/internal/core/normalize"
)

// aliases are written as people type them; they are folded with normalize.Key at init
var aliases = map[canon.Field][]string{
	canon.EmployeeID: {
		"employee id", "emp id", "emp no", "emp number", "employee no", "employee number",
		"employee code", "emp code", "ecode", "staff id", "staff no", "staff number", "staff code",
		"associate id", "associate identifier", "associate no", "associate code", "worker id",
		"personnel number", "personnel no", "person id", "payroll id", "payroll number",
		"badge id", "badge number", "hr id", "id", "employee identifier", "emp ref",
	},
	canon.FirstName: {
		"first name", "given name", "forename", "fname", "first", "name first",
	},
	canon.LastName: {
		"last name", "surname", "family name", "lname", "last", "name last",
	},
	canon.Email: {
		"email", "email id", "email address", "mail", "mail id", "work email", "official email",
		"office email", "company email", "business email", "corporate email", "emp email",
		"employee email",
	},
	canon.Phone: {
		"phone", "phone number", "phone no", "mobile", "mobile no", "mobile number", "contact",
		"contact no", "contact number", "cell", "cell phone", "telephone", "tel",
	},
	canon.Department: {
		"department", "dept", "dept name", "department name", "division", "function",
		"business unit", "bu", "team", "org unit", "organisation unit", "organization unit",
	},
	canon.Designation: {
		"designation", "title", "job title", "position", "position title", "role", "job role",
		"job", "job name",
	},
	canon.JobArea: {
		"job area", "job family", "job function", "area", "functional area", "stream",
		"track", "career track", "specialization", "specialisation",
	},
	canon.Location: {
		"location", "office", "office location", "city", "work location", "base location",
		"site", "branch", "work city",
	},
	canon.Manager: {
		"manager", "manager name", "reporting manager", "reports to", "reporting to",
		"supervisor", "line manager", "manager id",
	},
	canon.Gender: {
		"gender", "sex", "gender identity",
	},
	canon.WorkMode: {
		"work mode", "work type", "work arrangement", "working mode", "mode of work",
		"remote status", "workplace type", "location type", "wfh status",
	},
	canon.EmploymentType: {
		"employment type", "emp type", "employee type", "contract type", "worker type",
		"employment status", "type of employment", "engagement type", "employee category",
	},
	canon.Band: {
		"band", "pay band", "salary band", "job band", "career band", "band code",
	},
	canon.Grade: {
		"grade", "level", "job level", "job grade", "pay grade", "grade level",
	},
	canon.AnnualFixed: {
		"annual fixed", "fixed", "fixed pay", "fixed salary", "fixed ctc", "fixed compensation",
		"base", "base salary", "base pay", "basic", "basic salary", "annual salary", "salary",
		"annual base", "gross salary", "annual fixed salary", "fixed annual",
	},
	canon.AnnualCTC: {
		"ctc", "annual ctc", "cost to company", "total compensation", "total ctc", "package",
		"annual package", "total pay", "gross ctc", "ctc annual",
	},
	canon.VariablePay: {
		"variable", "variable pay", "variable component", "variable salary", "bonus",
		"annual bonus", "incentive", "performance bonus", "target bonus", "vp",
	},
	canon.DateOfJoining: {
		"date of joining", "doj", "joining date", "join date", "date joined", "joined on",
		"joining", "start date", "hire date", "date of hire", "employment start date",
		"date of employment",
	},
}

// fullName headers split into first and last name instead of mapping 1:1
var fullName = []string{
	"name", "full name", "employee name", "emp name", "staff name", "associate name",
	"display name", "legal name", "person name", "worker name", "employee full name",
}

var (
	lookup   map[string]canon.Field
	fullKeys map[string]bool
)

func init() {
	lookup = make(map[string]canon.Field, 256)
	fullKeys = make(map[string]bool, len(fullName))
	claim := func(alias string) string {
		k := normalize.Key(alias)
		if k == "" {
			panic(fmt.Sprintf("headers: alias %q folds to nothing", alias))
		}
		if f, dup := lookup[k]; dup {
			panic(fmt.Sprintf("headers: alias %q already maps to %s", alias, f))
		}
		if fullKeys[k] {
			panic(fmt.Sprintf("headers: alias %q already a full name alias", alias))
		}
		return k
	}
	for _, f := range canon.Fields() {
		lookup[claim(f.String())] = f
		for _, a := range aliases[f] {
			k := normalize.Key(a)
			if lookup[k] == f {
				continue
			}
			lookup[claim(a)] = f
		}
	}
	for _, a := range fullName {
		fullKeys[claim(a)] = true
	}
}
