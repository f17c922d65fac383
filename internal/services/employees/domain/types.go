// Package domain defines the employee record, the write contract, and the derived metrics
package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"compsync/internal/core/repair"
)

// StatusActive marks a current employee; only active records follow band edits
const StatusActive = "ACTIVE"

// GeneralField is the field reported for persistence failures of a whole row
const GeneralField = "general"

// Employee is the persisted canonical record
type Employee struct {
	ID             string `json:"id"`
	OrgID          string `json:"orgId"`
	EmployeeID     string `json:"employeeId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName,omitempty"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Department     string `json:"department"`
	Designation    string `json:"designation"`
	JobArea        string `json:"jobArea,omitempty"`
	Location       string `json:"location,omitempty"`
	Manager        string `json:"manager,omitempty"`
	Gender         string `json:"gender"`
	WorkMode       string `json:"workMode,omitempty"`
	EmploymentType string `json:"employmentType,omitempty"`
	Band           string `json:"band"`
	Grade          string `json:"grade"`
	Status         string `json:"status"`

	AnnualFixed decimal.Decimal  `json:"annualFixed"`
	AnnualCTC   *decimal.Decimal `json:"annualCtc,omitempty"`
	VariablePay *decimal.Decimal `json:"variablePay,omitempty"`

	DateOfJoining time.Time `json:"dateOfJoining"`

	Derived

	UpdatedAt time.Time `json:"updatedAt"`
}

// Derived holds the band-relative metrics; nil ratios mean no usable band
type Derived struct {
	CompaRatio          *decimal.Decimal `json:"compaRatio"`
	PayRangePenetration *decimal.Decimal `json:"payRangePenetration"`
	TimeInCurrentGrade  *int             `json:"timeInCurrentGrade"`
}

// EmployeeWrite is one repaired row ready for the upsert
type EmployeeWrite = repair.Record

// RowError addresses a failure by spreadsheet row: position + 2 for the
// 1-based count and the header line
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RowNumber converts a 0-based data row position to its spreadsheet row
func RowNumber(position int) int { return position + 2 }

// Progress is the cumulative state after a sub-batch
type Progress struct {
	Processed int        `json:"processed"`
	Total     int        `json:"total"`
	Errors    []RowError `json:"errors"`
}

// WriteOutcome is the terminal tally of a WriteAll call; Imported + Failed == len(rows)
type WriteOutcome struct {
	Imported  int        `json:"imported"`
	Failed    int        `json:"failed"`
	Errors    []RowError `json:"errors"`
	Cancelled bool       `json:"cancelled"`
}

// RecomputeFailure is one employee whose derived fields could not be refreshed
type RecomputeFailure struct {
	EmployeeID string `json:"employeeId"`
	Message    string `json:"message"`
}

// FanoutResult reports a band-wide recompute. It never fails as a whole.
type FanoutResult struct {
	Recomputed int                `json:"recomputed"`
	Failures   []RecomputeFailure `json:"failures"`
}
