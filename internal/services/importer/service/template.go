package service

import (
	"bytes"
	"encoding/csv"
)

var templateRows = [][]string{
	{
		"Employee ID", "First Name", "Last Name", "Email", "Phone", "Department", "Designation",
		"Job Area", "Location", "Manager", "Gender", "Work Mode", "Employment Type", "Band",
		"Grade", "Annual Fixed", "Annual CTC", "Variable Pay", "Date of Joining",
	},
	{
		"EMP001", "Aarav", "Sharma", "aarav.sharma@company.com", "+91 98765 43210", "Engineering",
		"Senior Software Engineer", "Platform", "Bengaluru", "Priya Menon", "Male", "Hybrid",
		"Full Time", "P2", "P2", "18,00,000", "21,00,000", "3,00,000", "15-01-2022",
	},
	{
		"EMP002", "Diya", "Iyer", "diya.iyer@company.com", "+91 91234 56789", "Sales",
		"Account Manager", "Enterprise", "Mumbai", "Rohan Gupta", "Female", "Onsite",
		"Full Time", "A2", "A2", "9.5L", "11L", "1.5L", "2023-06-01",
	},
}

// Template returns a CSV with the canonical header row and two example rows
func (s *Svc) Template() []byte { return Template() }

// Template returns a CSV with the canonical header row and two example rows
func Template() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.WriteAll(templateRows)
	return buf.Bytes()
}
