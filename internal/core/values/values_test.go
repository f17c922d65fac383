package values

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"compsync/internal/core/canon"
)

func TestCurrency(t *testing.T) {
	cases := map[string]int64{
		"12,00,000":     1200000,
		"1,200,000":     1200000,
		"1200000":       1200000,
		"12.5L":         1250000,
		"12.5 Lakhs":    1250000,
		"8 lac":         800000,
		"50K":           50000,
		"1.5 Cr":        15000000,
		"2 crore":       20000000,
		"₹ 9,50,000 /-": 950000,
		"Rs. 7,20,000":  720000,
		"INR 600000":    600000,
		"$85,000":       85000,
		"1.2e6":         1200000,
		"1.2E+06":       1200000,
		"1e50000000":    0,
		"1e13":          0,
		"5e-1000":       0,
		"approx 45000":  45000,
		"1.200.000":     1200000,
		"abc":           0,
		"":              0,
		"  ":            0,
	}
	for in, want := range cases {
		got := Currency(in)
		require.True(t, got.Equal(decimal.NewFromInt(want)), "Currency(%q) = %s, want %d", in, got, want)
	}
	require.Equal(t, "1234.56", Currency("1,234.56").String())
	require.Equal(t, "999999999999.99", Currency("999999999999.99").String())
	require.True(t, Currency("99999999999999").IsZero())
	require.True(t, Currency("1"+strings.Repeat("0", 4096)).IsZero())
}

func TestDate(t *testing.T) {
	ok := map[string]string{
		"15-01-2024":           "2024-01-15",
		"2024-01-15":           "2024-01-15",
		"15/01/2024":           "2024-01-15",
		"15.01.2024":           "2024-01-15",
		"03/04/2024":           "2024-04-03",
		"5-1-24":               "2024-01-05",
		"5/1/99":               "1999-01-05",
		"2024/1/5":             "2024-01-05",
		"2024-01-15T09:30:00Z": "2024-01-15",
		"2024-01-15 09:30:00":  "2024-01-15",
		"2024-01-15T09:30:00":  "2024-01-15",
		"15/01/2024T09:30":     "2024-01-15",
		"1899":                 "1905-03-13",
		"20240115":             "2024-01-15",
		"15 Jan 2024":          "2024-01-15",
		"15-Jan-24":            "2024-01-15",
		"15th January, 2024":   "2024-01-15",
		"Jan 15, 2024":         "2024-01-15",
		"September 3 2021":     "2021-09-03",
		"45306":                "2024-01-15",
		"45306.5":              "2024-01-15",
		"1":                    "1900-01-01",
		"59":                   "1900-02-28",
		"61":                   "1900-03-01",
		"29/02/2024":           "2024-02-29",
	}
	for in, want := range ok {
		got, good := Date(in)
		require.True(t, good, in)
		require.Equal(t, want, got, in)
	}
	for _, in := range []string{"31/02/2024", "29/02/2023", "01/13/2024", "60", "0", "9999999", "soon", "", "Smarch 3 2020", "2024-13-01", "2024", "1900", "2100"} {
		_, good := Date(in)
		require.False(t, good, in)
	}
}

func TestEnums(t *testing.T) {
	require.Equal(t, GenderMale, Gender("M"))
	require.Equal(t, GenderFemale, Gender(" Female "))
	require.Equal(t, GenderNonBinary, Gender("Non-Binary"))
	require.Equal(t, GenderUndisclosed, Gender("N/A"))
	require.Equal(t, "ALIEN", Gender("alien"))

	require.Equal(t, WorkRemote, WorkMode("WFH"))
	require.Equal(t, WorkRemote, WorkMode("home"))
	require.Equal(t, WorkOnsite, WorkMode("Work from Office"))
	require.Equal(t, WorkHybrid, WorkMode("hybrid"))
	require.Equal(t, "MOON BASE", WorkMode("moon base"))

	require.Equal(t, EmploymentFullTime, EmploymentType("Full-Time"))
	require.Equal(t, EmploymentFullTime, EmploymentType("Permanent"))
	require.Equal(t, EmploymentContract, EmploymentType("contractor"))
	require.Equal(t, EmploymentIntern, EmploymentType("Trainee"))
	require.Equal(t, EmploymentPartTime, EmploymentType("part time"))

	require.Equal(t, "P2", Band("p 2"))
	require.Equal(t, "P2", Band("Band-P2"))
	require.Equal(t, "M1", Band("m1"))
	require.Equal(t, "Z9", Band("z9"))
	require.False(t, IsBand("Z9"))

	r1, _ := BandRank("A1")
	r2, _ := BandRank("D2")
	require.Less(t, r1, r2)
	require.True(t, IsGender(GenderOther))
	require.False(t, IsWorkMode("MOON BASE"))
	require.True(t, IsEmploymentType(EmploymentIntern))
}

func TestNormalize(t *testing.T) {
	row := canon.Row{
		Position:      3,
		FirstName:     canon.Some("  Asha "),
		Email:         canon.Some(" Asha.Rao@Example.COM "),
		Gender:        canon.Some("f"),
		WorkMode:      canon.Some("wfh"),
		Band:          canon.Some("band p1"),
		Grade:         canon.Some("p1-a"),
		AnnualFixed:   canon.Some("12.5L"),
		AnnualCTC:     canon.Some("n/a"),
		DateOfJoining: canon.Some("31/02/2024"),
		Department:    canon.Some("   "),
		Extras:        []canon.Extra{{Key: "Remarks", Value: "ok"}},
	}
	v := Normalize(row)
	require.Equal(t, 3, v.Position)
	require.Equal(t, canon.Some("Asha"), v.FirstName)
	require.Equal(t, canon.Some("asha.rao@example.com"), v.Email)
	require.Equal(t, canon.Some(GenderFemale), v.Gender)
	require.Equal(t, canon.Some(WorkRemote), v.WorkMode)
	require.Equal(t, canon.Some("P1"), v.Band)
	require.Equal(t, canon.Some("P1-A"), v.Grade)
	require.True(t, v.AnnualFixed.Set)
	require.True(t, v.AnnualFixed.V.Equal(decimal.NewFromInt(1250000)))
	require.True(t, v.AnnualCTC.Set)
	require.True(t, v.AnnualCTC.V.IsZero())
	require.False(t, v.VariablePay.Set)
	require.False(t, v.DateOfJoining.Set)
	require.False(t, v.Department.Set)
	require.False(t, v.LastName.Set)
	require.Equal(t, row.Extras, v.Extras)
}
