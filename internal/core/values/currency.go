package values

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	moneyRe = regexp.MustCompile(`^([0-9][0-9,]*(?:\.[0-9]+)?|\.[0-9]+)\s*([a-z]*)$`)
	sciRe   = regexp.MustCompile(`^-?([0-9]+(?:\.[0-9]+)?)e([+-]?[0-9]+)$`)

	// numeric(14,2) holds anything below 1e12
	maxAmount = decimal.New(1, 12)

	// suffix multipliers; lakh and crore are the Indian units of 1e5 and 1e7
	multipliers = map[string]decimal.Decimal{
		"":         decimal.NewFromInt(1),
		"k":        decimal.NewFromInt(1_000),
		"thousand": decimal.NewFromInt(1_000),
		"l":        decimal.NewFromInt(100_000),
		"lac":      decimal.NewFromInt(100_000),
		"lacs":     decimal.NewFromInt(100_000),
		"lakh":     decimal.NewFromInt(100_000),
		"lakhs":    decimal.NewFromInt(100_000),
		"m":        decimal.NewFromInt(1_000_000),
		"mn":       decimal.NewFromInt(1_000_000),
		"million":  decimal.NewFromInt(1_000_000),
		"cr":       decimal.NewFromInt(10_000_000),
		"crore":    decimal.NewFromInt(10_000_000),
		"crores":   decimal.NewFromInt(10_000_000),
	}

	// stripped before matching, longest first so "rs." goes before "rs"
	currencyMarks = []string{
		"per annum", "p.a.", "/annum", "/yr", "/-",
		"inr", "usd", "eur", "gbp", "rs.", "rs", "₹", "$", "€", "£",
	}
)

// Currency reads a compensation figure. It accepts western or Indian digit
// grouping, bare numbers, and K, L/lakh, M and Cr/crore suffixes. Anything else
// keeps only its digits and decimal point; text with no digits reads as zero.
// Spreadsheet exponent notation such as 1.2E+06 is read when the exponent has
// at most two digits. Amounts that do not fit numeric(14,2) read as zero.
func Currency(s string) decimal.Decimal {
	d := currency(s)
	if d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero
	}
	return d
}

func currency(s string) decimal.Decimal {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" {
		return decimal.Zero
	}
	if m := sciRe.FindStringSubmatch(t); m != nil {
		exp := strings.TrimLeft(m[2], "+-")
		if len(exp) > 2 {
			return decimal.Zero
		}
		mant, err := decimal.NewFromString(m[1])
		if err != nil {
			return decimal.Zero
		}
		n := int32(atoi(exp))
		if strings.HasPrefix(m[2], "-") {
			n = -n
		}
		return mant.Shift(n)
	}
	for _, m := range currencyMarks {
		t = strings.ReplaceAll(t, m, "")
	}
	t = strings.TrimSpace(t)

	if m := moneyRe.FindStringSubmatch(t); m != nil {
		if mul, ok := multipliers[m[2]]; ok {
			if d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "")); err == nil {
				return d.Mul(mul)
			}
		}
	}
	return digitsOnly(t)
}

func digitsOnly(t string) decimal.Decimal {
	var b strings.Builder
	dots := 0
	for _, r := range t {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			dots++
			b.WriteRune(r)
		}
	}
	s := b.String()
	if dots > 1 {
		// 1.200.000 style grouping
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
