package repair

import (
	"strings"
	"unicode"
)

// bandKeywords is checked top to bottom, most senior band first; first hit wins
var bandKeywords = []struct {
	band     string
	keywords []string
}{
	{"D2", []string{"chief", "ceo", "cto", "cfo", "coo", "cxo", "president", "svp", "evp", "senior vice president", "executive vice president"}},
	{"D1", []string{"vice president", "vp", "director", "head"}},
	{"M2", []string{"senior manager", "sr manager", "general manager", "principal", "associate director", "avp"}},
	{"M1", []string{"manager", "lead", "architect", "staff"}},
	{"P3", []string{"senior", "sr", "specialist", "expert"}},
	{"P2", []string{"engineer", "developer", "analyst", "consultant", "designer", "scientist", "accountant", "executive", "officer"}},
	{"P1", []string{"associate", "junior", "jr", "assistant", "coordinator", "representative"}},
	{"A2", []string{"trainee", "apprentice", "graduate"}},
	{"A1", []string{"intern", "helper", "support"}},
}

// inferBand reads a band off the designation by whole-word keyword
func inferBand(designation string) (string, bool) {
	d := " " + words(designation) + " "
	for _, row := range bandKeywords {
		for _, kw := range row.keywords {
			if strings.Contains(d, " "+kw+" ") {
				return row.band, true
			}
		}
	}
	return "", false
}

// words lower-cases s and turns every run of non letters and digits into one space
func words(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

// nameLike reports text made only of letters, spaces and . ' -, with at least one letter
func nameLike(s string) bool {
	s = strings.TrimSpace(s)
	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case r == ' ' || r == '.' || r == '\'' || r == '-':
		default:
			return false
		}
	}
	return letters > 0
}
