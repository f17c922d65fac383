package values

import (
	"strings"

	"compsync/internal/core/normalize"
)

// canonical enumerations
const (
	GenderMale        = "MALE"
	GenderFemale      = "FEMALE"
	GenderNonBinary   = "NON_BINARY"
	GenderOther       = "OTHER"
	GenderUndisclosed = "PREFER_NOT_TO_SAY"

	WorkRemote = "REMOTE"
	WorkOnsite = "ONSITE"
	WorkHybrid = "HYBRID"

	EmploymentFullTime = "FULL_TIME"
	EmploymentPartTime = "PART_TIME"
	EmploymentContract = "CONTRACT"
	EmploymentIntern   = "INTERN"
)

// Bands is the compensation band ladder, lowest first
var Bands = []string{"A1", "A2", "P1", "P2", "P3", "M1", "M2", "D1", "D2"}

var (
	genderSyn = synonyms(map[string][]string{
		GenderMale:        {"m", "male", "man", "boy", "he", "he/him"},
		GenderFemale:      {"f", "female", "woman", "girl", "she", "she/her"},
		GenderNonBinary:   {"non binary", "nonbinary", "nb", "enby", "genderqueer", "they/them"},
		GenderOther:       {"other", "others", "o", "x", "third gender"},
		GenderUndisclosed: {"prefer not to say", "undisclosed", "not disclosed", "declined", "not specified", "na", "n/a", "unknown"},
	})
	workSyn = synonyms(map[string][]string{
		WorkRemote: {"remote", "wfh", "home", "work from home", "fully remote", "telecommute", "virtual"},
		WorkOnsite: {"onsite", "on site", "office", "in office", "wfo", "work from office", "in person", "on premise"},
		WorkHybrid: {"hybrid", "flexible", "mixed", "partly remote", "partial remote"},
	})
	employmentSyn = synonyms(map[string][]string{
		EmploymentFullTime: {"full time", "fulltime", "ft", "fte", "permanent", "regular", "full"},
		EmploymentPartTime: {"part time", "parttime", "pt", "part"},
		EmploymentContract: {"contract", "contractor", "contractual", "temp", "temporary", "consultant", "freelance", "freelancer", "fixed term"},
		EmploymentIntern:   {"intern", "internship", "trainee", "apprentice", "graduate trainee"},
	})
	bandRank = func() map[string]int {
		m := make(map[string]int, len(Bands))
		for i, b := range Bands {
			m[b] = i
		}
		return m
	}()
)

// synonyms indexes every spelling, and the canonical value itself, by folded key
func synonyms(in map[string][]string) map[string]string {
	out := make(map[string]string)
	for canonical, spellings := range in {
		out[normalize.Key(canonical)] = canonical
		for _, s := range spellings {
			out[normalize.Key(s)] = canonical
		}
	}
	return out
}

func mapEnum(syn map[string]string, v string) string {
	if c, ok := syn[normalize.Key(v)]; ok {
		return c
	}
	return strings.ToUpper(normalize.Text(v))
}

// Gender maps a free-text gender to its enumeration; unknown values are upper-cased
func Gender(v string) string { return mapEnum(genderSyn, v) }

// WorkMode maps wfh, office, hybrid and friends
func WorkMode(v string) string { return mapEnum(workSyn, v) }

// EmploymentType maps full time, contract, intern and friends
func EmploymentType(v string) string { return mapEnum(employmentSyn, v) }

// Band folds "p 2", "Band-P2" and "p2" to "P2"; the result may still be outside the ladder
func Band(v string) string {
	k := strings.TrimPrefix(normalize.Key(v), "band")
	return strings.ToUpper(k)
}

// IsGender reports membership in the gender enumeration
func IsGender(v string) bool {
	switch v {
	case GenderMale, GenderFemale, GenderNonBinary, GenderOther, GenderUndisclosed:
		return true
	}
	return false
}

// IsWorkMode reports membership in the work mode enumeration
func IsWorkMode(v string) bool { return v == WorkRemote || v == WorkOnsite || v == WorkHybrid }

// IsEmploymentType reports membership in the employment type enumeration
func IsEmploymentType(v string) bool {
	switch v {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentIntern:
		return true
	}
	return false
}

// BandRank returns the position of code on the ladder
func BandRank(code string) (int, bool) {
	r, ok := bandRank[code]
	return r, ok
}

// IsBand reports whether code is on the ladder
func IsBand(code string) bool {
	_, ok := bandRank[code]
	return ok
}
