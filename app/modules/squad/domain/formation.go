package squaddomain

import "fmt"

// FormationResult reports whether a starting XI meets the league minimums.
type FormationResult struct {
	IsValid bool             `json:"is_valid"`
	Errors  []string         `json:"errors,omitempty"`
	Counts  map[Category]int `json:"counts"`
}

// ValidateFormation counts starting players per category and reports one
// message per unmet minimum. It never modifies its input.
func ValidateFormation(startingXI []PlayerSnapshot, rules LeagueRules) FormationResult {
	counts := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		counts[c] = 0
	}
	for _, p := range startingXI {
		counts[p.Category]++
	}

	var errs []string
	for _, c := range Categories {
		need := rules.Minimum(c)
		if have := counts[c]; have < need {
			errs = append(errs, fmt.Sprintf("Need at least %d %s (have %d)", need, c.Plural(), have))
		}
	}

	return FormationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
		Counts:  counts,
	}
}
