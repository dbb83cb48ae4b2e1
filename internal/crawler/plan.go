package crawler

import "strings"

// BuildPlan merges the seed paths and discovered paths into the ordered list
// of pages to visit after the homepage. Duplicates are dropped
// case-insensitively keeping the first occurrence, so a seed always wins over
// an equal discovered path. "/" is never part of the plan.
func BuildPlan(seeds, discovered []string) []string {
	plan := make([]string, 0, len(seeds)+len(discovered))
	seen := map[string]bool{"/": true}

	for _, list := range [][]string{seeds, discovered} {
		for _, p := range list {
			key := strings.ToLower(p)
			if seen[key] {
				continue
			}
			seen[key] = true
			plan = append(plan, p)
		}
	}

	return plan
}
