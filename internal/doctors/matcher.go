package doctors

import "strings"

// maxMatches caps how many doctors a recommendation ever returns.
const maxMatches = 3

// Match filters doctors whose specialty equals any of the given specialties,
// compared case-insensitively. When nothing matches it returns the first
// three doctors unfiltered so the caller always has something to show.
func Match(specialties []string, list []*Doctor) []*Doctor {
	matched := make([]*Doctor, 0, maxMatches)
	for _, d := range list {
		if matchesAny(d.Specialty, specialties) {
			matched = append(matched, d)
		}
	}

	if len(matched) == 0 {
		matched = list
	}
	if len(matched) > maxMatches {
		matched = matched[:maxMatches]
	}
	return matched
}

func matchesAny(specialty string, specialties []string) bool {
	for _, s := range specialties {
		if strings.EqualFold(specialty, s) {
			return true
		}
	}
	return false
}
