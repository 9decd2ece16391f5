package schema

import (
	"fmt"
	"strings"
)

// findSimilar finds a similar string from a list (for "did you mean" suggestions).
// Uses Levenshtein distance.
func findSimilar(input string, candidates []string) string {
	const maxDistance = 3
	inputLower := strings.ToLower(input)

	var bestMatch string
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		distance := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if distance < bestDistance {
			bestDistance = distance
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// suggestionText formats a " Did you mean ...?" suffix, or returns "" when
// no candidate is close enough.
func suggestionText(input string, candidates []string) string {
	if match := findSimilar(input, candidates); match != "" {
		return fmt.Sprintf(". Did you mean %q?", match)
	}
	return ""
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(b)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(a)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(b); i++ {
		for j := 1; j <= len(a); j++ {
			if b[i-1] == a[j-1] {
				matrix[i][j] = matrix[i-1][j-1]
			} else {
				matrix[i][j] = minInt(
					matrix[i-1][j-1]+1, // substitution
					matrix[i][j-1]+1,   // insertion
					matrix[i-1][j]+1,   // deletion
				)
			}
		}
	}

	return matrix[len(b)][len(a)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
