package orchestration

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/llmrec/recjudge/internal/models"
)

// FilterRatings returns the subset of ratings whose Movie title or MovieID
// matches at least one of the given glob patterns. An empty patterns slice
// returns all ratings unchanged.
func FilterRatings(ratings []models.Rating, patterns []string) ([]models.Rating, error) {
	if len(patterns) == 0 {
		return ratings, nil
	}

	var matched []models.Rating
	for _, r := range ratings {
		ok, err := matchesAny(r, patterns)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// matchesAny reports whether a rating's Movie or MovieID matches any pattern.
func matchesAny(r models.Rating, patterns []string) (bool, error) {
	for _, p := range patterns {
		nameMatch, err := filepath.Match(p, r.Movie)
		if err != nil {
			return false, fmt.Errorf("invalid movie filter pattern %q: %w", p, err)
		}
		if nameMatch {
			return true, nil
		}
		if r.MovieID == 0 {
			continue
		}
		idMatch, err := filepath.Match(p, strconv.Itoa(r.MovieID))
		if err != nil {
			return false, fmt.Errorf("invalid movie filter pattern %q: %w", p, err)
		}
		if idMatch {
			return true, nil
		}
	}
	return false, nil
}
