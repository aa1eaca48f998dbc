package statusutil

import (
	"fmt"
	"strings"

	"skillboard/internal/model"
)

// NormalizeStatusFilter maps user input to a status filter value.
func NormalizeStatusFilter(s string) (model.StatusFilter, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ALL":
		return model.StatusAll, nil
	case "DONE", "COMPLETED":
		return model.StatusDone, nil
	case "IN-PROGRESS", "IN_PROGRESS", "INPROGRESS", "OPEN", "TODO":
		return model.StatusInProgress, nil
	default:
		return "", fmt.Errorf("invalid status filter: %q (want all|done|in-progress)", strings.TrimSpace(s))
	}
}

// NormalizeCategoryFilter maps user input to a category filter value.
// Categories are open tags, so any non-blank value is accepted.
func NormalizeCategoryFilter(s string) (model.CategoryFilter, error) {
	v := strings.TrimSpace(s)
	switch strings.ToUpper(v) {
	case "", "ALL":
		return model.FilterAll, nil
	case "FRONTEND":
		return model.CategoryFilter(model.CategoryFrontend), nil
	case "BACKEND":
		return model.CategoryFilter(model.CategoryBackend), nil
	case "TOOLS":
		return model.CategoryFilter(model.CategoryTools), nil
	default:
		if strings.ContainsAny(v, "/\\") {
			return "", fmt.Errorf("invalid category filter: %q", v)
		}
		return model.CategoryFilter(v), nil
	}
}

// MatchesStatus reports whether a task with the given completion flag passes
// the status filter. Unrecognized filter values match everything.
func MatchesStatus(filter model.StatusFilter, done bool) bool {
	switch filter {
	case model.StatusDone:
		return done
	case model.StatusInProgress:
		return !done
	default:
		return true
	}
}

// NextStatusFilter cycles all -> done -> in-progress -> all.
func NextStatusFilter(cur model.StatusFilter, step int) model.StatusFilter {
	xs := model.StatusFilters()
	return xs[cycleIndex(indexOf(xs, cur), step, len(xs))]
}

// NextCategoryFilter cycles through "all" and the known categories.
func NextCategoryFilter(cur model.CategoryFilter, step int) model.CategoryFilter {
	xs := model.CategoryFilters()
	return xs[cycleIndex(indexOf(xs, cur), step, len(xs))]
}

func indexOf[T comparable](xs []T, v T) int {
	for i := range xs {
		if xs[i] == v {
			return i
		}
	}
	return 0
}

func cycleIndex(i, step, n int) int {
	if n == 0 {
		return 0
	}
	return ((i+step)%n + n) % n
}
