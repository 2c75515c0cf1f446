// internal/workers/directory/list-approved-workers/filter.go
package listapprovedworkers

import (
	"strings"

	"gigdial/internal/models"
)

// Matches reports whether w passes the directory filter: the name or any
// skill contains search (case-insensitive), and category is All, empty or
// equal to one of the skills (case-insensitive).
func Matches(w models.WorkerProfile, search, category string) bool {
	return matchesSearch(w, strings.ToLower(strings.TrimSpace(search))) &&
		matchesCategory(w, strings.TrimSpace(category))
}

func matchesSearch(w models.WorkerProfile, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(w.Name), needle) {
		return true
	}
	for _, s := range w.Skills {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

func matchesCategory(w models.WorkerProfile, category string) bool {
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return true
	}
	for _, s := range w.Skills {
		if strings.EqualFold(s, category) {
			return true
		}
	}
	return false
}

// Filter keeps the workers that match, preserving order.
func Filter(workers []models.WorkerProfile, search, category string) []models.WorkerProfile {
	out := make([]models.WorkerProfile, 0, len(workers))
	for _, w := range workers {
		if Matches(w, search, category) {
			out = append(out, w)
		}
	}
	return out
}
