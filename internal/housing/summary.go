package housing

import (
	"cmp"
	"slices"

	"github.com/mmynk/roomdraw/internal/models"
)

// SummarizeSuites counts available and assigned suites per size, smallest first.
func SummarizeSuites(suites []*models.Suite) []models.SizeSummary {
	bySize := make(map[int]*models.SizeSummary)
	for _, s := range suites {
		sum, ok := bySize[s.Size]
		if !ok {
			sum = &models.SizeSummary{Size: s.Size}
			bySize[s.Size] = sum
		}
		if s.GroupID == "" {
			sum.Available++
		} else {
			sum.Assigned++
		}
	}

	out := make([]models.SizeSummary, 0, len(bySize))
	for _, sum := range bySize {
		out = append(out, *sum)
	}
	slices.SortFunc(out, func(a, b models.SizeSummary) int { return cmp.Compare(a.Size, b.Size) })
	return out
}

// SummarizeStudents counts a draw's students by intent, and its on-campus
// students by whether they hold a full membership in one of groups.
func SummarizeStudents(students []*models.Student, groups []*models.Group) models.StudentSummary {
	grouped := GroupedStudents(groups)
	sum := models.StudentSummary{ByIntent: make(map[models.Intent]int)}
	for _, s := range students {
		sum.ByIntent[s.Intent]++
		if s.Intent != models.IntentOnCampus {
			continue
		}
		if grouped[s.ID] {
			sum.Grouped++
		} else {
			sum.Ungrouped++
		}
	}
	return sum
}

// GroupedStudents returns the students holding a full membership in any of groups.
func GroupedStudents(groups []*models.Group) map[string]bool {
	grouped := make(map[string]bool)
	for _, g := range groups {
		for _, id := range g.Members() {
			grouped[id] = true
		}
	}
	return grouped
}

// LotteryEntrants lists who enters a draw's lottery: every group, then every
// on-campus student without a group, in the order given.
func LotteryEntrants(students []*models.Student, groups []*models.Group) []models.Entrant {
	grouped := GroupedStudents(groups)
	entrants := make([]models.Entrant, 0, len(groups)+len(students))
	for _, g := range groups {
		entrants = append(entrants, models.Entrant{GroupID: g.ID})
	}
	for _, s := range students {
		if s.Intent == models.IntentOnCampus && !grouped[s.ID] {
			entrants = append(entrants, models.Entrant{StudentID: s.ID})
		}
	}
	return entrants
}
