package pets

import (
	"math"
	"sort"
)

// Summarize builds the per-species summary for a set of pets
func Summarize(all []Pet) *Summary {
	summary := &Summary{SpeciesStats: make(map[string]SpeciesStats)}

	for _, p := range all {
		stats := summary.SpeciesStats[p.Species]
		stats.Total++
		summary.OverallTotals.TotalPets++
		if p.IsAdopted {
			stats.Adopted++
			summary.OverallTotals.AdoptedPets++
		} else {
			stats.Available++
			summary.OverallTotals.AvailablePets++
		}
		summary.SpeciesStats[p.Species] = stats
	}

	return summary
}

// Stats derives adoption statistics from a summary
func Stats(summary *Summary) *AdoptionStats {
	return &AdoptionStats{
		Totals:           summary.OverallTotals,
		AdoptionRate:     adoptionRate(summary.OverallTotals),
		SpeciesBreakdown: summary.SpeciesStats,
	}
}

// adoptionRate is the adopted percentage rounded to two decimals
func adoptionRate(t Totals) float64 {
	if t.TotalPets == 0 {
		return 0
	}
	rate := float64(t.AdoptedPets) / float64(t.TotalPets) * 100
	return math.Round(rate*100) / 100
}

// MergeSpecies combines species present in storage with the common options
func MergeSpecies(existing []string) *Species {
	if existing == nil {
		existing = []string{}
	}
	sort.Strings(existing)

	seen := make(map[string]struct{}, len(existing)+len(CommonSpecies))
	all := make([]string, 0, len(existing)+len(CommonSpecies))
	for _, list := range [][]string{existing, CommonSpecies} {
		for _, s := range list {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			all = append(all, s)
		}
	}
	sort.Strings(all)

	common := make([]string, len(CommonSpecies))
	copy(common, CommonSpecies)

	return &Species{
		Species:            all,
		ExistingInDatabase: existing,
		CommonOptions:      common,
	}
}
