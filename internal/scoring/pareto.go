package scoring

// ComputeFrontier returns the derived records no other record dominates on
// cost, total risk and probability of success. Lower cost and risk are better,
// higher probability is better. Input order is kept.
// O(n^2) dominance check, fine for dataset sizes a dashboard shows.
func ComputeFrontier(records []DerivedRecord) []DerivedRecord {
	if len(records) <= 1 {
		return append([]DerivedRecord(nil), records...)
	}

	var frontier []DerivedRecord
	for i := range records {
		dominated := false
		for j := range records {
			if i == j {
				continue
			}
			if dominates(&records[j], &records[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, records[i])
		}
	}
	return frontier
}

// dominates reports whether a is at least as good as b everywhere and strictly
// better somewhere.
func dominates(a, b *DerivedRecord) bool {
	if a.TotalCost > b.TotalCost || a.TotalRisk > b.TotalRisk || a.ProbabilityOfSuccess < b.ProbabilityOfSuccess {
		return false
	}
	return a.TotalCost < b.TotalCost || a.TotalRisk < b.TotalRisk || a.ProbabilityOfSuccess > b.ProbabilityOfSuccess
}
