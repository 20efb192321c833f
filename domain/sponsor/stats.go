package sponsor

// Stats summarises sponsorship usage across all users.
type Stats struct {
	TotalUsers              int     `json:"totalUsers"`
	TotalPositionsSponsored int     `json:"totalPositionsSponsored"`
	TotalValueSponsored     float64 `json:"totalValueSponsored"`
	AveragePerUser          float64 `json:"averagePerUser"`
}

// AggregateStats folds all usage records into service-wide totals.
// TotalPositionsSponsored sums the monthly counters, so it understates
// lifetime totals once any monthly reset has occurred. Consumers of the
// stats endpoint depend on this accounting.
// This is a PURE function.
func AggregateStats(records []UsageRecord) Stats {
	var s Stats

	for _, rec := range records {
		s.TotalUsers++
		s.TotalPositionsSponsored += rec.MonthlyCount
		s.TotalValueSponsored += rec.TotalValueSponsored
	}

	if s.TotalUsers > 0 {
		s.AveragePerUser = s.TotalValueSponsored / float64(s.TotalUsers)
	}

	return s
}
