package domain

// ComputeStats derives dashboard statistics from purchase history. The
// upstream script computes the same numbers server-side; this is the local
// fallback used when the history payload arrives without them.
func ComputeStats(groups []PurchaseGroup) DashboardStats {
	stats := DashboardStats{
		TotalPurchases: len(groups),
	}

	for _, g := range groups {
		stats.TotalSpent += g.Total
		for _, line := range g.Items {
			stats.TotalItems += line.Quantity
		}
	}

	if stats.TotalPurchases > 0 {
		stats.AverageSpend = stats.TotalSpent / Money(stats.TotalPurchases)
	}

	stats.FavoriteCategory = favoriteCategory(groups)
	return stats
}

// favoriteCategory returns the mode of per-line categories across all
// groups. Ties break toward the category encountered first, so the result
// is deterministic for a given history ordering.
func favoriteCategory(groups []PurchaseGroup) string {
	counts := make(map[string]int)
	var order []string

	for _, g := range groups {
		for _, line := range g.Items {
			if line.Category == "" {
				continue
			}
			if _, seen := counts[line.Category]; !seen {
				order = append(order, line.Category)
			}
			counts[line.Category]++
		}
	}

	best := ""
	bestCount := 0
	for _, cat := range order {
		if counts[cat] > bestCount {
			best = cat
			bestCount = counts[cat]
		}
	}
	return best
}
