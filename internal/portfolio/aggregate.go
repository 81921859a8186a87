package portfolio

// SelectionTotals is the aggregation bar's content: arithmetic sums over
// the selected rows' cache fields. Rows with a nil cache contribute zero to
// every total. All reduction is client-side display math; the underlying
// model is never recomputed here.
type SelectionTotals struct {
	Count    int
	Revenue  float64 // sum of monthly_revenue
	Units    float64 // sum of adj_units_base
	GMDollar float64 // sum of monthly_gm_dollar
}

// BlendedGMPct returns totalGM/totalRevenue*100, defined as 0 when revenue
// is 0.
func (t SelectionTotals) BlendedGMPct() float64 {
	if t.Revenue == 0 {
		return 0
	}
	return t.GMDollar / t.Revenue * 100
}

// Aggregate sums the cache fields of the SKUs whose ids are selected.
// Selection is by id so it survives filtering and paging.
func Aggregate(skus []Sku, selected map[string]bool) SelectionTotals {
	var t SelectionTotals
	for _, s := range skus {
		if !selected[s.SkuID] {
			continue
		}
		t.Count++
		if s.Cache == nil {
			continue
		}
		t.Revenue += s.Cache.MonthlyRevenue
		t.Units += s.Cache.AdjUnitsBase
		t.GMDollar += s.Cache.MonthlyGMDollar
	}
	return t
}

// ReplaceSku swaps the SKU with the same id for the server's authoritative
// copy and reports whether a row was replaced. The stale local record is
// discarded entirely, cache included.
func ReplaceSku(skus []Sku, updated Sku) bool {
	for i := range skus {
		if skus[i].SkuID == updated.SkuID {
			skus[i] = updated
			return true
		}
	}
	return false
}

// RemoveSkus drops the rows whose ids are in ids and returns the remaining
// slice. Used after a confirmed bulk delete.
func RemoveSkus(skus []Sku, ids []string) []Sku {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	out := skus[:0]
	for _, s := range skus {
		if !drop[s.SkuID] {
			out = append(out, s)
		}
	}
	return out
}
