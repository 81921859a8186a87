package portfolio

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// =============================================================================
// SELECTION AGGREGATION TESTS
// =============================================================================

func TestAggregateSumsCacheFields(t *testing.T) {
	skus := []Sku{
		{SkuID: "A", Cache: &Cache{MonthlyRevenue: 1000, AdjUnitsBase: 500, MonthlyGMDollar: 300}},
		{SkuID: "B", Cache: &Cache{MonthlyRevenue: 2000, AdjUnitsBase: 250, MonthlyGMDollar: 500}},
		{SkuID: "C", Cache: &Cache{MonthlyRevenue: 9999, AdjUnitsBase: 999, MonthlyGMDollar: 999}},
	}
	selected := map[string]bool{"A": true, "B": true}

	totals := Aggregate(skus, selected)
	if totals.Count != 2 {
		t.Errorf("count = %d, want 2", totals.Count)
	}
	if totals.Revenue != 3000 {
		t.Errorf("revenue = %v, want 3000", totals.Revenue)
	}
	if totals.Units != 750 {
		t.Errorf("units = %v, want 750", totals.Units)
	}
	if totals.GMDollar != 800 {
		t.Errorf("gm$ = %v, want 800", totals.GMDollar)
	}

	// 800/3000*100 = 26.666..., displayed as 26.7%.
	if got := totals.BlendedGMPct(); math.Abs(got-26.666666) > 0.001 {
		t.Errorf("blended GM%% = %v, want ~26.667", got)
	}
}

func TestAggregateTreatsNilCacheAsZero(t *testing.T) {
	skus := []Sku{
		{SkuID: "A", Cache: &Cache{MonthlyRevenue: 1200, AdjUnitsBase: 100, MonthlyGMDollar: 240}},
		{SkuID: "B"}, // never computed by the engine
	}
	totals := Aggregate(skus, map[string]bool{"A": true, "B": true})
	if totals.Count != 2 {
		t.Errorf("count = %d, want 2 (nil cache still counts the row)", totals.Count)
	}
	if totals.Revenue != 1200 || totals.Units != 100 || totals.GMDollar != 240 {
		t.Errorf("nil cache leaked into totals: %+v", totals)
	}
}

func TestBlendedGMPctZeroRevenue(t *testing.T) {
	totals := SelectionTotals{Count: 3, GMDollar: 500}
	if got := totals.BlendedGMPct(); got != 0 {
		t.Errorf("blended GM%% with zero revenue = %v, want 0", got)
	}
}

func TestAggregateEmptySelection(t *testing.T) {
	totals := Aggregate(testSkus(), map[string]bool{})
	if totals.Count != 0 || totals.Revenue != 0 {
		t.Errorf("empty selection should be all zeros, got %+v", totals)
	}
}

// =============================================================================
// LOCAL STATE REPLACEMENT TESTS
// =============================================================================

func TestReplaceSkuTakesServerObjectWholesale(t *testing.T) {
	skus := []Sku{
		{SkuID: "A", SkuName: "Old Name", Brand: "Alpina",
			Cache: &Cache{MonthlyRevenue: 100, FinalRecommendation: RecommendPhaseLater}},
		{SkuID: "B", SkuName: "Other"},
	}

	// The server response drops fields the stale local copy had set; the
	// replacement must not merge them back.
	updated := Sku{SkuID: "A", SkuName: "New Name",
		Cache: &Cache{MonthlyRevenue: 175, FinalRecommendation: RecommendLaunchNow}}

	if !ReplaceSku(skus, updated) {
		t.Fatal("ReplaceSku did not find the row")
	}
	if diff := cmp.Diff(updated, skus[0]); diff != "" {
		t.Errorf("local row is not exactly the server object (-want +got):\n%s", diff)
	}
	if skus[0].Brand != "" {
		t.Errorf("stale local field survived the replacement: %q", skus[0].Brand)
	}

	if ReplaceSku(skus, Sku{SkuID: "missing"}) {
		t.Error("ReplaceSku reported success for an unknown id")
	}
}

func TestRemoveSkus(t *testing.T) {
	skus := testSkus()
	remaining := RemoveSkus(skus, []string{"NPL-001", "UAE-002", "not-present"})
	if len(remaining) != 3 {
		t.Fatalf("expected 3 remaining rows, got %d", len(remaining))
	}
	for _, s := range remaining {
		if s.SkuID == "NPL-001" || s.SkuID == "UAE-002" {
			t.Errorf("deleted id %s still present", s.SkuID)
		}
	}
}

// =============================================================================
// WIRE FORMAT TESTS
// =============================================================================

func TestSkuScoresStayFlatOnTheWire(t *testing.T) {
	s := Sku{SkuID: "A"}
	s.ConsumerTrend = 4
	s.PriceWar = 2

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := raw["score_consumer_trend"]; !ok {
		t.Error("score_consumer_trend is not a top-level field")
	}
	if _, ok := raw["scores"]; ok {
		t.Error("scores must not nest under their own key")
	}
}

func TestSkuNullableFieldsDecode(t *testing.T) {
	payload := `{"sku_id":"A","regulatory_eligible":null,"cache":null}`
	var s Sku
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if s.RegulatoryEligible != nil {
		t.Error("null regulatory_eligible should decode to nil")
	}
	if s.Cache != nil {
		t.Error("null cache should decode to nil")
	}
}

func TestSkuCloneDoesNotAlias(t *testing.T) {
	eligible := true
	orig := Sku{SkuID: "A", RegulatoryEligible: &eligible, Cache: &Cache{MonthlyRevenue: 10}}

	draft := orig.Clone()
	*draft.RegulatoryEligible = false
	draft.Cache.MonthlyRevenue = 999

	if !*orig.RegulatoryEligible {
		t.Error("draft edit leaked into the original's eligibility flag")
	}
	if orig.Cache.MonthlyRevenue != 10 {
		t.Error("draft edit leaked into the original's cache")
	}
}
