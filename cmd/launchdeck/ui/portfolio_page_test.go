package ui

import (
	"fmt"
	"strings"
	"testing"

	"launchdeck/internal/portfolio"
)

func testSkus(n int) []portfolio.Sku {
	skus := make([]portfolio.Sku, 0, n)
	brands := []string{"Aura", "Bloom"}
	channels := []string{"E-Com", "MT"}
	for i := 0; i < n; i++ {
		skus = append(skus, portfolio.Sku{
			SkuID:          fmt.Sprintf("SKU-%03d", i),
			SkuName:        fmt.Sprintf("Product %d", i),
			Brand:          brands[i%2],
			TargetMarket:   "Nepal",
			PrimaryChannel: channels[i%2],
			LocalListPrice: 100,
			Cache: &portfolio.Cache{
				MonthlyRevenue:      1000,
				AdjUnitsBase:        10,
				MonthlyGMDollar:     300,
				GMPct:               30,
				FinalRecommendation: portfolio.RecommendLaunchNow,
			},
		})
	}
	return skus
}

func loadedPortfolioPage(n int) PortfolioPageModel {
	m := NewPortfolioPageModel(DefaultStyles())
	m.SetSize(140, 40)
	m.SetData(testSkus(n), testMarkets())
	return m
}

func TestPortfolioPageFooterRange(t *testing.T) {
	m := loadedPortfolioPage(45)

	view := m.View()
	if !strings.Contains(view, "[1–20 of 45]") {
		t.Errorf("page 1 footer wrong:\n%s", view)
	}
	if !strings.Contains(view, "page 1/3") {
		t.Errorf("page count wrong for 45 rows")
	}

	m, _, _ = m.Update(keyMsg("right"))
	m, _, _ = m.Update(keyMsg("right"))
	view = m.View()
	if !strings.Contains(view, "[41–45 of 45]") {
		t.Errorf("last page footer wrong:\n%s", view)
	}

	// Paging past the end stays put.
	m, _, _ = m.Update(keyMsg("right"))
	if !strings.Contains(m.View(), "[41–45 of 45]") {
		t.Errorf("paged past the last page")
	}
}

func TestPortfolioPageFacetCycleFiltersAndResetsPage(t *testing.T) {
	m := loadedPortfolioPage(45)
	m, _, _ = m.Update(keyMsg("right")) // page 2

	m, _, _ = m.Update(keyMsg("b")) // first brand: Aura
	if m.filter.Brand != "Aura" {
		t.Fatalf("brand filter = %q, want Aura", m.filter.Brand)
	}
	if m.page != 1 {
		t.Errorf("filter change should reset to page 1, got %d", m.page)
	}
	if len(m.visible) != 23 {
		t.Errorf("visible = %d, want 23 Aura rows", len(m.visible))
	}

	// Cycling past the last option clears the filter.
	m, _, _ = m.Update(keyMsg("b"))
	m, _, _ = m.Update(keyMsg("b"))
	if m.filter.Brand != "" {
		t.Errorf("brand cycle should wrap to no filter, got %q", m.filter.Brand)
	}
	if len(m.visible) != 45 {
		t.Errorf("cleared filter should show all rows, got %d", len(m.visible))
	}
}

func TestPortfolioPageQueryFilterLive(t *testing.T) {
	m := loadedPortfolioPage(30)
	m, _, _ = m.Update(keyMsg("/"))
	if !m.FilterTyping() {
		t.Fatalf("/ should focus the filter input")
	}
	for _, r := range "SKU-00" {
		m, _, _ = m.Update(keyMsg(string(r)))
	}
	if len(m.visible) != 10 {
		t.Errorf("query SKU-00 matched %d rows, want 10", len(m.visible))
	}

	// Esc clears the query and unfocuses.
	m, _, _ = m.Update(keyMsg("esc"))
	if m.FilterTyping() || m.filter.Query != "" {
		t.Errorf("esc should clear and blur the query filter")
	}
	if len(m.visible) != 30 {
		t.Errorf("cleared query should show all rows")
	}
}

func TestPortfolioPageSelectionAggregationBar(t *testing.T) {
	m := loadedPortfolioPage(5)

	m, _, _ = m.Update(keyMsg(" "))
	m, _, _ = m.Update(keyMsg("down"))
	m, _, _ = m.Update(keyMsg(" "))

	if got := m.SelectedIDs(); len(got) != 2 {
		t.Fatalf("selected = %v, want 2 rows", got)
	}

	view := m.View()
	if !strings.Contains(view, "Selected: 2") {
		t.Errorf("aggregation bar missing count:\n%s", view)
	}
	if !strings.Contains(view, "2,000") {
		t.Errorf("aggregation bar missing summed revenue")
	}
	if !strings.Contains(view, "30.0%") {
		t.Errorf("aggregation bar missing blended GM%%")
	}

	// Esc clears the selection and the bar disappears.
	m, _, _ = m.Update(keyMsg("esc"))
	if m.HasSelection() {
		t.Errorf("esc should clear the selection")
	}
	if strings.Contains(m.View(), "Selected:") {
		t.Errorf("aggregation bar rendered with empty selection")
	}
}

func TestPortfolioPageSelectionSurvivesFilterAndPaging(t *testing.T) {
	m := loadedPortfolioPage(45)
	m, _, _ = m.Update(keyMsg(" ")) // select SKU-000

	m, _, _ = m.Update(keyMsg("b")) // Aura
	m, _, _ = m.Update(keyMsg("right"))
	if got := m.SelectedIDs(); len(got) != 1 || got[0] != "SKU-000" {
		t.Errorf("selection lost across filter/paging: %v", got)
	}
}

func TestPortfolioPageDeleteConfirmFlow(t *testing.T) {
	m := loadedPortfolioPage(5)
	m, _, _ = m.Update(keyMsg(" "))

	m, action, _ := m.Update(keyMsg("d"))
	if action.Kind != PortfolioActionNone || !m.ConfirmingDelete() {
		t.Fatalf("d should only open the confirmation prompt")
	}
	if !strings.Contains(m.View(), "Delete 1 selected") {
		t.Errorf("prompt should state the exact count:\n%s", m.View())
	}

	// Any key but y cancels.
	m, action, _ = m.Update(keyMsg("x"))
	if action.Kind != PortfolioActionNone || m.ConfirmingDelete() {
		t.Fatalf("non-y key should cancel the prompt")
	}

	m, _, _ = m.Update(keyMsg("d"))
	m, action, _ = m.Update(keyMsg("y"))
	if action.Kind != PortfolioActionDelete {
		t.Fatalf("y should emit the delete action")
	}
	if len(action.IDs) != 1 || action.IDs[0] != "SKU-000" {
		t.Errorf("delete ids = %v, want [SKU-000]", action.IDs)
	}

	// Rows leave local state only after server confirmation.
	if len(m.skus) != 5 {
		t.Errorf("rows removed before confirmation")
	}
	m.RemoveDeleted(action.IDs)
	if len(m.skus) != 4 || m.HasSelection() {
		t.Errorf("confirmed delete should drop rows and clear selection")
	}
}

func TestPortfolioPageExportNeedsSelection(t *testing.T) {
	m := loadedPortfolioPage(3)
	_, action, _ := m.Update(keyMsg("e"))
	if action.Kind != PortfolioActionNone {
		t.Fatalf("export with no selection should do nothing")
	}

	m, _, _ = m.Update(keyMsg(" "))
	_, action, _ = m.Update(keyMsg("e"))
	if action.Kind != PortfolioActionExport || len(action.IDs) != 1 {
		t.Errorf("export action = %+v, want one id", action)
	}
}

func TestPortfolioPageEnterOpensCursorSku(t *testing.T) {
	m := loadedPortfolioPage(25)
	m, _, _ = m.Update(keyMsg("right")) // page 2, cursor row 0

	_, action, _ := m.Update(keyMsg("enter"))
	if action.Kind != PortfolioActionOpenSku {
		t.Fatalf("enter should open the modal")
	}
	if action.SkuID != "SKU-020" {
		t.Errorf("opened %q, want first row of page 2 (SKU-020)", action.SkuID)
	}
}

func TestPortfolioPageReplaceSkuRecomputesFacets(t *testing.T) {
	m := loadedPortfolioPage(4)

	updated, _ := m.Sku("SKU-001")
	updated.Brand = "Celeste"
	m.ReplaceSku(updated)

	found := false
	for _, b := range m.facets.Brands {
		if b == "Celeste" {
			found = true
		}
	}
	if !found {
		t.Errorf("facets not recomputed after save: %v", m.facets.Brands)
	}
}
