package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"launchdeck/internal/portfolio"
)

// PortfolioActionKind is what the portfolio page asks the host to do.
type PortfolioActionKind int

const (
	PortfolioActionNone PortfolioActionKind = iota
	PortfolioActionOpenSku
	PortfolioActionExport
	PortfolioActionDelete
)

// PortfolioAction is emitted from Update when a keypress needs the host:
// opening the modal for a row, or running a bulk export/delete.
type PortfolioAction struct {
	Kind  PortfolioActionKind
	SkuID string   // set for OpenSku
	IDs   []string // set for Export and Delete
}

// PortfolioPageModel is the SKU portfolio screen: a paginated, filterable
// grid with multi-select and a bottom aggregation bar. Filtering and paging
// are purely client-side over the in-memory list.
type PortfolioPageModel struct {
	styles Styles
	width  int
	height int

	skus    []portfolio.Sku
	markets []portfolio.Market
	facets  portfolio.Facets
	visible []portfolio.Sku // after filtering

	filter       portfolio.Filter
	filterInput  textinput.Model
	filterTyping bool

	page  int // 1-based
	table table.Model

	selected map[string]bool

	confirmingDelete bool
	loaded           bool
}

var portfolioColumns = []table.Column{
	{Title: " ", Width: 2},
	{Title: "SKU", Width: 12},
	{Title: "Name", Width: 24},
	{Title: "Brand", Width: 12},
	{Title: "Market", Width: 10},
	{Title: "Channel", Width: 10},
	{Title: "Price", Width: 10},
	{Title: "Revenue", Width: 12},
	{Title: "GM%", Width: 7},
	{Title: "Recommendation", Width: 14},
}

// NewPortfolioPageModel creates an empty portfolio page.
func NewPortfolioPageModel(styles Styles) PortfolioPageModel {
	t := table.New(
		table.WithColumns(portfolioColumns),
		table.WithFocused(true),
		table.WithHeight(portfolio.PageSize),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Bold(true).Foreground(styles.Theme.Primary).
		BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).
		BorderForeground(styles.Theme.Border)
	ts.Selected = ts.Selected.Foreground(styles.Theme.Background).
		Background(styles.Theme.Accent).Bold(true)
	t.SetStyles(ts)

	fi := textinput.New()
	fi.Placeholder = "Filter by id or name..."
	fi.CharLimit = 64
	fi.Width = 32

	return PortfolioPageModel{
		styles:      styles,
		table:       t,
		filterInput: fi,
		page:        1,
		selected:    make(map[string]bool),
	}
}

// SetStyles swaps the style set, used on theme hot-reload.
func (m *PortfolioPageModel) SetStyles(styles Styles) { m.styles = styles }

// SetSize updates the page dimensions.
func (m *PortfolioPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	rows := h - 10 // header, filter bar, footer, aggregation bar
	if rows < 5 {
		rows = 5
	}
	if rows > portfolio.PageSize {
		rows = portfolio.PageSize
	}
	m.table.SetHeight(rows + 1)
}

// SetData installs freshly loaded SKUs and markets, recomputing facets.
// The selection is kept: selection is by id, and ids that vanished from the
// backend simply stop matching rows.
func (m *PortfolioPageModel) SetData(skus []portfolio.Sku, markets []portfolio.Market) {
	m.skus = skus
	m.markets = markets
	m.facets = portfolio.DeriveFacets(skus, markets)
	m.loaded = true
	m.refresh()
}

// ReplaceSku swaps in the server's authoritative copy after a save and
// recomputes facets, since a brand or channel may have changed.
func (m *PortfolioPageModel) ReplaceSku(updated portfolio.Sku) {
	portfolio.ReplaceSku(m.skus, updated)
	m.facets = portfolio.DeriveFacets(m.skus, m.markets)
	m.refresh()
}

// RemoveDeleted drops confirmed-deleted rows, clears the selection, and
// recomputes facets.
func (m *PortfolioPageModel) RemoveDeleted(ids []string) {
	m.skus = portfolio.RemoveSkus(m.skus, ids)
	m.selected = make(map[string]bool)
	m.confirmingDelete = false
	m.facets = portfolio.DeriveFacets(m.skus, m.markets)
	m.refresh()
}

// Loaded reports whether the initial fetch has landed.
func (m *PortfolioPageModel) Loaded() bool { return m.loaded }

// Sku returns the SKU with the given id, for the modal.
func (m *PortfolioPageModel) Sku(id string) (portfolio.Sku, bool) {
	for _, s := range m.skus {
		if s.SkuID == id {
			return s, true
		}
	}
	return portfolio.Sku{}, false
}

// SelectedIDs returns the selected ids in portfolio order.
func (m *PortfolioPageModel) SelectedIDs() []string {
	var ids []string
	for _, s := range m.skus {
		if m.selected[s.SkuID] {
			ids = append(ids, s.SkuID)
		}
	}
	return ids
}

// FilterTyping reports whether the query input owns the keyboard.
func (m *PortfolioPageModel) FilterTyping() bool { return m.filterTyping }

// HasSelection reports whether any rows are selected.
func (m *PortfolioPageModel) HasSelection() bool { return len(m.selected) > 0 }

// ConfirmingDelete reports whether the delete prompt is showing.
func (m *PortfolioPageModel) ConfirmingDelete() bool { return m.confirmingDelete }

// refresh recomputes the visible rows and the table content after any
// change to data, filter or page.
func (m *PortfolioPageModel) refresh() {
	m.visible = m.filter.Apply(m.skus)
	m.page = portfolio.ClampPage(m.page, len(m.visible))

	pageRows := portfolio.PageSlice(m.visible, m.page)
	rows := make([]table.Row, 0, len(pageRows))
	for _, s := range pageRows {
		mark := " "
		if m.selected[s.SkuID] {
			mark = "●"
		}
		revenue, gmPct := "-", "-"
		if s.Cache != nil {
			revenue = FormatInt(s.Cache.MonthlyRevenue)
			gmPct = FormatPct(s.Cache.GMPct)
		}
		rows = append(rows, table.Row{
			mark,
			s.SkuID,
			Truncate(s.SkuName, 24),
			s.Brand,
			s.TargetMarket,
			s.PrimaryChannel,
			FormatFloat(s.LocalListPrice),
			revenue,
			gmPct,
			s.Recommendation(),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// cursorSku returns the SKU under the table cursor on the current page.
func (m *PortfolioPageModel) cursorSku() (portfolio.Sku, bool) {
	pageRows := portfolio.PageSlice(m.visible, m.page)
	c := m.table.Cursor()
	if c < 0 || c >= len(pageRows) {
		return portfolio.Sku{}, false
	}
	return pageRows[c], true
}

// Update handles keys for the page and reports any host work required.
func (m PortfolioPageModel) Update(msg tea.Msg) (PortfolioPageModel, PortfolioAction, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, PortfolioAction{}, nil
	}

	if m.confirmingDelete {
		m.confirmingDelete = false
		switch key.String() {
		case "y", "Y":
			return m, PortfolioAction{Kind: PortfolioActionDelete, IDs: m.SelectedIDs()}, nil
		default:
			return m, PortfolioAction{}, nil
		}
	}

	if m.filterTyping {
		switch key.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.filterTyping = false
			m.filterInput.Blur()
			if key.Type == tea.KeyEsc {
				m.filterInput.SetValue("")
				m.filter.Query = ""
				m.page = 1
				m.refresh()
			}
			return m, PortfolioAction{}, nil
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(key)
		if q := m.filterInput.Value(); q != m.filter.Query {
			m.filter.Query = q
			m.page = 1
			m.refresh()
		}
		return m, PortfolioAction{}, cmd
	}

	switch key.String() {
	case "/":
		m.filterTyping = true
		m.filterInput.Focus()
		return m, PortfolioAction{}, textinput.Blink
	case "b":
		m.filter.Brand = portfolio.CycleOption(m.facets.Brands, m.filter.Brand)
		m.page = 1
		m.refresh()
	case "m":
		m.filter.Market = portfolio.CycleOption(m.facets.Markets, m.filter.Market)
		m.page = 1
		m.refresh()
	case "c":
		m.filter.Channel = portfolio.CycleOption(m.facets.Channels, m.filter.Channel)
		m.page = 1
		m.refresh()
	case "left", "p":
		if m.page > 1 {
			m.page--
			m.table.SetCursor(0)
			m.refresh()
		}
	case "right", "n":
		if m.page < portfolio.PageCount(len(m.visible)) {
			m.page++
			m.table.SetCursor(0)
			m.refresh()
		}
	case " ":
		if s, ok := m.cursorSku(); ok {
			if m.selected[s.SkuID] {
				delete(m.selected, s.SkuID)
			} else {
				m.selected[s.SkuID] = true
			}
			m.refresh()
		}
	case "esc":
		if len(m.selected) > 0 {
			m.selected = make(map[string]bool)
			m.refresh()
		}
	case "enter":
		if s, ok := m.cursorSku(); ok {
			return m, PortfolioAction{Kind: PortfolioActionOpenSku, SkuID: s.SkuID}, nil
		}
	case "e":
		if ids := m.SelectedIDs(); len(ids) > 0 {
			return m, PortfolioAction{Kind: PortfolioActionExport, IDs: ids}, nil
		}
	case "d":
		if len(m.selected) > 0 {
			m.confirmingDelete = true
		}
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, PortfolioAction{}, cmd
	}
	return m, PortfolioAction{}, nil
}

// View renders the page.
func (m PortfolioPageModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("SKU Portfolio"))
	sb.WriteString("\n")

	if !m.loaded {
		sb.WriteString(m.styles.Muted.Render("Loading portfolio..."))
		return sb.String()
	}

	sb.WriteString(m.renderFilterBar())
	sb.WriteString("\n")
	sb.WriteString(m.table.View())
	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())

	if bar := m.renderAggregation(); bar != "" {
		sb.WriteString("\n")
		sb.WriteString(bar)
	}
	if m.confirmingDelete {
		sb.WriteString("\n")
		prompt := fmt.Sprintf("Delete %d selected SKU(s)? y to confirm, any other key to cancel", len(m.selected))
		sb.WriteString(m.styles.Warning.Render(prompt))
	}
	return sb.String()
}

func (m PortfolioPageModel) renderFilterBar() string {
	filterStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Border).
		Padding(0, 1)
	if m.filterTyping {
		filterStyle = filterStyle.BorderForeground(m.styles.Theme.Primary)
	}

	facet := func(label, value string) string {
		if value == "" {
			return m.styles.Muted.Render(label + ": all")
		}
		return m.styles.Selected.Render(label + ": " + value)
	}

	facets := strings.Join([]string{
		facet("[b]rand", m.filter.Brand),
		facet("[m]arket", m.filter.Market),
		facet("[c]hannel", m.filter.Channel),
	}, "  ")

	return lipgloss.JoinHorizontal(lipgloss.Center,
		filterStyle.Render(m.filterInput.View()), "  ", facets)
}

func (m PortfolioPageModel) renderFooter() string {
	n := len(m.visible)
	first, last := portfolio.PageBounds(m.page, n)
	rangeStr := "no SKUs"
	if n > 0 {
		rangeStr = fmt.Sprintf("[%d–%d of %d]", first, last, n)
	}
	pages := fmt.Sprintf("page %d/%d", m.page, portfolio.PageCount(n))
	hint := "space: select  enter: view  e: export  d: delete  ←/→: page  /: filter"
	return m.styles.Muted.Render(rangeStr + "  " + pages + "  " + hint)
}

func (m PortfolioPageModel) renderAggregation() string {
	if len(m.selected) == 0 {
		return ""
	}
	t := portfolio.Aggregate(m.skus, m.selected)
	bar := fmt.Sprintf("Selected: %d  Revenue: %s  Units: %s  GM$: %s  Blended GM: %s",
		t.Count,
		FormatInt(t.Revenue),
		FormatInt(t.Units),
		FormatInt(t.GMDollar),
		FormatPct(t.BlendedGMPct()),
	)
	return m.styles.Badge.Render(" " + bar + " ")
}
