package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"launchdeck/internal/portfolio"
)

// ConfigTab selects which group of configuration the page shows.
type ConfigTab int

const (
	TabSettings ConfigTab = iota
	TabMarkets
	TabChannels
)

var configTabLabels = []string{"Settings", "Markets", "Channels"}

// ConfigActionKind is what the page asks the host program to do. The page
// owns draft state and editing; the host owns every API call.
type ConfigActionKind int

const (
	ConfigActionNone ConfigActionKind = iota
	ConfigActionSaveSettings
	ConfigActionSaveMarkets
	ConfigActionSaveChannels
	ConfigActionFetchChannels
)

// ConfigAction is emitted from Update when a keypress needs a backend call.
type ConfigAction struct {
	Kind   ConfigActionKind
	Market string // set for ConfigActionFetchChannels
}

// settingRow is one navigable line of the settings tab: a group header or
// an editable key.
type settingRow struct {
	header string // non-empty for group header lines
	key    string
}

// ConfigPageModel is the Config Library screen: three tabs of editable
// rows over the settings document, the market list, and the per-market
// channel lists. Every edit mutates only local draft state; saves are
// requested via ConfigAction.
type ConfigPageModel struct {
	styles Styles
	width  int
	height int

	tab ConfigTab

	settings     portfolio.Settings
	settingRows  []settingRow
	markets      []portfolio.Market
	channelCache map[string][]portfolio.Channel
	marketIdx    int // selected market on the channels tab

	dirtyMarkets  map[string]bool
	dirtyChannels map[string]map[string]bool // market -> channel -> edited

	cursor  int
	col     int
	editing bool
	input   textinput.Model

	loaded bool
}

// NewConfigPageModel creates an empty Config Library page.
func NewConfigPageModel(styles Styles) ConfigPageModel {
	ti := textinput.New()
	ti.CharLimit = 32
	ti.Width = 14
	return ConfigPageModel{
		styles:        styles,
		channelCache:  make(map[string][]portfolio.Channel),
		dirtyMarkets:  make(map[string]bool),
		dirtyChannels: make(map[string]map[string]bool),
		input:         ti,
	}
}

// SetStyles swaps the style set, used on theme hot-reload.
func (m *ConfigPageModel) SetStyles(styles Styles) { m.styles = styles }

// SetSize updates the page dimensions.
func (m *ConfigPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetData installs a fresh settings document and market list, replacing all
// drafts. The channel cache is cleared: markets may have been renamed.
func (m *ConfigPageModel) SetData(settings portfolio.Settings, markets []portfolio.Market) {
	m.settings = settings
	m.markets = markets
	m.channelCache = make(map[string][]portfolio.Channel)
	m.dirtyMarkets = make(map[string]bool)
	m.dirtyChannels = make(map[string]map[string]bool)
	m.rebuildSettingRows()
	if m.marketIdx >= len(markets) {
		m.marketIdx = 0
	}
	m.cursor = 0
	m.col = 0
	m.editing = false
	m.loaded = true
	m.normalizeCursor()
}

// SetChannels caches the channel rows fetched for one market.
func (m *ConfigPageModel) SetChannels(market string, channels []portfolio.Channel) {
	m.channelCache[market] = channels
}

// HasChannels reports whether a market's channels are already cached.
func (m *ConfigPageModel) HasChannels(market string) bool {
	_, ok := m.channelCache[market]
	return ok
}

// Loaded reports whether the initial fetch has landed.
func (m *ConfigPageModel) Loaded() bool { return m.loaded }

// Settings returns a snapshot of the settings draft for a save. The save
// command marshals it on a background goroutine, so the live draft must not
// be shared with it.
func (m *ConfigPageModel) Settings() portfolio.Settings { return m.settings.Clone() }

// SelectedMarket returns the market shown on the channels tab, or "".
func (m *ConfigPageModel) SelectedMarket() string {
	if len(m.markets) == 0 {
		return ""
	}
	return m.markets[m.marketIdx].MarketName
}

// DirtyMarkets returns the edited market rows, in list order.
func (m *ConfigPageModel) DirtyMarkets() []portfolio.Market {
	var out []portfolio.Market
	for _, mk := range m.markets {
		if m.dirtyMarkets[mk.MarketName] {
			out = append(out, mk)
		}
	}
	return out
}

// DirtyChannels returns the edited channel rows of the selected market.
func (m *ConfigPageModel) DirtyChannels() []portfolio.Channel {
	market := m.SelectedMarket()
	var out []portfolio.Channel
	for _, ch := range m.channelCache[market] {
		if m.dirtyChannels[market][ch.Channel] {
			out = append(out, ch)
		}
	}
	return out
}

// MarkMarketsSaved clears dirty flags after a batch save. A row stays dirty
// when its save failed, or when it was edited again after the submitted
// snapshot was taken and no longer matches the value that went out.
func (m *ConfigPageModel) MarkMarketsSaved(submitted []portfolio.Market, failed []string) {
	failedSet := nameSet(failed)
	for _, sub := range submitted {
		if failedSet[sub.MarketName] {
			continue
		}
		for _, mk := range m.markets {
			if mk.MarketName == sub.MarketName && mk == sub {
				delete(m.dirtyMarkets, sub.MarketName)
			}
		}
	}
}

// MarkChannelsSaved clears a market's channel dirty flags after a batch
// save. The market is the one the save was issued for, which may no longer
// be the selected one. The same in-flight-edit rule as MarkMarketsSaved
// applies per row.
func (m *ConfigPageModel) MarkChannelsSaved(market string, submitted []portfolio.Channel, failed []string) {
	failedSet := nameSet(failed)
	for _, sub := range submitted {
		if failedSet[sub.Channel] {
			continue
		}
		for _, ch := range m.channelCache[market] {
			if ch.Channel == sub.Channel && ch == sub {
				delete(m.dirtyChannels[market], sub.Channel)
			}
		}
	}
}

func nameSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// MarkSettingsSaved installs the saved settings document as the new
// baseline.
func (m *ConfigPageModel) MarkSettingsSaved(saved portfolio.Settings) {
	if saved != nil {
		m.settings = saved
		m.rebuildSettingRows()
	}
}

func (m *ConfigPageModel) rebuildSettingRows() {
	groups := portfolio.GroupSettings(m.settings)
	m.settingRows = m.settingRows[:0]
	for _, g := range portfolio.SettingGroups {
		keys := groups[g]
		if len(keys) == 0 {
			continue
		}
		m.settingRows = append(m.settingRows, settingRow{header: g.String()})
		for _, k := range keys {
			m.settingRows = append(m.settingRows, settingRow{key: k})
		}
	}
}

// Editing reports whether a cell editor is open, so the host knows Esc
// belongs to the page.
func (m *ConfigPageModel) Editing() bool { return m.editing }

// Update handles keys for the page and reports any backend work the
// keypress requires.
func (m ConfigPageModel) Update(msg tea.Msg) (ConfigPageModel, ConfigAction, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, ConfigAction{}, nil
	}

	if m.editing {
		return m.updateEditing(key)
	}

	switch key.String() {
	case "tab":
		return m.switchTab((m.tab + 1) % 3)
	case "shift+tab":
		return m.switchTab((m.tab + 2) % 3)
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "left", "h":
		if m.col > 0 {
			m.col--
		}
	case "right", "l":
		if m.col < m.maxCol() {
			m.col++
		}
	case "[":
		if m.tab == TabChannels {
			return m.cycleMarket(-1)
		}
	case "]":
		if m.tab == TabChannels {
			return m.cycleMarket(1)
		}
	case "enter":
		m.startEditing()
	case "s":
		switch m.tab {
		case TabSettings:
			return m, ConfigAction{Kind: ConfigActionSaveSettings}, nil
		case TabMarkets:
			return m, ConfigAction{Kind: ConfigActionSaveMarkets}, nil
		case TabChannels:
			return m, ConfigAction{Kind: ConfigActionSaveChannels}, nil
		}
	}
	return m, ConfigAction{}, nil
}

func (m ConfigPageModel) switchTab(tab ConfigTab) (ConfigPageModel, ConfigAction, tea.Cmd) {
	m.tab = tab
	m.cursor = 0
	m.col = 0
	m.normalizeCursor()
	if tab == TabChannels {
		if market := m.SelectedMarket(); market != "" && !m.HasChannels(market) {
			return m, ConfigAction{Kind: ConfigActionFetchChannels, Market: market}, nil
		}
	}
	return m, ConfigAction{}, nil
}

func (m ConfigPageModel) cycleMarket(dir int) (ConfigPageModel, ConfigAction, tea.Cmd) {
	if len(m.markets) == 0 {
		return m, ConfigAction{}, nil
	}
	m.marketIdx = (m.marketIdx + dir + len(m.markets)) % len(m.markets)
	m.cursor = 0
	if market := m.SelectedMarket(); !m.HasChannels(market) {
		return m, ConfigAction{Kind: ConfigActionFetchChannels, Market: market}, nil
	}
	return m, ConfigAction{}, nil
}

func (m *ConfigPageModel) rowCount() int {
	switch m.tab {
	case TabSettings:
		return len(m.settingRows)
	case TabMarkets:
		return len(m.markets)
	default:
		return len(m.channelCache[m.SelectedMarket()])
	}
}

func (m *ConfigPageModel) maxCol() int {
	switch m.tab {
	case TabSettings:
		return 0
	case TabMarkets:
		return len(marketCols) - 1
	default:
		return len(channelCols) - 1
	}
}

// normalizeCursor moves the cursor off a settings group header onto the
// first editable row below it.
func (m *ConfigPageModel) normalizeCursor() {
	if m.tab != TabSettings {
		return
	}
	for m.cursor < len(m.settingRows) && m.settingRows[m.cursor].header != "" {
		m.cursor++
	}
	if m.cursor >= len(m.settingRows) {
		m.cursor = 0
	}
}

func (m *ConfigPageModel) moveCursor(dir int) {
	n := m.rowCount()
	if n == 0 {
		return
	}
	next := m.cursor
	for {
		next += dir
		if next < 0 || next >= n {
			return
		}
		// Settings headers are not selectable.
		if m.tab == TabSettings && m.settingRows[next].header != "" {
			continue
		}
		m.cursor = next
		return
	}
}

func (m *ConfigPageModel) startEditing() {
	val, editable := m.cellValue()
	if !editable {
		return
	}
	m.input.SetValue(val)
	m.input.CursorEnd()
	m.input.Focus()
	m.editing = true
}

func (m ConfigPageModel) updateEditing(key tea.KeyMsg) (ConfigPageModel, ConfigAction, tea.Cmd) {
	switch key.Type {
	case tea.KeyEnter:
		m.commitEdit()
		m.editing = false
		m.input.Blur()
		return m, ConfigAction{}, nil
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return m, ConfigAction{}, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, ConfigAction{}, cmd
}

// cellValue returns the current cell's draft value and whether the cursor
// sits on an editable cell at all.
func (m *ConfigPageModel) cellValue() (string, bool) {
	switch m.tab {
	case TabSettings:
		if m.cursor >= len(m.settingRows) || m.settingRows[m.cursor].header != "" {
			return "", false
		}
		key := m.settingRows[m.cursor].key
		return strconv.FormatFloat(m.settings[key], 'f', -1, 64), true
	case TabMarkets:
		if m.cursor >= len(m.markets) {
			return "", false
		}
		return marketCols[m.col].get(&m.markets[m.cursor]), true
	default:
		chs := m.channelCache[m.SelectedMarket()]
		if m.cursor >= len(chs) {
			return "", false
		}
		return channelCols[m.col].get(&chs[m.cursor]), true
	}
}

// commitEdit writes the editor's value back into the draft. Numeric fields
// parse with fallback to 0; the currency column stays a string.
func (m *ConfigPageModel) commitEdit() {
	val := strings.TrimSpace(m.input.Value())
	switch m.tab {
	case TabSettings:
		key := m.settingRows[m.cursor].key
		m.settings[key] = parseFloatOrZero(val)
	case TabMarkets:
		mk := &m.markets[m.cursor]
		marketCols[m.col].set(mk, val)
		m.dirtyMarkets[mk.MarketName] = true
	default:
		market := m.SelectedMarket()
		chs := m.channelCache[market]
		ch := &chs[m.cursor]
		channelCols[m.col].set(ch, val)
		if m.dirtyChannels[market] == nil {
			m.dirtyChannels[market] = make(map[string]bool)
		}
		m.dirtyChannels[market][ch.Channel] = true
	}
}

func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// marketCol describes one editable column of the markets tab.
type marketCol struct {
	title string
	get   func(*portfolio.Market) string
	set   func(*portfolio.Market, string)
}

func numGetter(f func(*portfolio.Market) *float64) func(*portfolio.Market) string {
	return func(m *portfolio.Market) string {
		return strconv.FormatFloat(*f(m), 'f', -1, 64)
	}
}

func numSetter(f func(*portfolio.Market) *float64) func(*portfolio.Market, string) {
	return func(m *portfolio.Market, s string) {
		*f(m) = parseFloatOrZero(s)
	}
}

var marketCols = buildMarketCols()

func buildMarketCols() []marketCol {
	cols := []marketCol{
		{
			title: "Currency",
			get:   func(m *portfolio.Market) string { return m.Currency },
			set:   func(m *portfolio.Market, s string) { m.Currency = s },
		},
	}
	numeric := []struct {
		title string
		field func(*portfolio.Market) *float64
	}{
		{"Price Mult", func(m *portfolio.Market) *float64 { return &m.PriceMultiplier }},
		{"Freight %", func(m *portfolio.Market) *float64 { return &m.ImportFreight }},
		{"Duties %", func(m *portfolio.Market) *float64 { return &m.DutiesTaxes }},
		{"DoC Dist", func(m *portfolio.Market) *float64 { return &m.DocDistributor }},
		{"DoC Retail", func(m *portfolio.Market) *float64 { return &m.DocRetail }},
	}
	for _, n := range numeric {
		cols = append(cols, marketCol{title: n.title, get: numGetter(n.field), set: numSetter(n.field)})
	}
	return cols
}

// channelCol describes one editable column of the channels tab. All
// channel fields are numeric.
type channelCol struct {
	title string
	field func(*portfolio.Channel) *float64
}

func (c channelCol) get(ch *portfolio.Channel) string {
	return strconv.FormatFloat(*c.field(ch), 'f', -1, 64)
}

func (c channelCol) set(ch *portfolio.Channel, s string) {
	*c.field(ch) = parseFloatOrZero(s)
}

var channelCols = []channelCol{
	{"Base Units", func(c *portfolio.Channel) *float64 { return &c.BaseUnitsMonth }},
	{"Weight", func(c *portfolio.Channel) *float64 { return &c.ChannelWeight }},
	{"Adoption", func(c *portfolio.Channel) *float64 { return &c.RetailAdoptionRate }},
	{"Mkt Lift", func(c *portfolio.Channel) *float64 { return &c.MarketingLift }},
	{"Competitor", func(c *portfolio.Channel) *float64 { return &c.CompetitorActivity }},
	{"Commission", func(c *portfolio.Channel) *float64 { return &c.Commission }},
	{"Fulfillment", func(c *portfolio.Channel) *float64 { return &c.Fulfillment }},
	{"COD", func(c *portfolio.Channel) *float64 { return &c.COD }},
	{"Returns", func(c *portfolio.Channel) *float64 { return &c.ReturnsAllowance }},
	{"Listing", func(c *portfolio.Channel) *float64 { return &c.ListingFees }},
	{"Trade", func(c *portfolio.Channel) *float64 { return &c.TradeTerms }},
	{"Rebates", func(c *portfolio.Channel) *float64 { return &c.Rebates }},
	{"Promo", func(c *portfolio.Channel) *float64 { return &c.PromoAccrual }},
}

// View renders the page.
func (m ConfigPageModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Config Library"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.RenderTabs(configTabLabels, int(m.tab)))
	sb.WriteString("\n\n")

	if !m.loaded {
		sb.WriteString(m.styles.Muted.Render("Loading configuration..."))
		return sb.String()
	}

	switch m.tab {
	case TabSettings:
		sb.WriteString(m.viewSettings())
	case TabMarkets:
		sb.WriteString(m.viewMarkets())
	default:
		sb.WriteString(m.viewChannels())
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render(m.footerHint()))
	return sb.String()
}

func (m ConfigPageModel) footerHint() string {
	if m.editing {
		return "Enter: commit  Esc: discard"
	}
	hint := "↑/↓ row  ←/→ column  Enter: edit  s: save tab  Tab: next tab"
	if m.tab == TabChannels {
		hint = "[ / ] market  " + hint
	}
	return hint
}

func (m ConfigPageModel) viewSettings() string {
	var sb strings.Builder
	for i, row := range m.settingRows {
		if row.header != "" {
			sb.WriteString(m.styles.Subtitle.Render(row.header))
			sb.WriteString("\n")
			continue
		}
		val := strconv.FormatFloat(m.settings[row.key], 'f', -1, 64)
		line := fmt.Sprintf("  %-34s ", row.key)
		if i == m.cursor {
			if m.editing {
				sb.WriteString(m.styles.Body.Render(line) + m.styles.EditCell.Render(m.input.View()))
			} else {
				sb.WriteString(m.styles.Selected.Render(line + val))
			}
		} else {
			sb.WriteString(m.styles.Body.Render(line + val))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m ConfigPageModel) viewMarkets() string {
	headers := []string{"Market"}
	for _, c := range marketCols {
		headers = append(headers, c.title)
	}
	rows := make([][]string, 0, len(m.markets))
	for i := range m.markets {
		mk := &m.markets[i]
		row := []string{mk.MarketName}
		for _, c := range marketCols {
			row = append(row, c.get(mk))
		}
		if m.dirtyMarkets[mk.MarketName] {
			row[0] += " *"
		}
		rows = append(rows, row)
	}
	return m.renderGrid(headers, rows, 1)
}

func (m ConfigPageModel) viewChannels() string {
	market := m.SelectedMarket()
	chs, fetched := m.channelCache[market]
	selector := m.styles.Bold.Render("Market: ") + m.styles.Badge.Render(" "+marketOrNone(market)+" ")

	if market == "" || !fetched || len(chs) == 0 {
		placeholder := "Select a Market"
		if fetched && len(chs) == 0 {
			placeholder = "Select a Market (no channels configured for " + market + ")"
		} else if market != "" && !fetched {
			placeholder = "Loading channels for " + market + "..."
		}
		return selector + "\n\n" + m.styles.Muted.Render(placeholder) + "\n"
	}

	headers := []string{"Channel"}
	for _, c := range channelCols {
		headers = append(headers, c.title)
	}
	rows := make([][]string, 0, len(chs))
	for i := range chs {
		ch := &chs[i]
		row := []string{ch.Channel}
		for _, c := range channelCols {
			row = append(row, c.get(ch))
		}
		if m.dirtyChannels[market][ch.Channel] {
			row[0] += " *"
		}
		rows = append(rows, row)
	}
	return selector + "\n\n" + m.renderGrid(headers, rows, 1)
}

func marketOrNone(name string) string {
	if name == "" {
		return "none"
	}
	return name
}

// renderGrid draws an editable grid with the cursor cell highlighted.
// colOffset is how many leading identity columns precede the editable ones.
func (m ConfigPageModel) renderGrid(headers []string, rows [][]string, colOffset int) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	for i, h := range headers {
		sb.WriteString(m.styles.Bold.Render(pad(h, widths[i])))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")
	for ri, row := range rows {
		for ci, cell := range row {
			style := m.styles.Body
			editableCol := ci - colOffset
			if ri == m.cursor && editableCol == m.col {
				if m.editing {
					sb.WriteString(m.styles.EditCell.Render(pad(m.input.View(), widths[ci])))
					sb.WriteString("  ")
					continue
				}
				style = m.styles.Selected
			} else if ci == 0 && ri == m.cursor {
				style = m.styles.Bold
			}
			sb.WriteString(style.Render(pad(cell, widths[ci])))
			sb.WriteString("  ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func pad(s string, w int) string {
	if d := w - lipgloss.Width(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}
