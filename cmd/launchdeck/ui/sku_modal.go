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

// ModalMode is the modal's top-level state. The closed state is the host
// not holding a modal at all.
type ModalMode int

const (
	ModalViewing ModalMode = iota
	ModalEditing
)

// Viewing and editing each have their own tab pair.
const (
	viewTabFinancials = 0
	viewTabDetails    = 1
	editTabInputs     = 0
	editTabScores     = 1
)

var (
	viewTabLabels = []string{"Financials", "Details"}
	editTabLabels = []string{"Inputs", "Scores"}
)

// ModalActionKind is what the modal asks the host to do.
type ModalActionKind int

const (
	ModalActionNone ModalActionKind = iota
	ModalActionClose
	ModalActionSave
)

// ModalAction is emitted from Update. For ModalActionSave the host PUTs
// Draft() and either calls SaveSucceeded with the server's copy or leaves
// the modal in editing mode on failure.
type ModalAction struct {
	Kind ModalActionKind
}

// fieldKind drives how a draft field is edited.
type fieldKind int

const (
	fieldString fieldKind = iota
	fieldFloat
	fieldInt
	fieldBool
	fieldTriBool // *bool: unset -> yes -> no -> unset
)

// skuField describes one editable line of the editing tabs.
type skuField struct {
	label string
	kind  fieldKind
	get   func(*portfolio.Sku) string
	set   func(*portfolio.Sku, string)
}

// SkuModalModel is the view/edit modal for one SKU. Edits stage into a
// separate draft clone; the authoritative record is only replaced by the
// server's response after a save round-trip.
type SkuModalModel struct {
	styles Styles
	width  int
	height int

	sku   portfolio.Sku
	draft portfolio.Sku

	mode   ModalMode
	tab    int
	cursor int

	editing bool
	input   textinput.Model
}

// NewSkuModal opens a modal in viewing mode on the financials tab.
func NewSkuModal(sku portfolio.Sku, styles Styles) SkuModalModel {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 24
	return SkuModalModel{
		styles: styles,
		sku:    sku,
		mode:   ModalViewing,
		tab:    viewTabFinancials,
		input:  ti,
	}
}

// SetSize updates the modal dimensions.
func (m *SkuModalModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Mode returns the modal's current state.
func (m *SkuModalModel) Mode() ModalMode { return m.mode }

// Draft returns the staged edit copy for a save.
func (m *SkuModalModel) Draft() portfolio.Sku { return m.draft }

// SkuID returns the id of the record the modal is open on.
func (m *SkuModalModel) SkuID() string { return m.sku.SkuID }

// SaveSucceeded installs the server's authoritative copy and returns the
// modal to viewing mode. The draft is discarded; no local fields survive.
func (m *SkuModalModel) SaveSucceeded(updated portfolio.Sku) {
	m.sku = updated
	m.draft = portfolio.Sku{}
	m.mode = ModalViewing
	m.tab = viewTabFinancials
	m.cursor = 0
	m.editing = false
	m.input.Blur()
}

// Update handles keys while the modal is open.
func (m SkuModalModel) Update(msg tea.Msg) (SkuModalModel, ModalAction, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, ModalAction{}, nil
	}

	if m.editing {
		switch key.Type {
		case tea.KeyEnter:
			m.commitEdit()
			m.editing = false
			m.input.Blur()
			return m, ModalAction{}, nil
		case tea.KeyEsc:
			m.editing = false
			m.input.Blur()
			return m, ModalAction{}, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(key)
		return m, ModalAction{}, cmd
	}

	switch m.mode {
	case ModalViewing:
		switch key.String() {
		case "tab", "shift+tab":
			m.tab = 1 - m.tab
		case "e":
			m.mode = ModalEditing
			m.tab = editTabInputs
			m.cursor = 0
			m.draft = m.sku.Clone()
		case "esc", "q":
			return m, ModalAction{Kind: ModalActionClose}, nil
		}
	case ModalEditing:
		switch key.String() {
		case "tab", "shift+tab":
			m.tab = 1 - m.tab
			m.cursor = 0
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.fields())-1 {
				m.cursor++
			}
		case "enter", " ":
			m.startEditing()
		case "s":
			return m, ModalAction{Kind: ModalActionSave}, nil
		case "esc":
			// Cancel discards the draft entirely.
			return m, ModalAction{Kind: ModalActionClose}, nil
		}
	}
	return m, ModalAction{}, nil
}

func (m *SkuModalModel) fields() []skuField {
	if m.tab == editTabScores {
		return scoreFields
	}
	return inputFields
}

func (m *SkuModalModel) startEditing() {
	fields := m.fields()
	if m.cursor >= len(fields) {
		return
	}
	f := fields[m.cursor]
	switch f.kind {
	case fieldBool, fieldTriBool:
		// Toggles cycle in place, no text editor.
		f.set(&m.draft, "")
	default:
		m.input.SetValue(f.get(&m.draft))
		m.input.CursorEnd()
		m.input.Focus()
		m.editing = true
	}
}

func (m *SkuModalModel) commitEdit() {
	fields := m.fields()
	if m.cursor < len(fields) {
		fields[m.cursor].set(&m.draft, strings.TrimSpace(m.input.Value()))
	}
}

func floatField(label string, f func(*portfolio.Sku) *float64) skuField {
	return skuField{
		label: label,
		kind:  fieldFloat,
		get: func(s *portfolio.Sku) string {
			return strconv.FormatFloat(*f(s), 'f', -1, 64)
		},
		set: func(s *portfolio.Sku, v string) {
			*f(s) = parseFloatOrZero(v)
		},
	}
}

func intField(label string, f func(*portfolio.Sku) *int) skuField {
	return skuField{
		label: label,
		kind:  fieldInt,
		get: func(s *portfolio.Sku) string {
			return strconv.Itoa(*f(s))
		},
		set: func(s *portfolio.Sku, v string) {
			n, err := strconv.Atoi(v)
			if err != nil {
				n = 0
			}
			*f(s) = n
		},
	}
}

func stringField(label string, f func(*portfolio.Sku) *string) skuField {
	return skuField{
		label: label,
		kind:  fieldString,
		get:   func(s *portfolio.Sku) string { return *f(s) },
		set:   func(s *portfolio.Sku, v string) { *f(s) = v },
	}
}

func boolField(label string, f func(*portfolio.Sku) *bool) skuField {
	return skuField{
		label: label,
		kind:  fieldBool,
		get: func(s *portfolio.Sku) string {
			if *f(s) {
				return "yes"
			}
			return "no"
		},
		set: func(s *portfolio.Sku, _ string) { *f(s) = !*f(s) },
	}
}

// regulatoryEligibleField cycles the tri-state flag: unset -> yes -> no.
var regulatoryEligibleField = skuField{
	label: "Regulatory eligible",
	kind:  fieldTriBool,
	get: func(s *portfolio.Sku) string {
		switch {
		case s.RegulatoryEligible == nil:
			return "unset"
		case *s.RegulatoryEligible:
			return "yes"
		default:
			return "no"
		}
	},
	set: func(s *portfolio.Sku, _ string) {
		switch {
		case s.RegulatoryEligible == nil:
			v := true
			s.RegulatoryEligible = &v
		case *s.RegulatoryEligible:
			v := false
			s.RegulatoryEligible = &v
		default:
			s.RegulatoryEligible = nil
		}
	},
}

var inputFields = []skuField{
	stringField("Name", func(s *portfolio.Sku) *string { return &s.SkuName }),
	stringField("Brand", func(s *portfolio.Sku) *string { return &s.Brand }),
	stringField("Category", func(s *portfolio.Sku) *string { return &s.Category }),
	stringField("Target market", func(s *portfolio.Sku) *string { return &s.TargetMarket }),
	stringField("Primary channel", func(s *portfolio.Sku) *string { return &s.PrimaryChannel }),
	floatField("List price", func(s *portfolio.Sku) *float64 { return &s.LocalListPrice }),
	floatField("Landed cost", func(s *portfolio.Sku) *float64 { return &s.LandedCost }),
	intField("MOQ", func(s *portfolio.Sku) *int { return &s.MOQ }),
	intField("Lead time (days)", func(s *portfolio.Sku) *int { return &s.LeadTimeDays }),
	intField("Shelf life (months)", func(s *portfolio.Sku) *int { return &s.ShelfLifeMonths }),
	intField("Ramp month", func(s *portfolio.Sku) *int { return &s.RampMonth }),
	intField("Suggested wave", func(s *portfolio.Sku) *int { return &s.SuggestedWave }),
	regulatoryEligibleField,
	boolField("Regulatory prohibition", func(s *portfolio.Sku) *bool { return &s.RegulatoryProhibition }),
	boolField("IP risk high", func(s *portfolio.Sku) *bool { return &s.IPRiskHigh }),
	boolField("Supply ready", func(s *portfolio.Sku) *bool { return &s.SupplyReady }),
}

var scoreFields = []skuField{
	intField("Consumer trend", func(s *portfolio.Sku) *int { return &s.ConsumerTrend }),
	intField("Point of difference", func(s *portfolio.Sku) *int { return &s.PointOfDiff }),
	intField("Channel suitability", func(s *portfolio.Sku) *int { return &s.ChannelSuitability }),
	intField("Strategic role", func(s *portfolio.Sku) *int { return &s.StrategicRole }),
	intField("Marketing leverage", func(s *portfolio.Sku) *int { return &s.MarketingLeverage }),
	intField("Price ladder", func(s *portfolio.Sku) *int { return &s.PriceLadder }),
	intField("Usage occasion", func(s *portfolio.Sku) *int { return &s.UsageOccasion }),
	intField("Channel differentiation", func(s *portfolio.Sku) *int { return &s.ChannelDiff }),
	intField("Story cohesion", func(s *portfolio.Sku) *int { return &s.StoryCohesion }),
	intField("Operational synergy", func(s *portfolio.Sku) *int { return &s.OperationalSynergy }),
	intField("Regulatory delay", func(s *portfolio.Sku) *int { return &s.RegulatoryDelay }),
	intField("Retail listing", func(s *portfolio.Sku) *int { return &s.RetailListing }),
	intField("Competitive", func(s *portfolio.Sku) *int { return &s.Competitive }),
	intField("Supply chain", func(s *portfolio.Sku) *int { return &s.SupplyChain }),
	intField("Price war", func(s *portfolio.Sku) *int { return &s.PriceWar }),
}

// View renders the modal content. The host centers it on screen.
func (m SkuModalModel) View() string {
	var sb strings.Builder

	title := fmt.Sprintf("%s — %s", m.sku.SkuID, m.sku.SkuName)
	sb.WriteString(m.styles.Title.Render(title))
	sb.WriteString("\n")

	switch m.mode {
	case ModalViewing:
		sb.WriteString(m.styles.RenderTabs(viewTabLabels, m.tab))
		sb.WriteString("\n\n")
		if m.tab == viewTabFinancials {
			sb.WriteString(m.viewFinancials())
		} else {
			sb.WriteString(m.viewDetails())
		}
		sb.WriteString("\n")
		sb.WriteString(m.styles.Muted.Render("tab: switch  e: edit  esc: close"))
	case ModalEditing:
		sb.WriteString(m.styles.RenderTabs(editTabLabels, m.tab))
		sb.WriteString("\n\n")
		sb.WriteString(m.viewFields())
		sb.WriteString("\n")
		hint := "↑/↓ field  enter: edit/toggle  tab: switch  s: save  esc: cancel"
		if m.editing {
			hint = "enter: commit  esc: discard"
		}
		sb.WriteString(m.styles.Muted.Render(hint))
	}

	return m.styles.Modal.Render(sb.String())
}

func (m SkuModalModel) viewFinancials() string {
	c := m.sku.Cache
	if c == nil {
		return m.styles.Muted.Render("No computed figures yet. Save the SKU to trigger a recalculation.")
	}

	econ := NewSimpleTable("Unit Economics", []string{"Metric", "Value"})
	econ.AddRow("GM $/unit", FormatFloat(c.GMDollarPerUnit))
	econ.AddRow("GM %", FormatPct(c.GMPct))
	econ.AddRow("Monthly revenue", FormatInt(c.MonthlyRevenue))
	econ.AddRow("Monthly GM $", FormatInt(c.MonthlyGMDollar))

	scores := NewSimpleTable("Layer Scores", []string{"Layer", "Score"})
	scores.AddRow("Weighted (B)", FormatScore(c.WeightedScoreLayerB))
	scores.AddRow("Channel weighted", FormatScore(c.ChannelWeightedScore))
	scores.AddRow("Synergy (C)", FormatScore(c.SynergyScoreLayerC))
	scores.AddRow("Risk (D)", FormatScore(c.RiskScoreLayerD))
	scores.AddRow("Risk factor", FormatScore(c.RiskFactor))

	scenarios := NewSimpleTable("Scenarios", []string{"Case", "Units", "GM $"})
	scenarios.AddRow("Worst", FormatInt(c.AdjUnitsWorst), FormatInt(c.MonthlyGMWorst))
	scenarios.AddRow("Base", FormatInt(c.AdjUnitsBase), FormatInt(c.MonthlyGMBase))
	scenarios.AddRow("Best", FormatInt(c.AdjUnitsBest), FormatInt(c.MonthlyGMBest))

	gates := NewSimpleTable("Gates", []string{"Gate", "Pass"})
	gates.AddRow("Regulatory", FormatBool(c.PassRegulatory))
	gates.AddRow("Supply ready", FormatBool(c.PassSupply))
	gates.AddRow("GM floor", FormatBool(c.PassGMFloor))

	verdict := m.styles.Bold.Render("Recommendation: ") + m.renderRecommendation(c.FinalRecommendation)
	if c.SelectForWave1 {
		verdict += "  " + m.styles.Badge.Render(" Wave 1 ")
	}

	left := lipgloss.JoinVertical(lipgloss.Left, econ.View(m.styles), scores.View(m.styles))
	right := lipgloss.JoinVertical(lipgloss.Left, scenarios.View(m.styles), gates.View(m.styles))
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right),
		verdict,
	)
}

func (m SkuModalModel) renderRecommendation(rec string) string {
	switch rec {
	case portfolio.RecommendLaunchNow:
		return m.styles.Success.Render(rec)
	case portfolio.RecommendPhaseLater:
		return m.styles.Warning.Render(rec)
	case portfolio.RecommendDoNotLaunch:
		return m.styles.Error.Render(rec)
	default:
		return m.styles.Muted.Render("none")
	}
}

func (m SkuModalModel) viewDetails() string {
	sku := m.sku
	var sb strings.Builder
	for _, f := range inputFields {
		sb.WriteString(fmt.Sprintf("%-24s %s\n",
			m.styles.Muted.Render(f.label), m.styles.Body.Render(f.get(&sku))))
	}
	sb.WriteString("\n" + m.styles.Subtitle.Render("Raw scores (1–5)") + "\n")
	for _, f := range scoreFields {
		sb.WriteString(fmt.Sprintf("%-24s %s\n",
			m.styles.Muted.Render(f.label), m.styles.Body.Render(f.get(&sku))))
	}
	return sb.String()
}

func (m SkuModalModel) viewFields() string {
	var sb strings.Builder
	for i, f := range m.fields() {
		label := fmt.Sprintf("%-24s ", f.label)
		if i == m.cursor {
			if m.editing {
				sb.WriteString(m.styles.Body.Render(label) + m.styles.EditCell.Render(m.input.View()))
			} else {
				sb.WriteString(m.styles.Selected.Render(label + f.get(&m.draft)))
			}
		} else {
			sb.WriteString(m.styles.Body.Render(label + f.get(&m.draft)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
