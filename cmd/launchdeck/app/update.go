package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"launchdeck/cmd/launchdeck/ui"
	"launchdeck/internal/logging"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case spinner.TickMsg:
		// The tick loop keeps running while idle so a later call renders a
		// live spinner immediately.
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case configLoadedMsg:
		m.endCall()
		m.configPage.SetData(msg.settings, msg.markets)
		// The channels tab needs its first market pre-fetched.
		if len(msg.markets) > 0 {
			first := msg.markets[0].MarketName
			return m, m.startCall("Loading channels", m.fetchChannelsCmd(first))
		}
		return m, nil

	case channelsLoadedMsg:
		m.endCall()
		m.configPage.SetChannels(msg.market, msg.channels)
		return m, nil

	case settingsSavedMsg:
		m.endCall()
		m.configPage.MarkSettingsSaved(msg.saved)
		return m, m.setBanner("Settings saved", false)

	case marketsSavedMsg:
		m.endCall()
		m.configPage.MarkMarketsSaved(msg.submitted, msg.result.FailedNames())
		return m, m.setBanner(msg.result.Summary("Saved", "markets"), !msg.result.OK())

	case channelsSavedMsg:
		m.endCall()
		m.configPage.MarkChannelsSaved(msg.market, msg.submitted, msg.result.FailedNames())
		banner := msg.market + ": " + msg.result.Summary("saved", "channels")
		return m, m.setBanner(banner, !msg.result.OK())

	case portfolioLoadedMsg:
		m.endCall()
		m.portfolioPage.SetData(msg.skus, msg.markets)
		return m, nil

	case skuSavedMsg:
		m.endCall()
		m.portfolioPage.ReplaceSku(msg.updated)
		if m.modal != nil && m.modal.SkuID() == msg.updated.SkuID {
			m.modal.SaveSucceeded(msg.updated)
		}
		logging.UI("sku %s saved, cache replaced", msg.updated.SkuID)
		return m, m.setBanner("Saved "+msg.updated.SkuID, false)

	case skuSaveFailedMsg:
		// The modal stays open in editing mode with the draft intact.
		m.endCall()
		return m, m.setBanner(fmt.Sprintf("Failed to update SKU: %v", msg.err), true)

	case exportDoneMsg:
		m.endCall()
		return m, m.setBanner(fmt.Sprintf("Exported %d SKUs to %s", msg.rows, msg.path), false)

	case deleteDoneMsg:
		m.endCall()
		m.portfolioPage.RemoveDeleted(msg.ids)
		return m, m.setBanner(fmt.Sprintf("Deleted %d SKUs", msg.deleted), false)

	case errMsg:
		m.endCall()
		return m, m.setBanner(fmt.Sprintf("Failed to %s: %v", msg.op, msg.err), true)

	case bannerExpireMsg:
		if msg.seq == m.bannerSeq {
			m.banner = ""
		}
		return m, nil

	case configReloadedMsg:
		m.applyConfig(msg.cfg)
		return m, m.setBanner("Configuration reloaded", false)
	}

	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	contentH := msg.Height - 5 // header, divider, banner, footer
	if contentH < 5 {
		contentH = 5
	}
	m.configPage.SetSize(msg.Width, contentH)
	m.portfolioPage.SetSize(msg.Width, contentH)
	if m.modal != nil {
		m.modal.SetSize(msg.Width, contentH)
	}
	m.helpVP.Width = contentWidth(msg.Width)
	m.helpVP.Height = contentH
	m.renderer = newRenderer(m.styles, contentWidth(msg.Width))
	if m.showHelp {
		m.helpVP.SetContent(m.renderHelp())
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.helpVP, cmd = m.helpVP.Update(msg)
		return m, cmd
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}

	// While a cell editor or the filter input owns the keyboard, every key
	// belongs to the page.
	typing := (m.screen == ScreenConfig && m.configPage.Editing()) ||
		(m.screen == ScreenPortfolio && m.portfolioPage.FilterTyping())

	if !typing {
		switch msg.String() {
		case "?":
			m.showHelp = true
			m.helpVP.SetContent(m.renderHelp())
			m.helpVP.GotoTop()
			return m, nil
		case "1":
			m.screen = ScreenConfig
			logging.UIDebug("screen -> config")
			return m, nil
		case "2":
			m.screen = ScreenPortfolio
			logging.UIDebug("screen -> portfolio")
			if !m.portfolioPage.Loaded() {
				return m, m.startCall("Loading portfolio", m.loadPortfolioCmd())
			}
			return m, nil
		case "r":
			return m.refreshCurrent()
		case "esc":
			// Esc quits only when there is nothing left to unwind.
			if !m.escHasWork() {
				return m, tea.Quit
			}
		}
	}

	switch m.screen {
	case ScreenConfig:
		return m.updateConfigPage(msg)
	default:
		return m.updatePortfolioPage(msg)
	}
}

// escHasWork reports whether the current page still has a layer Esc can
// peel off (filter text, delete prompt, selection).
func (m *Model) escHasWork() bool {
	if m.screen == ScreenPortfolio {
		return m.portfolioPage.FilterTyping() ||
			m.portfolioPage.ConfirmingDelete() ||
			m.portfolioPage.HasSelection()
	}
	return false
}

func (m Model) refreshCurrent() (tea.Model, tea.Cmd) {
	switch m.screen {
	case ScreenConfig:
		return m, m.startCall("Reloading configuration", m.loadConfigCmd())
	default:
		return m, m.startCall("Reloading portfolio", m.loadPortfolioCmd())
	}
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	modal, action, cmd := m.modal.Update(msg)
	*m.modal = modal
	switch action.Kind {
	case ui.ModalActionClose:
		m.modal = nil
		return m, nil
	case ui.ModalActionSave:
		draft := m.modal.Draft()
		return m, tea.Batch(cmd, m.startCall("Saving "+draft.SkuID, m.saveSkuCmd(draft)))
	}
	return m, cmd
}

func (m Model) updateConfigPage(msg tea.Msg) (tea.Model, tea.Cmd) {
	page, action, cmd := m.configPage.Update(msg)
	m.configPage = page
	switch action.Kind {
	case ui.ConfigActionFetchChannels:
		return m, tea.Batch(cmd, m.startCall("Loading channels", m.fetchChannelsCmd(action.Market)))
	case ui.ConfigActionSaveSettings:
		return m, tea.Batch(cmd, m.startCall("Saving settings", m.saveSettingsCmd(m.configPage.Settings())))
	case ui.ConfigActionSaveMarkets:
		dirty := m.configPage.DirtyMarkets()
		if len(dirty) == 0 {
			return m, tea.Batch(cmd, m.setBanner("No edited markets to save", false))
		}
		return m, tea.Batch(cmd, m.startCall("Saving markets", m.saveMarketsCmd(dirty)))
	case ui.ConfigActionSaveChannels:
		dirty := m.configPage.DirtyChannels()
		if len(dirty) == 0 {
			return m, tea.Batch(cmd, m.setBanner("No edited channels to save", false))
		}
		market := m.configPage.SelectedMarket()
		return m, tea.Batch(cmd, m.startCall("Saving channels", m.saveChannelsCmd(market, dirty)))
	}
	return m, cmd
}

func (m Model) updatePortfolioPage(msg tea.Msg) (tea.Model, tea.Cmd) {
	page, action, cmd := m.portfolioPage.Update(msg)
	m.portfolioPage = page
	switch action.Kind {
	case ui.PortfolioActionOpenSku:
		if sku, ok := m.portfolioPage.Sku(action.SkuID); ok {
			modal := ui.NewSkuModal(sku, m.styles)
			modal.SetSize(m.width, m.height-5)
			m.modal = &modal
			logging.UIDebug("modal open on %s", action.SkuID)
		}
		return m, cmd
	case ui.PortfolioActionExport:
		return m, tea.Batch(cmd, m.startCall("Exporting", m.exportCmd(action.IDs)))
	case ui.PortfolioActionDelete:
		return m, tea.Batch(cmd, m.startCall("Deleting", m.deleteCmd(action.IDs)))
	}
	return m, cmd
}
