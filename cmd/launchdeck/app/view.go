package app

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()

	var content string
	switch {
	case m.showHelp:
		content = m.styles.Content.Render(m.helpVP.View())
	case m.modal != nil:
		contentH := m.height - 5
		if contentH < 5 {
			contentH = 5
		}
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.modal.View())
	case m.screen == ScreenConfig:
		content = m.styles.Content.Render(m.configPage.View())
	default:
		content = m.styles.Content.Render(m.portfolioPage.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		m.renderBanner(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" launchdeck ")
	tabs := m.styles.RenderTabs(screenLabels, int(m.screen))

	var status string
	if m.inflight > 0 {
		msg := m.status
		if msg == "" {
			msg = "Working..."
		}
		status = lipgloss.JoinHorizontal(lipgloss.Center,
			m.spinner.View(), " ", m.styles.Badge.Render(msg))
	} else {
		status = m.styles.Success.Render("Ready")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", tabs, "  ", status)
	return lipgloss.JoinVertical(lipgloss.Left, line, m.styles.RenderDivider(m.width))
}

// renderBanner shows the single transient message, success or error.
func (m Model) renderBanner() string {
	if m.banner == "" {
		return ""
	}
	if m.bannerIsErr {
		return m.styles.Error.Render(" " + m.banner)
	}
	return m.styles.Success.Render(" " + m.banner)
}

func (m Model) renderFooter() string {
	hint := "1/2: screens  r: refresh  ?: help  ctrl+c: quit"
	return m.styles.Footer.Render(hint)
}
