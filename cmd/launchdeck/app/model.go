package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"

	"launchdeck/cmd/launchdeck/ui"
	"launchdeck/internal/api"
	"launchdeck/internal/config"
	"launchdeck/internal/logging"
)

// NewModel assembles the program model from loaded configuration.
func NewModel(cfg *config.Config, cfgPath string, client *api.Client) Model {
	styles := ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	sessionID := uuid.NewString()
	m := Model{
		client:        client,
		cfg:           cfg,
		cfgPath:       cfgPath,
		styles:        styles,
		configPage:    ui.NewConfigPageModel(styles),
		portfolioPage: ui.NewPortfolioPageModel(styles),
		helpVP:        viewport.New(80, 20),
		spinner:       sp,
		sessionID:     sessionID,
		audit:         logging.AuditWithSession(sessionID),
	}
	m.renderer = newRenderer(styles, 80)
	return m
}

// newRenderer builds the glamour renderer for the help overlay.
func newRenderer(styles ui.Styles, width int) *glamour.TermRenderer {
	style := glamour.WithStandardStyle("light")
	if styles.Theme.IsDark {
		style = glamour.WithStandardStyle("dark")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil
	}
	return r
}

// Init starts the spinner and mounts the Config Library screen. The
// portfolio screen loads lazily on first switch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startCall("Loading configuration", m.loadConfigCmd()))
}

// startCall marks a backend round-trip as in flight. The returned command
// wraps the real one so inflight bookkeeping stays in Update-driven code.
func (m *Model) startCall(status string, cmd tea.Cmd) tea.Cmd {
	m.inflight++
	m.status = status
	return cmd
}

// endCall clears the in-flight flag for one completed round-trip.
func (m *Model) endCall() {
	if m.inflight > 0 {
		m.inflight--
	}
	if m.inflight == 0 {
		m.status = ""
	}
}

// setBanner shows a transient banner and schedules its expiry. Only one
// message renders at a time; a newer banner supersedes the pending expiry.
func (m *Model) setBanner(msg string, isErr bool) tea.Cmd {
	m.banner = msg
	m.bannerIsErr = isErr
	m.bannerSeq++
	seq := m.bannerSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return bannerExpireMsg{seq: seq}
	})
}

// applyConfig applies a hot-reloaded configuration: theme and logging
// categories take effect live, the backend address does not (the client is
// built once at startup).
func (m *Model) applyConfig(cfg *config.Config) {
	m.cfg = cfg
	m.styles = ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))
	m.configPage.SetStyles(m.styles)
	m.portfolioPage.SetStyles(m.styles)
	m.spinner.Style = m.styles.Spinner
	m.renderer = newRenderer(m.styles, contentWidth(m.width))
	if err := logging.ReloadConfig(); err != nil {
		logging.ConfigWarn("log config reload failed: %v", err)
	}
}

func contentWidth(w int) int {
	if w <= 0 {
		return 80
	}
	if w > 100 {
		return 100
	}
	return w - 4
}

// Run starts the program in alt-screen mode with the config watcher
// feeding reload messages into the update loop.
func Run(cfg *config.Config, cfgPath string) error {
	if err := logging.Initialize(config.HomeDir()); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.CloseAll()
	if err := logging.InitAudit(); err != nil {
		logging.BootError("audit init failed: %v", err)
	}
	defer logging.CloseAudit()

	client := api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.GetAPITimeout(),
	})

	model := NewModel(cfg, cfgPath, client)
	model.audit.SessionStart(model.sessionID)
	started := time.Now()

	p := tea.NewProgram(model, tea.WithAltScreen())

	watcher, err := config.NewWatcher(cfgPath, func(next *config.Config) {
		p.Send(configReloadedMsg{cfg: next})
	})
	if err != nil {
		logging.ConfigWarn("config watcher unavailable: %v", err)
	} else {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := watcher.Start(ctx); err != nil {
			logging.ConfigWarn("config watcher failed to start: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	_, err = p.Run()
	model.audit.SessionEnd(model.sessionID, time.Since(started).Milliseconds())
	if err != nil {
		return fmt.Errorf("program failed: %w", err)
	}
	return nil
}
