// Package app hosts the launchdeck terminal program: one top-level
// bubbletea Model owning the API client, the two screen models, the SKU
// modal, the transient banner, and the help overlay. All state mutation
// happens in Update; backend calls run as commands and come back as the
// typed messages below.
package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"launchdeck/cmd/launchdeck/ui"
	"launchdeck/internal/api"
	"launchdeck/internal/batch"
	"launchdeck/internal/config"
	"launchdeck/internal/logging"
	"launchdeck/internal/portfolio"
)

// Screen selects which of the two pages is showing.
type Screen int

const (
	ScreenConfig Screen = iota
	ScreenPortfolio
)

var screenLabels = []string{"1 Config Library", "2 SKU Portfolio"}

// Model is the top-level program model.
type Model struct {
	client  *api.Client
	cfg     *config.Config
	cfgPath string

	styles   ui.Styles
	renderer *glamour.TermRenderer

	screen        Screen
	configPage    ui.ConfigPageModel
	portfolioPage ui.PortfolioPageModel
	modal         *ui.SkuModalModel

	showHelp bool
	helpVP   viewport.Model

	spinner  spinner.Model
	inflight int
	status   string

	banner      string
	bannerIsErr bool
	bannerSeq   int

	sessionID string
	audit     *logging.AuditLogger

	width  int
	height int
	ready  bool
}

// Messages for tea updates. Loads are all-or-nothing; batch saves carry
// per-item results.
type (
	configLoadedMsg struct {
		settings portfolio.Settings
		markets  []portfolio.Market
	}

	channelsLoadedMsg struct {
		market   string
		channels []portfolio.Channel
	}

	settingsSavedMsg struct {
		saved portfolio.Settings
	}

	// The saved messages carry the submitted rows so the page can tell a
	// row that was re-edited mid-flight from one whose save settled it.
	marketsSavedMsg struct {
		submitted []portfolio.Market
		result    batch.Result
	}

	channelsSavedMsg struct {
		market    string
		submitted []portfolio.Channel
		result    batch.Result
	}

	portfolioLoadedMsg struct {
		skus    []portfolio.Sku
		markets []portfolio.Market
	}

	skuSavedMsg struct {
		updated portfolio.Sku
	}

	// skuSaveFailedMsg keeps the modal open in editing mode.
	skuSaveFailedMsg struct {
		err error
	}

	exportDoneMsg struct {
		path string
		rows int
	}

	deleteDoneMsg struct {
		ids     []string
		deleted int
	}

	// errMsg is any other backend failure, mapped to one banner.
	errMsg struct {
		op  string // "load settings", "export SKUs", ...
		err error
	}

	// bannerExpireMsg clears the banner if no newer one replaced it.
	bannerExpireMsg struct {
		seq int
	}

	// configReloadedMsg arrives from the fsnotify watcher when the config
	// file changes on disk.
	configReloadedMsg struct {
		cfg *config.Config
	}
)
