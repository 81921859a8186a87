package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"launchdeck/internal/batch"
	"launchdeck/internal/export"
	"launchdeck/internal/logging"
	"launchdeck/internal/portfolio"
)

// Commands run one backend round-trip each on a background goroutine and
// deliver a typed message. There is no retry and no cancellation beyond
// the client's own timeout: a failure surfaces a banner and the user
// retries manually.

// loadConfigCmd fetches settings and markets concurrently. Either failure
// fails the whole load; the screen needs both.
func (m Model) loadConfigCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		var (
			settings portfolio.Settings
			markets  []portfolio.Market
		)
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			settings, err = client.GetSettings(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			markets, err = client.GetMarkets(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return errMsg{op: "load configuration", err: err}
		}
		return configLoadedMsg{settings: settings, markets: markets}
	}
}

// fetchChannelsCmd fetches the channel rows of one market.
func (m Model) fetchChannelsCmd(market string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		channels, err := client.GetChannels(context.Background(), market)
		if err != nil {
			return errMsg{op: "load channels for " + market, err: err}
		}
		return channelsLoadedMsg{market: market, channels: channels}
	}
}

// saveSettingsCmd PUTs the full settings document. The caller hands over a
// snapshot; the live draft keeps changing while this marshals.
func (m Model) saveSettingsCmd(settings portfolio.Settings) tea.Cmd {
	client, audit := m.client, m.audit
	return func() tea.Msg {
		started := time.Now()
		saved, err := client.PutSettings(context.Background(), settings)
		audit.SaveOp(logging.AuditSettingsSave, "settings",
			time.Since(started).Milliseconds(), err == nil, errString(err))
		if err != nil {
			return errMsg{op: "update settings", err: err}
		}
		return settingsSavedMsg{saved: saved}
	}
}

// saveMarketsCmd fans out one PUT per edited market and aggregates the
// per-item outcomes.
func (m Model) saveMarketsCmd(markets []portfolio.Market) tea.Cmd {
	client, audit := m.client, m.audit
	return func() tea.Msg {
		byName := make(map[string]portfolio.Market, len(markets))
		names := make([]string, 0, len(markets))
		for _, mk := range markets {
			byName[mk.MarketName] = mk
			names = append(names, mk.MarketName)
		}
		timer := logging.StartTimer(logging.CategoryBatch, "market batch save")
		res := batch.Run(context.Background(), names, func(ctx context.Context, name string) error {
			return client.PutMarket(ctx, byName[name])
		})
		elapsed := timer.StopWithInfo()
		audit.SaveOp(logging.AuditMarketSave, res.Summary("saved", "markets"),
			elapsed.Milliseconds(), res.OK(), errString(res.FirstErr()))
		return marketsSavedMsg{submitted: markets, result: res}
	}
}

// saveChannelsCmd fans out one PUT per edited channel of one market.
func (m Model) saveChannelsCmd(market string, channels []portfolio.Channel) tea.Cmd {
	client, audit := m.client, m.audit
	return func() tea.Msg {
		byName := make(map[string]portfolio.Channel, len(channels))
		names := make([]string, 0, len(channels))
		for _, ch := range channels {
			byName[ch.Channel] = ch
			names = append(names, ch.Channel)
		}
		timer := logging.StartTimer(logging.CategoryBatch, "channel batch save")
		res := batch.Run(context.Background(), names, func(ctx context.Context, name string) error {
			return client.PutChannel(ctx, market, byName[name])
		})
		elapsed := timer.StopWithInfo()
		audit.SaveOp(logging.AuditChannelSave, market+": "+res.Summary("saved", "channels"),
			elapsed.Milliseconds(), res.OK(), errString(res.FirstErr()))
		return channelsSavedMsg{market: market, submitted: channels, result: res}
	}
}

// loadPortfolioCmd fetches all SKUs and all markets concurrently.
func (m Model) loadPortfolioCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		var (
			skus    []portfolio.Sku
			markets []portfolio.Market
		)
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			skus, err = client.GetSkus(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			markets, err = client.GetMarkets(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return errMsg{op: "load SKUs", err: err}
		}
		return portfolioLoadedMsg{skus: skus, markets: markets}
	}
}

// saveSkuCmd PUTs the full draft. Failure is a distinct message so the
// modal stays open in editing mode.
func (m Model) saveSkuCmd(draft portfolio.Sku) tea.Cmd {
	client, audit := m.client, m.audit
	return func() tea.Msg {
		started := time.Now()
		updated, err := client.PutSku(context.Background(), draft)
		audit.SaveOp(logging.AuditSkuSave, draft.SkuID,
			time.Since(started).Milliseconds(), err == nil, errString(err))
		if err != nil {
			return skuSaveFailedMsg{err: err}
		}
		return skuSavedMsg{updated: updated}
	}
}

// exportCmd downloads the workbook for the selected ids and writes it
// atomically into the export directory.
func (m Model) exportCmd(ids []string) tea.Cmd {
	client, audit := m.client, m.audit
	dir := m.cfg.ExportDir()
	return func() tea.Msg {
		timer := logging.StartTimer(logging.CategoryExport, "workbook export")
		data, err := client.ExportSkus(context.Background(), ids)
		if err != nil {
			audit.ExportOp("", len(ids), 0, timer.Stop().Milliseconds(), false, err.Error())
			return errMsg{op: "export SKUs", err: err}
		}
		path, err := export.WriteWorkbook(dir, data)
		elapsed := timer.StopWithThreshold(5 * time.Second)
		audit.ExportOp(path, len(ids), int64(len(data)),
			elapsed.Milliseconds(), err == nil, errString(err))
		if err != nil {
			return errMsg{op: "export SKUs", err: err}
		}
		return exportDoneMsg{path: path, rows: len(ids)}
	}
}

// deleteCmd deletes the selected ids. Rows are only removed from local
// state after the confirmation comes back.
func (m Model) deleteCmd(ids []string) tea.Cmd {
	client, audit := m.client, m.audit
	return func() tea.Msg {
		started := time.Now()
		deleted, err := client.DeleteSkus(context.Background(), ids)
		audit.BulkDelete(len(ids), deleted,
			time.Since(started).Milliseconds(), err == nil, errString(err))
		if err != nil {
			return errMsg{op: "delete SKUs", err: err}
		}
		return deleteDoneMsg{ids: ids, deleted: deleted}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
