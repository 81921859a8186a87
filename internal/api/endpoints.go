package api

import (
	"context"
	"fmt"
	"net/url"

	"launchdeck/internal/portfolio"
)

// GetSettings fetches the global settings document.
func (c *Client) GetSettings(ctx context.Context) (portfolio.Settings, error) {
	var out portfolio.Settings
	if err := c.doJSON(ctx, "GET", "/settings/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PutSettings saves the full settings map and returns the saved document.
func (c *Client) PutSettings(ctx context.Context, s portfolio.Settings) (portfolio.Settings, error) {
	var out portfolio.Settings
	if err := c.doJSON(ctx, "PUT", "/settings/", s, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMarkets fetches all market configurations.
func (c *Client) GetMarkets(ctx context.Context) ([]portfolio.Market, error) {
	var out []portfolio.Market
	if err := c.doJSON(ctx, "GET", "/markets/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PutMarket saves one market row. The backend replies with a bare
// confirmation message and recomputes every SKU cache; the caller refetches
// SKUs if it needs fresh figures.
func (c *Client) PutMarket(ctx context.Context, m portfolio.Market) error {
	if m.MarketName == "" {
		return fmt.Errorf("market name required")
	}
	endpoint := "/markets/" + url.PathEscape(m.MarketName)
	return c.doJSON(ctx, "PUT", endpoint, m, nil)
}

// GetChannels fetches the channel rows of one market.
func (c *Client) GetChannels(ctx context.Context, market string) ([]portfolio.Channel, error) {
	if market == "" {
		return nil, fmt.Errorf("market name required")
	}
	endpoint := "/markets/" + url.PathEscape(market) + "/channels"
	var out []portfolio.Channel
	if err := c.doJSON(ctx, "GET", endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PutChannel saves one channel row of a market. Channel names may carry a
// slash ("Rx/Clinic"), so both path segments are escaped.
func (c *Client) PutChannel(ctx context.Context, market string, ch portfolio.Channel) error {
	if market == "" || ch.Channel == "" {
		return fmt.Errorf("market and channel names required")
	}
	endpoint := "/markets/" + url.PathEscape(market) + "/channels/" + url.PathEscape(ch.Channel)
	return c.doJSON(ctx, "PUT", endpoint, ch, nil)
}

// GetSkus fetches the full SKU list, nested cache included.
func (c *Client) GetSkus(ctx context.Context) ([]portfolio.Sku, error) {
	var out []portfolio.Sku
	if err := c.doJSON(ctx, "GET", "/skus/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PutSku saves an edited SKU and returns the backend's authoritative copy
// with a freshly computed cache. Callers replace their local record with the
// return value wholesale rather than merging.
func (c *Client) PutSku(ctx context.Context, s portfolio.Sku) (portfolio.Sku, error) {
	if s.SkuID == "" {
		return portfolio.Sku{}, fmt.Errorf("sku id required")
	}
	endpoint := "/skus/" + url.PathEscape(s.SkuID)
	var out portfolio.Sku
	if err := c.doJSON(ctx, "PUT", endpoint, s, &out); err != nil {
		return portfolio.Sku{}, err
	}
	return out, nil
}

// ExportSkus asks the backend to build a workbook for the given SKU ids and
// returns the raw spreadsheet bytes.
func (c *Client) ExportSkus(ctx context.Context, ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no sku ids to export")
	}
	return c.download(ctx, "POST", "/skus/export", ids)
}

// deleteBulkResponse is the confirmation for a bulk delete.
type deleteBulkResponse struct {
	Deleted int `json:"deleted"`
}

// DeleteSkus deletes the given SKU ids and returns how many the backend
// confirmed. Callers drop rows from local state only after this returns.
func (c *Client) DeleteSkus(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("no sku ids to delete")
	}
	var out deleteBulkResponse
	if err := c.doJSON(ctx, "POST", "/skus/delete-bulk", ids, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

// Ping probes backend reachability with a settings fetch and reports how
// many settings the backend holds. Used by the status subcommand before the
// TUI is entered.
func (c *Client) Ping(ctx context.Context) (int, error) {
	settings, err := c.GetSettings(ctx)
	if err != nil {
		return 0, err
	}
	return len(settings), nil
}
