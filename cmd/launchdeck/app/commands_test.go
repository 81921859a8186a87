package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchdeck/internal/api"
	"launchdeck/internal/config"
	"launchdeck/internal/portfolio"
)

// newTestModel wires a Model against a stub backend. The caller owns the
// server lifetime.
func newTestModel(t *testing.T, handler http.Handler) (Model, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = srv.URL
	cfg.Export.Dir = t.TempDir()

	client := api.New(api.Config{BaseURL: srv.URL})
	return NewModel(cfg, "", client), srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestLoadConfigCmd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /settings/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, portfolio.Settings{"gm_floor_pct": 25})
	})
	mux.HandleFunc("GET /markets/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []portfolio.Market{{MarketName: "Nepal", Currency: "NPR"}})
	})
	m, _ := newTestModel(t, mux)

	msg := m.loadConfigCmd()()
	loaded, ok := msg.(configLoadedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, 25.0, loaded.settings["gm_floor_pct"])
	require.Len(t, loaded.markets, 1)
	assert.Equal(t, "Nepal", loaded.markets[0].MarketName)
}

func TestLoadConfigCmdFailsWhole(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /settings/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /markets/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []portfolio.Market{})
	})
	m, _ := newTestModel(t, mux)

	msg := m.loadConfigCmd()()
	failed, ok := msg.(errMsg)
	require.True(t, ok, "either fetch failing should fail the whole load, got %T", msg)
	assert.Equal(t, "load configuration", failed.op)
}

func TestFetchChannelsCmd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /markets/Nepal/channels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []portfolio.Channel{{Channel: "E-Com"}, {Channel: "MT"}})
	})
	m, _ := newTestModel(t, mux)

	msg := m.fetchChannelsCmd("Nepal")()
	loaded, ok := msg.(channelsLoadedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, "Nepal", loaded.market)
	assert.Len(t, loaded.channels, 2)
}

func TestSaveMarketsCmdPartialFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /markets/{name}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("name") == "India" {
			http.Error(w, `{"detail":"validation failed"}`, http.StatusUnprocessableEntity)
			return
		}
		writeJSON(t, w, map[string]string{"message": "ok"})
	})
	m, _ := newTestModel(t, mux)

	msg := m.saveMarketsCmd([]portfolio.Market{
		{MarketName: "Nepal"}, {MarketName: "India"}, {MarketName: "UAE"},
	})()
	saved, ok := msg.(marketsSavedMsg)
	require.True(t, ok, "got %T", msg)
	assert.False(t, saved.result.OK())
	assert.Equal(t, []string{"India"}, saved.result.FailedNames())
	assert.Equal(t, "saved 2/3 markets; failed: India", saved.result.Summary("saved", "markets"))
	assert.Len(t, saved.submitted, 3, "the message carries the rows that went out")
}

func TestSaveChannelsCmdAllSucceed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /markets/Nepal/channels/{ch}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]string{"message": "ok"})
	})
	m, _ := newTestModel(t, mux)

	msg := m.saveChannelsCmd("Nepal", []portfolio.Channel{{Channel: "E-Com"}, {Channel: "MT"}})()
	saved, ok := msg.(channelsSavedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, "Nepal", saved.market)
	assert.True(t, saved.result.OK())
	assert.Len(t, saved.submitted, 2, "the message carries the rows that went out")
}

func TestSaveSkuCmdRoundTrip(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /skus/SKU-1", func(w http.ResponseWriter, r *http.Request) {
		var in portfolio.Sku
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		// The backend recomputes the cache on save.
		in.Cache = &portfolio.Cache{GMPct: 42}
		writeJSON(t, w, in)
	})
	m, _ := newTestModel(t, mux)

	msg := m.saveSkuCmd(portfolio.Sku{SkuID: "SKU-1", SkuName: "Serum"})()
	saved, ok := msg.(skuSavedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, "Serum", saved.updated.SkuName)
	require.NotNil(t, saved.updated.Cache)
	assert.Equal(t, 42.0, saved.updated.Cache.GMPct)
}

func TestSaveSkuCmdFailureIsDistinct(t *testing.T) {
	m, _ := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"sku not found"}`, http.StatusNotFound)
	}))

	msg := m.saveSkuCmd(portfolio.Sku{SkuID: "SKU-404"})()
	failed, ok := msg.(skuSaveFailedMsg)
	require.True(t, ok, "save failure must not be a generic errMsg, got %T", msg)
	assert.Contains(t, failed.err.Error(), "sku not found")
}

func TestExportCmdWritesWorkbook(t *testing.T) {
	payload := []byte("PK\x03\x04 fake workbook")
	mux := http.NewServeMux()
	mux.HandleFunc("POST /skus/export", func(w http.ResponseWriter, r *http.Request) {
		var ids []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ids))
		assert.Equal(t, []string{"SKU-1", "SKU-2"}, ids)
		w.Write(payload)
	})
	m, _ := newTestModel(t, mux)

	msg := m.exportCmd([]string{"SKU-1", "SKU-2"})()
	done, ok := msg.(exportDoneMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, 2, done.rows)
	assert.Equal(t, filepath.Join(m.cfg.ExportDir(), "sku_export.xlsx"), done.path)

	written, err := os.ReadFile(done.path)
	require.NoError(t, err)
	assert.Equal(t, payload, written)
}

func TestDeleteCmd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /skus/delete-bulk", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]int{"deleted": 2})
	})
	m, _ := newTestModel(t, mux)

	msg := m.deleteCmd([]string{"SKU-1", "SKU-2"})()
	done, ok := msg.(deleteDoneMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, 2, done.deleted)
	assert.Equal(t, []string{"SKU-1", "SKU-2"}, done.ids)
}
