package app

// helpText is the markdown shown by the help overlay, rendered with
// glamour when a renderer is available.
const helpText = `# launchdeck

Terminal client for the pricing backend. All figures are computed
server-side; this tool fetches, edits, and saves.

## Screens

| Key | Screen |
|-----|--------|
| 1 | Config Library (settings, markets, channels) |
| 2 | SKU Portfolio (grid, selection, modal) |

## Config Library

- Tab / Shift+Tab switch between Settings, Markets, Channels
- Arrow keys move between rows and columns, Enter edits a cell
- Numeric cells parse as numbers; anything unparseable saves as 0
- ` + "`s`" + ` saves the current tab; markets and channels save only edited rows
- On the Channels tab, ` + "`[`" + ` and ` + "`]`" + ` cycle the selected market

## SKU Portfolio

- ` + "`/`" + ` filters by id or name, live; b / m / c cycle the facet filters
- Left/Right change pages (20 rows per page)
- Space selects the row under the cursor; the selection bar sums the
  selected rows' revenue, units, and GM
- Enter opens the modal: Financials and Details tabs, ` + "`e`" + ` to edit
- In the modal editor, ` + "`s`" + ` saves the draft; Esc discards it
- ` + "`e`" + ` exports the selection to a workbook, ` + "`d`" + ` bulk-deletes it
  (after a confirmation stating the count)

## Everywhere

- ` + "`r`" + ` refetches the current screen from the backend
- ` + "`?`" + ` toggles this help; Ctrl+C quits
`

// renderHelp renders the help markdown, falling back to the raw text when
// glamour is unavailable.
func (m Model) renderHelp() string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(helpText); err == nil {
			return out
		}
	}
	return helpText
}
