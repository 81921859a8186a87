// Package export lands backend-produced workbooks on disk. The backend owns
// spreadsheet generation; this package only writes the downloaded bytes,
// atomically, so a crash mid-download never leaves a torn file where a
// previous export used to be.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"launchdeck/internal/logging"
)

// WorkbookName is the fixed name the portfolio export is saved under. A new
// export replaces the previous one.
const WorkbookName = "sku_export.xlsx"

// WriteWorkbook writes workbook bytes into dir under WorkbookName and
// returns the full path. The write is atomic: the old export stays intact
// until the new one is fully on disk.
func WriteWorkbook(dir string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("backend returned an empty workbook")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, WorkbookName)

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to stage export file: %w", err)
	}
	defer func() {
		// No-op after a successful replace; removes the temp file on error.
		if err := pending.Cleanup(); err != nil {
			logging.ExportError("cleanup of pending export failed: %v", err)
		}
	}()

	if _, err := pending.Write(data); err != nil {
		return "", fmt.Errorf("failed to write export data: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return "", fmt.Errorf("failed to finalize export file: %w", err)
	}

	logging.Export("wrote %s (%d bytes)", path, len(data))
	return path, nil
}
