// Audit logging for mutating operations. Every save, bulk delete and
// export lands in a JSONL trail so a session's writes against the
// backend can be reconstructed after the fact.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Save events
	AuditSettingsSave AuditEventType = "settings_save"
	AuditMarketSave   AuditEventType = "market_save"
	AuditChannelSave  AuditEventType = "channel_save"
	AuditSkuSave      AuditEventType = "sku_save"

	// Portfolio bulk events
	AuditBulkDelete AuditEventType = "bulk_delete"
	AuditExport     AuditEventType = "export"

	// Session events
	AuditSessionStart AuditEventType = "session_start"
	AuditSessionEnd   AuditEventType = "session_end"
)

// AuditEvent represents one line of the audit trail
type AuditEvent struct {
	Timestamp  int64                  `json:"ts"` // Unix milliseconds
	EventType  AuditEventType         `json:"event"`
	SessionID  string                 `json:"session,omitempty"`
	RequestID  string                 `json:"req,omitempty"`
	Target     string                 `json:"target,omitempty"` // Market name, SKU id, export path
	Success    bool                   `json:"success"`
	DurationMs int64                  `json:"dur_ms,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Message    string                 `json:"msg,omitempty"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

var (
	auditFile   *os.File
	auditMu     sync.Mutex
	auditLogger *AuditLogger
)

// AuditLogger handles the structured audit trail
type AuditLogger struct {
	sessionID string
}

// InitAudit initializes the audit trail file
func InitAudit() error {
	if !IsEnabled() {
		return nil
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		return nil // Already initialized
	}

	date := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(logsDir, fmt.Sprintf("%s_audit.log", date))

	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	auditFile = file

	return nil
}

// CloseAudit closes the audit trail file
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// Audit returns the global audit logger
func Audit() *AuditLogger {
	if auditLogger == nil {
		auditLogger = &AuditLogger{}
	}
	return auditLogger
}

// AuditWithSession creates an audit logger scoped to a session
func AuditWithSession(sessionID string) *AuditLogger {
	return &AuditLogger{sessionID: sessionID}
}

// Log writes an audit event
func (a *AuditLogger) Log(event AuditEvent) {
	if !IsEnabled() || auditFile == nil {
		return
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.SessionID == "" && a.sessionID != "" {
		event.SessionID = a.sessionID
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	data, err := json.Marshal(event)
	if err == nil {
		auditFile.WriteString(string(data) + "\n")
	}
}

// =============================================================================
// CONVENIENCE METHODS FOR COMMON EVENTS
// =============================================================================

// SaveOp logs a single PUT against the backend
func (a *AuditLogger) SaveOp(op AuditEventType, target string, durationMs int64, success bool, errMsg string) {
	a.Log(AuditEvent{
		EventType:  op,
		Target:     target,
		Success:    success,
		DurationMs: durationMs,
		Error:      errMsg,
		Message:    fmt.Sprintf("%s: %s (success=%v, %dms)", op, target, success, durationMs),
	})
}

// BulkDelete logs a bulk delete with requested vs confirmed counts
func (a *AuditLogger) BulkDelete(requested, deleted int, durationMs int64, success bool, errMsg string) {
	a.Log(AuditEvent{
		EventType:  AuditBulkDelete,
		Success:    success,
		DurationMs: durationMs,
		Error:      errMsg,
		Fields:     map[string]interface{}{"requested": requested, "deleted": deleted},
		Message:    fmt.Sprintf("bulk delete: %d requested, %d deleted (success=%v)", requested, deleted, success),
	})
}

// ExportOp logs a workbook export
func (a *AuditLogger) ExportOp(path string, rows int, bytes int64, durationMs int64, success bool, errMsg string) {
	a.Log(AuditEvent{
		EventType:  AuditExport,
		Target:     path,
		Success:    success,
		DurationMs: durationMs,
		Error:      errMsg,
		Fields:     map[string]interface{}{"rows": rows, "bytes": bytes},
		Message:    fmt.Sprintf("export: %d rows -> %s (%d bytes, success=%v)", rows, path, bytes, success),
	})
}

// SessionStart logs session start
func (a *AuditLogger) SessionStart(sessionID string) {
	a.Log(AuditEvent{
		EventType: AuditSessionStart,
		SessionID: sessionID,
		Success:   true,
		Message:   fmt.Sprintf("session started: %s", sessionID),
	})
}

// SessionEnd logs session end
func (a *AuditLogger) SessionEnd(sessionID string, durationMs int64) {
	a.Log(AuditEvent{
		EventType:  AuditSessionEnd,
		SessionID:  sessionID,
		Success:    true,
		DurationMs: durationMs,
		Message:    fmt.Sprintf("session ended: %s (%dms)", sessionID, durationMs),
	})
}
