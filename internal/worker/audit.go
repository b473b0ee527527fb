// Package worker consumes ledger events and appends them to an audit trail.
package worker

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tally/internal/amqp"
)

// AuditWriter appends consumed ledger events to a JSONL file, one record
// per line. Append-only: the trail is never rewritten.
type AuditWriter struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

type auditRecord struct {
	ReceivedAt time.Time                `json:"received_at"`
	Event      *amqp.LedgerEventMessage `json:"event"`
}

func NewAuditWriter(path string) *AuditWriter {
	return &AuditWriter{path: path, now: time.Now}
}

// Handle appends one event. Returning an error makes the consumer requeue
// the delivery, so the record is not lost on transient write failures.
func (w *AuditWriter) Handle(msg *amqp.LedgerEventMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	line, err := json.Marshal(auditRecord{ReceivedAt: w.now().UTC(), Event: msg})
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	if dir := filepath.Dir(w.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create audit directory: %w", err)
		}
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}

	slog.Debug("Audit record appended", "kind", msg.Kind, "username", msg.Username)
	return nil
}
