package worker

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tally/internal/amqp"
)

func TestAuditWriterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "trail.jsonl")
	w := NewAuditWriter(path)
	w.now = func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) }

	first := amqp.NewLedgerEventMessage(amqp.EventIncomeAdded, "alice")
	first.Category = "Salary"
	first.AmountCents = 100000
	second := amqp.NewLedgerEventMessage(amqp.EventBudgetUpdated, "alice")

	if err := w.Handle(first); err != nil {
		t.Fatalf("handle first: %v", err)
	}
	if err := w.Handle(second); err != nil {
		t.Fatalf("handle second: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open trail: %v", err)
	}
	defer f.Close()

	var records []auditRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec auditRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		records = append(records, rec)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Event.Kind != amqp.EventIncomeAdded || records[0].Event.AmountCents != 100000 {
		t.Fatalf("first record mangled: %+v", records[0].Event)
	}
	if records[1].Event.Kind != amqp.EventBudgetUpdated {
		t.Fatalf("second record mangled: %+v", records[1].Event)
	}
	if !records[0].ReceivedAt.Equal(time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("received_at not stamped: %v", records[0].ReceivedAt)
	}
}
