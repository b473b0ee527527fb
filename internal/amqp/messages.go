package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds published after a successful mutation.
const (
	EventUserRegistered = "user_registered"
	EventIncomeAdded    = "income_added"
	EventExpenseAdded   = "expense_added"
	EventRecurringAdded = "recurring_added"
	EventBudgetUpdated  = "budget_updated"
)

// LedgerEventMessage describes one ledger mutation. The audit worker
// consumes these and appends them to the audit trail.
type LedgerEventMessage struct {
	Kind        string    `json:"kind"`
	Username    string    `json:"username"`
	Category    string    `json:"category,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Date        string    `json:"date,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewLedgerEventMessage creates an event stamped with the current time.
func NewLedgerEventMessage(kind, username string) *LedgerEventMessage {
	return &LedgerEventMessage{
		Kind:      kind,
		Username:  username,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
