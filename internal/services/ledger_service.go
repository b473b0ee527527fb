// Package services wires the ledger core to persistence and eventing.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/store"
)

// LedgerService implements the boundary operations the shell consumes.
// Every successful mutation is persisted wholesale (save-after-mutate)
// and then announced on the event bus. Validation failures return before
// anything is touched; a failed save rolls the in-memory change back so
// memory and disk stay in agreement.
type LedgerService struct {
	users  map[string]*core.User
	store  store.Store
	events *amqp.Client
}

func NewLedgerService(users map[string]*core.User, st store.Store, events *amqp.Client) *LedgerService {
	if users == nil {
		users = make(map[string]*core.User)
	}
	return &LedgerService{users: users, store: st, events: events}
}

// Users exposes the in-memory root for the auth service.
func (s *LedgerService) Users() map[string]*core.User {
	return s.users
}

// AddIncome appends a validated income entry to the user's ledger.
func (s *LedgerService) AddIncome(ctx context.Context, u *core.User, category string, amount core.Money, date core.Date) (core.Transaction, error) {
	tx, err := core.NewTransaction(category, amount, date)
	if err != nil {
		return core.Transaction{}, err
	}

	u.Incomes = append(u.Incomes, tx)
	if err := s.persist(ctx); err != nil {
		u.Incomes = u.Incomes[:len(u.Incomes)-1]
		return core.Transaction{}, err
	}

	s.publish(ctx, &amqp.LedgerEventMessage{
		Kind:        amqp.EventIncomeAdded,
		Username:    u.Username,
		Category:    tx.Category,
		AmountCents: tx.Amount.Cents,
		Date:        tx.Date.String(),
	})
	return tx, nil
}

// AddExpense appends a validated expense entry to the user's ledger.
func (s *LedgerService) AddExpense(ctx context.Context, u *core.User, category string, amount core.Money, date core.Date) (core.Transaction, error) {
	tx, err := core.NewTransaction(category, amount, date)
	if err != nil {
		return core.Transaction{}, err
	}

	u.Expenses = append(u.Expenses, tx)
	if err := s.persist(ctx); err != nil {
		u.Expenses = u.Expenses[:len(u.Expenses)-1]
		return core.Transaction{}, err
	}

	s.publish(ctx, &amqp.LedgerEventMessage{
		Kind:        amqp.EventExpenseAdded,
		Username:    u.Username,
		Category:    tx.Category,
		AmountCents: tx.Amount.Cents,
		Date:        tx.Date.String(),
	})
	return tx, nil
}

// AddRecurring appends a validated recurring expense.
func (s *LedgerService) AddRecurring(ctx context.Context, u *core.User, category string, amount core.Money, frequency string) (core.RecurringExpense, error) {
	re, err := core.NewRecurringExpense(category, amount, frequency)
	if err != nil {
		return core.RecurringExpense{}, err
	}

	u.Recurring = append(u.Recurring, re)
	if err := s.persist(ctx); err != nil {
		u.Recurring = u.Recurring[:len(u.Recurring)-1]
		return core.RecurringExpense{}, err
	}

	s.publish(ctx, &amqp.LedgerEventMessage{
		Kind:        amqp.EventRecurringAdded,
		Username:    u.Username,
		Category:    re.Category,
		AmountCents: re.Amount.Cents,
	})
	return re, nil
}

// SetBudget replaces the user's budget targets. Targets must be non-negative.
func (s *LedgerService) SetBudget(ctx context.Context, u *core.User, monthly, yearly core.Money) error {
	if err := monthly.Validate(); err != nil {
		return err
	}
	if err := yearly.Validate(); err != nil {
		return err
	}

	prev := u.Budget
	u.Budget = core.Budget{MonthlyTarget: monthly, YearlyTarget: yearly}
	if err := s.persist(ctx); err != nil {
		u.Budget = prev
		return err
	}

	s.publish(ctx, &amqp.LedgerEventMessage{
		Kind:     amqp.EventBudgetUpdated,
		Username: u.Username,
	})
	return nil
}

// Summary projects overall totals and budget targets.
func (s *LedgerService) Summary(u *core.User) ledger.Summary {
	return ledger.Summarize(u)
}

// MonthlySummary rolls up one calendar month.
func (s *LedgerService) MonthlySummary(u *core.User, year, month int) ledger.PeriodSummary {
	return ledger.SummarizeMonth(u, year, month)
}

// YearlySummary rolls up one calendar year.
func (s *LedgerService) YearlySummary(u *core.User, year int) ledger.PeriodSummary {
	return ledger.SummarizeYear(u, year)
}

// ListIncomes returns a copy of the user's incomes.
func (s *LedgerService) ListIncomes(u *core.User) []core.Transaction {
	return append([]core.Transaction(nil), u.Incomes...)
}

// ListExpenses returns a copy of the user's expenses.
func (s *LedgerService) ListExpenses(u *core.User) []core.Transaction {
	return append([]core.Transaction(nil), u.Expenses...)
}

// ListRecurring returns a copy of the user's recurring expenses.
func (s *LedgerService) ListRecurring(u *core.User) []core.RecurringExpense {
	return append([]core.RecurringExpense(nil), u.Recurring...)
}

func (s *LedgerService) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.users); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

func (s *LedgerService) publish(ctx context.Context, msg *amqp.LedgerEventMessage) {
	if s.events == nil {
		slog.DebugContext(ctx, "Event bus not configured, skipping ledger event", "kind", msg.Kind)
		return
	}
	if msg.Timestamp.IsZero() {
		stamped := amqp.NewLedgerEventMessage(msg.Kind, msg.Username)
		stamped.Category = msg.Category
		stamped.AmountCents = msg.AmountCents
		stamped.Date = msg.Date
		msg = stamped
	}
	if err := s.events.PublishLedgerEvent(ctx, msg); err != nil {
		// The mutation is already saved; losing one event is acceptable.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", msg.Kind, "username", msg.Username, "error", err)
	}
}
