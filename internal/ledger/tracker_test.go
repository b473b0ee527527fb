package ledger

import (
	"errors"
	"testing"

	"tally/internal/core"
)

func TestTrackerAddAndTotals(t *testing.T) {
	tr := NewTracker()

	if err := tr.AddIncome("Salary", core.Cents(250000), core.NewDate(2024, 3, 1)); err != nil {
		t.Fatalf("add income: %v", err)
	}
	if err := tr.AddExpense("Food", core.Cents(4500), core.NewDate(2024, 3, 2), "groceries"); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	if got := tr.TotalIncome(); got.Cents != 250000 {
		t.Fatalf("TotalIncome = %d, want 250000", got.Cents)
	}
	if got := tr.TotalExpenses(); got.Cents != 4500 {
		t.Fatalf("TotalExpenses = %d, want 4500", got.Cents)
	}
	if got := tr.Savings(); got.Cents != 245500 {
		t.Fatalf("Savings = %d, want 245500", got.Cents)
	}
}

func TestTrackerRejectsInvalidEntries(t *testing.T) {
	tr := NewTracker()

	if err := tr.AddExpense("Food", core.Cents(-500), core.NewDate(2024, 3, 2), "bad"); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := tr.AddIncome("Salary", core.Cents(100), core.Date{}); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	// ledger unchanged after rejections
	if got := tr.TotalIncome(); got.Cents != 0 {
		t.Fatalf("TotalIncome = %d, want 0", got.Cents)
	}
	if got := tr.TotalExpenses(); got.Cents != 0 {
		t.Fatalf("TotalExpenses = %d, want 0", got.Cents)
	}
	if len(tr.Incomes()) != 0 || len(tr.Expenses()) != 0 {
		t.Fatal("rejected entries must not be stored")
	}
}

func TestTrackerPeriodSummaries(t *testing.T) {
	tr := NewTracker()
	if err := tr.AddIncome("Salary", core.Cents(100000), core.NewDate(2024, 3, 5)); err != nil {
		t.Fatalf("add income: %v", err)
	}
	if err := tr.AddExpense("Rent", core.Cents(20000), core.NewDate(2024, 3, 10), ""); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if err := tr.AddExpense("Gifts", core.Cents(5000), core.NewDate(2023, 12, 24), "christmas"); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	march := tr.MonthSummary(2024, 3)
	if march.Income.Cents != 100000 || march.Expense.Cents != 20000 || march.Savings.Cents != 80000 {
		t.Fatalf("march summary wrong: %+v", march)
	}
	april := tr.MonthSummary(2024, 4)
	if april.Income.Cents != 0 || april.Expense.Cents != 0 {
		t.Fatalf("april summary must be zero: %+v", april)
	}

	y2023 := tr.YearSummary(2023)
	if y2023.Income.Cents != 0 || y2023.Expense.Cents != 5000 || y2023.Savings.Cents != -5000 {
		t.Fatalf("2023 summary wrong: %+v", y2023)
	}
}
