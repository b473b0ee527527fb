package ledger

import (
	"testing"

	"tally/internal/core"
)

func tx(t *testing.T, category, amount, date string) core.Transaction {
	t.Helper()
	m, err := core.ParseAmount(amount)
	if err != nil {
		t.Fatalf("parse amount %q: %v", amount, err)
	}
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date %q: %v", date, err)
	}
	out, err := core.NewTransaction(category, m, d)
	if err != nil {
		t.Fatalf("new transaction: %v", err)
	}
	return out
}

func TestTotal(t *testing.T) {
	if got := Total(nil); got.Cents != 0 {
		t.Fatalf("Total(nil) = %d, want 0", got.Cents)
	}

	txs := []core.Transaction{
		tx(t, "a", "10.00", "2024-01-01"),
		tx(t, "b", "2.50", "2024-02-01"),
		tx(t, "c", "0.01", "2024-03-01"),
	}
	if got := Total(txs); got.Cents != 1251 {
		t.Fatalf("Total = %d, want 1251", got.Cents)
	}

	// order independence
	perm := []core.Transaction{txs[2], txs[0], txs[1]}
	if got := Total(perm); got.Cents != 1251 {
		t.Fatalf("Total under permutation = %d, want 1251", got.Cents)
	}
}

func TestFilterByMonthAndYear(t *testing.T) {
	txs := []core.Transaction{
		tx(t, "a", "1.00", "2024-03-05"),
		tx(t, "b", "2.00", "2024-03-31"),
		tx(t, "c", "3.00", "2024-04-01"),
		tx(t, "d", "4.00", "2023-03-05"),
	}

	march := FilterByMonth(txs, 2024, 3)
	if len(march) != 2 {
		t.Fatalf("FilterByMonth len = %d, want 2", len(march))
	}
	// idempotence
	again := FilterByMonth(march, 2024, 3)
	if len(again) != len(march) {
		t.Fatalf("FilterByMonth not idempotent: %d vs %d", len(again), len(march))
	}

	y2024 := FilterByYear(txs, 2024)
	if len(y2024) != 3 {
		t.Fatalf("FilterByYear len = %d, want 3", len(y2024))
	}
	if got := FilterByYear(y2024, 2024); len(got) != 3 {
		t.Fatalf("FilterByYear not idempotent: %d", len(got))
	}

	if got := FilterByMonth(txs, 2024, 5); got != nil {
		t.Fatalf("expected empty filter result, got %v", got)
	}
}

func TestSavings(t *testing.T) {
	if got := Savings(nil, nil); got.Cents != 0 {
		t.Fatalf("Savings(nil,nil) = %d, want 0", got.Cents)
	}
	incomes := []core.Transaction{tx(t, "salary", "100.00", "2024-01-01")}
	expenses := []core.Transaction{tx(t, "rent", "150.00", "2024-01-02")}
	if got := Savings(incomes, expenses); got.Cents != -5000 {
		t.Fatalf("Savings = %d, want -5000", got.Cents)
	}
}

func TestSummarize(t *testing.T) {
	u := core.NewUser("alice", "pw1")
	u.Incomes = append(u.Incomes, tx(t, "Salary", "1000.00", "2024-03-05"))
	u.Expenses = append(u.Expenses, tx(t, "Rent", "200.00", "2024-03-10"))
	u.Budget = core.Budget{MonthlyTarget: core.Cents(50000), YearlyTarget: core.Cents(600000)}

	s := Summarize(u)
	if s.TotalIncome.Cents != 100000 {
		t.Fatalf("TotalIncome = %d, want 100000", s.TotalIncome.Cents)
	}
	if s.TotalExpense.Cents != 20000 {
		t.Fatalf("TotalExpense = %d, want 20000", s.TotalExpense.Cents)
	}
	if s.Balance.Cents != 80000 {
		t.Fatalf("Balance = %d, want 80000", s.Balance.Cents)
	}
	if s.MonthlyTarget.Cents != 50000 || s.YearlyTarget.Cents != 600000 {
		t.Fatalf("targets not carried: %+v", s)
	}
}

func TestSummarizeMonthAndYear(t *testing.T) {
	u := core.NewUser("alice", "pw1")
	u.Incomes = append(u.Incomes, tx(t, "Salary", "1000.00", "2024-03-05"))
	u.Expenses = append(u.Expenses, tx(t, "Rent", "200.00", "2024-03-10"))

	march := SummarizeMonth(u, 2024, 3)
	if march.Income.Cents != 100000 || march.Expense.Cents != 20000 || march.Savings.Cents != 80000 {
		t.Fatalf("march summary wrong: %+v", march)
	}

	april := SummarizeMonth(u, 2024, 4)
	if april.Income.Cents != 0 || april.Expense.Cents != 0 {
		t.Fatalf("april summary must be zero: %+v", april)
	}

	year := SummarizeYear(u, 2024)
	if year.Income.Cents != 100000 || year.Expense.Cents != 20000 || year.Savings.Cents != 80000 {
		t.Fatalf("year summary wrong: %+v", year)
	}
	if empty := SummarizeYear(u, 2020); empty.Savings.Cents != 0 {
		t.Fatalf("empty year must be zero: %+v", empty)
	}
}
