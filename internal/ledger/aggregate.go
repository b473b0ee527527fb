// Package ledger computes derived figures over a user's transactions.
// All functions are deterministic and side-effect free; empty input
// yields zero values, never an error.
package ledger

import "tally/internal/core"

// Summary is a read-only projection of a user's ledger and budget.
type Summary struct {
	TotalIncome   core.Money
	TotalExpense  core.Money
	Balance       core.Money
	MonthlyTarget core.Money
	YearlyTarget  core.Money
}

// PeriodSummary holds the rollup for one month or one year.
type PeriodSummary struct {
	Income  core.Money
	Expense core.Money
	Savings core.Money
}

// Total sums transaction amounts. Order of input does not matter.
func Total(txs []core.Transaction) core.Money {
	var sum core.Money
	for _, t := range txs {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// FilterByMonth returns the transactions dated in the given year and month.
func FilterByMonth(txs []core.Transaction, year, month int) []core.Transaction {
	var out []core.Transaction
	for _, t := range txs {
		if t.Date.Year() == year && t.Date.Month() == month {
			out = append(out, t)
		}
	}
	return out
}

// FilterByYear returns the transactions dated in the given year.
func FilterByYear(txs []core.Transaction, year int) []core.Transaction {
	var out []core.Transaction
	for _, t := range txs {
		if t.Date.Year() == year {
			out = append(out, t)
		}
	}
	return out
}

// Savings returns total income minus total expense; may be negative.
func Savings(incomes, expenses []core.Transaction) core.Money {
	return Total(incomes).Sub(Total(expenses))
}

// Summarize projects a user's overall totals together with budget targets.
func Summarize(u *core.User) Summary {
	totalIncome := Total(u.Incomes)
	totalExpense := Total(u.Expenses)
	return Summary{
		TotalIncome:   totalIncome,
		TotalExpense:  totalExpense,
		Balance:       totalIncome.Sub(totalExpense),
		MonthlyTarget: u.Budget.MonthlyTarget,
		YearlyTarget:  u.Budget.YearlyTarget,
	}
}

// SummarizeMonth rolls up a user's ledger for one calendar month.
func SummarizeMonth(u *core.User, year, month int) PeriodSummary {
	income := Total(FilterByMonth(u.Incomes, year, month))
	expense := Total(FilterByMonth(u.Expenses, year, month))
	return PeriodSummary{Income: income, Expense: expense, Savings: income.Sub(expense)}
}

// SummarizeYear rolls up a user's ledger for one calendar year.
func SummarizeYear(u *core.User, year int) PeriodSummary {
	income := Total(FilterByYear(u.Incomes, year))
	expense := Total(FilterByYear(u.Expenses, year))
	return PeriodSummary{Income: income, Expense: expense, Savings: income.Sub(expense)}
}
