package ledger

import "tally/internal/core"

// Tracker is the un-authenticated single-user ledger. Entries are
// append-only and validated on the way in; nothing is ever removed.
type Tracker struct {
	incomes  []core.Income
	expenses []core.Expense
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// AddIncome records an income entry. Source is kept in the Category field.
func (tr *Tracker) AddIncome(source string, amount core.Money, date core.Date) error {
	tx, err := core.NewTransaction(source, amount, date)
	if err != nil {
		return err
	}
	tr.incomes = append(tr.incomes, tx)
	return nil
}

// AddExpense records an expense entry with a free-form description.
func (tr *Tracker) AddExpense(category string, amount core.Money, date core.Date, description string) error {
	e, err := core.NewExpense(category, amount, date, description)
	if err != nil {
		return err
	}
	tr.expenses = append(tr.expenses, e)
	return nil
}

// Incomes returns a copy of the recorded incomes.
func (tr *Tracker) Incomes() []core.Income {
	return append([]core.Income(nil), tr.incomes...)
}

// Expenses returns a copy of the recorded expenses.
func (tr *Tracker) Expenses() []core.Expense {
	return append([]core.Expense(nil), tr.expenses...)
}

// TotalIncome sums all recorded incomes.
func (tr *Tracker) TotalIncome() core.Money {
	return Total(tr.incomes)
}

// TotalExpenses sums all recorded expenses.
func (tr *Tracker) TotalExpenses() core.Money {
	return Total(tr.expenseTransactions())
}

// Savings is total income minus total expenses; may be negative.
func (tr *Tracker) Savings() core.Money {
	return Savings(tr.incomes, tr.expenseTransactions())
}

// MonthSummary rolls up incomes and expenses for one calendar month.
func (tr *Tracker) MonthSummary(year, month int) PeriodSummary {
	income := Total(FilterByMonth(tr.incomes, year, month))
	expense := Total(FilterByMonth(tr.expenseTransactions(), year, month))
	return PeriodSummary{Income: income, Expense: expense, Savings: income.Sub(expense)}
}

// YearSummary rolls up incomes and expenses for one calendar year.
func (tr *Tracker) YearSummary(year int) PeriodSummary {
	income := Total(FilterByYear(tr.incomes, year))
	expense := Total(FilterByYear(tr.expenseTransactions(), year))
	return PeriodSummary{Income: income, Expense: expense, Savings: income.Sub(expense)}
}

func (tr *Tracker) expenseTransactions() []core.Transaction {
	out := make([]core.Transaction, len(tr.expenses))
	for i, e := range tr.expenses {
		out[i] = e.Transaction
	}
	return out
}
