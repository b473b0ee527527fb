package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"tally/internal/auth"
	"tally/internal/core"
	"tally/internal/services"
)

// ErrLogout signals that the user asked to leave the session menu.
var ErrLogout = errors.New("logout")

// Env carries everything a command handler needs: IO, the service layer
// and the authenticated session.
type Env struct {
	In      *bufio.Reader
	Out     io.Writer
	Ledger  *services.LedgerService
	Session *auth.Session
}

// Command is one entry of the session menu.
type Command struct {
	Key  string
	Name string
	Run  func(ctx context.Context, env *Env) error
}

// Commands returns the session dispatch table keyed by menu choice.
func Commands() map[string]Command {
	cmds := []Command{
		{Key: "1", Name: "Add Income", Run: addIncome},
		{Key: "2", Name: "Add Expense", Run: addExpense},
		{Key: "3", Name: "Add Recurring Expense", Run: addRecurring},
		{Key: "4", Name: "Set Targets (monthly/yearly)", Run: setTargets},
		{Key: "5", Name: "View Summary", Run: viewSummary},
		{Key: "6", Name: "List Incomes", Run: listIncomes},
		{Key: "7", Name: "List Expenses", Run: listExpenses},
		{Key: "8", Name: "Monthly Summary", Run: monthlySummary},
		{Key: "9", Name: "Yearly Summary", Run: yearlySummary},
		{Key: "0", Name: "Logout", Run: logout},
	}
	table := make(map[string]Command, len(cmds))
	for _, c := range cmds {
		table[c.Key] = c
	}
	return table
}

// MenuOrder returns the command keys in display order.
func MenuOrder(table map[string]Command) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		// "0" (logout) sorts last
		if keys[i] == "0" {
			return false
		}
		if keys[j] == "0" {
			return true
		}
		return keys[i] < keys[j]
	})
	return keys
}

func addIncome(ctx context.Context, env *Env) error {
	source := promptLine(env, "Category/source: ")
	amount, err := promptAmount(env)
	if err != nil {
		return err
	}
	date, err := promptDate(env)
	if err != nil {
		return err
	}
	if _, err := env.Ledger.AddIncome(ctx, env.Session.User, source, amount, date); err != nil {
		return err
	}
	fmt.Fprintln(env.Out, "Income added.")
	return nil
}

func addExpense(ctx context.Context, env *Env) error {
	category := promptLine(env, "Category: ")
	amount, err := promptAmount(env)
	if err != nil {
		return err
	}
	date, err := promptDate(env)
	if err != nil {
		return err
	}
	if _, err := env.Ledger.AddExpense(ctx, env.Session.User, category, amount, date); err != nil {
		return err
	}
	fmt.Fprintln(env.Out, "Expense added.")
	return nil
}

func addRecurring(ctx context.Context, env *Env) error {
	category := promptLine(env, "Category (e.g., Rent): ")
	amount, err := promptAmount(env)
	if err != nil {
		return err
	}
	frequency := promptLine(env, "Frequency (Monthly/Weekly): ")
	if _, err := env.Ledger.AddRecurring(ctx, env.Session.User, category, amount, frequency); err != nil {
		return err
	}
	fmt.Fprintln(env.Out, "Recurring expense saved.")
	return nil
}

func setTargets(ctx context.Context, env *Env) error {
	fmt.Fprint(env.Out, "Monthly target amount: ")
	monthly, err := readAmount(env)
	if err != nil {
		return err
	}
	fmt.Fprint(env.Out, "Yearly target amount: ")
	yearly, err := readAmount(env)
	if err != nil {
		return err
	}
	if err := env.Ledger.SetBudget(ctx, env.Session.User, monthly, yearly); err != nil {
		return err
	}
	fmt.Fprintln(env.Out, "Targets updated.")
	return nil
}

func viewSummary(_ context.Context, env *Env) error {
	s := env.Ledger.Summary(env.Session.User)
	fmt.Fprintln(env.Out, "\n--- Summary ---")
	fmt.Fprintf(env.Out, "Total Income  : %s\n", s.TotalIncome)
	fmt.Fprintf(env.Out, "Total Expense : %s\n", s.TotalExpense)
	fmt.Fprintf(env.Out, "Balance       : %s\n", s.Balance)
	fmt.Fprintf(env.Out, "Monthly Target: %s\n", s.MonthlyTarget)
	fmt.Fprintf(env.Out, "Yearly Target : %s\n", s.YearlyTarget)
	return nil
}

func listIncomes(_ context.Context, env *Env) error {
	fmt.Fprintln(env.Out, "\n--- Incomes ---")
	incomes := env.Ledger.ListIncomes(env.Session.User)
	if len(incomes) == 0 {
		fmt.Fprintln(env.Out, "(none)")
	}
	for _, t := range incomes {
		fmt.Fprintln(env.Out, t)
	}
	return nil
}

func listExpenses(_ context.Context, env *Env) error {
	fmt.Fprintln(env.Out, "\n--- Expenses ---")
	expenses := env.Ledger.ListExpenses(env.Session.User)
	if len(expenses) == 0 {
		fmt.Fprintln(env.Out, "(none)")
	}
	for _, t := range expenses {
		fmt.Fprintln(env.Out, t)
	}

	fmt.Fprintln(env.Out, "\n--- Recurring ---")
	recurring := env.Ledger.ListRecurring(env.Session.User)
	if len(recurring) == 0 {
		fmt.Fprintln(env.Out, "(none)")
	}
	for _, re := range recurring {
		fmt.Fprintln(env.Out, re)
	}
	return nil
}

func monthlySummary(_ context.Context, env *Env) error {
	year, err := promptInt(env, "Enter year (yyyy): ")
	if err != nil {
		return err
	}
	month, err := promptInt(env, "Enter month (1-12): ")
	if err != nil {
		return err
	}
	s := env.Ledger.MonthlySummary(env.Session.User, year, month)
	fmt.Fprintf(env.Out, "Monthly Income  : %s\n", s.Income)
	fmt.Fprintf(env.Out, "Monthly Expenses: %s\n", s.Expense)
	fmt.Fprintf(env.Out, "Monthly Savings : %s\n", s.Savings)
	return nil
}

func yearlySummary(_ context.Context, env *Env) error {
	year, err := promptInt(env, "Enter year (yyyy): ")
	if err != nil {
		return err
	}
	s := env.Ledger.YearlySummary(env.Session.User, year)
	fmt.Fprintf(env.Out, "Yearly Income  : %s\n", s.Income)
	fmt.Fprintf(env.Out, "Yearly Expenses: %s\n", s.Expense)
	fmt.Fprintf(env.Out, "Yearly Savings : %s\n", s.Savings)
	return nil
}

func logout(_ context.Context, env *Env) error {
	fmt.Fprintln(env.Out, "Logging out...")
	return ErrLogout
}

func promptLine(env *Env, prompt string) string {
	fmt.Fprint(env.Out, prompt)
	line, _ := env.In.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptAmount(env *Env) (core.Money, error) {
	fmt.Fprint(env.Out, "Amount: ")
	return readAmount(env)
}

func readAmount(env *Env) (core.Money, error) {
	line, _ := env.In.ReadString('\n')
	return core.ParseAmount(line)
}

// promptDate reads a yyyy-mm-dd date; empty input means today.
func promptDate(env *Env) (core.Date, error) {
	raw := promptLine(env, "Date (yyyy-mm-dd, empty = today): ")
	if raw == "" {
		now := time.Now()
		return core.NewDate(now.Year(), int(now.Month()), now.Day()), nil
	}
	return core.ParseDate(raw)
}

func promptInt(env *Env, prompt string) (int, error) {
	raw := promptLine(env, prompt)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %q", raw)
	}
	return v, nil
}
