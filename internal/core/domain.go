package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only accepted wire format for calendar dates.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar date (no time of day, no timezone).
	Date struct {
		time.Time
	}

	// Transaction is a single income or expense entry. Immutable once created.
	Transaction struct {
		Category string `json:"category"`
		Amount   Money  `json:"amount"`
		Date     Date   `json:"date"`
	}

	// RecurringExpense is a repeating cost. Frequency is a display label only,
	// no scheduling is derived from it.
	RecurringExpense struct {
		Category  string `json:"category"`
		Amount    Money  `json:"amount"`
		Frequency string `json:"frequency"`
	}

	// Budget holds a user's spending targets. Always present on a User,
	// zero targets until set.
	Budget struct {
		MonthlyTarget Money `json:"monthly_target"`
		YearlyTarget  Money `json:"yearly_target"`
	}

	// User owns its ledger. Username is the immutable identity.
	User struct {
		Username  string             `json:"username"`
		Password  string             `json:"password"`
		Incomes   []Transaction      `json:"incomes"`
		Expenses  []Transaction      `json:"expenses"`
		Recurring []RecurringExpense `json:"recurring"`
		Budget    Budget             `json:"budget"`
	}

	// Expense is the single-user variant entry: a Transaction plus a free-form
	// description.
	Expense struct {
		Transaction
		Description string `json:"description"`
	}

	// Income is the single-user variant entry; Category holds the income source.
	Income = Transaction
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyUsername      = errors.New("empty username")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStorageCorrupt     = errors.New("storage corrupt")
	ErrStorageWriteFailed = errors.New("storage write failed")
)

// ParseDate parses a strict yyyy-mm-dd string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: zero date", ErrInvalidDate)
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NewTransaction builds a validated Transaction. Negative amounts and zero
// dates are rejected before any entity exists.
func NewTransaction(category string, amount Money, date Date) (Transaction, error) {
	if err := amount.Validate(); err != nil {
		return Transaction{}, err
	}
	if err := date.Validate(); err != nil {
		return Transaction{}, err
	}
	return Transaction{
		Category: strings.TrimSpace(category),
		Amount:   amount,
		Date:     date,
	}, nil
}

// NewRecurringExpense builds a validated RecurringExpense.
func NewRecurringExpense(category string, amount Money, frequency string) (RecurringExpense, error) {
	if err := amount.Validate(); err != nil {
		return RecurringExpense{}, err
	}
	return RecurringExpense{
		Category:  strings.TrimSpace(category),
		Amount:    amount,
		Frequency: strings.TrimSpace(frequency),
	}, nil
}

// NewExpense builds a validated single-user Expense.
func NewExpense(category string, amount Money, date Date, description string) (Expense, error) {
	tx, err := NewTransaction(category, amount, date)
	if err != nil {
		return Expense{}, err
	}
	return Expense{Transaction: tx, Description: strings.TrimSpace(description)}, nil
}

// NewUser creates a User with empty ledgers and a zero Budget.
func NewUser(username, password string) *User {
	return &User{
		Username:  username,
		Password:  password,
		Incomes:   []Transaction{},
		Expenses:  []Transaction{},
		Recurring: []RecurringExpense{},
	}
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return t.Date.Validate()
}

func (re RecurringExpense) Validate() error {
	return re.Amount.Validate()
}

// Validate checks that a stored User record is well formed. The store uses
// it to decide whether a loaded record is usable.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	for _, t := range u.Incomes {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	for _, t := range u.Expenses {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	for _, re := range u.Recurring {
		if err := re.Validate(); err != nil {
			return err
		}
	}
	if err := u.Budget.MonthlyTarget.Validate(); err != nil {
		return err
	}
	return u.Budget.YearlyTarget.Validate()
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s | %s | %s", t.Category, t.Amount, t.Date)
}

func (re RecurringExpense) String() string {
	return fmt.Sprintf("%s (%s) - %s", re.Category, re.Amount, re.Frequency)
}
