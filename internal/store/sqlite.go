package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tally/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the ledger root in a SQLite database. Load validates
// row by row, so a damaged row costs one record, not the whole root.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

var _ Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (map[string]*core.User, error) {
	users := make(map[string]*core.User)

	rows, err := s.db.QueryContext(ctx,
		`SELECT username, password, monthly_target_cents, yearly_target_cents FROM users`)
	if err != nil {
		slog.WarnContext(ctx, "Ledger database unreadable, starting empty",
			"error", fmt.Errorf("%w: %v", core.ErrStorageCorrupt, err))
		return users, nil
	}
	defer rows.Close()

	for rows.Next() {
		var (
			username, password string
			monthly, yearly    int64
		)
		if err := rows.Scan(&username, &password, &monthly, &yearly); err != nil {
			slog.WarnContext(ctx, "Skipping unreadable user row", "error", err)
			continue
		}
		u := core.NewUser(username, password)
		u.Budget = core.Budget{MonthlyTarget: core.Cents(monthly), YearlyTarget: core.Cents(yearly)}
		if err := u.Validate(); err != nil {
			slog.WarnContext(ctx, "Skipping invalid user row", "username", username, "error", err)
			continue
		}
		users[username] = u
	}
	if err := rows.Err(); err != nil {
		slog.WarnContext(ctx, "User scan aborted",
			"error", fmt.Errorf("%w: %v", core.ErrStorageCorrupt, err))
	}

	s.loadTransactions(ctx, users)
	s.loadRecurring(ctx, users)

	return users, nil
}

func (s *SQLiteStore) loadTransactions(ctx context.Context, users map[string]*core.User) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT username, kind, category, amount_cents, entry_date FROM transactions ORDER BY id`)
	if err != nil {
		slog.WarnContext(ctx, "Transactions unreadable, loading users without entries",
			"error", fmt.Errorf("%w: %v", core.ErrStorageCorrupt, err))
		return
	}
	defer rows.Close()

	for rows.Next() {
		var (
			username, kind, category, entryDate string
			cents                               int64
		)
		if err := rows.Scan(&username, &kind, &category, &cents, &entryDate); err != nil {
			slog.WarnContext(ctx, "Skipping unreadable transaction row", "error", err)
			continue
		}
		u, ok := users[username]
		if !ok {
			slog.WarnContext(ctx, "Skipping orphan transaction row", "username", username)
			continue
		}
		date, err := core.ParseDate(entryDate)
		if err != nil {
			slog.WarnContext(ctx, "Skipping transaction with bad date",
				"username", username, "date", entryDate, "error", err)
			continue
		}
		tx, err := core.NewTransaction(category, core.Cents(cents), date)
		if err != nil {
			slog.WarnContext(ctx, "Skipping invalid transaction row",
				"username", username, "error", err)
			continue
		}
		switch kind {
		case "income":
			u.Incomes = append(u.Incomes, tx)
		case "expense":
			u.Expenses = append(u.Expenses, tx)
		default:
			slog.WarnContext(ctx, "Skipping transaction with unknown kind",
				"username", username, "kind", kind)
		}
	}
	if err := rows.Err(); err != nil {
		slog.WarnContext(ctx, "Transaction scan aborted",
			"error", fmt.Errorf("%w: %v", core.ErrStorageCorrupt, err))
	}
}

func (s *SQLiteStore) loadRecurring(ctx context.Context, users map[string]*core.User) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT username, category, amount_cents, frequency FROM recurring_expenses ORDER BY id`)
	if err != nil {
		slog.WarnContext(ctx, "Recurring expenses unreadable",
			"error", fmt.Errorf("%w: %v", core.ErrStorageCorrupt, err))
		return
	}
	defer rows.Close()

	for rows.Next() {
		var (
			username, category, frequency string
			cents                         int64
		)
		if err := rows.Scan(&username, &category, &cents, &frequency); err != nil {
			slog.WarnContext(ctx, "Skipping unreadable recurring row", "error", err)
			continue
		}
		u, ok := users[username]
		if !ok {
			slog.WarnContext(ctx, "Skipping orphan recurring row", "username", username)
			continue
		}
		re, err := core.NewRecurringExpense(category, core.Cents(cents), frequency)
		if err != nil {
			slog.WarnContext(ctx, "Skipping invalid recurring row",
				"username", username, "error", err)
			continue
		}
		u.Recurring = append(u.Recurring, re)
	}
	if err := rows.Err(); err != nil {
		slog.WarnContext(ctx, "Recurring scan aborted",
			"error", fmt.Errorf("%w: %v", core.ErrStorageCorrupt, err))
	}
}

// Save rewrites the root wholesale inside one transaction, matching the
// save-after-mutate model.
func (s *SQLiteStore) Save(ctx context.Context, users map[string]*core.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", core.ErrStorageWriteFailed, err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM recurring_expenses`,
		`DELETE FROM transactions`,
		`DELETE FROM users`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: clear tables: %v", core.ErrStorageWriteFailed, err)
		}
	}

	for name, u := range users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, password, monthly_target_cents, yearly_target_cents) VALUES (?, ?, ?, ?)`,
			name, u.Password, u.Budget.MonthlyTarget.Cents, u.Budget.YearlyTarget.Cents); err != nil {
			return fmt.Errorf("%w: insert user %q: %v", core.ErrStorageWriteFailed, name, err)
		}
		if err := insertTransactions(ctx, tx, name, "income", u.Incomes); err != nil {
			return err
		}
		if err := insertTransactions(ctx, tx, name, "expense", u.Expenses); err != nil {
			return err
		}
		for _, re := range u.Recurring {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO recurring_expenses (username, category, amount_cents, frequency) VALUES (?, ?, ?, ?)`,
				name, re.Category, re.Amount.Cents, re.Frequency); err != nil {
				return fmt.Errorf("%w: insert recurring for %q: %v", core.ErrStorageWriteFailed, name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", core.ErrStorageWriteFailed, err)
	}

	slog.DebugContext(ctx, "Ledger database saved", "users", len(users))
	return nil
}

func insertTransactions(ctx context.Context, tx *sql.Tx, username, kind string, entries []core.Transaction) error {
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (username, kind, category, amount_cents, entry_date) VALUES (?, ?, ?, ?, ?)`,
			username, kind, e.Category, e.Amount.Cents, e.Date.String()); err != nil {
			return fmt.Errorf("%w: insert %s for %q: %v", core.ErrStorageWriteFailed, kind, username, err)
		}
	}
	return nil
}
