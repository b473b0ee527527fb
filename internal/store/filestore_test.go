package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"tally/internal/core"
)

func seedUsers() map[string]*core.User {
	alice := core.NewUser("alice", "pw1")
	alice.Incomes = append(alice.Incomes, core.Transaction{
		Category: "Salary", Amount: core.Cents(100000), Date: core.NewDate(2024, 3, 5),
	})
	alice.Expenses = append(alice.Expenses, core.Transaction{
		Category: "Rent", Amount: core.Cents(20000), Date: core.NewDate(2024, 3, 10),
	})
	alice.Recurring = append(alice.Recurring, core.RecurringExpense{
		Category: "Gym", Amount: core.Cents(3000), Frequency: "Monthly",
	})
	alice.Budget = core.Budget{MonthlyTarget: core.Cents(50000), YearlyTarget: core.Cents(600000)}

	bob := core.NewUser("bob", "hunter2")

	return map[string]*core.User{"alice": alice, "bob": bob}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	s := NewFileStore(path)
	ctx := context.Background()

	want := seedUsers()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d users, want %d", len(got), len(want))
	}
	if !reflect.DeepEqual(got["alice"], want["alice"]) {
		t.Fatalf("alice mismatch:\n got %+v\nwant %+v", got["alice"], want["alice"])
	}
	if got["bob"].Password != "hunter2" {
		t.Fatalf("bob password mismatch: %q", got["bob"].Password)
	}
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "does-not-exist.jsonl"))
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load must not fail on missing file: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %d users", len(got))
	}
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	if err := os.WriteFile(path, []byte("\x00\x01garbage{{{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewFileStore(path)
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load must degrade, not fail: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty map for corrupt root, got %d users", len(got))
	}
}

func TestFileStoreSkipsMalformedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	content := `{"v":1,"user":{"username":"alice","password":"pw1","incomes":[],"expenses":[],"recurring":[],"budget":{"monthly_target":{"cents":0},"yearly_target":{"cents":0}}}}
not a json line
{"v":99,"user":{"username":"mallory","password":"x"}}
{"v":1,"user":{"username":"","password":"x"}}
{"v":1,"user":{"username":"carol","password":"pw3","incomes":[],"expenses":[],"recurring":[],"budget":{"monthly_target":{"cents":0},"yearly_target":{"cents":0}}}}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewFileStore(path)
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 valid users, got %d", len(got))
	}
	if _, ok := got["alice"]; !ok {
		t.Fatal("alice missing")
	}
	if _, ok := got["carol"]; !ok {
		t.Fatal("carol missing")
	}
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	s := NewFileStore(path)
	ctx := context.Background()

	if err := s.Save(ctx, seedUsers()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.Save(ctx, map[string]*core.User{"dave": core.NewUser("dave", "pw")}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected wholesale overwrite, got %d users", len(got))
	}
	if _, ok := got["dave"]; !ok {
		t.Fatal("dave missing after overwrite")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind after save")
	}
}
