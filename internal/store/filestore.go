package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tally/internal/core"
)

// recordVersion tags each persisted line so the format can evolve.
const recordVersion = 1

// FileStore keeps the root as JSON Lines: one tagged user record per line.
// Decoding line by line is what makes the skip-malformed contract a
// per-record operation instead of all-or-nothing.
type FileStore struct {
	path string
}

type userRecord struct {
	V    int        `json:"v"`
	User *core.User `json:"user"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

var _ Store = (*FileStore)(nil)

func (s *FileStore) Load(ctx context.Context) (map[string]*core.User, error) {
	users := make(map[string]*core.User)

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return users, nil
		}
		slog.WarnContext(ctx, "Ledger store unreadable, starting empty",
			"path", s.path, "error", fmt.Errorf("%w: %v", core.ErrStorageCorrupt, err))
		return users, nil
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var rec userRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			slog.WarnContext(ctx, "Skipping malformed ledger record",
				"path", s.path, "line", line, "error", fmt.Errorf("%w: %v", core.ErrStorageCorrupt, err))
			continue
		}
		if rec.V != recordVersion || rec.User == nil {
			slog.WarnContext(ctx, "Skipping ledger record with unknown shape",
				"path", s.path, "line", line, "version", rec.V)
			continue
		}
		if err := rec.User.Validate(); err != nil {
			slog.WarnContext(ctx, "Skipping invalid user record",
				"path", s.path, "line", line, "error", err)
			continue
		}
		users[rec.User.Username] = rec.User
	}
	if err := sc.Err(); err != nil {
		slog.WarnContext(ctx, "Ledger store truncated while reading",
			"path", s.path, "error", fmt.Errorf("%w: %v", core.ErrStorageCorrupt, err))
	}

	return users, nil
}

func (s *FileStore) Save(ctx context.Context, users map[string]*core.User) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create store directory: %v", core.ErrStorageWriteFailed, err)
		}
	}

	// Deterministic record order keeps the file diffable.
	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf strings.Builder
	for _, name := range names {
		b, err := json.Marshal(userRecord{V: recordVersion, User: users[name]})
		if err != nil {
			return fmt.Errorf("%w: marshal user %q: %v", core.ErrStorageWriteFailed, name, err)
		}
		buf.Write(b)
		buf.WriteByte('\n')
	}

	// Atomic from the caller's perspective: tmp then rename.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(buf.String()), 0o600); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStorageWriteFailed, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", core.ErrStorageWriteFailed, err)
	}

	slog.DebugContext(ctx, "Ledger store saved", "path", s.path, "users", len(users))
	return nil
}
