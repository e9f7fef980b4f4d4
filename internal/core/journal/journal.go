// Package journal owns one trip's append-only command log. The log
// lives at a single storage key as newline-delimited raw command
// text; line numbers are a property of position, not stored per line.
// Undo and redo are replay-time concepts only — the log is never
// rewritten or truncated.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/planloop/trip_planner_app/internal/apperrors"
	"github.com/planloop/trip_planner_app/internal/core/domain"
	portsrepo "github.com/planloop/trip_planner_app/internal/core/ports/repositories"
)

// ParseFunc turns one raw line into a command. Injected so the
// journal stays independent of the parser package.
type ParseFunc func(rawLine string) (domain.Command, error)

// Journal buffers appends for one trip and flushes them as a whole.
// It is not safe for concurrent use; callers serialize access per
// trip (see the trip service).
type Journal struct {
	key     string
	store   portsrepo.Storage
	parse   ParseFunc
	loaded  bool
	lines   []string
	entries []domain.JournalEntry
	pending int // count of loaded-but-unflushed trailing lines
}

// New returns an unloaded journal bound to a storage key.
func New(key string, store portsrepo.Storage, parse ParseFunc) *Journal {
	return &Journal{key: key, store: store, parse: parse}
}

// Key returns the storage key this journal is bound to.
func (j *Journal) Key() string { return j.key }

// Exists reports whether the journal is already present in storage.
func (j *Journal) Exists(ctx context.Context) (bool, error) {
	return j.store.Exists(ctx, j.key)
}

// Load reads and parses the full entry stream. It is idempotent:
// subsequent calls are no-ops. A line that fails to parse aborts the
// load with an error distinct from storage failures.
func (j *Journal) Load(ctx context.Context) error {
	if j.loaded {
		return nil
	}
	content, err := j.store.Read(ctx, j.key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("journal %s: %w", j.key, apperrors.ErrNotFound)
		}
		return fmt.Errorf("journal %s: read: %w", j.key, err)
	}
	var lines []string
	var entries []domain.JournalEntry
	for _, raw := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		cmd, err := j.parse(raw)
		if err != nil {
			return fmt.Errorf("journal %s line %d: %w", j.key, len(entries)+1, err)
		}
		lines = append(lines, raw)
		entries = append(entries, domain.JournalEntry{LineNumber: len(entries) + 1, Command: cmd})
	}
	j.lines = lines
	j.entries = entries
	j.loaded = true
	return nil
}

// CreateEmpty establishes the journal in storage with no entries.
// It fails with apperrors.ErrDuplicate when the key already exists.
func (j *Journal) CreateEmpty(ctx context.Context) error {
	return j.create(ctx, nil)
}

// Create establishes the journal with a single first line.
func (j *Journal) Create(ctx context.Context, firstLine string) error {
	cmd, err := j.parse(firstLine)
	if err != nil {
		return err
	}
	if err := j.create(ctx, &firstLine); err != nil {
		return err
	}
	j.lines = []string{firstLine}
	j.entries = []domain.JournalEntry{{LineNumber: 1, Command: cmd}}
	return nil
}

func (j *Journal) create(ctx context.Context, firstLine *string) error {
	exists, err := j.store.Exists(ctx, j.key)
	if err != nil {
		return fmt.Errorf("journal %s: exists: %w", j.key, err)
	}
	if exists {
		return fmt.Errorf("journal %s: %w", j.key, apperrors.ErrDuplicate)
	}
	content := ""
	if firstLine != nil {
		content = *firstLine + "\n"
	}
	if err := j.store.Write(ctx, j.key, []byte(content)); err != nil {
		return fmt.Errorf("journal %s: write: %w", j.key, err)
	}
	j.loaded = true
	return nil
}

// Append parses rawLine, assigns the next contiguous line number, and
// buffers the entry. Nothing is persisted until Flush. The journal
// must already exist in storage; use Create for the first line.
func (j *Journal) Append(ctx context.Context, rawLine string) (domain.JournalEntry, error) {
	cmd, err := j.parse(rawLine)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	if err := j.Load(ctx); err != nil {
		return domain.JournalEntry{}, err
	}
	entry := domain.JournalEntry{LineNumber: len(j.entries) + 1, Command: cmd}
	j.lines = append(j.lines, rawLine)
	j.entries = append(j.entries, entry)
	j.pending++
	return entry, nil
}

// Flush durably persists buffered appends. Calling it with nothing
// pending is a no-op.
func (j *Journal) Flush(ctx context.Context) error {
	if j.pending == 0 {
		return nil
	}
	var b strings.Builder
	for _, line := range j.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := j.store.Write(ctx, j.key, []byte(b.String())); err != nil {
		return fmt.Errorf("journal %s: flush: %w", j.key, err)
	}
	j.pending = 0
	return nil
}

// Entries returns the full in-memory entry list. Calling it before
// Load is a usage defect reported as apperrors.ErrNotLoaded.
func (j *Journal) Entries() ([]domain.JournalEntry, error) {
	if !j.loaded {
		return nil, fmt.Errorf("journal %s: %w", j.key, apperrors.ErrNotLoaded)
	}
	return j.entries, nil
}

// Lines returns the raw journal lines in write order, subject to the
// same must-be-loaded rule as Entries.
func (j *Journal) Lines() ([]string, error) {
	if !j.loaded {
		return nil, fmt.Errorf("journal %s: %w", j.key, apperrors.ErrNotLoaded)
	}
	return j.lines, nil
}
