package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/planloop/trip_planner_app/internal/apperrors"
	"github.com/planloop/trip_planner_app/internal/core/domain"
	"github.com/planloop/trip_planner_app/internal/core/journal"
	portsrepo "github.com/planloop/trip_planner_app/internal/core/ports/repositories"
	portssvc "github.com/planloop/trip_planner_app/internal/core/ports/services"
	"github.com/planloop/trip_planner_app/internal/middleware"
)

const (
	tripKeyPrefix = "trips/"
	tripKeySuffix = ".log"
)

// tripService rebuilds trip snapshots by replaying journals and owns
// the validated append path. Reads and writes against the same trip
// are serialized with a per-trip mutex; different trips never contend.
type tripService struct {
	store portsrepo.Storage
	parse journal.ParseFunc
	locks sync.Map // trip name -> *sync.Mutex
}

// NewTripService creates the trip service on top of the storage port
// and the command parser.
func NewTripService(store portsrepo.Storage, parse journal.ParseFunc) portssvc.TripSvcFacade {
	return &tripService{store: store, parse: parse}
}

var _ portssvc.TripSvcFacade = (*tripService)(nil)

func tripKey(name string) string {
	return tripKeyPrefix + name + tripKeySuffix
}

// tripID derives the snapshot id from the trip name so that replay
// stays deterministic: nothing about the snapshot may depend on when
// it was rebuilt.
func tripID(name string) string {
	return "trip-" + name
}

func (s *tripService) lock(name string) func() {
	v, _ := s.locks.LoadOrStore(name, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ListTrips enumerates journal keys under the trip prefix.
func (s *tripService) ListTrips(ctx context.Context) ([]string, error) {
	keys, err := s.store.List(ctx, tripKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip journals: %w", err)
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		if !strings.HasSuffix(key, tripKeySuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(strings.TrimPrefix(key, tripKeyPrefix), tripKeySuffix))
	}
	return names, nil
}

// Rebuild loads the journal, resolves the active timeline, and folds
// it through the reducer. The journal is never created implicitly.
func (s *tripService) Rebuild(ctx context.Context, name string) (*domain.Trip, error) {
	unlock := s.lock(name)
	defer unlock()
	return s.rebuildLocked(ctx, name)
}

func (s *tripService) rebuildLocked(ctx context.Context, name string) (*domain.Trip, error) {
	j := journal.New(tripKey(name), s.store, s.parse)
	if err := j.Load(ctx); err != nil {
		return nil, err
	}
	return s.replay(name, j)
}

func (s *tripService) replay(name string, j *journal.Journal) (*domain.Trip, error) {
	entries, err := j.Entries()
	if err != nil {
		return nil, err
	}
	timeline := domain.ResolveTimeline(entries)
	snap := domain.NewTrip(name, tripID(name))
	for _, idx := range timeline.Active() {
		snap, _ = domain.Apply(snap, entries[idx].Command)
	}
	return snap, nil
}

// GetExisting returns the rebuilt snapshot, or nil without error when
// no journal exists at the expected key.
func (s *tripService) GetExisting(ctx context.Context, name string) (*domain.Trip, error) {
	exists, err := s.store.Exists(ctx, tripKey(name))
	if err != nil {
		return nil, fmt.Errorf("failed to check trip %s: %w", name, err)
	}
	if !exists {
		return nil, nil
	}
	return s.Rebuild(ctx, name)
}

// ApplyCommand resolves the snapshot a command would act on without
// persisting anything: a fresh seeded snapshot for create-trip, the
// rebuilt current state for everything else.
func (s *tripService) ApplyCommand(ctx context.Context, name string, cmd domain.Command) (*domain.Trip, error) {
	if create, ok := cmd.(domain.CreateTrip); ok {
		return domain.NewTrip(create.Name, tripID(create.Name)), nil
	}
	return s.Rebuild(ctx, name)
}

// AppendCommand validates the create-vs-exists rules, journals the
// raw line, flushes, and returns the post-append snapshot. Validation
// happens before any bytes are written, so a failure never leaves a
// partial journal.
func (s *tripService) AppendCommand(ctx context.Context, name string, rawLine string) (*domain.Trip, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cmd, err := s.parse(rawLine)
	if err != nil {
		return nil, err
	}

	unlock := s.lock(name)
	defer unlock()

	j := journal.New(tripKey(name), s.store, s.parse)

	if create, ok := cmd.(domain.CreateTrip); ok {
		if create.Name != name {
			return nil, fmt.Errorf("%w: create names trip %q but targets %q", apperrors.ErrValidation, create.Name, name)
		}
		if err := j.Create(ctx, rawLine); err != nil {
			return nil, err
		}
		logger.Info("Trip journal created", slog.String("trip", name))
		return s.replay(name, j)
	}

	exists, err := j.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check trip %s: %w", name, err)
	}
	if !exists {
		return nil, fmt.Errorf("trip %s: %w", name, apperrors.ErrNotFound)
	}
	entry, err := j.Append(ctx, rawLine)
	if err != nil {
		return nil, err
	}
	if err := j.Flush(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Command journaled",
		slog.String("trip", name),
		slog.Int("line", entry.LineNumber),
		slog.String("kind", string(cmd.Kind())))
	return s.replay(name, j)
}

// RawJournal returns every raw line in write order plus the indexes
// of the currently active entries, for admin inspection.
func (s *tripService) RawJournal(ctx context.Context, name string) ([]string, []int, error) {
	unlock := s.lock(name)
	defer unlock()

	j := journal.New(tripKey(name), s.store, s.parse)
	if err := j.Load(ctx); err != nil {
		return nil, nil, err
	}
	lines, err := j.Lines()
	if err != nil {
		return nil, nil, err
	}
	entries, err := j.Entries()
	if err != nil {
		return nil, nil, err
	}
	return lines, domain.ResolveTimeline(entries).Active(), nil
}
