package services

import (
	"context"

	"github.com/planloop/trip_planner_app/internal/core/domain"
)

// TripReaderSvc defines read operations over trip journals.
type TripReaderSvc interface {
	// ListTrips enumerates the names of every trip with a journal.
	ListTrips(ctx context.Context) ([]string, error)

	// Rebuild replays the active timeline of an existing journal into
	// a snapshot. apperrors.ErrNotFound when the journal is absent.
	Rebuild(ctx context.Context, name string) (*domain.Trip, error)

	// GetExisting returns (nil, nil) rather than an error when no
	// journal exists for the name.
	GetExisting(ctx context.Context, name string) (*domain.Trip, error)

	// RawJournal returns the journal's raw lines in write order
	// together with the currently active entry indexes, for admin
	// inspection.
	RawJournal(ctx context.Context, name string) ([]string, []int, error)
}

// TripWriterSvc defines the write path: validated append of one
// command line, plus the pure apply used for previews.
type TripWriterSvc interface {
	// ApplyCommand resolves the snapshot the command would act on:
	// the seeded empty snapshot for create-trip, Rebuild otherwise.
	// It never writes.
	ApplyCommand(ctx context.Context, name string, cmd domain.Command) (*domain.Trip, error)

	// AppendCommand validates create-vs-exists rules, journals the
	// raw line, flushes, and returns the post-append snapshot.
	AppendCommand(ctx context.Context, name string, rawLine string) (*domain.Trip, error)
}

// TripSvcFacade combines all trip service interfaces.
type TripSvcFacade interface {
	TripReaderSvc
	TripWriterSvc
}
