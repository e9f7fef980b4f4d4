package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CommandKind discriminates the closed set of command variants.
type CommandKind string

const (
	KindCreateTrip     CommandKind = "create"
	KindAddActivity    CommandKind = "add"
	KindEditActivity   CommandKind = "edit"
	KindDeleteActivity CommandKind = "delete"
	KindMoveDate       CommandKind = "movedate"
	KindInsertDay      CommandKind = "insertday"
	KindRemoveDay      CommandKind = "removeday"
	KindUpsertCountry  CommandKind = "country"
	KindUndo           CommandKind = "undo"
	KindRedo           CommandKind = "redo"
	KindHelp           CommandKind = "help"
	KindSelectTrip     CommandKind = "select"
	KindSetPreference  CommandKind = "prefer"
	KindSearch         CommandKind = "search"
	KindSetModel       CommandKind = "model"
)

// Command is one parsed journal line. Substantive commands mutate the
// trip snapshot when replayed; navigation commands (undo/redo) only
// move the replay cursor; the remaining variants are journaled for
// audit but never touch the snapshot.
type Command interface {
	Kind() CommandKind
	// Encode renders the command back to its single-line journal form.
	Encode() string
}

// IsNavigation reports whether cmd moves the replay cursor instead of
// contributing an entry to it.
func IsNavigation(cmd Command) bool {
	k := cmd.Kind()
	return k == KindUndo || k == KindRedo
}

// IsSubstantive reports whether cmd changes the trip snapshot when
// replayed. Informational commands and navigation markers are not
// substantive.
func IsSubstantive(cmd Command) bool {
	switch cmd.Kind() {
	case KindCreateTrip, KindAddActivity, KindEditActivity, KindDeleteActivity,
		KindMoveDate, KindInsertDay, KindRemoveDay, KindUpsertCountry:
		return true
	}
	return false
}

// CreateTrip establishes a new trip. It must be the first and only
// such entry in a trip's journal.
type CreateTrip struct {
	Name string
}

func (c CreateTrip) Kind() CommandKind { return KindCreateTrip }
func (c CreateTrip) Encode() string    { return string(KindCreateTrip) + " " + quoteIfNeeded(c.Name) }

// AddActivity appends a new activity. UID is assigned by the server
// before the line is journaled, never by the client.
type AddActivity struct {
	UID    string
	Fields map[string]string
}

func (c AddActivity) Kind() CommandKind { return KindAddActivity }
func (c AddActivity) Encode() string {
	return string(KindAddActivity) + " uid=" + c.UID + encodeFields(c.Fields)
}

// EditActivity shallow-merges the supplied fields over an existing activity.
type EditActivity struct {
	UID    string
	Fields map[string]string
}

func (c EditActivity) Kind() CommandKind { return KindEditActivity }
func (c EditActivity) Encode() string {
	return string(KindEditActivity) + " uid=" + c.UID + encodeFields(c.Fields)
}

// DeleteActivity removes an activity by uid.
type DeleteActivity struct {
	UID string
}

func (c DeleteActivity) Kind() CommandKind { return KindDeleteActivity }
func (c DeleteActivity) Encode() string    { return string(KindDeleteActivity) + " uid=" + c.UID }

// MoveDate renames the date on every activity currently on From.
type MoveDate struct {
	From string
	To   string
}

func (c MoveDate) Kind() CommandKind { return KindMoveDate }
func (c MoveDate) Encode() string {
	return fmt.Sprintf("%s from=%s to=%s", KindMoveDate, c.From, c.To)
}

// InsertDay pushes every activity strictly after the pivot date one
// calendar day later.
type InsertDay struct {
	After string
}

func (c InsertDay) Kind() CommandKind { return KindInsertDay }
func (c InsertDay) Encode() string    { return fmt.Sprintf("%s after=%s", KindInsertDay, c.After) }

// RemoveDay pulls every activity strictly after the pivot date one
// calendar day earlier.
type RemoveDay struct {
	At string
}

func (c RemoveDay) Kind() CommandKind { return KindRemoveDay }
func (c RemoveDay) Encode() string    { return fmt.Sprintf("%s at=%s", KindRemoveDay, c.At) }

// UpsertCountry inserts or replaces a country entry on the trip.
type UpsertCountry struct {
	Country CountryInfo
}

func (c UpsertCountry) Kind() CommandKind { return KindUpsertCountry }
func (c UpsertCountry) Encode() string {
	var b strings.Builder
	b.WriteString(string(KindUpsertCountry))
	if c.Country.ID != "" {
		b.WriteString(" id=" + quoteIfNeeded(c.Country.ID))
	}
	if c.Country.Name != "" {
		b.WriteString(" name=" + quoteIfNeeded(c.Country.Name))
	}
	if c.Country.Alpha2 != "" {
		b.WriteString(" alpha2=" + c.Country.Alpha2)
	}
	if c.Country.Currency != "" {
		b.WriteString(" currency=" + c.Country.Currency)
	}
	return b.String()
}

// Undo moves the replay cursor back by Steps entries.
type Undo struct {
	Steps int
}

func (c Undo) Kind() CommandKind { return KindUndo }
func (c Undo) Encode() string    { return string(KindUndo) + " " + strconv.Itoa(c.Steps) }

// Redo moves the replay cursor forward by Steps entries.
type Redo struct {
	Steps int
}

func (c Redo) Kind() CommandKind { return KindRedo }
func (c Redo) Encode() string    { return string(KindRedo) + " " + strconv.Itoa(c.Steps) }

// Help is journaled for audit but has no effect on the snapshot.
type Help struct{}

func (c Help) Kind() CommandKind { return KindHelp }
func (c Help) Encode() string    { return string(KindHelp) }

// SelectTrip records that the client switched its active trip.
type SelectTrip struct {
	Name string
}

func (c SelectTrip) Kind() CommandKind { return KindSelectTrip }
func (c SelectTrip) Encode() string    { return string(KindSelectTrip) + " " + quoteIfNeeded(c.Name) }

// SetPreference records a client preference change.
type SetPreference struct {
	Key   string
	Value string
}

func (c SetPreference) Kind() CommandKind { return KindSetPreference }
func (c SetPreference) Encode() string {
	return fmt.Sprintf("%s %s=%s", KindSetPreference, c.Key, quoteIfNeeded(c.Value))
}

// Search records a free-text search issued by the client.
type Search struct {
	Query string
}

func (c Search) Kind() CommandKind { return KindSearch }
func (c Search) Encode() string    { return string(KindSearch) + " " + quoteIfNeeded(c.Query) }

// SetModel records which AI model the client selected.
type SetModel struct {
	Name string
}

func (c SetModel) Kind() CommandKind { return KindSetModel }
func (c SetModel) Encode() string    { return string(KindSetModel) + " " + quoteIfNeeded(c.Name) }

func encodeFields(fields map[string]string) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(" " + k + "=" + quoteIfNeeded(fields[k]))
	}
	return b.String()
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"") {
		return strconv.Quote(s)
	}
	return s
}
