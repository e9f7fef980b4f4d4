package domain

import (
	"strings"
	"time"

	"github.com/planloop/trip_planner_app/internal/utils/iso"
	"github.com/shopspring/decimal"
)

// nowFunc is swapped out in tests that assert booking-date stamping.
var nowFunc = time.Now

// NewTrip seeds an empty snapshot for the given name and id. The
// country list starts with the default country resolved through the
// ISO lookup.
func NewTrip(name, id string) *Trip {
	t := &Trip{Name: name, ID: id, Activities: []Activity{}, Countries: []CountryInfo{}}
	if c, ok := iso.LookupByName(DefaultCountryName); ok {
		t.Countries = append(t.Countries, CountryInfo{
			ID:       countryID(c.Name),
			Name:     c.Name,
			Alpha2:   c.Alpha2,
			Currency: c.Currency,
		})
	}
	return t
}

// Apply folds one command into the snapshot. It never mutates its
// input: the second return is false and the snapshot is returned
// untouched when the command is a logical no-op, otherwise a fresh
// copy carries the change. Navigation and informational commands are
// always no-ops here.
func Apply(snap *Trip, cmd Command) (*Trip, bool) {
	switch c := cmd.(type) {
	case CreateTrip:
		return NewTrip(c.Name, snap.ID), true
	case AddActivity:
		return applyAdd(snap, c)
	case EditActivity:
		return applyEdit(snap, c)
	case DeleteActivity:
		return applyDelete(snap, c)
	case MoveDate:
		return applyMoveDate(snap, c)
	case InsertDay:
		return applyShiftDays(snap, c.After, 1)
	case RemoveDay:
		return applyShiftDays(snap, c.At, -1)
	case UpsertCountry:
		return ApplyUpsertCountry(snap, c)
	default:
		return snap, false
	}
}

func applyAdd(snap *Trip, c AddActivity) (*Trip, bool) {
	next := snap.Clone()
	a := Activity{UID: c.UID}
	mergeFields(&a, c.Fields)
	stampBookingDate(&a)
	next.Activities = append(next.Activities, a)
	return next, true
}

func applyEdit(snap *Trip, c EditActivity) (*Trip, bool) {
	i := snap.FindActivity(c.UID)
	if i < 0 {
		return snap, false
	}
	next := snap.Clone()
	a := &next.Activities[i]
	mergeFields(a, c.Fields)
	stampBookingDate(a)
	return next, true
}

func applyDelete(snap *Trip, c DeleteActivity) (*Trip, bool) {
	i := snap.FindActivity(c.UID)
	if i < 0 {
		return snap, false
	}
	next := snap.Clone()
	next.Activities = append(next.Activities[:i], next.Activities[i+1:]...)
	return next, true
}

func applyMoveDate(snap *Trip, c MoveDate) (*Trip, bool) {
	changed := false
	next := snap.Clone()
	for i := range next.Activities {
		if next.Activities[i].Date == c.From {
			next.Activities[i].Date = c.To
			changed = true
		}
	}
	if !changed {
		return snap, false
	}
	return next, true
}

// applyShiftDays moves every activity dated strictly after the pivot
// by the given number of calendar days.
func applyShiftDays(snap *Trip, pivot string, days int) (*Trip, bool) {
	pivotTime, err := time.Parse(DateLayout, pivot)
	if err != nil {
		return snap, false
	}
	changed := false
	next := snap.Clone()
	for i := range next.Activities {
		a := &next.Activities[i]
		if a.Date == "" {
			continue
		}
		d, err := time.Parse(DateLayout, a.Date)
		if err != nil {
			continue
		}
		if d.After(pivotTime) {
			a.Date = d.AddDate(0, 0, days).Format(DateLayout)
			changed = true
		}
	}
	if !changed {
		return snap, false
	}
	return next, true
}

// ApplyUpsertCountry resolves the target entry by id, then alpha-2
// code, then case-insensitive name. Identical entries are a no-op;
// differing ones are replaced in place; unmatched ones are appended.
// Missing codes are derived through the ISO lookup before matching.
func ApplyUpsertCountry(snap *Trip, c UpsertCountry) (*Trip, bool) {
	info := deriveCountry(c.Country)
	idx := -1
	for i, existing := range snap.Countries {
		switch {
		case info.ID != "" && existing.ID == info.ID:
			idx = i
		case info.Alpha2 != "" && existing.Alpha2 == info.Alpha2:
			idx = i
		case info.Name != "" && strings.EqualFold(existing.Name, info.Name):
			idx = i
		}
		if idx >= 0 {
			break
		}
	}
	if idx >= 0 {
		if snap.Countries[idx] == info {
			return snap, false
		}
		next := snap.Clone()
		next.Countries[idx] = info
		return next, true
	}
	next := snap.Clone()
	next.Countries = append(next.Countries, info)
	return next, true
}

func deriveCountry(info CountryInfo) CountryInfo {
	if info.Alpha2 == "" || info.Currency == "" || info.Name == "" {
		var row iso.Country
		var ok bool
		if info.Alpha2 != "" {
			row, ok = iso.LookupByAlpha2(info.Alpha2)
		} else if info.Name != "" {
			row, ok = iso.LookupByName(info.Name)
		}
		if ok {
			if info.Name == "" {
				info.Name = row.Name
			}
			if info.Alpha2 == "" {
				info.Alpha2 = row.Alpha2
			}
			if info.Currency == "" {
				info.Currency = row.Currency
			}
		}
	}
	if info.ID == "" && info.Name != "" {
		info.ID = countryID(info.Name)
	}
	return info
}

func countryID(name string) string {
	return "country" + strings.ReplaceAll(name, " ", "")
}

func mergeFields(a *Activity, fields map[string]string) {
	for k, v := range fields {
		switch strings.ToLower(k) {
		case "name":
			a.Name = v
		case "date":
			a.Date = v
		case "time":
			a.Time = v
		case "status":
			a.Status = strings.ToLower(v)
		case "price":
			// validated by the parser; a bad value here degrades to zero
			if d, err := decimal.NewFromString(v); err == nil {
				a.Price = d
			}
		case "currency":
			a.Currency = strings.ToUpper(v)
		case "bookingdate":
			a.BookingDate = v
		case "bookingref":
			a.BookingRef = v
		case "notes":
			a.Notes = v
		default:
			if a.Extra == nil {
				a.Extra = map[string]string{}
			}
			a.Extra[k] = v
		}
	}
}

// stampBookingDate fills the booking date the first time an activity
// sits in a committed status without one. An already-set booking date
// is never overwritten.
func stampBookingDate(a *Activity) {
	if a.BookingDate != "" {
		return
	}
	if a.Status == StatusBooked || a.Status == StatusCompleted {
		a.BookingDate = nowFunc().UTC().Format(DateLayout)
	}
}
