package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Date layout used everywhere an activity carries a calendar date.
const DateLayout = "2006-01-02"

// Activity statuses that count as committed. Entering one of these
// stamps the booking date if none was supplied.
const (
	StatusBooked    = "booked"
	StatusCompleted = "completed"
)

// DefaultCountryName seeds the country list of every new trip.
const DefaultCountryName = "United States"

// Activity is one itinerary entry. Well-known fields are typed;
// anything else a command supplies lands in Extra.
type Activity struct {
	UID         string            `json:"uid"`
	Name        string            `json:"name,omitempty"`
	Date        string            `json:"date,omitempty"`
	Time        string            `json:"time,omitempty"`
	Status      string            `json:"status,omitempty"`
	Price       decimal.Decimal   `json:"price,omitempty"`
	Currency    string            `json:"currency,omitempty"`
	BookingDate string            `json:"bookingDate,omitempty"`
	BookingRef  string            `json:"bookingRef,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// CountryInfo is one entry of a trip's country list. Entries are
// logically keyed by ID, alpha-2 code, or case-insensitive name; the
// same logical country never appears twice.
type CountryInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Alpha2   string `json:"alpha2,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// Trip is the document snapshot produced by replaying a journal.
// It is never persisted; callers rebuild it on every read.
type Trip struct {
	Name       string        `json:"name"`
	ID         string        `json:"id"`
	Activities []Activity    `json:"activities"`
	Countries  []CountryInfo `json:"countries"`
}

// FindActivity returns the index of the activity with the given uid,
// or -1 when absent.
func (t *Trip) FindActivity(uid string) int {
	for i := range t.Activities {
		if t.Activities[i].UID == uid {
			return i
		}
	}
	return -1
}

// Clone deep-copies the snapshot so the reducer never mutates its input.
func (t *Trip) Clone() *Trip {
	next := &Trip{Name: t.Name, ID: t.ID}
	next.Activities = make([]Activity, len(t.Activities))
	for i, a := range t.Activities {
		next.Activities[i] = a
		if a.Extra != nil {
			extra := make(map[string]string, len(a.Extra))
			for k, v := range a.Extra {
				extra[k] = v
			}
			next.Activities[i].Extra = extra
		}
	}
	next.Countries = make([]CountryInfo, len(t.Countries))
	copy(next.Countries, t.Countries)
	return next
}

// DaySummary groups the activities that fall on one calendar date.
type DaySummary struct {
	Date       string   `json:"date"`
	Activities []string `json:"activities"` // uids, in snapshot order
}

// DaySummaries derives per-day groupings from the snapshot. Activities
// without a date are omitted. Days come back in calendar order.
func (t *Trip) DaySummaries() []DaySummary {
	byDate := map[string][]string{}
	for _, a := range t.Activities {
		if a.Date == "" {
			continue
		}
		byDate[a.Date] = append(byDate[a.Date], a.UID)
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	summaries := make([]DaySummary, len(dates))
	for i, d := range dates {
		summaries[i] = DaySummary{Date: d, Activities: byDate[d]}
	}
	return summaries
}

// ShiftDate applies a calendar-aware day offset to an ISO date string.
// It returns the input unchanged when it does not parse as a date.
func ShiftDate(date string, days int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(DateLayout)
}
