package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(t *testing.T, date string) {
	t.Helper()
	prev := nowFunc
	parsed, err := time.Parse(DateLayout, date)
	require.NoError(t, err)
	nowFunc = func() time.Time { return parsed }
	t.Cleanup(func() { nowFunc = prev })
}

func TestNewTrip_SeedsDefaultCountry(t *testing.T) {
	trip := NewTrip("kyoto", "trip-kyoto")

	assert.Equal(t, "kyoto", trip.Name)
	assert.Equal(t, "trip-kyoto", trip.ID)
	assert.Empty(t, trip.Activities)
	require.Len(t, trip.Countries, 1)
	assert.Equal(t, "United States", trip.Countries[0].Name)
	assert.Equal(t, "US", trip.Countries[0].Alpha2)
	assert.Equal(t, "USD", trip.Countries[0].Currency)
}

func TestApply_AddActivityMergesTypedFields(t *testing.T) {
	snap := NewTrip("kyoto", "trip-kyoto")

	next, changed := Apply(snap, AddActivity{UID: "a1", Fields: map[string]string{
		"name":     "Fushimi Inari",
		"date":     "2026-04-02",
		"time":     "09:00",
		"status":   "Planned",
		"price":    "12.50",
		"currency": "jpy",
		"vendor":   "klook",
	}})

	require.True(t, changed)
	require.Len(t, next.Activities, 1)
	a := next.Activities[0]
	assert.Equal(t, "a1", a.UID)
	assert.Equal(t, "Fushimi Inari", a.Name)
	assert.Equal(t, "2026-04-02", a.Date)
	assert.Equal(t, "planned", a.Status)
	assert.True(t, a.Price.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, "JPY", a.Currency)
	assert.Equal(t, "klook", a.Extra["vendor"])
	// input untouched
	assert.Empty(t, snap.Activities)
}

func TestApply_EditUnknownUIDIsNoop(t *testing.T) {
	snap := NewTrip("kyoto", "trip-kyoto")

	next, changed := Apply(snap, EditActivity{UID: "ghost", Fields: map[string]string{"name": "x"}})

	assert.False(t, changed)
	assert.Same(t, snap, next)
}

func TestApply_DeleteActivity(t *testing.T) {
	snap := NewTrip("kyoto", "trip-kyoto")
	snap, _ = Apply(snap, AddActivity{UID: "a1", Fields: map[string]string{"name": "one"}})
	snap, _ = Apply(snap, AddActivity{UID: "a2", Fields: map[string]string{"name": "two"}})

	next, changed := Apply(snap, DeleteActivity{UID: "a1"})

	require.True(t, changed)
	require.Len(t, next.Activities, 1)
	assert.Equal(t, "a2", next.Activities[0].UID)

	again, changed := Apply(next, DeleteActivity{UID: "a1"})
	assert.False(t, changed)
	assert.Same(t, next, again)
}

func TestApply_MoveDate(t *testing.T) {
	snap := NewTrip("kyoto", "trip-kyoto")
	snap, _ = Apply(snap, AddActivity{UID: "a1", Fields: map[string]string{"date": "2026-04-02"}})
	snap, _ = Apply(snap, AddActivity{UID: "a2", Fields: map[string]string{"date": "2026-04-02"}})
	snap, _ = Apply(snap, AddActivity{UID: "a3", Fields: map[string]string{"date": "2026-04-05"}})

	next, changed := Apply(snap, MoveDate{From: "2026-04-02", To: "2026-04-03"})

	require.True(t, changed)
	assert.Equal(t, "2026-04-03", next.Activities[0].Date)
	assert.Equal(t, "2026-04-03", next.Activities[1].Date)
	assert.Equal(t, "2026-04-05", next.Activities[2].Date)

	_, changed = Apply(next, MoveDate{From: "1999-01-01", To: "1999-01-02"})
	assert.False(t, changed)
}

func TestApply_InsertDayShiftsStrictlyLaterDays(t *testing.T) {
	snap := NewTrip("kyoto", "trip-kyoto")
	snap, _ = Apply(snap, AddActivity{UID: "a1", Fields: map[string]string{"date": "2026-04-02"}})
	snap, _ = Apply(snap, AddActivity{UID: "a2", Fields: map[string]string{"date": "2026-04-03"}})
	snap, _ = Apply(snap, AddActivity{UID: "a3", Fields: map[string]string{"date": "2026-04-30"}})

	next, changed := Apply(snap, InsertDay{After: "2026-04-02"})

	require.True(t, changed)
	assert.Equal(t, "2026-04-02", next.Activities[0].Date)
	assert.Equal(t, "2026-04-04", next.Activities[1].Date)
	assert.Equal(t, "2026-05-01", next.Activities[2].Date)
}

func TestApply_RemoveDayShiftsStrictlyLaterDaysBack(t *testing.T) {
	snap := NewTrip("kyoto", "trip-kyoto")
	snap, _ = Apply(snap, AddActivity{UID: "a1", Fields: map[string]string{"date": "2026-04-02"}})
	snap, _ = Apply(snap, AddActivity{UID: "a2", Fields: map[string]string{"date": "2026-04-04"}})

	next, changed := Apply(snap, RemoveDay{At: "2026-04-03"})

	require.True(t, changed)
	assert.Equal(t, "2026-04-02", next.Activities[0].Date)
	assert.Equal(t, "2026-04-03", next.Activities[1].Date)
}

func TestApply_InsertThenRemoveDayRoundTrips(t *testing.T) {
	snap := NewTrip("kyoto", "trip-kyoto")
	snap, _ = Apply(snap, AddActivity{UID: "a1", Fields: map[string]string{"date": "2026-04-02"}})
	snap, _ = Apply(snap, AddActivity{UID: "a2", Fields: map[string]string{"date": "2026-04-03"}})

	shifted, _ := Apply(snap, InsertDay{After: "2026-04-02"})
	restored, _ := Apply(shifted, RemoveDay{At: "2026-04-02"})

	assert.Equal(t, snap.Activities[0].Date, restored.Activities[0].Date)
	assert.Equal(t, snap.Activities[1].Date, restored.Activities[1].Date)
}

func TestApplyUpsertCountry_DerivesCodesFromName(t *testing.T) {
	snap := NewTrip("kyoto", "trip-kyoto")

	next, changed := Apply(snap, UpsertCountry{Country: CountryInfo{Name: "Japan"}})

	require.True(t, changed)
	require.Len(t, next.Countries, 2)
	jp := next.Countries[1]
	assert.Equal(t, "countryJapan", jp.ID)
	assert.Equal(t, "JP", jp.Alpha2)
	assert.Equal(t, "JPY", jp.Currency)
}

func TestApplyUpsertCountry_IdenticalIsNoop(t *testing.T) {
	snap := NewTrip("kyoto", "trip-kyoto")
	snap, _ = Apply(snap, UpsertCountry{Country: CountryInfo{Name: "Japan"}})

	next, changed := Apply(snap, UpsertCountry{Country: CountryInfo{Name: "japan"}})

	assert.False(t, changed)
	assert.Same(t, snap, next)
}

func TestApplyUpsertCountry_ReplacesDifferingEntry(t *testing.T) {
	snap := NewTrip("kyoto", "trip-kyoto")
	snap, _ = Apply(snap, UpsertCountry{Country: CountryInfo{Name: "Japan"}})

	next, changed := Apply(snap, UpsertCountry{Country: CountryInfo{Name: "Japan", Alpha2: "JP", Currency: "USD"}})

	require.True(t, changed)
	require.Len(t, next.Countries, 2)
	assert.Equal(t, "USD", next.Countries[1].Currency)
}

func TestStampBookingDate_OnCommittedStatus(t *testing.T) {
	fixedNow(t, "2026-03-15")
	snap := NewTrip("kyoto", "trip-kyoto")

	next, _ := Apply(snap, AddActivity{UID: "a1", Fields: map[string]string{
		"name":   "Ryokan",
		"status": "booked",
	}})

	assert.Equal(t, "2026-03-15", next.Activities[0].BookingDate)
}

func TestStampBookingDate_NeverOverwrites(t *testing.T) {
	fixedNow(t, "2026-03-15")
	snap := NewTrip("kyoto", "trip-kyoto")
	snap, _ = Apply(snap, AddActivity{UID: "a1", Fields: map[string]string{
		"status":      "booked",
		"bookingdate": "2026-01-01",
	}})

	assert.Equal(t, "2026-01-01", snap.Activities[0].BookingDate)

	next, _ := Apply(snap, EditActivity{UID: "a1", Fields: map[string]string{"status": "completed"}})
	assert.Equal(t, "2026-01-01", next.Activities[0].BookingDate)
}

func TestStampBookingDate_PlannedStaysEmpty(t *testing.T) {
	snap := NewTrip("kyoto", "trip-kyoto")

	next, _ := Apply(snap, AddActivity{UID: "a1", Fields: map[string]string{"status": "planned"}})

	assert.Empty(t, next.Activities[0].BookingDate)
}

func TestClone_IsDeep(t *testing.T) {
	snap := NewTrip("kyoto", "trip-kyoto")
	snap, _ = Apply(snap, AddActivity{UID: "a1", Fields: map[string]string{"vendor": "klook"}})

	clone := snap.Clone()
	clone.Activities[0].Extra["vendor"] = "changed"
	clone.Countries[0].Currency = "XXX"

	assert.Equal(t, "klook", snap.Activities[0].Extra["vendor"])
	assert.Equal(t, "USD", snap.Countries[0].Currency)
}

func TestDaySummaries_GroupsInCalendarOrder(t *testing.T) {
	snap := NewTrip("kyoto", "trip-kyoto")
	snap, _ = Apply(snap, AddActivity{UID: "a1", Fields: map[string]string{"date": "2026-04-03"}})
	snap, _ = Apply(snap, AddActivity{UID: "a2", Fields: map[string]string{"date": "2026-04-02"}})
	snap, _ = Apply(snap, AddActivity{UID: "a3", Fields: map[string]string{"date": "2026-04-02"}})
	snap, _ = Apply(snap, AddActivity{UID: "a4", Fields: map[string]string{"name": "undated"}})

	days := snap.DaySummaries()

	require.Len(t, days, 2)
	assert.Equal(t, "2026-04-02", days[0].Date)
	assert.Equal(t, []string{"a2", "a3"}, days[0].Activities)
	assert.Equal(t, "2026-04-03", days[1].Date)
	assert.Equal(t, []string{"a1"}, days[1].Activities)
}
