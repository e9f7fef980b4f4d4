package dto

import "github.com/planloop/trip_planner_app/internal/core/domain"

// CreateTripRequest asks for a new trip journal.
type CreateTripRequest struct {
	Name string `json:"name" binding:"required,tripname"`
}

// CommandRequest submits one raw command line against a trip.
type CommandRequest struct {
	Line string `json:"line" binding:"required"`
}

// AddActivityRequest is the structured alternative to a raw add
// command; the server assigns the uid.
type AddActivityRequest struct {
	Name     string            `json:"name" binding:"required"`
	Date     string            `json:"date" binding:"omitempty,isodate"`
	Time     string            `json:"time"`
	Status   string            `json:"status"`
	Price    string            `json:"price"`
	Currency string            `json:"currency" binding:"omitempty,len=3,uppercase"`
	Notes    string            `json:"notes"`
	Extra    map[string]string `json:"extra"`
}

// Fields flattens the request into the command field bag.
func (r AddActivityRequest) Fields() map[string]string {
	fields := map[string]string{"name": r.Name}
	set := func(k, v string) {
		if v != "" {
			fields[k] = v
		}
	}
	set("date", r.Date)
	set("time", r.Time)
	set("status", r.Status)
	set("price", r.Price)
	set("currency", r.Currency)
	set("notes", r.Notes)
	for k, v := range r.Extra {
		fields[k] = v
	}
	return fields
}

// TripResponse is the rebuilt snapshot plus its derived day summaries.
type TripResponse struct {
	Name       string               `json:"name"`
	ID         string               `json:"id"`
	Activities []domain.Activity    `json:"activities"`
	Countries  []domain.CountryInfo `json:"countries"`
	Days       []domain.DaySummary  `json:"days"`
}

// ToTripResponse maps a snapshot to its API shape.
func ToTripResponse(trip *domain.Trip) TripResponse {
	return TripResponse{
		Name:       trip.Name,
		ID:         trip.ID,
		Activities: trip.Activities,
		Countries:  trip.Countries,
		Days:       trip.DaySummaries(),
	}
}

// JournalEntryResponse is one raw journal line for admin inspection.
type JournalEntryResponse struct {
	LineNumber int    `json:"lineNumber"`
	Line       string `json:"line"`
	Active     bool   `json:"active"`
}
