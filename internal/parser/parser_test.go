package parser_test

import (
	"testing"

	"github.com/planloop/trip_planner_app/internal/apperrors"
	"github.com/planloop/trip_planner_app/internal/core/domain"
	"github.com/planloop/trip_planner_app/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CreateTrip(t *testing.T) {
	cmd, err := parser.Parse(`create "spring in kyoto"`)

	require.NoError(t, err)
	assert.Equal(t, domain.CreateTrip{Name: "spring in kyoto"}, cmd)
}

func TestParse_AddActivity(t *testing.T) {
	cmd, err := parser.Parse(`add uid=a1 name="Fushimi Inari" date=2026-04-02 price=12.50 currency=jpy`)

	require.NoError(t, err)
	add, ok := cmd.(domain.AddActivity)
	require.True(t, ok)
	assert.Equal(t, "a1", add.UID)
	assert.Equal(t, "Fushimi Inari", add.Fields["name"])
	assert.Equal(t, "2026-04-02", add.Fields["date"])
	assert.Equal(t, "12.50", add.Fields["price"])
}

func TestParse_AddRequiresUID(t *testing.T) {
	_, err := parser.Parse(`add name=Temple`)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrParse)
}

func TestParse_EditRequiresAField(t *testing.T) {
	_, err := parser.Parse(`edit uid=a1`)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrParse)
}

func TestParse_DeleteTakesOnlyUID(t *testing.T) {
	cmd, err := parser.Parse(`delete uid=a1`)
	require.NoError(t, err)
	assert.Equal(t, domain.DeleteActivity{UID: "a1"}, cmd)

	_, err = parser.Parse(`delete uid=a1 name=x`)
	assert.ErrorIs(t, err, apperrors.ErrParse)
}

func TestParse_MoveDateValidatesBothDates(t *testing.T) {
	cmd, err := parser.Parse(`movedate from=2026-04-02 to=2026-04-05`)
	require.NoError(t, err)
	assert.Equal(t, domain.MoveDate{From: "2026-04-02", To: "2026-04-05"}, cmd)

	_, err = parser.Parse(`movedate from=2026-04-02`)
	assert.ErrorIs(t, err, apperrors.ErrParse)

	_, err = parser.Parse(`movedate from=notadate to=2026-04-05`)
	assert.ErrorIs(t, err, apperrors.ErrParse)
}

func TestParse_CalendarCommands(t *testing.T) {
	cmd, err := parser.Parse(`insertday after=2026-04-02`)
	require.NoError(t, err)
	assert.Equal(t, domain.InsertDay{After: "2026-04-02"}, cmd)

	cmd, err = parser.Parse(`removeday at=2026-04-03`)
	require.NoError(t, err)
	assert.Equal(t, domain.RemoveDay{At: "2026-04-03"}, cmd)
}

func TestParse_Country(t *testing.T) {
	cmd, err := parser.Parse(`country name=Japan alpha2=jp`)

	require.NoError(t, err)
	assert.Equal(t, domain.UpsertCountry{Country: domain.CountryInfo{Name: "Japan", Alpha2: "JP"}}, cmd)

	_, err = parser.Parse(`country currency=JPY`)
	assert.ErrorIs(t, err, apperrors.ErrParse)
}

func TestParse_UndoRedoCounts(t *testing.T) {
	cmd, err := parser.Parse(`undo`)
	require.NoError(t, err)
	assert.Equal(t, domain.Undo{Steps: 1}, cmd)

	cmd, err = parser.Parse(`redo 3`)
	require.NoError(t, err)
	assert.Equal(t, domain.Redo{Steps: 3}, cmd)

	for _, line := range []string{`undo 0`, `undo -2`, `undo 1.5`, `redo x`, `undo 1 2`} {
		_, err := parser.Parse(line)
		assert.ErrorIs(t, err, apperrors.ErrParse, "line %q", line)
	}
}

func TestParse_InvalidFieldValues(t *testing.T) {
	_, err := parser.Parse(`add uid=a1 date=2026-13-40`)
	assert.ErrorIs(t, err, apperrors.ErrParse)

	_, err = parser.Parse(`add uid=a1 price=abc`)
	assert.ErrorIs(t, err, apperrors.ErrParse)
}

func TestParse_DuplicateKeysRejected(t *testing.T) {
	_, err := parser.Parse(`add uid=a1 name=x name=y`)

	assert.ErrorIs(t, err, apperrors.ErrParse)
}

func TestParse_UnknownVerb(t *testing.T) {
	_, err := parser.Parse(`teleport uid=a1`)

	assert.ErrorIs(t, err, apperrors.ErrParse)
}

func TestParse_EmptyAndBlank(t *testing.T) {
	for _, line := range []string{"", "   ", "\t"} {
		_, err := parser.Parse(line)
		assert.ErrorIs(t, err, apperrors.ErrParse)
	}
}

func TestParse_UnterminatedQuote(t *testing.T) {
	_, err := parser.Parse(`create "half open`)

	assert.ErrorIs(t, err, apperrors.ErrParse)
}

func TestParse_EscapedQuoteInValue(t *testing.T) {
	cmd, err := parser.Parse(`add uid=a1 notes="dinner at \"Kikunoi\""`)

	require.NoError(t, err)
	add := cmd.(domain.AddActivity)
	assert.Equal(t, `dinner at "Kikunoi"`, add.Fields["notes"])
}

func TestParse_InformationalCommands(t *testing.T) {
	cmd, err := parser.Parse(`help`)
	require.NoError(t, err)
	assert.Equal(t, domain.Help{}, cmd)

	cmd, err = parser.Parse(`select kyoto`)
	require.NoError(t, err)
	assert.Equal(t, domain.SelectTrip{Name: "kyoto"}, cmd)

	cmd, err = parser.Parse(`prefer currency=JPY`)
	require.NoError(t, err)
	assert.Equal(t, domain.SetPreference{Key: "currency", Value: "JPY"}, cmd)

	cmd, err = parser.Parse(`search shrine food`)
	require.NoError(t, err)
	assert.Equal(t, domain.Search{Query: "shrine food"}, cmd)

	cmd, err = parser.Parse(`model gpt-4o-mini`)
	require.NoError(t, err)
	assert.Equal(t, domain.SetModel{Name: "gpt-4o-mini"}, cmd)
}

func TestParse_EncodeRoundTrip(t *testing.T) {
	lines := []string{
		`create kyoto`,
		`add uid=a1 date=2026-04-02 name="Fushimi Inari"`,
		`edit uid=a1 status=booked`,
		`delete uid=a1`,
		`movedate from=2026-04-02 to=2026-04-05`,
		`insertday after=2026-04-02`,
		`removeday at=2026-04-03`,
		`undo 2`,
		`redo 1`,
	}
	for _, line := range lines {
		cmd, err := parser.Parse(line)
		require.NoError(t, err, "line %q", line)

		reparsed, err := parser.Parse(cmd.Encode())
		require.NoError(t, err, "encoded %q", cmd.Encode())
		assert.Equal(t, cmd, reparsed, "line %q", line)
	}
}
