// Package parser turns one line of command text into a typed
// domain.Command. The journal stores these lines verbatim, so Parse
// and Command.Encode are inverses for every well-formed line.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/planloop/trip_planner_app/internal/apperrors"
	"github.com/planloop/trip_planner_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Parse converts a raw journal line into a command. Errors wrap
// apperrors.ErrParse and carry the offending text.
func Parse(rawLine string) (domain.Command, error) {
	line := strings.TrimSpace(rawLine)
	if line == "" {
		return nil, parseErr(rawLine, "empty command")
	}
	tokens, err := tokenize(line)
	if err != nil {
		return nil, parseErr(rawLine, err.Error())
	}
	verb := strings.ToLower(tokens[0])
	args := tokens[1:]

	switch domain.CommandKind(verb) {
	case domain.KindCreateTrip:
		name, err := singlePositional(args, "trip name")
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		return domain.CreateTrip{Name: name}, nil

	case domain.KindAddActivity:
		fields, err := keyValues(args)
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		uid, err := takeUID(fields)
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		if err := validateFields(fields); err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		return domain.AddActivity{UID: uid, Fields: fields}, nil

	case domain.KindEditActivity:
		fields, err := keyValues(args)
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		uid, err := takeUID(fields)
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		if len(fields) == 0 {
			return nil, parseErr(rawLine, "edit requires at least one field")
		}
		if err := validateFields(fields); err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		return domain.EditActivity{UID: uid, Fields: fields}, nil

	case domain.KindDeleteActivity:
		fields, err := keyValues(args)
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		uid, err := takeUID(fields)
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		if len(fields) != 0 {
			return nil, parseErr(rawLine, "delete takes only uid")
		}
		return domain.DeleteActivity{UID: uid}, nil

	case domain.KindMoveDate:
		fields, err := keyValues(args)
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		from, to := fields["from"], fields["to"]
		if err := requireDate("from", from); err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		if err := requireDate("to", to); err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		return domain.MoveDate{From: from, To: to}, nil

	case domain.KindInsertDay:
		fields, err := keyValues(args)
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		if err := requireDate("after", fields["after"]); err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		return domain.InsertDay{After: fields["after"]}, nil

	case domain.KindRemoveDay:
		fields, err := keyValues(args)
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		if err := requireDate("at", fields["at"]); err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		return domain.RemoveDay{At: fields["at"]}, nil

	case domain.KindUpsertCountry:
		fields, err := keyValues(args)
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		info := domain.CountryInfo{
			ID:       fields["id"],
			Name:     fields["name"],
			Alpha2:   strings.ToUpper(fields["alpha2"]),
			Currency: strings.ToUpper(fields["currency"]),
		}
		if info.ID == "" && info.Name == "" && info.Alpha2 == "" {
			return nil, parseErr(rawLine, "country requires id, name, or alpha2")
		}
		return domain.UpsertCountry{Country: info}, nil

	case domain.KindUndo:
		n, err := stepCount(args)
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		return domain.Undo{Steps: n}, nil

	case domain.KindRedo:
		n, err := stepCount(args)
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		return domain.Redo{Steps: n}, nil

	case domain.KindHelp:
		return domain.Help{}, nil

	case domain.KindSelectTrip:
		name, err := singlePositional(args, "trip name")
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		return domain.SelectTrip{Name: name}, nil

	case domain.KindSetPreference:
		fields, err := keyValues(args)
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		if len(fields) != 1 {
			return nil, parseErr(rawLine, "prefer takes exactly one key=value pair")
		}
		for k, v := range fields {
			return domain.SetPreference{Key: k, Value: v}, nil
		}

	case domain.KindSearch:
		if len(args) == 0 {
			return nil, parseErr(rawLine, "search requires a query")
		}
		return domain.Search{Query: strings.Join(args, " ")}, nil

	case domain.KindSetModel:
		name, err := singlePositional(args, "model name")
		if err != nil {
			return nil, parseErr(rawLine, err.Error())
		}
		return domain.SetModel{Name: name}, nil
	}
	return nil, parseErr(rawLine, "unknown command "+strconv.Quote(verb))
}

func parseErr(rawLine, msg string) error {
	return fmt.Errorf("%w: %s in %q", apperrors.ErrParse, msg, strings.TrimSpace(rawLine))
}

// tokenize splits on whitespace, honoring double-quoted segments.
// Quotes may wrap a whole token or just the value of a key=value pair.
func tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	escaped := false
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && inQuote:
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case (r == ' ' || r == '\t') && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	flush()
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return tokens, nil
}

func singlePositional(args []string, what string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", fmt.Errorf("expected exactly one %s", what)
	}
	return args[0], nil
}

func keyValues(args []string) (map[string]string, error) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		k = strings.ToLower(k)
		if _, dup := fields[k]; dup {
			return nil, fmt.Errorf("duplicate field %q", k)
		}
		fields[k] = v
	}
	return fields, nil
}

func takeUID(fields map[string]string) (string, error) {
	uid := fields["uid"]
	if uid == "" {
		return "", fmt.Errorf("uid is required")
	}
	delete(fields, "uid")
	return uid, nil
}

// validateFields rejects values that would not survive a replay:
// malformed dates and non-decimal prices.
func validateFields(fields map[string]string) error {
	for _, key := range []string{"date", "bookingdate"} {
		if v, ok := fields[key]; ok && v != "" {
			if _, err := time.Parse(domain.DateLayout, v); err != nil {
				return fmt.Errorf("field %s: invalid date %q", key, v)
			}
		}
	}
	if v, ok := fields["price"]; ok && v != "" {
		if _, err := decimal.NewFromString(v); err != nil {
			return fmt.Errorf("field price: invalid amount %q", v)
		}
	}
	return nil
}

// stepCount parses the optional count on undo/redo. Absent means 1.
// Zero, negative, and non-integer counts are rejected at parse time;
// overshooting counts are clamped later when the timeline is resolved.
func stepCount(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("expected at most one count")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", args[0])
	}
	if n < 1 {
		return 0, fmt.Errorf("count must be positive, got %d", n)
	}
	return n, nil
}

func requireDate(key, value string) error {
	if value == "" {
		return fmt.Errorf("field %s is required", key)
	}
	if _, err := time.Parse(domain.DateLayout, value); err != nil {
		return fmt.Errorf("field %s: invalid date %q", key, value)
	}
	return nil
}
