package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parser converts the date expressions accepted by --since/--until into
// absolute time.Time values.
type Parser struct {
	location *time.Location
}

// NewParser creates a new date parser for the given IANA timezone string.
// e.g. "Europe/London"
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

var relativeRe = regexp.MustCompile(`^(\d+)\s*(d|w|m|day|days|week|weeks|month|months)$`)

// Parse converts a date expression to the start of the day it names.
// Accepted forms: "today", "yesterday", absolute "2006-01-02", and
// relative shorthand counting back from baseTime ("7d", "2w", "3 months").
func (p *Parser) Parse(expr string, baseTime time.Time) (time.Time, error) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" {
		return time.Time{}, fmt.Errorf("empty date expression")
	}

	switch expr {
	case "today":
		return p.startOfDay(baseTime), nil
	case "yesterday":
		return p.startOfDay(baseTime.AddDate(0, 0, -1)), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", expr, p.location); err == nil {
		return t, nil
	}

	matches := relativeRe.FindStringSubmatch(expr)
	if matches == nil {
		return time.Time{}, fmt.Errorf("unrecognized date expression %q", expr)
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid amount in %q: %w", expr, err)
	}

	switch matches[2][0] {
	case 'd':
		return p.startOfDay(baseTime.AddDate(0, 0, -amount)), nil
	case 'w':
		return p.startOfDay(baseTime.AddDate(0, 0, -amount*7)), nil
	case 'm':
		return p.startOfDay(baseTime.AddDate(0, -amount, 0)), nil
	}

	return time.Time{}, fmt.Errorf("unknown time unit in %q", expr)
}

// startOfDay returns midnight at the start of the given day in the parser's timezone.
func (p *Parser) startOfDay(t time.Time) time.Time {
	t = t.In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.location)
}

// EndOfDay returns the last second of the day containing t, so an --until
// bound includes tasks created any time that day.
func (p *Parser) EndOfDay(t time.Time) time.Time {
	start := p.startOfDay(t)
	return start.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}
