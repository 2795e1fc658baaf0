package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DayType restricts records by calendar weekday class.
type DayType int

const (
	DayTypeAll DayType = iota
	DayTypeWeekendOnly
	DayTypeWeekdaysOnly
)

const DAY_TYPE_CONFLICT_ADVISORY = "Both 'Only weekend' and 'Only weekdays' are selected. No day-type filter will be applied (All days)."

func (d DayType) String() string {
	switch d {
	case DayTypeWeekendOnly:
		return "weekend"
	case DayTypeWeekdaysOnly:
		return "weekdays"
	default:
		return "all"
	}
}

// ResolveDayType turns the two independent checkboxes into a single mode.
// Asking for both resolves to DayTypeAll and returns an advisory for the user.
func ResolveDayType(weekendOnly, weekdaysOnly bool) (DayType, string) {
	switch {
	case weekendOnly && weekdaysOnly:
		return DayTypeAll, DAY_TYPE_CONFLICT_ADVISORY
	case weekendOnly:
		return DayTypeWeekendOnly, ""
	case weekdaysOnly:
		return DayTypeWeekdaysOnly, ""
	default:
		return DayTypeAll, ""
	}
}

// Selection is the complete set of filter parameters for one recomputation.
//
// An empty Stops or Agencies set means "no restriction" on that dimension.
// A zero DateFrom/DateTo leaves that side of the date interval open.
// The hour interval is always applied, so use NewSelection for the full 0-23 span.
type Selection struct {
	Stops    []string  `json:"stops,omitempty"`
	Agencies []string  `json:"agencies,omitempty"`
	DateFrom time.Time `json:"date_from"`
	DateTo   time.Time `json:"date_to"`
	HourFrom int       `json:"hour_from"`
	HourTo   int       `json:"hour_to"`
	DayType  DayType   `json:"day_type"`
}

// NewSelection returns a selection matching every record.
func NewSelection() Selection {
	return Selection{HourFrom: 0, HourTo: 23, DayType: DayTypeAll}
}

// Canonical renders the selection as a stable string, independent of the
// order in which stops and agencies were given.
func (s Selection) Canonical() string {
	return fmt.Sprintf("stops=%s|agencies=%s|from=%s|to=%s|hours=%d-%d|days=%s",
		canonicalSet(s.Stops), canonicalSet(s.Agencies),
		formatBound(s.DateFrom), formatBound(s.DateTo),
		s.HourFrom, s.HourTo, s.DayType)
}

func canonicalSet(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return "*"
	}
	return t.Format(DATE_LAYOUT)
}

func (d DayType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DayType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "all", "":
		*d = DayTypeAll
	case "weekend":
		*d = DayTypeWeekendOnly
	case "weekdays":
		*d = DayTypeWeekdaysOnly
	default:
		return fmt.Errorf("unknown day type %q", string(text))
	}
	return nil
}
