package models

import (
	"fmt"
	"strings"
)

// GroupingKey is the discrete dimension used to partition a filtered view.
// The zero value means "not chosen"; views fall back to their default key.
type GroupingKey int

const (
	GroupByStop GroupingKey = iota + 1
	GroupByHour
	GroupByDayOfWeek
)

// AllGroupingKeys lists the keys in presentation order.
var AllGroupingKeys = []GroupingKey{GroupByStop, GroupByHour, GroupByDayOfWeek}

// Label is the human-facing name shown in the dashboard controls.
func (k GroupingKey) Label() string {
	switch k {
	case GroupByStop:
		return "Stop"
	case GroupByHour:
		return "Hour"
	case GroupByDayOfWeek:
		return "Day of week"
	default:
		return ""
	}
}

// Field is the source/record field backing the key.
func (k GroupingKey) Field() string {
	switch k {
	case GroupByStop:
		return COLUMN_STOP
	case GroupByHour:
		return "hour"
	case GroupByDayOfWeek:
		return "dow"
	default:
		return ""
	}
}

func (k GroupingKey) String() string {
	switch k {
	case GroupByStop:
		return "stop"
	case GroupByHour:
		return "hour"
	case GroupByDayOfWeek:
		return "day_of_week"
	default:
		return "none"
	}
}

func (k GroupingKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *GroupingKey) UnmarshalText(text []byte) error {
	parsed, ok := ParseGroupingKey(string(text))
	if !ok {
		return fmt.Errorf("unknown grouping key %q", string(text))
	}
	*k = parsed
	return nil
}

// ParseGroupingKey accepts a label ("Day of week"), a field name ("dow")
// or a short name ("day_of_week"), case-insensitively.
func ParseGroupingKey(name string) (GroupingKey, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, k := range AllGroupingKeys {
		if needle == strings.ToLower(k.Label()) || needle == k.Field() || needle == k.String() {
			return k, true
		}
	}
	if needle == "none" {
		return 0, true
	}
	return 0, false
}

// ViewKind identifies a derived view whose grouping key is user selectable.
type ViewKind int

const (
	ViewTrend ViewKind = iota
	ViewTopFive
	ViewHourly
)

func (v ViewKind) String() string {
	switch v {
	case ViewTrend:
		return "trend"
	case ViewTopFive:
		return "top5"
	case ViewHourly:
		return "hourly"
	default:
		return "unknown"
	}
}

// AllowedKeys returns the grouping keys the view can be colored by.
func (v ViewKind) AllowedKeys() []GroupingKey {
	if v == ViewHourly {
		return []GroupingKey{GroupByStop, GroupByDayOfWeek}
	}
	return AllGroupingKeys
}

// DefaultKey is the key preselected in the dashboard controls.
func (v ViewKind) DefaultKey() GroupingKey {
	if v == ViewTopFive {
		return GroupByStop
	}
	return GroupByDayOfWeek
}

func (v ViewKind) Allows(k GroupingKey) bool {
	for _, allowed := range v.AllowedKeys() {
		if allowed == k {
			return true
		}
	}
	return false
}
