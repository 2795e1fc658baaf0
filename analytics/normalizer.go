package analytics

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ChristinaBak/Oasa/models"
)

// timestampLayouts are tried in order for textual date_hour values.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

// Normalize turns raw rows into canonical records.
// Rows whose timestamp cannot be parsed are dropped without being reported.
func Normalize(table models.RawTable) []models.Record {
	records := make([]models.Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		ts, ok := ParseTimestamp(row.DateHour)
		if !ok {
			continue
		}
		records = append(records, newRecord(ts, row))
	}
	return records
}

func newRecord(ts time.Time, row models.RawRow) models.Record {
	return models.Record{
		Timestamp:   ts,
		Date:        time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location()),
		Hour:        ts.Hour(),
		DayOfWeek:   ts.Weekday().String(),
		IsWeekend:   isWeekend(ts.Weekday()),
		Stop:        cleanText(row.Stop),
		Agency:      cleanText(row.Agency),
		Validations: CoerceValidations(row.Validations),
	}
}

// isWeekend uses the Monday=0 convention: indexes 5 and 6 are the weekend.
func isWeekend(day time.Weekday) bool {
	mondayIndex := (int(day) + 6) % 7
	return mondayIndex >= 5
}

// ParseTimestamp parses a date_hour value and truncates it to the hour.
func ParseTimestamp(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return truncateToHour(v), true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return truncateToHour(*v), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return truncateToHour(t), true
			}
		}
	}
	return time.Time{}, false
}

func truncateToHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// CoerceValidations converts a raw count into a finite non-negative number.
// Missing, unparsable, negative and non-finite values all become 0.
func CoerceValidations(value interface{}) float64 {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsInf(f, 0) || !(f > 0) {
		return 0
	}
	return f
}

func cleanText(value interface{}) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(CoerceCategory(value))
}
