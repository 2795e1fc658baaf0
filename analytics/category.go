package analytics

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/ChristinaBak/Oasa/models"
)

var (
	ErrUnknownGroupingKey  = errors.New("unknown grouping key")
	ErrGroupingNotAllowed  = errors.New("grouping key not allowed for view")
	ErrGroupingUnavailable = errors.New("grouping field not present in source")
)

// ResolveGroupingKey maps a user-facing label to the grouping key of a view.
// An empty label selects the view default.
func ResolveGroupingKey(view models.ViewKind, label string) (models.GroupingKey, error) {
	if label == "" {
		return view.DefaultKey(), nil
	}
	key, ok := models.ParseGroupingKey(label)
	if !ok || key == 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownGroupingKey, label)
	}
	if !view.Allows(key) {
		return 0, fmt.Errorf("%w: %s cannot be grouped by %s", ErrGroupingNotAllowed, view, key)
	}
	return key, nil
}

// Available reports whether the field behind key exists in the records.
func Available(key models.GroupingKey, fields models.FieldSet) bool {
	switch key {
	case models.GroupByStop:
		return fields.HasStop
	case models.GroupByHour, models.GroupByDayOfWeek:
		return true
	default:
		return false
	}
}

// Category returns the discrete, textual category of a record under key.
func Category(key models.GroupingKey, r models.Record) string {
	switch key {
	case models.GroupByStop:
		return r.Stop
	case models.GroupByHour:
		return CoerceCategory(r.Hour)
	case models.GroupByDayOfWeek:
		return r.DayOfWeek
	default:
		return ""
	}
}

// CoerceCategory projects numeric and boolean values to text so they group
// and color as discrete categories. Strings pass through unchanged.
func CoerceCategory(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(models.DATE_HOUR_LAYOUT)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

var weekdayOrder = map[string]int{
	"Monday": 0, "Tuesday": 1, "Wednesday": 2, "Thursday": 3,
	"Friday": 4, "Saturday": 5, "Sunday": 6,
}

// sortCategories orders categories the way the key reads naturally:
// hours numerically, weekdays Monday first, everything else lexicographically.
func sortCategories(key models.GroupingKey, categories []string) {
	switch key {
	case models.GroupByHour:
		sort.SliceStable(categories, func(i, j int) bool {
			a, errA := strconv.Atoi(categories[i])
			b, errB := strconv.Atoi(categories[j])
			if errA != nil || errB != nil {
				return categories[i] < categories[j]
			}
			return a < b
		})
	case models.GroupByDayOfWeek:
		sort.SliceStable(categories, func(i, j int) bool {
			a, okA := weekdayOrder[categories[i]]
			b, okB := weekdayOrder[categories[j]]
			if !okA || !okB {
				return categories[i] < categories[j]
			}
			return a < b
		})
	default:
		sort.Strings(categories)
	}
}
