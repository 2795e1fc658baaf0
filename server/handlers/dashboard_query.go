package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ChristinaBak/Oasa/analytics"
	"github.com/ChristinaBak/Oasa/models"
	"github.com/go-playground/validator/v10"
)

const (
	STOPS_QUERY_ARG         = "stops"
	AGENCIES_QUERY_ARG      = "agencies"
	FROM_QUERY_ARG          = "from"
	TO_QUERY_ARG            = "to"
	HOUR_FROM_QUERY_ARG     = "hour_from"
	HOUR_TO_QUERY_ARG       = "hour_to"
	WEEKEND_ONLY_QUERY_ARG  = "weekend_only"
	WEEKDAYS_ONLY_QUERY_ARG = "weekdays_only"
	TREND_BY_QUERY_ARG      = "trend_by"
	TOP5_BY_QUERY_ARG       = "top5_by"
	HOURLY_BY_QUERY_ARG     = "hourly_by"
)

var validate = validator.New()

// dashboardArgs mirrors the query string before it becomes a DashboardQuery.
type dashboardArgs struct {
	Stops        []string
	Agencies     []string
	DateFrom     time.Time
	DateTo       time.Time
	HourFrom     int `validate:"min=0,max=23"`
	HourTo       int `validate:"min=0,max=23"`
	WeekendOnly  bool
	WeekdaysOnly bool
}

// argError carries the name of the offending query argument.
type argError struct {
	arg string
	err error
}

func (e *argError) Error() string {
	return fmt.Sprintf("invalid argument %s: %v", e.arg, e.err)
}

func (e *argError) Unwrap() error {
	return e.err
}

// ParseDashboardQuery builds the query of a dashboard request. Absent
// arguments select everything, and absent grouping keys use view defaults.
func ParseDashboardQuery(vals url.Values) (models.DashboardQuery, error) {
	args := dashboardArgs{
		Stops:    parseList(vals, STOPS_QUERY_ARG),
		Agencies: parseList(vals, AGENCIES_QUERY_ARG),
		HourTo:   23,
	}

	var err error
	if args.DateFrom, err = parseDate(vals, FROM_QUERY_ARG); err != nil {
		return models.DashboardQuery{}, err
	}
	if args.DateTo, err = parseDate(vals, TO_QUERY_ARG); err != nil {
		return models.DashboardQuery{}, err
	}
	if args.HourFrom, err = parseInt(vals, HOUR_FROM_QUERY_ARG, 0); err != nil {
		return models.DashboardQuery{}, err
	}
	if args.HourTo, err = parseInt(vals, HOUR_TO_QUERY_ARG, 23); err != nil {
		return models.DashboardQuery{}, err
	}
	if args.WeekendOnly, err = parseBool(vals, WEEKEND_ONLY_QUERY_ARG); err != nil {
		return models.DashboardQuery{}, err
	}
	if args.WeekdaysOnly, err = parseBool(vals, WEEKDAYS_ONLY_QUERY_ARG); err != nil {
		return models.DashboardQuery{}, err
	}

	if err := validate.Struct(args); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return models.DashboardQuery{}, &argError{arg: queryArgOf(verrs[0].StructField()), err: err}
		}
		return models.DashboardQuery{}, err
	}

	dayType, advisory := models.ResolveDayType(args.WeekendOnly, args.WeekdaysOnly)
	query := models.DashboardQuery{
		Selection: models.Selection{
			Stops:    args.Stops,
			Agencies: args.Agencies,
			DateFrom: args.DateFrom,
			DateTo:   args.DateTo,
			HourFrom: args.HourFrom,
			HourTo:   args.HourTo,
			DayType:  dayType,
		},
		Advisory: advisory,
	}

	if query.TrendBy, err = parseGroupingKey(vals, TREND_BY_QUERY_ARG, models.ViewTrend); err != nil {
		return models.DashboardQuery{}, err
	}
	if query.TopFiveBy, err = parseGroupingKey(vals, TOP5_BY_QUERY_ARG, models.ViewTopFive); err != nil {
		return models.DashboardQuery{}, err
	}
	if query.HourlyBy, err = parseGroupingKey(vals, HOURLY_BY_QUERY_ARG, models.ViewHourly); err != nil {
		return models.DashboardQuery{}, err
	}
	return query, nil
}

// parseList accepts both repeated and comma-separated values.
func parseList(vals url.Values, name string) []string {
	var out []string
	for _, raw := range vals[name] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseDate(vals url.Values, name string) (time.Time, error) {
	s := strings.TrimSpace(vals.Get(name))
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DATE_LAYOUT, s)
	if err != nil {
		return time.Time{}, &argError{arg: name, err: err}
	}
	return t, nil
}

func parseInt(vals url.Values, name string, fallback int) (int, error) {
	s := strings.TrimSpace(vals.Get(name))
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &argError{arg: name, err: err}
	}
	return v, nil
}

func parseBool(vals url.Values, name string) (bool, error) {
	s := strings.TrimSpace(vals.Get(name))
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, &argError{arg: name, err: err}
	}
	return v, nil
}

func parseGroupingKey(vals url.Values, name string, view models.ViewKind) (models.GroupingKey, error) {
	key, err := analytics.ResolveGroupingKey(view, vals.Get(name))
	if err != nil {
		return 0, &argError{arg: name, err: err}
	}
	return key, nil
}

func queryArgOf(field string) string {
	switch field {
	case "HourFrom":
		return HOUR_FROM_QUERY_ARG
	case "HourTo":
		return HOUR_TO_QUERY_ARG
	default:
		return field
	}
}
