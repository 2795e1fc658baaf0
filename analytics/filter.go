package analytics

import (
	"strings"

	"github.com/ChristinaBak/Oasa/models"
)

// FilterRecords returns the records satisfying every predicate of sel.
//
// Empty stop/agency sets do not restrict, and neither do they when the
// source has no such column. The input slice is never modified.
func FilterRecords(records []models.Record, fields models.FieldSet, sel models.Selection) models.FilteredView {
	var stops, agencies map[string]struct{}
	if fields.HasStop && len(sel.Stops) > 0 {
		stops = toSet(sel.Stops)
	}
	if fields.HasAgency && len(sel.Agencies) > 0 {
		agencies = toSet(sel.Agencies)
	}

	from, to := "", ""
	if !sel.DateFrom.IsZero() {
		from = sel.DateFrom.Format(models.DATE_LAYOUT)
	}
	if !sel.DateTo.IsZero() {
		to = sel.DateTo.Format(models.DATE_LAYOUT)
	}

	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if stops != nil {
			if _, ok := stops[r.Stop]; !ok {
				continue
			}
		}
		if agencies != nil {
			if _, ok := agencies[r.Agency]; !ok {
				continue
			}
		}
		if from != "" || to != "" {
			day := r.Date.Format(models.DATE_LAYOUT)
			if (from != "" && day < from) || (to != "" && day > to) {
				continue
			}
		}
		if r.Hour < sel.HourFrom || r.Hour > sel.HourTo {
			continue
		}
		if !matchesDayType(r, sel.DayType) {
			continue
		}
		out = append(out, r)
	}

	return models.FilteredView{Fields: fields, Records: out}
}

// Refilter applies sel to an already filtered view.
func Refilter(view models.FilteredView, sel models.Selection) models.FilteredView {
	return FilterRecords(view.Records, view.Fields, sel)
}

func matchesDayType(r models.Record, mode models.DayType) bool {
	switch mode {
	case models.DayTypeWeekendOnly:
		return r.IsWeekend
	case models.DayTypeWeekdaysOnly:
		return !r.IsWeekend
	default:
		return true
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.TrimSpace(v)] = struct{}{}
	}
	return set
}
