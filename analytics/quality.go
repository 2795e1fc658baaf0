package analytics

import (
	"time"

	"github.com/ChristinaBak/Oasa/models"
)

// MissingDays lists every calendar day between the earliest and latest record
// date that has no record at all, in ascending order.
func MissingDays(records []models.Record) []time.Time {
	if len(records) == 0 {
		return nil
	}

	present := make(map[string]struct{})
	first, last := records[0].Date, records[0].Date
	for _, r := range records {
		present[r.Date.Format(models.DATE_LAYOUT)] = struct{}{}
		if r.Date.Before(first) {
			first = r.Date
		}
		if r.Date.After(last) {
			last = r.Date
		}
	}

	var missing []time.Time
	// AddDate keeps calendar days stable across DST changes.
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if _, ok := present[day.Format(models.DATE_LAYOUT)]; !ok {
			missing = append(missing, day)
		}
	}
	return missing
}

// CoverageOf returns the earliest and latest timestamp of records.
func CoverageOf(records []models.Record) models.Coverage {
	if len(records) == 0 {
		return models.Coverage{}
	}
	coverage := models.Coverage{From: records[0].Timestamp, To: records[0].Timestamp}
	for _, r := range records[1:] {
		if r.Timestamp.Before(coverage.From) {
			coverage.From = r.Timestamp
		}
		if r.Timestamp.After(coverage.To) {
			coverage.To = r.Timestamp
		}
	}
	return coverage
}

// CheckQuality bundles coverage and missing days for the data-quality panel.
func CheckQuality(records []models.Record) models.DataQuality {
	quality := models.DataQuality{
		Coverage:    CoverageOf(records),
		MissingDays: []string{},
	}
	for _, day := range MissingDays(records) {
		quality.MissingDays = append(quality.MissingDays, day.Format(models.DATE_LAYOUT))
	}
	return quality
}
