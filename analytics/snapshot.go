package analytics

import (
	"sort"
	"time"

	"github.com/ChristinaBak/Oasa/models"
	"github.com/google/uuid"
)

// Snapshot is the normalized record set loaded from one source.
// It is immutable after NewSnapshot and safe to share between goroutines.
// Version counts loads within one process; ID is unique across processes.
type Snapshot struct {
	Records  []models.Record
	Fields   models.FieldSet
	ID       string
	Version  uint64
	Source   string
	LoadedAt time.Time

	quality models.DataQuality
	stops   []string
	agency  []string
}

// NewSnapshot normalizes table and precomputes the selection-independent views.
func NewSnapshot(source string, version uint64, table models.RawTable) *Snapshot {
	records := Normalize(table)
	s := &Snapshot{
		Records:  records,
		Fields:   models.FieldSet{HasStop: table.HasStop, HasAgency: table.HasAgency},
		ID:       uuid.NewString(),
		Version:  version,
		Source:   source,
		LoadedAt: time.Now(),
		quality:  CheckQuality(records),
	}
	if s.Fields.HasStop {
		s.stops = distinct(records, func(r models.Record) string { return r.Stop })
	}
	if s.Fields.HasAgency {
		s.agency = distinct(records, func(r models.Record) string { return r.Agency })
	}
	return s
}

func (s *Snapshot) Len() int {
	return len(s.Records)
}

// Filter applies sel to the snapshot records.
func (s *Snapshot) Filter(sel models.Selection) models.FilteredView {
	return FilterRecords(s.Records, s.Fields, sel)
}

// All returns the unfiltered view.
func (s *Snapshot) All() models.FilteredView {
	return models.FilteredView{Fields: s.Fields, Records: s.Records}
}

// DataQuality is computed from the unfiltered records only.
func (s *Snapshot) DataQuality() models.DataQuality {
	return s.quality
}

func (s *Snapshot) Coverage() models.Coverage {
	return s.quality.Coverage
}

// Options returns the filter choices and the default selection: the first
// stop, every agency, the full date span and all hours.
func (s *Snapshot) Options() models.FilterOptions {
	defaults := models.NewSelection()
	if len(s.stops) > 0 {
		defaults.Stops = []string{s.stops[0]}
	}
	defaults.Agencies = append([]string(nil), s.agency...)
	coverage := s.Coverage()
	if !coverage.Empty() {
		defaults.DateFrom = dateOf(coverage.From)
		defaults.DateTo = dateOf(coverage.To)
	}

	options := models.FilterOptions{
		Stops:            append([]string{}, s.stops...),
		Agencies:         append([]string{}, s.agency...),
		Coverage:         coverage,
		Defaults:         defaults,
		GroupingChoices:  make(map[string][]models.GroupingKey),
		GroupingDefaults: make(map[string]models.GroupingKey),
	}
	for _, view := range []models.ViewKind{models.ViewTrend, models.ViewTopFive, models.ViewHourly} {
		var keys []models.GroupingKey
		for _, key := range view.AllowedKeys() {
			if Available(key, s.Fields) {
				keys = append(keys, key)
			}
		}
		options.GroupingChoices[view.String()] = keys
		def := view.DefaultKey()
		if !Available(def, s.Fields) && len(keys) > 0 {
			def = keys[0]
		}
		options.GroupingDefaults[view.String()] = def
	}
	return options
}

func distinct(records []models.Record, field func(models.Record) string) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, r := range records {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
