package models

import "time"

// Record is one normalized hourly validation count for a stop.
// Records are built once by the normalizer and never modified afterwards.
type Record struct {
	Timestamp   time.Time `json:"date_hour"`
	Date        time.Time `json:"date"`
	Hour        int       `json:"hour"`
	DayOfWeek   string    `json:"dow"`
	IsWeekend   bool      `json:"is_weekend"`
	Stop        string    `json:"dv_platenum_station"`
	Agency      string    `json:"dv_agency"`
	Validations float64   `json:"dv_validations"`
}

// FieldSet tells which optional source fields exist in a record collection.
type FieldSet struct {
	HasStop   bool `json:"has_stop"`
	HasAgency bool `json:"has_agency"`
}

// FilteredView is the subset of records matching a Selection.
type FilteredView struct {
	Fields  FieldSet
	Records []Record
}

// Empty reports the explicit no-data state.
func (v FilteredView) Empty() bool {
	return len(v.Records) == 0
}

func (v FilteredView) Len() int {
	return len(v.Records)
}
