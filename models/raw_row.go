package models

// Source column names as they appear in the ridership spreadsheet header.
const (
	COLUMN_DATE_HOUR   = "date_hour"
	COLUMN_VALIDATIONS = "dv_validations"
	COLUMN_STOP        = "dv_platenum_station"
	COLUMN_AGENCY      = "dv_agency"
)

// RawRow is one untyped row handed over by a source reader.
// Fields keep whatever the reader produced (string, time.Time, numbers or nil).
type RawRow struct {
	DateHour    interface{}
	Validations interface{}
	Stop        interface{}
	Agency      interface{}
}

// RawTable is the tabular structure produced by a source reader.
// HasStop / HasAgency report whether the optional columns were present at all.
type RawTable struct {
	HasStop   bool
	HasAgency bool
	Rows      []RawRow
}
