package analytics

import (
	"testing"
	"time"

	"github.com/ChristinaBak/Oasa/models"
)

func hourOf(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("bad fixture timestamp %q: %v", value, err)
	}
	return ts
}

func dayOf(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(models.DATE_LAYOUT, value)
	if err != nil {
		t.Fatalf("bad fixture date %q: %v", value, err)
	}
	return ts
}

func rawRow(dateHour, stop, agency string, validations interface{}) models.RawRow {
	return models.RawRow{DateHour: dateHour, Stop: stop, Agency: agency, Validations: validations}
}

// threeRecordSnapshot is the small reference data set:
// StopA on Monday 08:00 and 09:00, StopB on Tuesday 08:00.
func threeRecordSnapshot() *Snapshot {
	return NewSnapshot("fixture", 1, models.RawTable{
		HasStop:   true,
		HasAgency: true,
		Rows: []models.RawRow{
			rawRow("2024-01-01 08:00", "StopA", "OSY", 10),
			rawRow("2024-01-01 09:00", "StopA", "OSY", 5),
			rawRow("2024-01-02 08:00", "StopB", "STASY", 7),
		},
	})
}

// weekSnapshot spans Friday 2024-01-05 to Monday 2024-01-08 with a gap on Sunday.
func weekSnapshot() *Snapshot {
	return NewSnapshot("fixture", 2, models.RawTable{
		HasStop:   true,
		HasAgency: true,
		Rows: []models.RawRow{
			rawRow("2024-01-05 07:00", "StopA", "OSY", 4),
			rawRow("2024-01-05 07:00", "StopB", "OSY", 6),
			rawRow("2024-01-05 18:00", "StopC", "STASY", 1),
			rawRow("2024-01-06 10:00", "StopA", "OSY", 3),
			rawRow("2024-01-06 11:00", "StopB", "STASY", 2),
			rawRow("2024-01-08 07:00", "StopA", "OSY", 8),
			rawRow("2024-01-08 08:00", "StopC", "STASY", 9),
		},
	})
}
