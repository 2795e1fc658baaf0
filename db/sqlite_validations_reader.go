package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/ChristinaBak/Oasa/models"
	_ "modernc.org/sqlite"
)

// SQLiteValidationsReader loads the raw validation table from a SQLite file.
type SQLiteValidationsReader struct {
	path  string
	table string
}

func NewSQLiteValidationsReader(path, table string) *SQLiteValidationsReader {
	return &SQLiteValidationsReader{path: path, table: table}
}

// Read selects every row of the table; columns are matched to the source
// fields by case-insensitive name.
func (r *SQLiteValidationsReader) Read(ctx context.Context) (models.RawTable, error) {
	db, err := sql.Open("sqlite", r.path)
	if err != nil {
		return models.RawTable{}, fmt.Errorf("failed to open sqlite %q: %w", r.path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdentifier(r.table))
	if err != nil {
		return models.RawTable{}, fmt.Errorf("failed to query table %q: %w", r.table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return models.RawTable{}, fmt.Errorf("failed to read columns: %w", err)
	}
	index := map[string]int{}
	for i, name := range columns {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	for _, required := range []string{models.COLUMN_DATE_HOUR, models.COLUMN_VALIDATIONS} {
		if _, ok := index[required]; !ok {
			return models.RawTable{}, fmt.Errorf("table %q: required column missing: %s", r.table, required)
		}
	}
	stopIdx, hasStop := index[models.COLUMN_STOP]
	agencyIdx, hasAgency := index[models.COLUMN_AGENCY]

	table := models.RawTable{HasStop: hasStop, HasAgency: hasAgency}
	values := make([]interface{}, len(columns))
	targets := make([]interface{}, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(targets...); err != nil {
			return models.RawTable{}, fmt.Errorf("failed to scan row: %w", err)
		}
		row := models.RawRow{
			DateHour:    sqliteValue(values[index[models.COLUMN_DATE_HOUR]]),
			Validations: sqliteValue(values[index[models.COLUMN_VALIDATIONS]]),
		}
		if hasStop {
			row.Stop = sqliteValue(values[stopIdx])
		}
		if hasAgency {
			row.Agency = sqliteValue(values[agencyIdx])
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return models.RawTable{}, fmt.Errorf("failed to iterate rows: %w", err)
	}

	log.Printf("[SQLiteValidationsReader] Read %d rows from %s.%s", len(table.Rows), r.path, r.table)
	return table, nil
}

// sqliteValue copies driver byte slices, which are only valid until the next Scan.
func sqliteValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
