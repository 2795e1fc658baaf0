package util

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ChristinaBak/Oasa/models"
	"github.com/xuri/excelize/v2"
)

var ErrMissingColumn = errors.New("required column missing")

// ReadValidationsFromXLSX loads the raw validation table from a workbook on disk.
// When sheet does not exist the first sheet of the workbook is used.
func ReadValidationsFromXLSX(filePath string, sheet string) (models.RawTable, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return models.RawTable{}, fmt.Errorf("failed to open workbook %q: %w", filePath, err)
	}
	defer f.Close()
	return readWorkbook(f, sheet)
}

// ReadValidationsFromXLSXBytes is ReadValidationsFromXLSX for a downloaded workbook.
func ReadValidationsFromXLSXBytes(data []byte, sheet string) (models.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return models.RawTable{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, sheet)
}

func readWorkbook(f *excelize.File, sheet string) (models.RawTable, error) {
	sheet = pickSheet(f.GetSheetList(), sheet)
	if sheet == "" {
		return models.RawTable{}, fmt.Errorf("workbook has no sheets")
	}

	// Raw values keep dates as excel serial numbers instead of the
	// locale-dependent display format.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return models.RawTable{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return models.RawTable{}, fmt.Errorf("sheet %q: %w: %s", sheet, ErrMissingColumn, models.COLUMN_DATE_HOUR)
	}
	return buildRawTable(rows[0], rows[1:], excelDateValue)
}

func pickSheet(sheets []string, wanted string) string {
	for _, name := range sheets {
		if name == wanted {
			return name
		}
	}
	if len(sheets) > 0 {
		return sheets[0]
	}
	return ""
}

// excelDateValue turns an excel serial number into a time; anything else is
// left as text for the normalizer.
func excelDateValue(cell string) interface{} {
	serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || serial <= 0 {
		return cell
	}
	ts, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return cell
	}
	return ts
}

// ReadValidationsFromCSV loads the raw validation table from a CSV file on disk.
func ReadValidationsFromCSV(filePath string) (models.RawTable, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return models.RawTable{}, fmt.Errorf("failed to open file %q: %w", filePath, err)
	}
	defer f.Close()
	return ReadValidationsFromCSVReader(f)
}

// ReadValidationsFromCSVReader parses CSV with a header row.
func ReadValidationsFromCSVReader(r io.Reader) (models.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return models.RawTable{}, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return models.RawTable{}, fmt.Errorf("csv: %w: %s", ErrMissingColumn, models.COLUMN_DATE_HOUR)
	}
	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return buildRawTable(header, rows[1:], func(cell string) interface{} { return cell })
}

// ReadValidationsFromJSON loads a JSON array of objects keyed by the source
// column names.
func ReadValidationsFromJSON(filePath string) (models.RawTable, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return models.RawTable{}, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	return ReadValidationsFromJSONBytes(data)
}

func ReadValidationsFromJSONBytes(data []byte) (models.RawTable, error) {
	var objects []map[string]interface{}
	if err := json.Unmarshal(data, &objects); err != nil {
		return models.RawTable{}, fmt.Errorf("failed to unmarshal validations: %w", err)
	}

	table := models.RawTable{}
	if len(objects) == 0 {
		return table, nil
	}
	for _, obj := range objects {
		row := models.RawRow{}
		for name, value := range obj {
			switch normalizeHeader(name) {
			case models.COLUMN_DATE_HOUR:
				row.DateHour = value
			case models.COLUMN_VALIDATIONS:
				row.Validations = value
			case models.COLUMN_STOP:
				row.Stop = value
				table.HasStop = true
			case models.COLUMN_AGENCY:
				row.Agency = value
				table.HasAgency = true
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// buildRawTable maps the header onto the known columns; extra columns are ignored.
func buildRawTable(header []string, rows [][]string, dateValue func(string) interface{}) (models.RawTable, error) {
	columns := map[string]int{}
	for i, name := range header {
		key := normalizeHeader(name)
		if _, seen := columns[key]; !seen {
			columns[key] = i
		}
	}
	for _, required := range []string{models.COLUMN_DATE_HOUR, models.COLUMN_VALIDATIONS} {
		if _, ok := columns[required]; !ok {
			return models.RawTable{}, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	stopIdx, hasStop := columns[models.COLUMN_STOP]
	agencyIdx, hasAgency := columns[models.COLUMN_AGENCY]

	table := models.RawTable{HasStop: hasStop, HasAgency: hasAgency, Rows: make([]models.RawRow, 0, len(rows))}
	for _, cells := range rows {
		if isBlank(cells) {
			continue
		}
		row := models.RawRow{
			DateHour:    dateValue(cellAt(cells, columns[models.COLUMN_DATE_HOUR])),
			Validations: cellAt(cells, columns[models.COLUMN_VALIDATIONS]),
		}
		if hasStop {
			row.Stop = cellAt(cells, stopIdx)
		}
		if hasAgency {
			row.Agency = cellAt(cells, agencyIdx)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// cellAt tolerates rows shortened by trailing empty cells.
func cellAt(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
