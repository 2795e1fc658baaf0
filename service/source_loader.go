package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ChristinaBak/Oasa/api"
	"github.com/ChristinaBak/Oasa/config"
	"github.com/ChristinaBak/Oasa/db"
	"github.com/ChristinaBak/Oasa/models"
	"github.com/ChristinaBak/Oasa/util"
)

var ErrUnsupportedSource = errors.New("unsupported source format")

type sourceFormat int

const (
	formatUnknown sourceFormat = iota
	formatXLSX
	formatCSV
	formatJSON
	formatSQLite
)

func formatOf(name string) sourceFormat {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return formatXLSX
	case ".csv":
		return formatCSV
	case ".json":
		return formatJSON
	case ".db", ".sqlite", ".sqlite3":
		return formatSQLite
	default:
		return formatUnknown
	}
}

func formatOfContentType(contentType string) sourceFormat {
	switch {
	case strings.Contains(contentType, "spreadsheetml"):
		return formatXLSX
	case strings.Contains(contentType, "csv"):
		return formatCSV
	case strings.Contains(contentType, "json"):
		return formatJSON
	default:
		return formatUnknown
	}
}

// SourceLoader reads the raw validation table from the configured location
// and remembers enough about the last read to skip unchanged sources.
type SourceLoader struct {
	location string
	sheet    string
	table    string
	client   *api.HTTPClient

	mu      sync.Mutex
	modTime time.Time
	etag    string
}

func NewSourceLoader(location string, source config.SourceConfig, client *api.HTTPClient) *SourceLoader {
	return &SourceLoader{
		location: location,
		sheet:    source.Sheet,
		table:    source.Table,
		client:   client,
	}
}

func (l *SourceLoader) Location() string {
	return l.location
}

// Load reads the source. Unless force is set, a local file whose
// modification time did not change, or a remote file answering 304, is
// reported as unchanged and no table is returned.
func (l *SourceLoader) Load(ctx context.Context, force bool) (models.RawTable, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if config.IsRemote(l.location) {
		return l.loadRemote(ctx, force)
	}
	return l.loadLocal(ctx, force)
}

func (l *SourceLoader) loadLocal(ctx context.Context, force bool) (models.RawTable, bool, error) {
	info, err := os.Stat(l.location)
	if err != nil {
		return models.RawTable{}, false, fmt.Errorf("failed to stat source %q: %w", l.location, err)
	}
	format := formatOf(l.location)
	// SQLite writes may sit in the WAL without touching the main file, so
	// databases are read on every call.
	if !force && format != formatSQLite && !l.modTime.IsZero() && info.ModTime().Equal(l.modTime) {
		return models.RawTable{}, false, nil
	}

	var table models.RawTable
	switch format {
	case formatXLSX:
		table, err = util.ReadValidationsFromXLSX(l.location, l.sheet)
	case formatCSV:
		table, err = util.ReadValidationsFromCSV(l.location)
	case formatJSON:
		table, err = util.ReadValidationsFromJSON(l.location)
	case formatSQLite:
		table, err = db.NewSQLiteValidationsReader(l.location, l.table).Read(ctx)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedSource, l.location)
	}
	if err != nil {
		return models.RawTable{}, false, err
	}

	l.modTime = info.ModTime()
	log.Printf("[SourceLoader] Loaded %d raw rows from %s", len(table.Rows), l.location)
	return table, true, nil
}

func (l *SourceLoader) loadRemote(ctx context.Context, force bool) (models.RawTable, bool, error) {
	if l.client == nil {
		return models.RawTable{}, false, fmt.Errorf("no http client configured for %s", l.location)
	}
	etag := l.etag
	if force {
		etag = ""
	}
	doc, err := l.client.Fetch(ctx, l.location, etag)
	if errors.Is(err, api.ErrNotModified) {
		return models.RawTable{}, false, nil
	}
	if err != nil {
		return models.RawTable{}, false, err
	}

	format := formatUnknown
	if u, parseErr := url.Parse(l.location); parseErr == nil {
		format = formatOf(u.Path)
	}
	if format == formatUnknown {
		format = formatOfContentType(doc.ContentType)
	}

	var table models.RawTable
	switch format {
	case formatXLSX:
		table, err = util.ReadValidationsFromXLSXBytes(doc.Body, l.sheet)
	case formatCSV:
		table, err = util.ReadValidationsFromCSVReader(bytes.NewReader(doc.Body))
	case formatJSON:
		table, err = util.ReadValidationsFromJSONBytes(doc.Body)
	default:
		err = fmt.Errorf("%w: %s (%s)", ErrUnsupportedSource, l.location, doc.ContentType)
	}
	if err != nil {
		return models.RawTable{}, false, err
	}

	l.etag = doc.ETag
	log.Printf("[SourceLoader] Downloaded %d raw rows from %s", len(table.Rows), l.location)
	return table, true, nil
}
