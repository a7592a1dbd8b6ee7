/*
codec.go - Import and export serialization

PURPOSE:
  Reads logbooks from JSON and from two semicolon CSV dialects, and writes
  the JSON and CSV export files. The CSV header row decides the dialect:

    Datum;Kommen;Gehen;...   the log's own export format, one row per day
    Datum;Uhrzeit;Typ        an external punch-clock export, one row per
                             punch, paired into days

  Internal-CSV rows carry a saldo column but it is display-only: the saldo
  is recomputed from the times on import so a hand-edited file cannot
  smuggle in a wrong balance. External punch rows without both a Kommen and
  a Gehen punch are dropped.
*/
package logbook

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jojo252511/arbeitszeit/flextime"
)

var (
	// ErrUnrecognizedFormat is returned when neither the JSON parser nor a
	// known CSV header matches the input.
	ErrUnrecognizedFormat = errors.New("unrecognized logbook format")

	// ErrParse wraps row-level decode failures.
	ErrParse = errors.New("logbook parse error")
)

// csvHeaderInternal and csvHeaderExternal are the recognized first-row
// prefixes, compared case-insensitively.
const (
	csvHeaderInternal = "datum;kommen;gehen"
	csvHeaderExternal = "datum;uhrzeit;typ"
)

// ExportFile is a ready-to-serve export artifact.
type ExportFile struct {
	Name string
	MIME string
	Data []byte
}

// =============================================================================
// IMPORT
// =============================================================================

// ParseImport decodes a logbook from uploaded content. JSON is tried
// first; otherwise the CSV header row selects the dialect. targetHours is
// the nominal daily target applied to rows that do not carry their own.
func ParseImport(content []byte, cfg flextime.PolicyConfig, targetHours decimal.Decimal) ([]DayRecord, error) {
	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return nil, ErrUnrecognizedFormat
	}

	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		return parseJSON([]byte(trimmed))
	}

	firstLine := trimmed
	if i := strings.IndexByte(firstLine, '\n'); i >= 0 {
		firstLine = firstLine[:i]
	}
	header := strings.ToLower(strings.TrimSpace(firstLine))

	switch {
	case strings.HasPrefix(header, csvHeaderInternal):
		return parseInternalCSV(trimmed, cfg, targetHours)
	case strings.HasPrefix(header, csvHeaderExternal):
		return parseExternalCSV(trimmed, cfg, targetHours)
	default:
		return nil, ErrUnrecognizedFormat
	}
}

func parseJSON(content []byte) ([]DayRecord, error) {
	var records []DayRecord
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	for i, r := range records {
		if r.ID == 0 {
			return nil, fmt.Errorf("%w: record %d has no day id", ErrParse, i)
		}
	}
	return records, nil
}

// parseDisplayDate reads the "24.12.2025" display format.
func parseDisplayDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("02.01.2006", strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrParse, s)
	}
	return t, nil
}

func newCSVReader(content string) *csv.Reader {
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r
}

// parseInternalCSV reads the log's own export format. The saldo column is
// ignored and recomputed; sick and vacation days are forced to zero.
func parseInternalCSV(content string, cfg flextime.PolicyConfig, targetHours decimal.Decimal) ([]DayRecord, error) {
	r := newCSVReader(content)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var records []DayRecord
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("%w: row %d has %d columns, want at least 3", ErrParse, i+1, len(row))
		}
		day, err := parseDisplayDate(row[0])
		if err != nil {
			// Malformed dates skip the row rather than abort the import.
			continue
		}

		label := LabelWork
		if len(row) >= 5 && strings.TrimSpace(row[4]) != "" {
			label = DayLabel(strings.TrimSpace(row[4]))
			if !label.Valid() {
				return nil, fmt.Errorf("%w: row %d has unknown day type %q", ErrParse, i+1, row[4])
			}
		}

		if !label.IsWorkDay() {
			records = append(records, NewDayRecord(day, label, targetHours))
			continue
		}

		arrival, err := flextime.ParseClock(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrParse, i+1, err)
		}
		leaving, err := flextime.ParseClock(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrParse, i+1, err)
		}

		worked := int(leaving) - int(arrival) - cfg.BreakMinutes()
		saldo := worked - flextime.HoursToMinutes(targetHours)
		records = append(records, NewWorkRecord(day, arrival, leaving, targetHours, saldo))
	}
	return records, nil
}

// externalPunch is one row of the punch-clock dialect before pairing.
type externalPunch struct {
	day  time.Time
	at   flextime.Minutes
	kind string // "kommen" or "gehen"
}

// parseExternalCSV reads punch-pair rows and folds them into day records.
// Days missing either punch are dropped.
func parseExternalCSV(content string, cfg flextime.PolicyConfig, targetHours decimal.Decimal) ([]DayRecord, error) {
	r := newCSVReader(content)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	type punches struct {
		day              time.Time
		arrival, leaving flextime.Minutes
		hasIn, hasOut    bool
	}
	byDay := make(map[int64]*punches)
	var order []int64

	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("%w: row %d has %d columns, want 3", ErrParse, i+1, len(row))
		}
		day, err := parseDisplayDate(row[0])
		if err != nil {
			continue
		}
		at, err := flextime.ParseClock(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrParse, i+1, err)
		}

		id := DayID(day)
		p, ok := byDay[id]
		if !ok {
			p = &punches{day: day}
			byDay[id] = p
			order = append(order, id)
		}
		switch strings.ToLower(strings.TrimSpace(row[2])) {
		case "kommen":
			p.arrival, p.hasIn = at, true
		case "gehen":
			p.leaving, p.hasOut = at, true
		default:
			return nil, fmt.Errorf("%w: row %d has unknown punch type %q", ErrParse, i+1, row[2])
		}
	}

	var records []DayRecord
	for _, id := range order {
		p := byDay[id]
		if !p.hasIn || !p.hasOut {
			continue
		}
		worked := int(p.leaving) - int(p.arrival) - cfg.BreakMinutes()
		saldo := worked - flextime.HoursToMinutes(targetHours)
		records = append(records, NewWorkRecord(p.day, p.arrival, p.leaving, targetHours, saldo))
	}
	return records, nil
}

// =============================================================================
// EXPORT
// =============================================================================

// ToJSON serializes the log for export, oldest day first.
func ToJSON(records []DayRecord) (ExportFile, error) {
	sorted := append([]DayRecord(nil), records...)
	SortAscending(sorted)
	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return ExportFile{}, err
	}
	return ExportFile{
		Name: exportName("json"),
		MIME: "application/json",
		Data: data,
	}, nil
}

// ToCSV serializes the log in the internal CSV dialect, oldest day first.
// The saldo column carries the human-readable signed duration and is always
// double-quoted, exactly as the log files have always been written. Rows are
// assembled by hand because encoding/csv only quotes when it has to.
func ToCSV(records []DayRecord) (ExportFile, error) {
	sorted := append([]DayRecord(nil), records...)
	SortAscending(sorted)

	var b strings.Builder
	b.WriteString("Datum;Kommen;Gehen;Tagessaldo;Typ\n")
	for _, r := range sorted {
		saldo := signedSaldo(r.DailySaldoMinutes)
		label := r.Label
		if label == "" {
			label = LabelWork
		}
		fmt.Fprintf(&b, "%s;%s;%s;\"%s\";%s\n", r.Date, r.Arrival, r.Leaving, saldo, label)
	}
	return ExportFile{
		Name: exportName("csv"),
		MIME: "text/csv;charset=utf-8",
		Data: []byte(b.String()),
	}, nil
}

func exportName(ext string) string {
	return fmt.Sprintf("arbeitszeit-logbuch-%s.%s", time.Now().Format("2006-01-02"), ext)
}
