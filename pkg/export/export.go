// Package export writes schedules and cost summaries in the formats consumed
// by downstream tooling: the base_schedule.csv table and plain JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/kilianp07/enginepool/core/ledger"
	"github.com/kilianp07/enginepool/core/schedule"
)

// Header is the column layout of base_schedule.csv.
var Header = []string{"week", "aircraft", "motor", "is_leased", "cycles"}

// ErrBadHeader is returned by ReadCSV when the first record is not Header.
var ErrBadHeader = errors.New("unexpected schedule header")

// WriteJSON writes the schedule to w as a JSON array.
func WriteJSON(w io.Writer, rows []schedule.Row) error {
	if rows == nil {
		rows = []schedule.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteCSV writes the schedule to w with the base_schedule.csv header.
// Booleans are written as True/False.
func WriteCSV(w io.Writer, rows []schedule.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Week),
			r.Aircraft,
			r.Motor,
			formatBool(r.Leased),
			strconv.FormatFloat(r.Cycles, 'f', 1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a schedule written by WriteCSV. is_leased accepts the
// Go and Python spellings of booleans as well as 0/1.
func ReadCSV(r io.Reader) ([]schedule.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrBadHeader
		}
		return nil, err
	}
	for i, h := range Header {
		if head[i] != h {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i+1, head[i], h)
		}
	}
	var rows []schedule.Row
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		line++
		if err != nil {
			return nil, err
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
}

func parseRow(rec []string) (schedule.Row, error) {
	week, err := strconv.Atoi(rec[0])
	if err != nil {
		return schedule.Row{}, fmt.Errorf("week: %w", err)
	}
	leased, err := strconv.ParseBool(rec[3])
	if err != nil {
		return schedule.Row{}, fmt.Errorf("is_leased: %w", err)
	}
	cycles, err := strconv.ParseFloat(rec[4], 64)
	if err != nil {
		return schedule.Row{}, fmt.Errorf("cycles: %w", err)
	}
	return schedule.Row{Week: week, Aircraft: rec[1], Motor: rec[2], Leased: leased, Cycles: cycles}, nil
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// Costs is the cost summary document.
type Costs struct {
	RunID       string             `json:"run_id,omitempty"`
	Weeks       int                `json:"weeks"`
	LeasedWeeks int                `json:"leased_weeks"`
	LeasePrice  float64            `json:"lease_price"`
	Totals      map[string]float64 `json:"totals"`
	// Weekly lists the lease charges per week; weeks without a lease are left out.
	Weekly []ledger.Entry `json:"weekly,omitempty"`
}

// WriteCosts writes the cost summary to w.
func WriteCosts(w io.Writer, c Costs) error {
	if c.Totals == nil {
		c.Totals = map[string]float64{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string) ([]schedule.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// WriteFile creates path and hands it to write.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
