package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kilianp07/enginepool/core/model"
)

// Operator feed file names.
const (
	FeedCyclesNB = "Cycles_operations_NB.csv"
	FeedStatusNB = "Fleet_status_NB.csv"
	FeedCyclesWB = "Operations_cycles_WB.csv"
	FeedStatusWB = "Fleet_status_WB.csv"
)

// AircraftSuffix turns a registration into an aircraft id.
const AircraftSuffix = "_AV"

// ErrMissingRate is returned when a status row names a type without a
// cycles-per-day entry.
var ErrMissingRate = errors.New("no cycle rate for type")

// FeedError locates a problem in a feed file. Line is 1-based and counts the
// header.
type FeedError struct {
	File string
	Line int
	Err  error
}

func (e *FeedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *FeedError) Unwrap() error { return e.Err }

// FamilyFromCode keeps the leading alphanumeric run of a type code:
// "A320JJ" stays "A320JJ", "B767F-ABSA" becomes "B767F".
func FamilyFromCode(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	end := 0
	for end < len(c) && (c[end] >= 'A' && c[end] <= 'Z' || c[end] >= '0' && c[end] <= '9') {
		end++
	}
	if end == 0 {
		return c
	}
	return c[:end]
}

// LoadFeeds reads the four operator feeds in dir. Narrow-body tails come
// first, then wide-body, each in file order. Every tail gets one installed
// motor named after its registration.
func LoadFeeds(dir string) (*Fleet, error) {
	nbRates, err := readRates(filepath.Join(dir, FeedCyclesNB), "Aircraft", "Cycles per day", strings.TrimSpace)
	if err != nil {
		return nil, err
	}
	wbRates, err := readRates(filepath.Join(dir, FeedCyclesWB), "Aircraft", "Value", model.Normalize)
	if err != nil {
		return nil, err
	}
	f := &Fleet{}
	if err := readStatus(f, filepath.Join(dir, FeedStatusNB), "fleet_operator", model.NarrowBody, nbRates, strings.TrimSpace); err != nil {
		return nil, err
	}
	if err := readStatus(f, filepath.Join(dir, FeedStatusWB), "Operation", model.WideBody, wbRates, model.Normalize); err != nil {
		return nil, err
	}
	return f, nil
}

type table struct {
	path   string
	header map[string]int
	rows   [][]string
}

func (t *table) col(name string) (int, error) {
	i, ok := t.header[name]
	if !ok {
		return 0, &FeedError{File: t.path, Line: 1, Err: fmt.Errorf("missing column %q", name)}
	}
	return i, nil
}

func readTable(path string) (*table, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	defer fh.Close()
	r := csv.NewReader(fh)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &FeedError{File: path, Err: fmt.Errorf("empty file")}
		}
		return nil, &FeedError{File: path, Line: 1, Err: err}
	}
	t := &table{path: path, header: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.header[h] = i
	}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &FeedError{File: path, Line: len(t.rows) + 2, Err: err}
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// readRates maps a type key to cycles per week.
func readRates(path, keyCol, perDayCol string, key func(string) string) (map[string]float64, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	ki, err := t.col(keyCol)
	if err != nil {
		return nil, err
	}
	vi, err := t.col(perDayCol)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(t.rows))
	for n, rec := range t.rows {
		perDay, err := strconv.ParseFloat(field(rec, vi), 64)
		if err != nil {
			return nil, &FeedError{File: path, Line: n + 2, Err: fmt.Errorf("%s: %w", perDayCol, err)}
		}
		out[key(field(rec, ki))] = perDay * 7
	}
	return out, nil
}

func readStatus(f *Fleet, path, typeCol string, cat model.Category, rates map[string]float64, key func(string) string) error {
	t, err := readTable(path)
	if err != nil {
		return err
	}
	ti, err := t.col(typeCol)
	if err != nil {
		return err
	}
	mi, err := t.col("matricula")
	if err != nil {
		return err
	}
	ci, err := t.col("cycles")
	if err != nil {
		return err
	}
	for n, rec := range t.rows {
		line := n + 2
		code := field(rec, ti)
		reg := field(rec, mi)
		if reg == "" {
			return &FeedError{File: path, Line: line, Err: fmt.Errorf("empty matricula")}
		}
		rate, ok := rates[key(code)]
		if !ok {
			return &FeedError{File: path, Line: line, Err: fmt.Errorf("%w %q", ErrMissingRate, code)}
		}
		cycles, err := strconv.ParseFloat(field(rec, ci), 64)
		if err != nil {
			return &FeedError{File: path, Line: line, Err: fmt.Errorf("cycles: %w", err)}
		}
		family := FamilyFromCode(code)
		tail := reg + AircraftSuffix
		f.Aircraft = append(f.Aircraft, model.Aircraft{ID: tail, Family: family, Category: cat, CyclesPerWeek: rate})
		f.Motors = append(f.Motors, model.Motor{ID: reg, Family: family, Category: cat, Cycles: cycles, InstalledOn: tail})
	}
	return nil
}
