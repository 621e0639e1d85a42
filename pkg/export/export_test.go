package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/enginepool/core/ledger"
	"github.com/kilianp07/enginepool/core/schedule"
)

var sample = []schedule.Row{
	{Week: 1, Aircraft: "CC-BAA_AV", Motor: "CC-BAA", Cycles: 350},
	{Week: 1, Aircraft: "CC-BAB_AV", Motor: "LEASE-1-0", Leased: true, Cycles: 12.5},
	{Week: 2, Aircraft: "CC-BAB_AV", Motor: schedule.NoMotor},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != "week,aircraft,motor,is_leased,cycles" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[2] != "1,CC-BAB_AV,LEASE-1-0,True,12.5" {
		t.Fatalf("unexpected row %q", lines[2])
	}
}

func TestReadCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample))
	rows, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, sample, rows)
}

func TestReadCSVAcceptsNumericBool(t *testing.T) {
	in := "week,aircraft,motor,is_leased,cycles\n3,A_AV,M1,0,700.0\n3,B_AV,LEASE-3-0,1,0\n"
	rows, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.False(t, rows[0].Leased)
	assert.True(t, rows[1].Leased)
	assert.InDelta(t, 700.0, rows[0].Cycles, 1e-9)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	if !errors.Is(err, ErrBadHeader) {
		t.Fatalf("expected ErrBadHeader on empty input, got %v", err)
	}
	_, err = ReadCSV(strings.NewReader("week,tail,motor,is_leased,cycles\n"))
	if !errors.Is(err, ErrBadHeader) {
		t.Fatalf("expected ErrBadHeader, got %v", err)
	}
	_, err = ReadCSV(strings.NewReader("week,aircraft,motor,is_leased,cycles\nx,A,M,False,1\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line error, got %v", err)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.JSONEq(t, "[]", buf.String())

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, sample[:1]))
	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "CC-BAA", got[0]["motor"])
	assert.Equal(t, false, got[0]["is_leased"])
}

func TestWriteCostsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "costs.json")
	c := Costs{RunID: "r1", Weeks: 260, LeasedWeeks: 2, LeasePrice: 70000, Totals: map[string]float64{"lease": 140000},
		Weekly: []ledger.Entry{{Kind: ledger.KindLease, Week: 1, Amount: 140000}}}
	err := WriteFile(path, func(w io.Writer) error { return WriteCosts(w, c) })
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Costs
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Weekly, 1)
	assert.Equal(t, 1, got.Weekly[0].Week)

	csvPath := filepath.Join(t.TempDir(), "base_schedule.csv")
	require.NoError(t, WriteFile(csvPath, func(w io.Writer) error { return WriteCSV(w, sample) }))
	rows, err := ReadCSVFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, rows, len(sample))
}
