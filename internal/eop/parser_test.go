package eop

import (
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// Rows in finals2000A layout: two final rows around the Vallado example
// epoch, one predicted row without nutation offsets and one future row
// carrying only the date.
const sampleSeries = ` 4 4 6 53101.00 I -0.140682 0.000087  0.333309 0.000092  I-0.4399619 0.0000069  1.4931 0.0052  I    -0.205    0.160    -0.136    0.160
 4 4 7 53102.00 I -0.142151 0.000087  0.334873 0.000092  I-0.4414612 0.0000069  1.4924 0.0052  I    -0.211    0.160    -0.140    0.160
261019 61332.00 P  0.215430 0.004562  0.301245 0.006781  P 0.0512345 0.0043210
27 4 1 61496.00
`

func TestParse(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleSeries), testLogger)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	first := entries[0]
	checks := []struct {
		name      string
		got, want float64
	}{
		{"MJD", first.MJD, 53101},
		{"XP", first.XP, -0.140682},
		{"YP", first.YP, 0.333309},
		{"DUT1", first.DUT1, -0.4399619},
		{"DX", first.DX, -0.205},
		{"DY", first.DY, -0.136},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-12 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if first.Predicted {
		t.Error("final row marked as predicted")
	}

	pred := entries[2]
	if !pred.Predicted {
		t.Error("predicted row not marked as predicted")
	}
	if pred.DX != 0 || pred.DY != 0 {
		t.Errorf("missing nutation offsets should read as zero, got dX=%v dY=%v", pred.DX, pred.DY)
	}
	if pred.DUT1 != 0.0512345 {
		t.Errorf("predicted DUT1 = %v, want 0.0512345", pred.DUT1)
	}
}

func TestParseSkipsMalformedRows(t *testing.T) {
	bad := strings.Replace(strings.SplitN(sampleSeries, "\n", 2)[0], "-0.140682", "-0.1x0682", 1)
	input := bad + "\n" + sampleSeries

	entries, err := Parse(strings.NewReader(input), testLogger)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected malformed row to be skipped, got %d entries", len(entries))
	}
}

func TestParseEmpty(t *testing.T) {
	entries, err := Parse(strings.NewReader("\n\n"), testLogger)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}
