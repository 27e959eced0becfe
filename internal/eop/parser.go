package eop

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// finals2000A fixed-width columns (0-indexed, end exclusive).
const (
	colMJDStart  = 7
	colMJDEnd    = 15
	colPMFlag    = 16
	colXStart    = 18
	colXEnd      = 27
	colYStart    = 37
	colYEnd      = 46
	colUT1Flag   = 57
	colDUT1Start = 58
	colDUT1End   = 68
	colDXStart   = 97
	colDXEnd     = 106
	colDYStart   = 116
	colDYEnd     = 125
)

// Parse reads the finals2000A fixed-width format from r. Rows without polar
// motion or UT1-UTC (the far future end of the file) are skipped silently;
// rows whose fields do not parse are skipped with a warning log.
func Parse(r io.Reader, logger *slog.Logger) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if len(line) < colDUT1End || blank(line[colDUT1Start:colDUT1End]) {
			continue
		}

		e, err := parseRow(line)
		if err != nil {
			logger.Warn("skipping malformed EOP row", "line", lineNo, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading EOP data: %w", err)
	}

	return entries, nil
}

func parseRow(line string) (Entry, error) {
	var e Entry
	var err error

	if e.MJD, err = field(line, colMJDStart, colMJDEnd, "MJD"); err != nil {
		return e, err
	}
	if e.XP, err = field(line, colXStart, colXEnd, "PM-x"); err != nil {
		return e, err
	}
	if e.YP, err = field(line, colYStart, colYEnd, "PM-y"); err != nil {
		return e, err
	}
	if e.DUT1, err = field(line, colDUT1Start, colDUT1End, "UT1-UTC"); err != nil {
		return e, err
	}

	// Nutation offsets are missing from the newest predicted rows.
	if len(line) >= colDXEnd && !blank(line[colDXStart:colDXEnd]) {
		if e.DX, err = field(line, colDXStart, colDXEnd, "dX"); err != nil {
			return e, err
		}
	}
	if len(line) >= colDYEnd && !blank(line[colDYStart:colDYEnd]) {
		if e.DY, err = field(line, colDYStart, colDYEnd, "dY"); err != nil {
			return e, err
		}
	}

	e.Predicted = line[colPMFlag] == 'P' || line[colUT1Flag] == 'P'
	return e, nil
}

func field(line string, start, end int, name string) (float64, error) {
	s := strings.TrimSpace(line[start:end])
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return v, nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
