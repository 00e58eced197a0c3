// awy/compile.go
// Copyright(c) 2025 awyc contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package awy

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/xpnav/awyc/log"
	"github.com/xpnav/awyc/util"
)

// Config carries everything a compilation run needs. It is built once by
// the caller and treated as immutable; there is deliberately no ambient
// package-level configuration.
type Config struct {
	CSVPath    string
	FixPath    string
	NavPath    string
	OutputPath string

	// Segments with both endpoints in one of these regions are dropped,
	// both from the new CSV data and from an existing target being merged
	// into.
	ExcludedRegions []string

	// Overwrite forces fresh mode: an existing target file is replaced
	// outright instead of merged into.
	Overwrite bool

	// Cycle is the AIRAC cycle stamped into the output version line;
	// empty means the cycle currently in effect.
	Cycle string

	// Numeric fields written for newly compiled records. The target
	// format mandates these as constants for enroute airway segments;
	// records carried over from an existing target keep their own values.
	Level  int
	BaseFL int
	TopFL  int
}

// MakeConfig returns a Config with the platform's fixed numeric fields
// set to their published values.
func MakeConfig(csvPath, fixPath, navPath, outputPath string) Config {
	return Config{
		CSVPath:    csvPath,
		FixPath:    fixPath,
		NavPath:    navPath,
		OutputPath: outputPath,
		Level:      1,
		BaseFL:     0,
		TopFL:      600,
	}
}

func (c Config) Validate() error {
	for _, p := range []struct{ name, path string }{
		{"csv", c.CSVPath},
		{"fix", c.FixPath},
		{"nav", c.NavPath},
		{"output", c.OutputPath},
	} {
		if p.path == "" {
			return fmt.Errorf("%s: path not specified", p.name)
		}
	}
	if c.Level <= 0 {
		return fmt.Errorf("%d: invalid airway level class", c.Level)
	}
	if c.BaseFL < 0 || c.TopFL < c.BaseFL {
		return fmt.Errorf("%d-%d: invalid flight level range", c.BaseFL, c.TopFL)
	}
	return nil
}

// Stats reports what happened over a compilation run; every input record
// is accounted for in exactly one of the per-record counters.
type Stats struct {
	FixEntries    int
	NavaidEntries int

	Rows        int // data rows in the CSV
	Resolved    int
	Unresolved  int
	UnknownType int
	Malformed   int
	Filtered    int
	Duplicated  int

	ExistingKept      int
	ExistingFiltered  int
	ExistingMalformed int

	Written int
}

// Compile runs the full pass: build the reference index, read and resolve
// the route segment CSV, merge with the existing target if there is one,
// filter, order, and write the framed output. Per-record problems are
// collected and reported but never abort the run; the returned error is
// only non-nil for the fatal conditions (unreadable inputs, bad CSV
// header, unwritable target).
func Compile(cfg Config, lg *log.Logger) (Stats, error) {
	var stats Stats
	if err := cfg.Validate(); err != nil {
		return stats, err
	}

	idx, err := BuildReferenceIndex(cfg.FixPath, cfg.NavPath, lg)
	if err != nil {
		return stats, err
	}
	stats.FixEntries = len(idx.Fixes)
	stats.NavaidEntries = len(idx.Navaids)

	filter := MakeRegionFilter(cfg.ExcludedRegions)
	if len(cfg.ExcludedRegions) > 0 {
		lg.Infof("excluding regions %v", filter.Regions())
	}

	var diag util.ErrorLogger
	diag.Push(cfg.CSVPath)

	// Merge mode: parse the existing target and keep what survives the
	// region filter.
	var records []AirwayRecord
	if !cfg.Overwrite {
		f, err := os.Open(cfg.OutputPath)
		if err == nil {
			existing := parseExistingTarget(f, func(line int, text string) {
				stats.ExistingMalformed++
				lg.Warnf("%s:%d: unparseable airway record %q", cfg.OutputPath, line, text)
			})
			f.Close()

			kept := util.FilterSlice(existing, func(rec AirwayRecord) bool {
				return !filter.ShouldDrop(rec.StartRegion, rec.EndRegion)
			})
			records = append(records, kept...)
			stats.ExistingKept = len(kept)
			stats.ExistingFiltered = len(existing) - len(kept)
			lg.Infof("%s: merge mode, kept %d of %d existing records",
				cfg.OutputPath, stats.ExistingKept, stats.ExistingKept+stats.ExistingFiltered)
		} else if !errors.Is(err, os.ErrNotExist) {
			return stats, fmt.Errorf("%s: %w", cfg.OutputPath, err)
		}
	}

	cf, err := util.OpenDataFile(cfg.CSVPath)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", cfg.CSVPath, err)
	}
	segs, err := ReadRouteSegments(cf, func(row int, rowErr error) {
		stats.Malformed++
		diag.Push("row " + strconv.Itoa(row))
		diag.Error(rowErr)
		diag.Pop()
	})
	cf.Close()
	if err != nil {
		return stats, fmt.Errorf("%s: %w", cfg.CSVPath, err)
	}
	stats.Rows = len(segs) + stats.Malformed

	for _, seg := range segs {
		rec, err := idx.Resolve(seg)
		if err != nil {
			var unknown UnknownTypeClassError
			if errors.As(err, &unknown) {
				stats.UnknownType++
			} else {
				stats.Unresolved++
			}
			diag.Push("row " + strconv.Itoa(seg.Row))
			diag.ErrorString("%s: %v", seg.Designator, err)
			diag.Pop()
			continue
		}
		stats.Resolved++

		rec.Level, rec.BaseFL, rec.TopFL = cfg.Level, cfg.BaseFL, cfg.TopFL
		if filter.ShouldDrop(rec.StartRegion, rec.EndRegion) {
			stats.Filtered++
			continue
		}
		records = append(records, rec)
	}

	// The same segment may arrive both from the existing target and from
	// the CSV; keep a single copy.
	seen := make(map[string]interface{})
	var unique []AirwayRecord
	for _, rec := range records {
		key := FormatAirwayLine(rec)
		if _, ok := seen[key]; ok {
			stats.Duplicated++
			continue
		}
		seen[key] = nil
		unique = append(unique, rec)
	}

	// Sort so that the output is a pure function of record content, not
	// of arrival order.
	sort.Slice(unique, func(i, j int) bool { return lessAirwayRecord(unique[i], unique[j]) })

	cycle := cfg.Cycle
	if cycle == "" {
		cycle = CurrentCycle()
	}

	var buf bytes.Buffer
	buf.WriteString("I\n")
	fmt.Fprintf(&buf, "1100 Version - data cycle %s, metadata AwyXP1100. Generated by awyc.\n", cycle)
	buf.WriteString("\n")
	for _, line := range util.MapSlice(unique, FormatAirwayLine) {
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	buf.WriteString("99\n")

	if err := util.AtomicWriteFile(cfg.OutputPath, buf.Bytes()); err != nil {
		return stats, fmt.Errorf("%s: %w", cfg.OutputPath, err)
	}
	stats.Written = len(unique)

	diag.Pop()
	if diag.HaveErrors() {
		diag.PrintErrors(lg)
	}
	lg.Info("compilation finished",
		"rows", stats.Rows, "resolved", stats.Resolved, "unresolved", stats.Unresolved,
		"unknown_type", stats.UnknownType, "malformed", stats.Malformed,
		"filtered", stats.Filtered, "duplicated", stats.Duplicated,
		"existing_kept", stats.ExistingKept, "existing_filtered", stats.ExistingFiltered,
		"written", stats.Written)

	return stats, nil
}

// lessAirwayRecord orders output records: airway designator first (natural
// alphanumeric order, so Q2 before Q10), then start identifier, then end
// identifier. The formatted line is the final tie-break so that ordering
// is total over distinct records.
func lessAirwayRecord(a, b AirwayRecord) bool {
	if c := util.CompareNatural(a.Designator, b.Designator); c != 0 {
		return c < 0
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.End != b.End {
		return a.End < b.End
	}
	return FormatAirwayLine(a) < FormatAirwayLine(b)
}

// FormatAirwayLine serializes one record in the target platform's fixed
// column layout.
func FormatAirwayLine(r AirwayRecord) string {
	return fmt.Sprintf("%5s%3s%3d%6s%3s%3d%2s%2d%4d%4d %s",
		r.Start, r.StartRegion, r.StartCode,
		r.End, r.EndRegion, r.EndCode,
		r.Direction, r.Level, r.BaseFL, r.TopFL, r.Designator)
}

// ParseAirwayLine is the inverse of FormatAirwayLine, used when merging
// into an existing target file. The region codes come out of the line
// itself; they are not re-derived from the reference datasets.
func ParseAirwayLine(line string) (AirwayRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) != 11 {
		return AirwayRecord{}, false
	}

	// The numeric fields are non-negative by construction, so reject
	// anything that isn't a plain digit string.
	atoi := func(s string) (int, bool) {
		if !util.IsAllNumbers(s) {
			return 0, false
		}
		v, err := strconv.Atoi(s)
		return v, err == nil
	}

	var rec AirwayRecord
	var ok [5]bool
	rec.Start, rec.StartRegion = fields[0], fields[1]
	rec.StartCode, ok[0] = atoi(fields[2])
	rec.End, rec.EndRegion = fields[3], fields[4]
	rec.EndCode, ok[1] = atoi(fields[5])
	rec.Direction = fields[6]
	rec.Level, ok[2] = atoi(fields[7])
	rec.BaseFL, ok[3] = atoi(fields[8])
	rec.TopFL, ok[4] = atoi(fields[9])
	rec.Designator = fields[10]

	for _, k := range ok {
		if !k {
			return AirwayRecord{}, false
		}
	}
	return rec, true
}

// parseExistingTarget reads the body of an existing target file. Framing
// (the format marker, the version line, the blank line, and the "99"
// terminator) is regenerated at write time so it is simply skipped here;
// body lines that don't parse as airway records are reported through onBad.
func parseExistingTarget(r io.Reader, onBad func(line int, text string)) []AirwayRecord {
	var records []AirwayRecord

	sc := bufio.NewScanner(r)
	inHeader := true
	for lineno := 1; sc.Scan(); lineno++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line == "99" {
			continue
		}
		if inHeader {
			if rec, ok := ParseAirwayLine(line); ok {
				inHeader = false
				records = append(records, rec)
			}
			// Anything before the first record line is framing.
			continue
		}

		if rec, ok := ParseAirwayLine(line); ok {
			records = append(records, rec)
		} else {
			onBad(lineno, line)
		}
	}

	return records
}
