// awy/compile_test.go
// Copyright(c) 2025 awyc contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package awy

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testFixData = `I
1101 Version - data cycle 2508, build 20250801, metadata FixXP1101.

 50.0  8.0 EDDF ENRT ED 1
 52.0 13.0 EDDT ENRT ED 1
 51.0 10.0 SUVOX ENRT ZB 1
 50.5 11.0 RASPU ENRT ZG 1
99
`

const testNavData = `I
1150 Version - data cycle 2508, build 20250801, metadata NavXP1150.

2 50.0 8.5 330 362 100 0.0 FFM ENRT ED FRANKFURT NDB
3 49.7 6.7 673 11150 130 0.0 FFM ENRT ED FRANKFURT VOR-DME
99
`

// testConfig writes the reference datasets and the given CSV into a
// temporary directory and returns a ready-to-run Config.
func testConfig(t *testing.T, csv string) Config {
	t.Helper()
	dir := t.TempDir()

	write := func(name, data string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	cfg := MakeConfig(
		write("RTE_SEG.csv", csv),
		write("earth_fix.dat", testFixData),
		write("earth_nav.dat", testNavData),
		filepath.Join(dir, "earth_awy.dat"))
	cfg.ExcludedRegions = []string{"ZB", "ZG"}
	cfg.Cycle = "2508"
	return cfg
}

func TestCompileFresh(t *testing.T) {
	csv := `CODE_POINT_START,CODE_TYPE_START,CODE_POINT_END,CODE_TYPE_END,CODE_DIR,TXT_DESIG
EDDT,DESIGNATED_POINT,EDDF,DESIGNATED_POINT,N,Q10
EDDF,DESIGNATED_POINT,EDDT,DESIGNATED_POINT,N,Q2
EDDF,DESIGNATED_POINT,FFM,VORDME,F,Q1
SUVOX,DESIGNATED_POINT,RASPU,DESIGNATED_POINT,N,Z9
SUVOX,DESIGNATED_POINT,EDDF,DESIGNATED_POINT,X,Z8
MISSX,DESIGNATED_POINT,EDDF,DESIGNATED_POINT,N,Z7
EDDF,TACAN,EDDT,DESIGNATED_POINT,N,Z6
`
	cfg := testConfig(t, csv)

	stats, err := Compile(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	if stats.Rows != 7 || stats.Resolved != 5 || stats.Unresolved != 1 ||
		stats.UnknownType != 1 || stats.Filtered != 1 || stats.Written != 4 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	b, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatal(err)
	}

	want := `I
1100 Version - data cycle 2508, metadata AwyXP1100. Generated by awyc.

 EDDF ED 11   FFM ED  3 F 1   0 600 Q1
 EDDF ED 11  EDDT ED 11 N 1   0 600 Q2
 EDDT ED 11  EDDF ED 11 N 1   0 600 Q10
SUVOX ZB 11  EDDF ED 11 N 1   0 600 Z8
99
`
	if string(b) != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", b, want)
	}
}

func TestCompileIdempotent(t *testing.T) {
	csv := `CODE_POINT_START,CODE_TYPE_START,CODE_POINT_END,CODE_TYPE_END,CODE_DIR,TXT_DESIG
EDDF,DESIGNATED_POINT,EDDT,DESIGNATED_POINT,N,Q2
EDDT,DESIGNATED_POINT,EDDF,DESIGNATED_POINT,N,Q10
`
	cfg := testConfig(t, csv)

	if _, err := Compile(cfg, nil); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatal(err)
	}

	// Second run merges into the file the first run produced; every CSV
	// record is now a duplicate of an existing one and the output must
	// come out byte-identical.
	stats, err := Compile(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("output changed between runs:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
	if stats.Duplicated != 2 || stats.ExistingKept != 2 || stats.Written != 2 {
		t.Errorf("unexpected merge stats: %+v", stats)
	}
}

func TestCompileMerge(t *testing.T) {
	csv := `CODE_POINT_START,CODE_TYPE_START,CODE_POINT_END,CODE_TYPE_END,CODE_DIR,TXT_DESIG
EDDF,DESIGNATED_POINT,EDDT,DESIGNATED_POINT,N,Q2
SUVOX,DESIGNATED_POINT,RASPU,DESIGNATED_POINT,N,Z9
`
	cfg := testConfig(t, csv)

	existing := `I
1100 Version - data cycle 2507, metadata AwyXP1100. Generated by awyc.

 EDDF ED 11  EDDT ED 11 N 1   0 600 Q2
SUVOX ZB 11 RASPU ZG 11 N 1   0 600 Z9
ABCDE LF 11 FGHIJ LF 11 N 1 180 450 OLD1
99
`
	if err := os.WriteFile(cfg.OutputPath, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	stats, err := Compile(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	if stats.ExistingKept != 2 || stats.ExistingFiltered != 1 {
		t.Errorf("unexpected existing-record stats: %+v", stats)
	}
	// Q2 arrives both from the existing file and from the CSV but must
	// appear exactly once; Z9 is filtered on both paths.
	if stats.Duplicated != 1 || stats.Filtered != 1 || stats.Written != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	b, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)

	if got := strings.Count(out, "Q2"); got != 1 {
		t.Errorf("Q2 appears %d times, want 1:\n%s", got, out)
	}
	if strings.Contains(out, "Z9") {
		t.Errorf("filtered segment Z9 still present:\n%s", out)
	}
	// Records carried over keep their own flight levels.
	if !strings.Contains(out, "ABCDE LF 11 FGHIJ LF 11 N 1 180 450 OLD1") {
		t.Errorf("retained record was rewritten:\n%s", out)
	}
}

func TestCompileOverwrite(t *testing.T) {
	csv := `CODE_POINT_START,CODE_TYPE_START,CODE_POINT_END,CODE_TYPE_END,CODE_DIR,TXT_DESIG
EDDF,DESIGNATED_POINT,EDDT,DESIGNATED_POINT,N,Q2
`
	cfg := testConfig(t, csv)
	cfg.Overwrite = true

	existing := "I\n1100 Version\n\nABCDE LF 11 FGHIJ LF 11 N 1 180 450 OLD1\n99\n"
	if err := os.WriteFile(cfg.OutputPath, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	stats, err := Compile(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.ExistingKept != 0 || stats.Written != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	b, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "OLD1") {
		t.Errorf("overwrite mode kept existing records:\n%s", b)
	}
}

func TestCompileEmptyOutput(t *testing.T) {
	// Header and terminator are mandatory even with zero records.
	csv := "CODE_POINT_START,CODE_TYPE_START,CODE_POINT_END,CODE_TYPE_END,CODE_DIR,TXT_DESIG\n"
	cfg := testConfig(t, csv)

	stats, err := Compile(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Written != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	b, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "I\n1100 Version - data cycle 2508, metadata AwyXP1100. Generated by awyc.\n\n99\n"
	if string(b) != want {
		t.Errorf("got:\n%q\nwant:\n%q", b, want)
	}
}

func TestCompileMissingCSV(t *testing.T) {
	cfg := testConfig(t, "x\n")
	cfg.CSVPath = filepath.Join(t.TempDir(), "missing.csv")
	if _, err := Compile(cfg, nil); err == nil {
		t.Error("expected a fatal error for a missing CSV")
	}
}

func TestFormatParseAirwayLine(t *testing.T) {
	rec := AirwayRecord{
		Start: "EDDF", StartRegion: "ED", StartCode: 11,
		End: "FFM", EndRegion: "ED", EndCode: 3,
		Direction: "F", Level: 1, BaseFL: 0, TopFL: 600, Designator: "Q1",
	}

	line := FormatAirwayLine(rec)
	if line != " EDDF ED 11   FFM ED  3 F 1   0 600 Q1" {
		t.Errorf("unexpected line %q", line)
	}

	got, ok := ParseAirwayLine(line)
	if !ok {
		t.Fatalf("%q: failed to parse", line)
	}
	if got != rec {
		t.Errorf("round trip: got %+v, want %+v", got, rec)
	}

	for _, bad := range []string{"", "99", "I", "1100 Version - data cycle 2508, metadata AwyXP1100.",
		" EDDF ED xx   FFM ED  3 F 1   0 600 Q1"} {
		if _, ok := ParseAirwayLine(bad); ok {
			t.Errorf("%q: parsed as an airway record", bad)
		}
	}
}

func TestParseExistingTargetMalformed(t *testing.T) {
	in := `I
1100 Version - data cycle 2507.

 EDDF ED 11  EDDT ED 11 N 1   0 600 Q2
this is not an airway record
99
`
	var bad []string
	recs := parseExistingTarget(strings.NewReader(in), func(line int, text string) {
		bad = append(bad, text)
	})
	if len(recs) != 1 {
		t.Errorf("got %d records, want 1", len(recs))
	}
	if len(bad) != 1 || bad[0] != "this is not an airway record" {
		t.Errorf("malformed lines: %v", bad)
	}
}
