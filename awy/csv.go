// awy/csv.go
// Copyright(c) 2025 awyc contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package awy

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// The route segment CSV must carry exactly these header names
// (case-sensitive); extra columns are tolerated and ignored.
var requiredCSVColumns = []string{
	"CODE_POINT_START",
	"CODE_TYPE_START",
	"CODE_POINT_END",
	"CODE_TYPE_END",
	"CODE_DIR",
	"TXT_DESIG",
}

// ReadRouteSegments parses the route segment CSV. A missing or renamed
// header column is a configuration problem and fails the whole read; a bad
// row (wrong column count, empty required field) is reported through
// onBadRow with its 1-based data row number and skipped. The direction
// code "X" is normalized to "N" here, at decode time, so that everything
// downstream sees the vocabulary the output format uses.
func ReadRouteSegments(r io.Reader, onBadRow func(row int, err error)) ([]RouteSegment, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoRouteSegments
	} else if err != nil {
		return nil, fmt.Errorf("error parsing CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, h := range header {
		colIndex[strings.TrimSpace(h)] = i
	}
	indices := make([]int, len(requiredCSVColumns))
	for i, name := range requiredCSVColumns {
		idx, ok := colIndex[name]
		if !ok {
			return nil, fmt.Errorf("%s: %w", name, ErrMissingCSVColumn)
		}
		indices[i] = idx
	}

	var segs []RouteSegment
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			return segs, nil
		} else if err != nil {
			onBadRow(row, err)
			continue
		}

		fields := make([]string, len(indices))
		ok := true
		for i, idx := range indices {
			if idx >= len(record) {
				onBadRow(row, fmt.Errorf("row has %d columns, need %d", len(record), idx+1))
				ok = false
				break
			}
			fields[i] = strings.TrimSpace(record[idx])
			if fields[i] == "" {
				onBadRow(row, fmt.Errorf("%s: required field is empty", requiredCSVColumns[i]))
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		seg := RouteSegment{
			Row:        row,
			Start:      fields[0],
			StartType:  fields[1],
			End:        fields[2],
			EndType:    fields[3],
			Direction:  fields[4],
			Designator: fields[5],
		}
		if seg.Direction == "X" {
			seg.Direction = "N"
		}
		segs = append(segs, seg)
	}
}
