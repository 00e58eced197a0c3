// awy/airac.go
// Copyright(c) 2025 awyc contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package awy

import (
	"fmt"
	"math"
	"time"
)

// AIRAC cycles are 28 days long, 13 per year; cycle 2501 became effective
// on 2025-01-23 and everything else is computed relative to that anchor.
var airacReference = time.Date(2025, 1, 23, 0, 0, 0, 0, time.UTC)

const airacReferenceCycle = 2501

// CycleForDate returns the AIRAC cycle in effect at the given time, in the
// YYNN form used in navigation data version lines (e.g. "2504").
func CycleForDate(t time.Time) string {
	// Floor throughout so that times before the anchor land in the
	// preceding cycle rather than rounding toward it.
	days := int(math.Floor(t.Sub(airacReference).Hours() / 24))
	cycles := int(math.Floor(float64(days) / 28))

	cycle := airacReferenceCycle + cycles
	year := cycle / 100
	seq := cycle % 100
	if seq <= 0 {
		year--
		seq += 13
	} else if seq > 13 {
		year++
		seq -= 13
	}

	return fmt.Sprintf("%02d%02d", year, seq)
}

// CurrentCycle returns the AIRAC cycle in effect right now.
func CurrentCycle() string {
	return CycleForDate(time.Now().UTC())
}
