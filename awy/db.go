// awy/db.go
// Copyright(c) 2025 awyc contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package awy

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/xpnav/awyc/log"
	"github.com/xpnav/awyc/util"
)

// ReferenceIndex holds the identifier -> region code lookup tables built
// from the X-Plane earth_fix.dat and earth_nav.dat reference datasets. It
// is built once at startup and read-only afterwards.
type ReferenceIndex struct {
	Fixes   map[string]string
	Navaids map[string]string
}

// Column positions of the identifier, enroute marker, and region code in
// the two reference dataset layouts. earth_fix records are
// "lat lon ident terminal_area region ..."; earth_nav records are
// "type lat lon elev freq range bearing ident terminal_area region ...".
const (
	fixIdentCol  = 2
	fixAreaCol   = 3
	fixRegionCol = 4

	navIdentCol  = 7
	navAreaCol   = 8
	navRegionCol = 9
)

// Only enroute entries carry the region codes we're after; terminal-area
// fixes and navaids are tagged with their airport instead.
const enrouteArea = "ENRT"

// BuildReferenceIndex loads the two reference datasets from the given
// paths. The two files are independent so they are parsed concurrently.
// A dataset that can't be opened or parsed yields an empty table with a
// warning; only both tables coming up empty is an error, since then no
// segment could ever resolve.
func BuildReferenceIndex(fixPath, navPath string, lg *log.Logger) (*ReferenceIndex, error) {
	idx := &ReferenceIndex{}

	load := func(path string, identCol, areaCol, regionCol int) map[string]string {
		r, err := util.OpenDataFile(path)
		if err != nil {
			lg.Warnf("%s: %v", path, err)
			return nil
		}
		defer r.Close()
		return parseReferenceData(r, identCol, areaCol, regionCol)
	}

	var eg errgroup.Group
	eg.Go(func() error {
		idx.Fixes = load(fixPath, fixIdentCol, fixAreaCol, fixRegionCol)
		return nil
	})
	eg.Go(func() error {
		idx.Navaids = load(navPath, navIdentCol, navAreaCol, navRegionCol)
		return nil
	})
	_ = eg.Wait()

	lg.Infof("%s: loaded %d fix entries", fixPath, len(idx.Fixes))
	lg.Infof("%s: loaded %d navaid entries", navPath, len(idx.Navaids))

	if len(idx.Fixes) == 0 && len(idx.Navaids) == 0 {
		return nil, ErrEmptyReferenceData
	}
	return idx, nil
}

// parseReferenceData reads one line-oriented whitespace-delimited
// reference dataset, returning identifier -> region code for its enroute
// entries. Format framing (the I/A byte-order line, the version line, and
// the "99" terminator) and rows with too few columns are skipped. When an
// identifier appears more than once the last occurrence wins: the datasets
// are layered with default data first and user overrides after, and the
// overrides are the ones that should land in the table.
func parseReferenceData(r io.Reader, identCol, areaCol, regionCol int) map[string]string {
	data := make(map[string]string)

	sc := bufio.NewScanner(r)
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if first {
			first = false
			if strings.HasPrefix(line, "I") || strings.HasPrefix(line, "A") {
				continue
			}
		}
		if line == "" || line == "99" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) <= regionCol || len(fields) <= identCol || len(fields) <= areaCol {
			continue
		}
		if fields[areaCol] != enrouteArea {
			continue
		}
		data[fields[identCol]] = fields[regionCol]
	}

	return data
}
