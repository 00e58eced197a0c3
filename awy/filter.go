// awy/filter.go
// Copyright(c) 2025 awyc contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package awy

import "github.com/xpnav/awyc/util"

// RegionFilter decides whether a segment should be dropped based on the
// region codes of its two endpoints and a set of excluded regions.
type RegionFilter struct {
	excluded map[string]interface{}
}

func MakeRegionFilter(excluded []string) RegionFilter {
	f := RegionFilter{excluded: make(map[string]interface{})}
	for _, r := range excluded {
		f.excluded[r] = nil
	}
	return f
}

// ShouldDrop returns true only if both endpoint regions are excluded. A
// segment with a single excluded endpoint is kept so that routes crossing
// the border of an excluded region stay connected.
func (f RegionFilter) ShouldDrop(startRegion, endRegion string) bool {
	_, s := f.excluded[startRegion]
	_, e := f.excluded[endRegion]
	return s && e
}

// Regions returns the excluded region codes, sorted.
func (f RegionFilter) Regions() []string {
	return util.SortedMapKeys(f.excluded)
}
