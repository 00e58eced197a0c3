// awy/segment.go
// Copyright(c) 2025 awyc contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package awy

// Recognized endpoint type classes and the numeric type codes the output
// format wants for each.
const (
	TypeDesignatedPoint = "DESIGNATED_POINT"
	TypeVORDME          = "VORDME"
	TypeNDB             = "NDB"

	datCodeFix    = 11
	datCodeVORDME = 3
	datCodeNDB    = 2
)

// RouteSegment is one airway leg as authored in the route segment CSV,
// with all fields carried verbatim. Row is the 1-based data row it came
// from, for diagnostics.
type RouteSegment struct {
	Row        int
	Start      string
	StartType  string
	End        string
	EndType    string
	Direction  string
	Designator string
}

// AirwayRecord is a fully resolved output record: a RouteSegment's fields
// plus the region code of each endpoint and the numeric fields the output
// line carries. New records get the format-constant Level/BaseFL/TopFL
// values; records parsed back out of an existing target file keep
// whatever values their line had.
type AirwayRecord struct {
	Start       string
	StartRegion string
	StartCode   int
	End         string
	EndRegion   string
	EndCode     int
	Direction   string
	Level       int
	BaseFL      int
	TopFL       int
	Designator  string
}

// lookupTable selects the table and output type code for a declared
// endpoint type class.
func (idx *ReferenceIndex) lookupTable(typeClass string) (map[string]string, int, bool) {
	switch typeClass {
	case TypeDesignatedPoint:
		return idx.Fixes, datCodeFix, true
	case TypeVORDME:
		return idx.Navaids, datCodeVORDME, true
	case TypeNDB:
		return idx.Navaids, datCodeNDB, true
	default:
		return nil, 0, false
	}
}

// Resolve looks up both endpoints of the given segment. Fixes and navaids
// live in separate tables, so the declared type class picks the table;
// the same identifier may map to different regions in the two. If either
// endpoint can't be resolved the segment fails as a whole; no partially
// resolved record is ever produced.
func (idx *ReferenceIndex) Resolve(seg RouteSegment) (AirwayRecord, error) {
	resolveEnd := func(side, ident, typeClass string) (string, int, error) {
		table, code, ok := idx.lookupTable(typeClass)
		if !ok {
			return "", 0, UnknownTypeClassError{Side: side, Type: typeClass}
		}
		region, ok := table[ident]
		if !ok {
			return "", 0, UnresolvedEndpointError{Side: side, Identifier: ident}
		}
		return region, code, nil
	}

	startRegion, startCode, err := resolveEnd("start", seg.Start, seg.StartType)
	if err != nil {
		return AirwayRecord{}, err
	}
	endRegion, endCode, err := resolveEnd("end", seg.End, seg.EndType)
	if err != nil {
		return AirwayRecord{}, err
	}

	return AirwayRecord{
		Start:       seg.Start,
		StartRegion: startRegion,
		StartCode:   startCode,
		End:         seg.End,
		EndRegion:   endRegion,
		EndCode:     endCode,
		Direction:   seg.Direction,
		Designator:  seg.Designator,
	}, nil
}
