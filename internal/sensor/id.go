// Package sensor normalizes node identifiers found in packet traces.
//
// Traces name sensors "SENSOR-<n>" while reports use the short form "S-<n>".
// Infrastructure nodes (sink, router, broadcast addresses) are not sensors and
// never appear in per-sensor tables.
package sensor

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ID is a canonical sensor identifier of the form "S-<n>".
type ID string

const canonicalPrefix = "S-"

var sensorPattern = regexp.MustCompile(`^(?i:sensor|s)-(\d+)$`)

// Canonicalize maps a raw trace identifier to its canonical form.
// "SENSOR-12" becomes "S-12"; canonical ids and non-sensor names are returned trimmed but otherwise unchanged.
func Canonicalize(raw string) ID {
	raw = strings.TrimSpace(raw)
	m := sensorPattern.FindStringSubmatch(raw)
	if m == nil {
		return ID(raw)
	}
	return ID(canonicalPrefix + m[1])
}

// IsSensor reports whether raw names a real sensor rather than an infrastructure node.
func IsSensor(raw string) bool {
	return sensorPattern.MatchString(strings.TrimSpace(raw))
}

// Index returns the numeric index of a sensor id.
func Index(id ID) (int, bool) {
	m := sensorPattern.FindStringSubmatch(string(id))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Less orders ids by numeric index. Ids without an index sort after all sensors, by name.
func Less(a, b ID) bool {
	ia, oka := Index(a)
	ib, okb := Index(b)
	switch {
	case oka && okb:
		if ia != ib {
			return ia < ib
		}
		return a < b
	case oka:
		return true
	case okb:
		return false
	default:
		return a < b
	}
}

// Sort orders ids in place by ascending numeric index.
func Sort(ids []ID) {
	sort.SliceStable(ids, func(i, j int) bool { return Less(ids[i], ids[j]) })
}

// Set converts a list of raw names into a lookup of canonical ids.
func Set(raw []string) map[ID]bool {
	set := make(map[ID]bool, len(raw))
	for _, r := range raw {
		set[Canonicalize(r)] = true
	}
	return set
}
