// Package intervalset implements a mutable set of disjoint, half-open
// address ranges over uint64 addresses.
//
// This generalizes the read-only AddressRange/AddressRanges pair used by
// the process debugger this toolkit was split off from: here the set can
// be mutated (SetRange/ResetRange) and normalizes itself to a sorted,
// disjoint interval list after every mutation.
package intervalset

import "sort"

// interval is a half-open range [Low, High).
type interval struct {
	Low  uint64
	High uint64
}

func (iv interval) contains(addr uint64) bool {
	return iv.Low <= addr && addr < iv.High
}

// Set is a set of addresses represented as a sorted, disjoint list of
// half-open intervals.  The zero value is an empty set.
type Set struct {
	intervals []interval
}

// Contains reports whether addr is a member of the set.
func (s *Set) Contains(addr uint64) bool {
	// intervals are sorted and disjoint; binary search on Low.
	idx := sort.Search(len(s.intervals), func(i int) bool {
		return s.intervals[i].Low > addr
	})
	if idx == 0 {
		return false
	}
	return s.intervals[idx-1].contains(addr)
}

// SetRange adds [start, start+length) to the set, merging with any
// overlapping or adjacent existing intervals.
func (s *Set) SetRange(start uint64, length uint64) {
	if length == 0 {
		return
	}
	added := interval{Low: start, High: start + length}
	s.intervals = append(s.intervals, added)
	s.normalize()
}

// ResetRange removes [start, start+length) from the set, splitting any
// interval that only partially overlaps it.
func (s *Set) ResetRange(start uint64, length uint64) {
	if length == 0 {
		return
	}
	removed := interval{Low: start, High: start + length}

	result := make([]interval, 0, len(s.intervals)+1)
	for _, iv := range s.intervals {
		if iv.High <= removed.Low || iv.Low >= removed.High {
			result = append(result, iv)
			continue
		}
		if iv.Low < removed.Low {
			result = append(result, interval{Low: iv.Low, High: removed.Low})
		}
		if iv.High > removed.High {
			result = append(result, interval{Low: removed.High, High: iv.High})
		}
	}
	s.intervals = result
	s.normalize()
}

// normalize sorts the interval list by Low and merges overlapping or
// adjacent intervals into a minimal disjoint representation.
func (s *Set) normalize() {
	if len(s.intervals) == 0 {
		return
	}

	sort.Slice(s.intervals, func(i, j int) bool {
		return s.intervals[i].Low < s.intervals[j].Low
	})

	merged := s.intervals[:1]
	for _, iv := range s.intervals[1:] {
		last := &merged[len(merged)-1]
		if iv.Low <= last.High {
			if iv.High > last.High {
				last.High = iv.High
			}
			continue
		}
		merged = append(merged, iv)
	}
	s.intervals = merged
}

// Ranges returns the set's current disjoint intervals as (low, high)
// pairs, sorted by low address.
func (s *Set) Ranges() [][2]uint64 {
	result := make([][2]uint64, len(s.intervals))
	for i, iv := range s.intervals {
		result[i] = [2]uint64{iv.Low, iv.High}
	}
	return result
}
