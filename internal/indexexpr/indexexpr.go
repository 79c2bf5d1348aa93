// Package indexexpr parses free-form user input into 1-based track indices.
//
// Three forms are recognised: a single integer ("3"), integers separated by
// spaces ("1 3 5", order preserved as typed), and an inclusive ascending
// range ("2..5"). Anything else matches no form, which callers treat as a
// free-text search query. Indices are not bounds-checked here; that happens
// at the point of indexing into a concrete list.
package indexexpr

import (
	"strconv"
	"strings"
)

// ParseIndex parses a single 1-based index.
func ParseIndex(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsIndex reports whether s is a single integer.
func IsIndex(s string) bool {
	_, ok := ParseIndex(s)
	return ok
}

// ParseIndexList parses space-separated non-negative integers, preserving
// the order they were typed in.
func ParseIndexList(s string) ([]int, bool) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return nil, false
	}
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		if !isDigits(f) {
			return nil, false
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// IsIndexList reports whether s is two or more space-separated integers.
func IsIndexList(s string) bool {
	_, ok := ParseIndexList(s)
	return ok
}

// ParseRange parses "a..b" into the inclusive ascending list [a..b].
// Rejected: more than one "..", a non-integer side, embedded whitespace,
// or a descending range (a > b).
func ParseRange(s string) ([]int, bool) {
	if strings.ContainsAny(s, " \t") {
		return nil, false
	}
	parts := strings.Split(s, "..")
	if len(parts) != 2 {
		return nil, false
	}
	if !isDigits(parts[0]) || !isDigits(parts[1]) {
		return nil, false
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, false
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, false
	}
	if start > end {
		return nil, false
	}
	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out, true
}

// IsRange reports whether s is a well-formed ascending range.
func IsRange(s string) bool {
	_, ok := ParseRange(s)
	return ok
}

// Parse classifies s as any of the three forms and returns the indices.
// A single integer yields a one-element slice.
func Parse(s string) ([]int, bool) {
	if n, ok := ParseIndex(s); ok {
		return []int{n}, true
	}
	if list, ok := ParseIndexList(s); ok {
		return list, true
	}
	if r, ok := ParseRange(s); ok {
		return r, true
	}
	return nil, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
