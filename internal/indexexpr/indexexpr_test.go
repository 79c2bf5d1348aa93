package indexexpr

import (
	"reflect"
	"testing"
)

func TestParseIndex(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{" 3 ", 3, true},
		{"-1", -1, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"1 2", 0, false},
		{"2..4", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseIndex(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseIndex(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseIndexList(t *testing.T) {
	tests := []struct {
		in   string
		want []int
		ok   bool
	}{
		{"1 3 5", []int{1, 3, 5}, true},
		{"5 3 1", []int{5, 3, 1}, true}, // order as typed
		{"  2   4 ", []int{2, 4}, true},
		{"7", nil, false}, // single integer is not a list
		{"1 b", nil, false},
		{"1 -2", nil, false},
		{"", nil, false},
		{"  ", nil, false},
	}
	for _, tt := range tests {
		got, ok := ParseIndexList(tt.in)
		if ok != tt.ok || !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseIndexList(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in   string
		want []int
		ok   bool
	}{
		{"2..4", []int{2, 3, 4}, true},
		{"3..3", []int{3}, true},
		{"4..2", nil, false},
		{"2.. 4", nil, false},
		{"abc..2", nil, false},
		{"2..4..6", nil, false},
		{"2..", nil, false},
		{"..4", nil, false},
		{"2.4", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		got, ok := ParseRange(tt.in)
		if ok != tt.ok || !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseRange(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want []int
		ok   bool
	}{
		{"3", []int{3}, true},
		{"1 3 5", []int{1, 3, 5}, true},
		{"2..5", []int{2, 3, 4, 5}, true},
		{"never gonna give you up", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if ok != tt.ok || !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Parse(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{"..", "....", " .. ", "1..b", "-1..3", "9999999999999999999999", "1 2..3"}
	for _, in := range inputs {
		Parse(in) // must not panic
	}
}
