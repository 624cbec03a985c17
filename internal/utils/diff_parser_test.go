package utils

import (
	"reflect"
	"testing"
)

func TestParseHunkHeader(t *testing.T) {
	tests := []struct {
		input  string
		expect HunkHeader
	}{
		{"@@ -1,4 +10,6 @@", HunkHeader{OldStart: 1, OldCount: 4, NewStart: 10, NewCount: 6}},
		{"@@ -5 +20 @@", HunkHeader{OldStart: 5, OldCount: 1, NewStart: 20, NewCount: 1}},     // counts omitted
		{"@@ -1,3 +4,0 @@", HunkHeader{OldStart: 1, OldCount: 3, NewStart: 4, NewCount: 0}},   // deletion hunk
		{"@@ -0,0 +1,5 @@ package main", HunkHeader{NewStart: 1, NewCount: 5}},                  // trailing section text
		{"@@ -1,3 +a,b @@", HunkHeader{}},                                                         // invalid numbers
		{"@@ -1,3 4,5 @@", HunkHeader{}},                                                          // missing +
		{"@@ -1,-3 +4,5 @@", HunkHeader{}},                                                        // negative count
		{"@@ -1,2,3 +4,5 @@", HunkHeader{}},                                                       // too many parts
		{"invalid header", HunkHeader{}},                                                          // malformed input
		{"", HunkHeader{}},
	}

	for _, tt := range tests {
		got := ParseHunkHeader(tt.input)
		if !reflect.DeepEqual(got, tt.expect) {
			t.Errorf("ParseHunkHeader(%q) = %+v; want %+v", tt.input, got, tt.expect)
		}
	}
}

func TestIsHunkHeader(t *testing.T) {
	if !IsHunkHeader("@@ -1 +1 @@") {
		t.Error("expected hunk header to be detected")
	}
	if IsHunkHeader("+@@ not a header") {
		t.Error("added line must not be treated as a hunk header")
	}
}

func TestCountChangedLines(t *testing.T) {
	body := " context\n+added one\n+added two\n-removed\n context\n"

	added, deleted := CountChangedLines(body)
	if added != 2 || deleted != 1 {
		t.Errorf("CountChangedLines() = (%d, %d); want (2, 1)", added, deleted)
	}
}
