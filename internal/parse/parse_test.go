package parse

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtract_OrderAndBothPrefixes(t *testing.T) {
	got := Extract("foo EXEXTR12345678901234 bar F0EXTR00000000000000")
	want := []string{"EXEXTR12345678901234", "F0EXTR00000000000000"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract = %v, want %v", got, want)
	}
}

func TestExtract_RejectsMalformed(t *testing.T) {
	cases := []string{
		"EXEXTR123",                      // too short
		"EXEXTR123456789012345",          // 15 digits, not a whole token
		"XEXEXTR12345678901234",          // glued prefix
		"EXEXTR12345678901234X5",         // alnum tail
		"exextr12345678901234",           // wrong case
		"EXEXTR1234567890123",            // 13 digits
		"F1EXTR12345678901234",           // unknown prefix
		"no identifiers here whatsoever", // nothing
		"",
	}
	for _, text := range cases {
		if got := Extract(text); len(got) != 0 {
			t.Fatalf("Extract(%q) = %v, want none", text, got)
		}
	}
}

func TestExtract_TokenBoundaries(t *testing.T) {
	// Punctuation and line breaks count as boundaries.
	text := "ids: EXEXTR11111111111111, (F0EXTR22222222222222)\nEXEXTR33333333333333."
	got := Extract(text)
	want := []string{
		"EXEXTR11111111111111",
		"F0EXTR22222222222222",
		"EXEXTR33333333333333",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract = %v, want %v", got, want)
	}
}

func TestExtract_PreservesDuplicates(t *testing.T) {
	id := "EXEXTR12345678901234"
	got := Extract(strings.Repeat(id+" ", 3))
	if len(got) != 3 {
		t.Fatalf("Extract kept %d occurrences, want 3", len(got))
	}
}

func TestDedupe(t *testing.T) {
	in := []string{"a", "b", "a", "c", "b"}
	want := []string{"a", "b", "c"}
	if got := Dedupe(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("Dedupe = %v, want %v", got, want)
	}

	// No duplicates: the input slice comes back as-is.
	same := []string{"x", "y"}
	if got := Dedupe(same); !reflect.DeepEqual(got, same) {
		t.Fatalf("Dedupe on unique input = %v, want %v", got, same)
	}
	if got := Dedupe(nil); len(got) != 0 {
		t.Fatalf("Dedupe(nil) = %v, want empty", got)
	}
}

func TestIsTrackingID(t *testing.T) {
	if !IsTrackingID("F0EXTR99999999999999") {
		t.Fatal("valid identifier rejected")
	}
	for _, s := range []string{"", "EXEXTR123", " EXEXTR12345678901234", "EXEXTR12345678901234 "} {
		if IsTrackingID(s) {
			t.Fatalf("IsTrackingID(%q) = true, want false", s)
		}
	}
}
