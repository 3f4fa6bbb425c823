package data

import (
	"errors"
	"strconv"
	"testing"
)

func numberedChapters(n int) []Chapter {
	chapters := make([]Chapter, n)
	for i := range chapters {
		number := strconv.Itoa(i + 1)
		chapters[i] = Chapter{
			ID:     "ch-" + number,
			Number: number,
			Title:  "Chapter " + number,
		}
	}
	return chapters
}

func TestParseChapterRangeMixed(t *testing.T) {
	chapters := numberedChapters(25)

	result, err := ParseChapterRange("1-5,10,15-20", chapters)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []string{"1", "2", "3", "4", "5", "10", "15", "16", "17", "18", "19", "20"}
	if len(result) != len(want) {
		t.Fatalf("Expected %d chapters, got %d", len(want), len(result))
	}
	for i, number := range want {
		if result[i].Number != number {
			t.Errorf("Position %d: expected chapter %s, got %s", i, number, result[i].Number)
		}
	}
}

func TestParseChapterRangeDeduplicates(t *testing.T) {
	chapters := numberedChapters(10)

	result, err := ParseChapterRange("1-5,3,2-4", chapters)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result) != 5 {
		t.Errorf("Expected 5 unique chapters, got %d", len(result))
	}
}

func TestParseChapterRangeEmpty(t *testing.T) {
	chapters := numberedChapters(5)

	for _, expr := range []string{"", "   ", "\t"} {
		result, err := ParseChapterRange(expr, chapters)
		if err != nil {
			t.Errorf("ParseChapterRange(%q) returned error: %v", expr, err)
		}
		if len(result) != 0 {
			t.Errorf("ParseChapterRange(%q) returned %d chapters, want 0", expr, len(result))
		}
	}
}

func TestParseChapterRangeMalformed(t *testing.T) {
	chapters := numberedChapters(5)

	for _, expr := range []string{"a-b", "1-x", "abc", "1,,3", "1-2-3"} {
		_, err := ParseChapterRange(expr, chapters)
		if err == nil {
			t.Errorf("ParseChapterRange(%q) expected error", expr)
			continue
		}
		var rangeErr *RangeFormatError
		if !errors.As(err, &rangeErr) {
			t.Errorf("ParseChapterRange(%q) returned %T, want *RangeFormatError", expr, err)
		}
	}
}

func TestParseChapterRangeErrorNamesToken(t *testing.T) {
	_, err := ParseChapterRange("1-3,a-b", numberedChapters(5))

	var rangeErr *RangeFormatError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("Expected *RangeFormatError, got %v", err)
	}
	if rangeErr.Token != "a-b" {
		t.Errorf("Expected offending token 'a-b', got '%s'", rangeErr.Token)
	}
}

func TestParseChapterRangeFractional(t *testing.T) {
	chapters := []Chapter{
		{Number: "10", Title: "Ten"},
		{Number: "10.5", Title: "Ten and a half"},
		{Number: "11", Title: "Eleven"},
	}

	result, err := ParseChapterRange("10.5", chapters)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result) != 1 || result[0].Number != "10.5" {
		t.Fatalf("Expected only chapter 10.5, got %v", result)
	}

	result, err = ParseChapterRange("10-11", chapters)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result) != 3 {
		t.Errorf("Expected 3 chapters in 10-11, got %d", len(result))
	}
}

func TestParseChapterRangeSkipsNonNumeric(t *testing.T) {
	chapters := []Chapter{
		{Number: "1", Title: "One"},
		{Number: "Extra", Title: "Omake"},
		{Number: "2", Title: "Two"},
	}

	result, err := ParseChapterRange("1-999", chapters)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("Expected 2 chapters, got %d", len(result))
	}
	for _, ch := range result {
		if ch.Number == "Extra" {
			t.Error("Non-numeric chapter should never match a range")
		}
	}
}

func TestParseChapterRangeMissingSingle(t *testing.T) {
	chapters := numberedChapters(5)

	result, err := ParseChapterRange("99", chapters)
	if err != nil {
		t.Fatalf("Missing chapter should not be an error, got: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("Expected empty result, got %d chapters", len(result))
	}
}

func TestParseChapterRangeResultSorted(t *testing.T) {
	chapters := numberedChapters(20)

	result, err := ParseChapterRange("15-17,3,9", chapters)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []string{"3", "9", "15", "16", "17"}
	for i, number := range want {
		if result[i].Number != number {
			t.Errorf("Position %d: expected %s, got %s", i, number, result[i].Number)
		}
	}
}
