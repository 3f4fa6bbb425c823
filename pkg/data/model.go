package data

import (
	"sort"
	"strconv"
	"strings"
)

// extraChapterKey sorts label-only chapters ("Extra", "Special", "Bonus")
// after every numbered chapter.
const extraChapterKey = 999999.0

type SearchResult struct {
	SourceID string
	SeriesID string
	Title    string
	URL      string
	CoverURL string
}

type SeriesInfo struct {
	SourceID    string
	SeriesID    string
	Title       string
	URL         string
	CoverURL    string
	Description string
	Status      string // "ongoing", "completed", "hiatus", "unknown"
	Genres      []string
	Authors     []string
	Artists     []string
	AltTitles   []string
	Year        int // 0 when unknown
}

type Chapter struct {
	ID         string
	SeriesID   string
	Title      string
	Number     string // as published: "1", "10.5", "Extra"
	Volume     string
	Language   string
	URL        string
	Published  string
	Downloaded bool
	FilePath   string // Path to downloaded images directory
}

// SortKey maps the chapter number to a float used for reading order.
// Numeric numbers sort by value, recognized extra labels sort last,
// anything else sorts first.
func (c Chapter) SortKey() float64 {
	number := strings.TrimSpace(c.Number)
	if v, err := strconv.ParseFloat(number, 64); err == nil {
		return v
	}
	switch strings.ToLower(number) {
	case "extra", "special", "bonus":
		return extraChapterKey
	}
	return 0
}

// SortChapters orders chapters into reading order. Equal keys fall back to
// the title so repeated runs produce the same order.
func SortChapters(chapters []Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		ki, kj := chapters[i].SortKey(), chapters[j].SortKey()
		if ki != kj {
			return ki < kj
		}
		return chapters[i].Title < chapters[j].Title
	})
}
