package data

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// RangeFormatError reports a chapter range token that could not be parsed.
type RangeFormatError struct {
	Token string
}

func (e *RangeFormatError) Error() string {
	return fmt.Sprintf("invalid chapter range token %q", e.Token)
}

// ParseChapterRange resolves a selection expression like "1-5,10,15-20"
// against the available chapters. Tokens are either a single number or a
// closed range, both parsed as floats so fractional chapters ("10.5")
// work. Chapters with non-numeric numbers never match and are skipped
// with a warning. The result is deduplicated and in reading order. An
// empty expression selects nothing.
func ParseChapterRange(expr string, chapters []Chapter) ([]Chapter, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	values := make([]float64, len(chapters))
	numeric := make([]bool, len(chapters))
	for i, ch := range chapters {
		v, err := strconv.ParseFloat(strings.TrimSpace(ch.Number), 64)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"number": ch.Number,
				"title":  ch.Title,
			}).Warn("Chapter has no numeric number, excluded from range selection")
			continue
		}
		values[i], numeric[i] = v, true
	}

	selected := make(map[int]struct{})
	for _, token := range strings.Split(expr, ",") {
		token = strings.TrimSpace(token)

		if strings.Contains(token, "-") {
			parts := strings.SplitN(token, "-", 2)
			start, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			end, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if err1 != nil || err2 != nil {
				return nil, &RangeFormatError{Token: token}
			}
			for i := range chapters {
				if numeric[i] && values[i] >= start && values[i] <= end {
					selected[i] = struct{}{}
				}
			}
			continue
		}

		want, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, &RangeFormatError{Token: token}
		}
		found := false
		for i := range chapters {
			if numeric[i] && values[i] == want {
				selected[i] = struct{}{}
				found = true
			}
		}
		if !found {
			logrus.WithField("chapter", token).Warn("Requested chapter not found")
		}
	}

	result := make([]Chapter, 0, len(selected))
	for i := range selected {
		result = append(result, chapters[i])
	}
	SortChapters(result)
	return result, nil
}
