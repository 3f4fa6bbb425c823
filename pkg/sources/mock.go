package sources

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"github.com/Yui007/MangaForge/pkg/data"
)

// Mock is an offline source with deterministic content. It exists to
// exercise the full pipeline without touching the network.
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) ID() string      { return "mock" }
func (m *Mock) Name() string    { return "Mock Source" }
func (m *Mock) BaseURL() string { return "https://mock.invalid" }

var mockSeries = []data.SeriesInfo{
	{
		SourceID:    "mock",
		SeriesID:    "mock-1",
		Title:       "Mock Adventure",
		URL:         "https://mock.invalid/manga/mock-1",
		Description: "A deterministic test series with a dozen chapters.",
		Status:      "ongoing",
		Genres:      []string{"Action", "Comedy"},
		Authors:     []string{"Testy Author"},
		Year:        2020,
	},
	{
		SourceID:    "mock",
		SeriesID:    "mock-2",
		Title:       "Mock Romance",
		URL:         "https://mock.invalid/manga/mock-2",
		Description: "A second series for search results.",
		Status:      "completed",
		Genres:      []string{"Romance"},
		Authors:     []string{"Testy Author"},
		Year:        2018,
	},
}

func (m *Mock) Search(query string, page int) ([]data.SearchResult, bool, error) {
	var results []data.SearchResult
	for _, info := range mockSeries {
		if query != "" && !strings.Contains(strings.ToLower(info.Title), strings.ToLower(query)) {
			continue
		}
		results = append(results, data.SearchResult{
			SourceID: info.SourceID,
			SeriesID: info.SeriesID,
			Title:    info.Title,
			URL:      info.URL,
		})
	}
	return results, false, nil
}

func (m *Mock) GetSeriesInfo(idOrURL string) (*data.SeriesInfo, error) {
	for _, info := range mockSeries {
		if info.SeriesID == idOrURL || info.URL == idOrURL {
			found := info
			return &found, nil
		}
	}
	return nil, fmt.Errorf("mock: series %q not found", idOrURL)
}

func (m *Mock) GetChapters(seriesID string) ([]data.Chapter, error) {
	if _, err := m.GetSeriesInfo(seriesID); err != nil {
		return nil, err
	}

	var chapters []data.Chapter
	for i := 1; i <= 10; i++ {
		number := strconv.Itoa(i)
		chapters = append(chapters, data.Chapter{
			ID:       seriesID + "/ch-" + number,
			SeriesID: seriesID,
			Title:    "Chapter " + number,
			Number:   number,
			Language: "en",
			URL:      "https://mock.invalid/chapters/" + seriesID + "/" + number,
		})
	}
	chapters = append(chapters,
		data.Chapter{
			ID:       seriesID + "/ch-10.5",
			SeriesID: seriesID,
			Title:    "Chapter 10.5",
			Number:   "10.5",
			Language: "en",
			URL:      "https://mock.invalid/chapters/" + seriesID + "/10.5",
		},
		data.Chapter{
			ID:       seriesID + "/ch-extra",
			SeriesID: seriesID,
			Title:    "Omake",
			Number:   "Extra",
			Language: "en",
			URL:      "https://mock.invalid/chapters/" + seriesID + "/extra",
		},
	)
	return chapters, nil
}

func (m *Mock) GetChapterImages(chapterID string) ([]string, error) {
	urls := make([]string, 3)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://mock.invalid/pages/%s/%d.png", chapterID, i+1)
	}
	return urls, nil
}

// DownloadImage renders a small page-shaped PNG instead of fetching
// anything, so downstream decoding and packaging work on real data.
func (m *Mock) DownloadImage(url string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 96))
	shade := color.RGBA{R: 220, G: 220, B: 228, A: 255}
	for y := 0; y < 96; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, shade)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
