package sources

import (
	"github.com/Yui007/MangaForge/pkg/data"
)

// Source is the capability contract every content site implements. The
// rest of the pipeline talks to sites only through these methods and
// treats any returned error as "this item failed".
type Source interface {
	ID() string
	Name() string
	// BaseURL is the public site URL, used to route pasted links to the
	// right source.
	BaseURL() string

	// Search returns one page of results and whether more pages exist.
	Search(query string, page int) ([]data.SearchResult, bool, error)
	// GetSeriesInfo accepts either a source-specific id or a full URL.
	GetSeriesInfo(idOrURL string) (*data.SeriesInfo, error)
	// GetChapters returns every chapter of a series, oldest first.
	GetChapters(seriesID string) ([]data.Chapter, error)
	// GetChapterImages returns a chapter's page URLs in reading order.
	GetChapterImages(chapterID string) ([]string, error)
	// DownloadImage fetches a single page's bytes.
	DownloadImage(url string) ([]byte, error)
}
