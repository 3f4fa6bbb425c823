package sources

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"github.com/Yui007/MangaForge/pkg/config"
	"github.com/Yui007/MangaForge/pkg/data"
)

const (
	mangadexSite      = "https://mangadex.org"
	mangadexAPI       = "https://api.mangadex.org"
	mangadexUploads   = "https://uploads.mangadex.org"
	mangadexPageSize  = 20
	mangadexFeedLimit = 500
)

var mangadexURLPattern = regexp.MustCompile(`mangadex\.org/title/([0-9a-fA-F-]{36})`)

type mdManga struct {
	ID         string `json:"id"`
	Attributes struct {
		Title       map[string]string   `json:"title"`
		AltTitles   []map[string]string `json:"altTitles"`
		Description map[string]string   `json:"description"`
		Status      string              `json:"status"`
		Year        int                 `json:"year"`
		Tags        []struct {
			Attributes struct {
				Name map[string]string `json:"name"`
			} `json:"attributes"`
		} `json:"tags"`
	} `json:"attributes"`
	Relationships []struct {
		Type       string `json:"type"`
		Attributes struct {
			Name     string `json:"name"`
			FileName string `json:"fileName"`
		} `json:"attributes"`
	} `json:"relationships"`
}

func (m *mdManga) toSeriesInfo() *data.SeriesInfo {
	info := &data.SeriesInfo{
		SourceID:    "mangadex",
		SeriesID:    m.ID,
		Title:       pickLocalized(m.Attributes.Title),
		URL:         mangadexSite + "/title/" + m.ID,
		Description: pickLocalized(m.Attributes.Description),
		Status:      m.Attributes.Status,
		Year:        m.Attributes.Year,
	}
	if info.Status == "" {
		info.Status = "unknown"
	}

	for _, alt := range m.Attributes.AltTitles {
		if title := pickLocalized(alt); title != "" && title != info.Title {
			info.AltTitles = append(info.AltTitles, title)
		}
	}
	for _, tag := range m.Attributes.Tags {
		if name := pickLocalized(tag.Attributes.Name); name != "" {
			info.Genres = append(info.Genres, name)
		}
	}
	for _, rel := range m.Relationships {
		switch rel.Type {
		case "author":
			if rel.Attributes.Name != "" {
				info.Authors = append(info.Authors, rel.Attributes.Name)
			}
		case "artist":
			if rel.Attributes.Name != "" {
				info.Artists = append(info.Artists, rel.Attributes.Name)
			}
		case "cover_art":
			if rel.Attributes.FileName != "" {
				info.CoverURL = fmt.Sprintf("%s/covers/%s/%s", mangadexUploads, m.ID, rel.Attributes.FileName)
			}
		}
	}
	return info
}

// pickLocalized prefers English, then romanized Japanese, then anything.
func pickLocalized(values map[string]string) string {
	for _, lang := range []string{"en", "ja-ro", "ja"} {
		if v := values[lang]; v != "" {
			return v
		}
	}
	for _, v := range values {
		return v
	}
	return ""
}

type mdChapter struct {
	ID         string `json:"id"`
	Attributes struct {
		Title     string `json:"title"`
		Volume    string `json:"volume"`
		Chapter   string `json:"chapter"`
		Language  string `json:"translatedLanguage"`
		PublishAt string `json:"publishAt"`
	} `json:"attributes"`
}

func (c *mdChapter) toChapter(seriesID string) *data.Chapter {
	return &data.Chapter{
		ID:        c.ID,
		SeriesID:  seriesID,
		Title:     c.Attributes.Title,
		Number:    c.Attributes.Chapter,
		Volume:    c.Attributes.Volume,
		Language:  c.Attributes.Language,
		URL:       mangadexSite + "/chapter/" + c.ID,
		Published: c.Attributes.PublishAt,
	}
}

// MangaDex talks to the MangaDex JSON API.
type MangaDex struct {
	client   *Client
	apiURL   string
	language string
}

func NewMangaDex(cfg *config.Config) *MangaDex {
	return &MangaDex{
		client:   NewClient(cfg, "mangadex"),
		apiURL:   mangadexAPI,
		language: cfg.Sources.Language,
	}
}

func (m *MangaDex) ID() string      { return "mangadex" }
func (m *MangaDex) Name() string    { return "MangaDex" }
func (m *MangaDex) BaseURL() string { return mangadexSite }

func (m *MangaDex) get(path string, params url.Values, v any) error {
	return m.client.GetJSON(context.Background(), m.apiURL+path, params, v)
}

func (m *MangaDex) Search(query string, page int) ([]data.SearchResult, bool, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * mangadexPageSize

	params := url.Values{}
	params.Set("title", query)
	params.Set("limit", strconv.Itoa(mangadexPageSize))
	params.Set("offset", strconv.Itoa(offset))
	params.Add("includes[]", "cover_art")

	var payload struct {
		Data  []mdManga `json:"data"`
		Total int       `json:"total"`
	}
	if err := m.get("/manga", params, &payload); err != nil {
		return nil, false, err
	}

	results := make([]data.SearchResult, len(payload.Data))
	for i, manga := range payload.Data {
		info := manga.toSeriesInfo()
		results[i] = data.SearchResult{
			SourceID: m.ID(),
			SeriesID: info.SeriesID,
			Title:    info.Title,
			URL:      info.URL,
			CoverURL: info.CoverURL,
		}
	}

	hasNext := offset+len(payload.Data) < payload.Total
	return results, hasNext, nil
}

func (m *MangaDex) GetSeriesInfo(idOrURL string) (*data.SeriesInfo, error) {
	id := idOrURL
	if match := mangadexURLPattern.FindStringSubmatch(idOrURL); match != nil {
		id = match[1]
	}

	params := url.Values{}
	for _, include := range []string{"author", "artist", "cover_art"} {
		params.Add("includes[]", include)
	}

	var payload struct {
		Data mdManga `json:"data"`
	}
	if err := m.get("/manga/"+id, params, &payload); err != nil {
		return nil, err
	}
	if payload.Data.ID == "" {
		return nil, fmt.Errorf("mangadex: series %q not found", id)
	}
	return payload.Data.toSeriesInfo(), nil
}

func (m *MangaDex) GetChapters(seriesID string) ([]data.Chapter, error) {
	var chapters []data.Chapter

	for offset := 0; ; offset += mangadexFeedLimit {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(mangadexFeedLimit))
		params.Set("offset", strconv.Itoa(offset))
		params.Add("translatedLanguage[]", m.language)
		params.Set("order[chapter]", "asc")

		var payload struct {
			Data  []mdChapter `json:"data"`
			Total int         `json:"total"`
		}
		if err := m.get("/manga/"+seriesID+"/feed", params, &payload); err != nil {
			return nil, err
		}

		for _, ch := range payload.Data {
			chapters = append(chapters, *ch.toChapter(seriesID))
		}

		if len(payload.Data) == 0 || offset+mangadexFeedLimit >= payload.Total {
			break
		}
	}

	data.SortChapters(chapters)
	return chapters, nil
}

func (m *MangaDex) GetChapterImages(chapterID string) ([]string, error) {
	var server struct {
		BaseURL string `json:"baseUrl"`
		Chapter struct {
			Hash string   `json:"hash"`
			Data []string `json:"data"`
		} `json:"chapter"`
	}
	if err := m.get("/at-home/server/"+chapterID, nil, &server); err != nil {
		return nil, err
	}

	pages := make([]string, len(server.Chapter.Data))
	for i, file := range server.Chapter.Data {
		pages[i] = fmt.Sprintf("%s/data/%s/%s", server.BaseURL, server.Chapter.Hash, file)
	}
	return pages, nil
}

func (m *MangaDex) DownloadImage(url string) ([]byte, error) {
	return m.client.FetchBytes(context.Background(), url)
}
