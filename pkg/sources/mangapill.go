package sources

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Yui007/MangaForge/pkg/config"
	"github.com/Yui007/MangaForge/pkg/data"
)

const mangapillSite = "https://mangapill.com"

var chapterNumberPattern = regexp.MustCompile(`(?i)Chapter\s*([\d.]+)`)

// MangaPill scrapes mangapill.com. The site renders static HTML, so
// chapters and images come straight out of the page with CSS selectors.
type MangaPill struct {
	client  *Client
	baseURL string
}

func NewMangaPill(cfg *config.Config) *MangaPill {
	client := NewClient(cfg, "mangapill")
	client.SetReferer(mangapillSite)
	return &MangaPill{client: client, baseURL: mangapillSite}
}

func (p *MangaPill) ID() string      { return "mangapill" }
func (p *MangaPill) Name() string    { return "MangaPill" }
func (p *MangaPill) BaseURL() string { return p.baseURL }

func (p *MangaPill) Search(query string, page int) ([]data.SearchResult, bool, error) {
	if page < 1 {
		page = 1
	}
	searchURL := fmt.Sprintf("%s/search?q=%s&page=%d", p.baseURL, url.QueryEscape(query), page)

	doc, err := p.client.GetDocument(context.Background(), searchURL)
	if err != nil {
		return nil, false, err
	}

	var results []data.SearchResult
	doc.Find(`div.lg\:flex a[href*='/manga/']`).Each(func(_ int, card *goquery.Selection) {
		href, _ := card.Attr("href")
		if !strings.HasPrefix(href, "/manga/") {
			return
		}
		seriesURL := p.baseURL + href

		title := strings.TrimSpace(card.Find("div.leading-tight").First().Text())
		if title == "" {
			title = "Unknown"
		}

		results = append(results, data.SearchResult{
			SourceID: p.ID(),
			SeriesID: seriesURL,
			Title:    title,
			URL:      seriesURL,
			CoverURL: imageSrc(card.Find("img").First()),
		})
	})

	hasNext := doc.Find(fmt.Sprintf("a[href*='page=%d']", page+1)).Length() > 0
	return results, hasNext, nil
}

// imageSrc prefers the lazy-load attribute over the real src.
func imageSrc(img *goquery.Selection) string {
	if src, ok := img.Attr("data-src"); ok && src != "" {
		return strings.TrimSpace(src)
	}
	src, _ := img.Attr("src")
	return strings.TrimSpace(src)
}

// seriesURL normalizes a series id or pasted link into a page URL.
func (p *MangaPill) seriesURL(idOrURL string) string {
	if strings.HasPrefix(idOrURL, "http") {
		return idOrURL
	}
	return p.baseURL + "/manga/" + idOrURL
}

func (p *MangaPill) GetSeriesInfo(idOrURL string) (*data.SeriesInfo, error) {
	pageURL := p.seriesURL(idOrURL)

	doc, err := p.client.GetDocument(context.Background(), pageURL)
	if err != nil {
		return nil, err
	}

	info := &data.SeriesInfo{
		SourceID: p.ID(),
		SeriesID: pageURL,
		URL:      pageURL,
		Status:   "unknown",
	}

	info.Title = strings.TrimSpace(doc.Find("h1.font-bold").First().Text())
	if info.Title == "" {
		info.Title = "Unknown"
	}

	cover := doc.Find("div img[src*='cover']").First()
	if cover.Length() == 0 {
		cover = doc.Find("div.w-60 img, figure img").First()
	}
	info.CoverURL = imageSrc(cover)

	info.Description = strings.TrimSpace(doc.Find("p.text-sm.text--secondary").First().Text())

	// Info grid rows are label/value pairs (Type, Status, Year)
	doc.Find("div.grid > div").Each(func(_ int, block *goquery.Selection) {
		label := strings.TrimSpace(block.Find("label").First().Text())
		value := strings.TrimSpace(block.Find("label").First().NextFiltered("div").Text())
		if value == "" {
			return
		}
		switch strings.ToLower(label) {
		case "status":
			info.Status = strings.ToLower(value)
		case "year":
			var year int
			if _, err := fmt.Sscanf(value, "%d", &year); err == nil {
				info.Year = year
			}
		}
	})

	doc.Find("a[href^='/search?genre=']").Each(func(_ int, a *goquery.Selection) {
		if genre := strings.TrimSpace(a.Text()); genre != "" {
			info.Genres = append(info.Genres, genre)
		}
	})

	return info, nil
}

func (p *MangaPill) GetChapters(seriesID string) ([]data.Chapter, error) {
	pageURL := p.seriesURL(seriesID)

	doc, err := p.client.GetDocument(context.Background(), pageURL)
	if err != nil {
		return nil, err
	}

	var chapters []data.Chapter
	doc.Find("#chapters a[href^='/chapters/']").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		title := strings.TrimSpace(a.Text())
		chapterURL := p.baseURL + href

		chapters = append(chapters, data.Chapter{
			ID:       chapterURL,
			SeriesID: seriesID,
			Title:    title,
			Number:   extractChapterNumber(title),
			URL:      chapterURL,
			Language: "en",
		})
	})

	// The site lists newest first
	slices.Reverse(chapters)
	return chapters, nil
}

// extractChapterNumber pulls "10.5" out of a title like "Chapter 10.5";
// titles without a recognizable number pass through unchanged.
func extractChapterNumber(title string) string {
	if match := chapterNumberPattern.FindStringSubmatch(title); match != nil {
		return match[1]
	}
	return title
}

func (p *MangaPill) GetChapterImages(chapterID string) ([]string, error) {
	doc, err := p.client.GetDocument(context.Background(), chapterID)
	if err != nil {
		return nil, err
	}

	var images []string
	doc.Find("img.js-page").Each(func(_ int, img *goquery.Selection) {
		if src := imageSrc(img); src != "" {
			images = append(images, src)
		}
	})
	return images, nil
}

func (p *MangaPill) DownloadImage(url string) ([]byte, error) {
	return p.client.FetchBytes(context.Background(), url)
}
