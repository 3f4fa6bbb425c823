package data

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
)

// InitDuckDB opens the library database at path, creating parent
// directories and the schema when missing.
func InitDuckDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS series (
			id VARCHAR PRIMARY KEY,
			source VARCHAR NOT NULL,
			source_series_id VARCHAR NOT NULL,
			title VARCHAR NOT NULL,
			url VARCHAR,
			cover_url VARCHAR,
			description VARCHAR,
			status VARCHAR,
			year INTEGER,
			genres VARCHAR,
			authors VARCHAR,
			artists VARCHAR,
			added_at TIMESTAMP DEFAULT current_timestamp,
			UNIQUE (source, source_series_id)
		)`,
		`CREATE TABLE IF NOT EXISTS chapters (
			id VARCHAR PRIMARY KEY,
			library_id VARCHAR NOT NULL,
			title VARCHAR,
			number VARCHAR,
			volume VARCHAR,
			language VARCHAR,
			url VARCHAR,
			published VARCHAR,
			downloaded BOOLEAN DEFAULT FALSE,
			file_path VARCHAR
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// Repository persists the local library of tracked series and their
// download state.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// LibraryEntry is one tracked series plus its library bookkeeping.
type LibraryEntry struct {
	ID      string
	AddedAt time.Time
	Series  SeriesInfo
}

// SaveSeries inserts or refreshes a series and returns its library id.
func (r *Repository) SaveSeries(info *SeriesInfo) (string, error) {
	id, err := r.findID(info.SourceID, info.SeriesID)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = uuid.NewString()
	}

	_, err = r.db.Exec(`
		INSERT INTO series (id, source, source_series_id, title, url, cover_url, description, status, year, genres, authors, artists)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (source, source_series_id) DO UPDATE SET
			title = excluded.title,
			url = excluded.url,
			cover_url = excluded.cover_url,
			description = excluded.description,
			status = excluded.status,
			year = excluded.year,
			genres = excluded.genres,
			authors = excluded.authors,
			artists = excluded.artists`,
		id, info.SourceID, info.SeriesID, info.Title, info.URL, info.CoverURL,
		info.Description, info.Status, info.Year,
		strings.Join(info.Genres, ", "),
		strings.Join(info.Authors, ", "),
		strings.Join(info.Artists, ", "))
	if err != nil {
		return "", fmt.Errorf("saving series: %w", err)
	}
	return id, nil
}

func (r *Repository) findID(source, seriesID string) (string, error) {
	var id string
	err := r.db.QueryRow(
		`SELECT id FROM series WHERE source = ? AND source_series_id = ?`,
		source, seriesID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

const selectSeries = `
	SELECT id, source, source_series_id, title,
		COALESCE(url, ''), COALESCE(cover_url, ''), COALESCE(description, ''),
		COALESCE(status, ''), COALESCE(year, 0),
		COALESCE(genres, ''), COALESCE(authors, ''), COALESCE(artists, ''),
		added_at
	FROM series`

// GetSeries returns the library entry with the given id, or nil when the
// series is not tracked.
func (r *Repository) GetSeries(id string) (*LibraryEntry, error) {
	row := r.db.QueryRow(selectSeries+` WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return entry, err
}

func (r *Repository) ListSeries() ([]LibraryEntry, error) {
	rows, err := r.db.Query(selectSeries + ` ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LibraryEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (*LibraryEntry, error) {
	var entry LibraryEntry
	var genres, authors, artists string
	err := row.Scan(
		&entry.ID, &entry.Series.SourceID, &entry.Series.SeriesID, &entry.Series.Title,
		&entry.Series.URL, &entry.Series.CoverURL, &entry.Series.Description,
		&entry.Series.Status, &entry.Series.Year,
		&genres, &authors, &artists, &entry.AddedAt)
	if err != nil {
		return nil, err
	}
	entry.Series.Genres = splitList(genres)
	entry.Series.Authors = splitList(authors)
	entry.Series.Artists = splitList(artists)
	return &entry, nil
}

func splitList(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ", ")
}

// SaveChapter records a chapter under a library series.
func (r *Repository) SaveChapter(libraryID string, ch *Chapter) error {
	_, err := r.db.Exec(`
		INSERT INTO chapters (id, library_id, title, number, volume, language, url, published, downloaded, file_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			number = excluded.number,
			volume = excluded.volume,
			language = excluded.language,
			url = excluded.url,
			published = excluded.published,
			downloaded = excluded.downloaded,
			file_path = excluded.file_path`,
		ch.ID, libraryID, ch.Title, ch.Number, ch.Volume, ch.Language,
		ch.URL, ch.Published, ch.Downloaded, ch.FilePath)
	if err != nil {
		return fmt.Errorf("saving chapter: %w", err)
	}
	return nil
}

// GetChapters returns all recorded chapters for a library series in
// reading order.
func (r *Repository) GetChapters(libraryID string) ([]Chapter, error) {
	rows, err := r.db.Query(`
		SELECT id, COALESCE(title, ''), COALESCE(number, ''), COALESCE(volume, ''),
			COALESCE(language, ''), COALESCE(url, ''), COALESCE(published, ''),
			downloaded, COALESCE(file_path, '')
		FROM chapters WHERE library_id = ?`, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []Chapter
	for rows.Next() {
		var ch Chapter
		if err := rows.Scan(&ch.ID, &ch.Title, &ch.Number, &ch.Volume,
			&ch.Language, &ch.URL, &ch.Published, &ch.Downloaded, &ch.FilePath); err != nil {
			return nil, err
		}
		chapters = append(chapters, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	SortChapters(chapters)
	return chapters, nil
}

// UpdateChapterStatus marks a chapter's download state and archive path.
func (r *Repository) UpdateChapterStatus(chapterID string, downloaded bool, path string) error {
	_, err := r.db.Exec(
		`UPDATE chapters SET downloaded = ?, file_path = ? WHERE id = ?`,
		downloaded, path, chapterID)
	return err
}

// DownloadedCount reports how many chapters of a series are on disk.
func (r *Repository) DownloadedCount(libraryID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM chapters WHERE library_id = ? AND downloaded`,
		libraryID).Scan(&count)
	return count, err
}

// DeleteSeries removes a series and its chapters from the library.
func (r *Repository) DeleteSeries(id string) error {
	if _, err := r.db.Exec(`DELETE FROM chapters WHERE library_id = ?`, id); err != nil {
		return err
	}
	_, err := r.db.Exec(`DELETE FROM series WHERE id = ?`, id)
	return err
}
