package services

// ProgressKind says which stream a Progress event belongs to. The two
// streams are independent: image events count pages inside one chapter,
// chapter events count chapters inside one batch. Within each stream
// the Current value only ever grows; across streams no ordering is
// promised.
type ProgressKind string

const (
	ProgressImage   ProgressKind = "image"
	ProgressChapter ProgressKind = "chapter"
)

// Progress is one event on the Downloader's progress channel.
type Progress struct {
	Kind          ProgressKind
	SeriesTitle   string
	ChapterID     string
	ChapterNumber string
	Current       int
	Total         int
	// Err is set when the item this event reports on failed. The
	// pipeline keeps going either way.
	Err error
}
