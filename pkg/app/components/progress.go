package components

import (
	"fmt"
	"strings"

	"github.com/Yui007/MangaForge/pkg/app/styles"
	"github.com/Yui007/MangaForge/pkg/services"
)

// ProgressTracker folds the downloader's two event streams into one
// renderable view: a batch-level chapter bar plus a page bar for every
// chapter still in flight.
type ProgressTracker struct {
	chapters map[string]services.Progress
	order    []string
	batch    *services.Progress
	failures int
	width    int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{
		chapters: make(map[string]services.Progress),
		width:    width,
	}
}

// Update applies one progress event.
func (p *ProgressTracker) Update(event services.Progress) {
	switch event.Kind {
	case services.ProgressChapter:
		batch := event
		p.batch = &batch
		if event.Err != nil {
			p.failures++
		}
		// the chapter has settled either way
		p.remove(event.ChapterID)
	case services.ProgressImage:
		if _, ok := p.chapters[event.ChapterID]; !ok {
			p.order = append(p.order, event.ChapterID)
		}
		p.chapters[event.ChapterID] = event
		if event.Current >= event.Total {
			p.remove(event.ChapterID)
		}
	}
}

func (p *ProgressTracker) remove(chapterID string) {
	if _, ok := p.chapters[chapterID]; !ok {
		return
	}
	delete(p.chapters, chapterID)
	for i, id := range p.order {
		if id == chapterID {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// HasActive reports whether any chapter still has pages in flight.
func (p *ProgressTracker) HasActive() bool {
	return len(p.chapters) > 0
}

// Done reports whether every chapter in the batch has settled.
func (p *ProgressTracker) Done() bool {
	return p.batch != nil && p.batch.Current >= p.batch.Total
}

// Failures counts chapters that settled with an error.
func (p *ProgressTracker) Failures() int {
	return p.failures
}

func (p *ProgressTracker) View() string {
	var b strings.Builder

	if p.batch != nil {
		label := fmt.Sprintf("Chapters %d/%d", p.batch.Current, p.batch.Total)
		if p.failures > 0 {
			label += styles.StatusError.Render(fmt.Sprintf("  (%d failed)", p.failures))
		}
		b.WriteString(styles.TextStyle.Render(label))
		b.WriteString("\n")
		b.WriteString(renderProgressBar(p.batch.Current, p.batch.Total, p.width-4))
		b.WriteString("\n\n")
	}

	for _, chapterID := range p.order {
		event := p.chapters[chapterID]

		b.WriteString(styles.TextStyle.Render(fmt.Sprintf("Chapter %s", event.ChapterNumber)))
		b.WriteString("\n")
		b.WriteString(renderProgressBar(event.Current, event.Total, p.width-4))
		percentage := float64(event.Current) / float64(event.Total) * 100
		b.WriteString(styles.MutedStyle.Render(fmt.Sprintf(" %d/%d pages (%.0f%%)", event.Current, event.Total, percentage)))
		b.WriteString("\n")
	}

	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	return styles.ProgressBarStyle.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// SimpleProgress renders a bare progress bar for non-interactive
// output.
func SimpleProgress(current, total, width int) string {
	return renderProgressBar(current, total, width)
}
