package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Yui007/MangaForge/pkg/app/components"
	"github.com/Yui007/MangaForge/pkg/app/styles"
	"github.com/Yui007/MangaForge/pkg/services"
)

type progressMsg services.Progress

type streamClosedMsg struct{}

// DownloadModel renders a live view of one download batch. It drains
// the downloader's progress channel and quits when the channel closes.
type DownloadModel struct {
	title   string
	events  <-chan services.Progress
	tracker *components.ProgressTracker
	done    bool
}

func NewDownloadModel(title string, events <-chan services.Progress) DownloadModel {
	return DownloadModel{
		title:   title,
		events:  events,
		tracker: components.NewProgressTracker(40),
	}
}

func (m DownloadModel) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m DownloadModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.events
		if !ok {
			return streamClosedMsg{}
		}
		return progressMsg(event)
	}
}

func (m DownloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.tracker.Update(services.Progress(msg))
		return m, m.waitForEvent()
	case streamClosedMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			// hide the view; the batch keeps running to completion
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m DownloadModel) View() string {
	if m.done {
		return ""
	}

	view := styles.TitleStyle.Render("📥 "+m.title) + "\n\n"
	view += m.tracker.View()
	view += styles.HelpStyle.Render("q: hide progress view (downloads continue)")
	return view
}

// RunDownloadView blocks rendering the batch until its progress
// channel closes.
func RunDownloadView(title string, events <-chan services.Progress) error {
	p := tea.NewProgram(NewDownloadModel(title, events))
	_, err := p.Run()
	return err
}
