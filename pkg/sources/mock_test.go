package sources

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock_Search(t *testing.T) {
	m := NewMock()

	results, hasNext, err := m.Search("romance", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Mock Romance", results[0].Title)
	assert.False(t, hasNext)

	all, _, err := m.Search("", 1)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMock_GetChapters(t *testing.T) {
	m := NewMock()

	chapters, err := m.GetChapters("mock-1")
	require.NoError(t, err)
	require.Len(t, chapters, 12)
	assert.Equal(t, "1", chapters[0].Number)
	assert.Equal(t, "10.5", chapters[10].Number)
	assert.Equal(t, "Extra", chapters[11].Number)

	_, err = m.GetChapters("nope")
	assert.Error(t, err)
}

func TestMock_DownloadImageDecodes(t *testing.T) {
	m := NewMock()

	urls, err := m.GetChapterImages("mock-1/ch-1")
	require.NoError(t, err)
	require.Len(t, urls, 3)

	raw, err := m.DownloadImage(urls[0])
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 96, img.Bounds().Dy())
}
