package utils

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	unsafeChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes a name safe to use as a file or directory name
// on any platform. Illegal characters become underscores, runs of
// whitespace collapse to one space, and leading/trailing spaces and dots
// are trimmed.
func SanitizeFilename(name string) string {
	sanitized := unsafeChars.ReplaceAllString(name, "_")
	sanitized = whitespace.ReplaceAllString(sanitized, " ")
	sanitized = strings.Trim(sanitized, " .")

	if sanitized == "" {
		return "untitled"
	}

	if runes := []rune(sanitized); len(runes) > 255 {
		sanitized = string(runes[:255])
	}
	return sanitized
}

// ChapterDirName builds the on-disk directory name for a chapter:
// "Chapter <number>[ Vol.<volume>][ - <title>]", sanitized.
func ChapterDirName(number, volume, title string) string {
	name := "Chapter " + number
	if volume != "" {
		name += " Vol." + volume
	}
	if title != "" {
		name += " - " + title
	}
	return SanitizeFilename(name)
}

// FormatBytes renders a byte count as a human readable size.
func FormatBytes(count int64) string {
	size := float64(count)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.1f TB", size)
}

// DirSize sums the size of all regular files under path.
func DirSize(path string) (int64, error) {
	var total int64
	err := filepath.WalkDir(path, func(_ string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.Type().IsRegular() {
			info, err := entry.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	return total, err
}
