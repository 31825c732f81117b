package exporters

import (
	"regexp"
	"strings"
)

const maxFilenameRunes = 200

var (
	// invalid on at least one common filesystem
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	filenameSpaces       = regexp.MustCompile(`\s+`)
	obsidianReplacer     = strings.NewReplacer("#", "", "[", "(", "]", ")", "^", "")
)

// sanitizeFilename turns a book title into a note filename Obsidian can
// link to. Long titles are cut on a rune boundary.
func sanitizeFilename(title string) string {
	name := invalidFilenameChars.ReplaceAllString(title, "")
	name = filenameSpaces.ReplaceAllString(name, " ")
	name = obsidianReplacer.Replace(strings.TrimSpace(name))

	if runes := []rune(name); len(runes) > maxFilenameRunes {
		name = strings.TrimSpace(string(runes[:maxFilenameRunes]))
	}
	if name == "" {
		return "Untitled"
	}
	return name
}
