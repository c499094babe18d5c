package tools

import "strings"

// splitLines breaks file content into its lines without trailing newlines.
// A final newline does not produce a trailing empty line, so an empty file
// has zero lines and "a\n" has exactly one.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// joinLines reassembles lines into file content with a trailing newline.
// Zero lines produce empty content.
func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
