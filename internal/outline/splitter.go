package outline

import (
	"regexp"
	"strings"
)

// Section is one contiguous heading-delimited span of the outline.
// Content always starts with the heading line that opened the section.
type Section struct {
	Index   int
	Title   string
	Level   int
	Content string
}

// headingLine matches lines that start with one or more '#' followed by
// whitespace. A line like "#NoSpace" is not a heading.
var headingLine = regexp.MustCompile(`(?m)^#+[ \t].*\n?`)

// Split parses outline text into ordered, contiguous sections by heading
// boundary. For k heading matches at offsets p1 < ... < pk, section i spans
// [pi, pi+1) and the last section spans [pk, end). Concatenating the results
// reproduces the input exactly when the input starts with a heading; text
// before the first heading is dropped. No headings means no sections.
func Split(text string) []Section {
	matches := headingLine.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(matches))
	for i, m := range matches {
		start := m[0]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		content := text[start:end]
		title, level := ParseHeading(content)
		sections = append(sections, Section{
			Index:   i,
			Title:   title,
			Level:   level,
			Content: content,
		})
	}
	return sections
}

// ParseHeading reads the heading level and title from the first line of a
// section's content.
func ParseHeading(content string) (string, int) {
	line := content
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	return strings.TrimSpace(line[level:]), level
}
