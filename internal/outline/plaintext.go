package outline

import (
	"bufio"
	"regexp"
	"strings"
)

var (
	headingMarker = regexp.MustCompile(`^#+[ \t]+`)
	// Underscore emphasis hugs a word from the outside; interior underscores
	// (snake_case identifiers) are plain text and must survive.
	underscoreOpen  = regexp.MustCompile(`(^|[\s(\[{])_+`)
	underscoreClose = regexp.MustCompile(`_+([\s)\]}.,;:!?]|$)`)
	markupDelimiter = strings.NewReplacer("**", "", "*", "", "`", "")
)

// RenderPlainText strips structural markup from markdown text and returns the
// underlying readable text: heading markers, emphasis/bold markers and inline
// code delimiters are removed, everything else is preserved in order. The
// result is only used as informational context for generation calls.
func RenderPlainText(markdown string) string {
	var sb strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		line = headingMarker.ReplaceAllString(line, "")
		line = markupDelimiter.Replace(line)
		line = underscoreOpen.ReplaceAllString(line, "$1")
		line = underscoreClose.ReplaceAllString(line, "$1")
		if !first {
			sb.WriteString("\n")
		}
		sb.WriteString(line)
		first = false
	}
	return strings.TrimSpace(sb.String())
}
