package assemble

import (
	"regexp"
	"strings"
)

var (
	headingPattern  = regexp.MustCompile(`^(#{1,6})[ \t]+(.*)$`)
	bulletPattern   = regexp.MustCompile(`^[-*+][ \t]+(.*)$`)
	numberedPattern = regexp.MustCompile(`^\d+[.)][ \t]+(.*)$`)
)

// ParseBlocks converts markdown-shaped section text into the block sequence
// used for assembly and merging. The parser is line-oriented and never
// fails: anything it cannot classify, including heading-like lines missing
// the separator after the level marker, degrades to a paragraph.
func ParseBlocks(text string) []Block {
	var blocks []Block
	var paragraph []string

	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		joined := strings.Join(paragraph, " ")
		blocks = append(blocks, Block{Kind: KindParagraph, Runs: parseRuns(joined)})
		paragraph = nil
	}

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flushParagraph()

		case strings.HasPrefix(trimmed, "```"):
			flushParagraph()
			var code []string
			for i++; i < len(lines); i++ {
				if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
					break
				}
				code = append(code, lines[i])
			}
			// An unterminated fence swallows the rest of the text as code.
			blocks = append(blocks, Block{Kind: KindCodeBlock, Text: strings.Join(code, "\n")})

		case headingPattern.MatchString(trimmed):
			flushParagraph()
			m := headingPattern.FindStringSubmatch(trimmed)
			blocks = append(blocks, Block{
				Kind:  KindHeading,
				Level: len(m[1]),
				Text:  strings.TrimSpace(m[2]),
			})

		case bulletPattern.MatchString(trimmed):
			flushParagraph()
			m := bulletPattern.FindStringSubmatch(trimmed)
			blocks = append(blocks, Block{Kind: KindBulletItem, Text: m[1]})

		case numberedPattern.MatchString(trimmed):
			flushParagraph()
			m := numberedPattern.FindStringSubmatch(trimmed)
			blocks = append(blocks, Block{Kind: KindNumberedItem, Text: m[1]})

		case strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") && len(trimmed) > 1:
			flushParagraph()
			if isTableSeparator(trimmed) {
				continue
			}
			blocks = append(blocks, Block{Kind: KindTableRow, Cells: splitTableCells(trimmed)})

		default:
			// "#NoSpace" and friends land here and stay readable text.
			paragraph = append(paragraph, trimmed)
		}
	}
	flushParagraph()

	return blocks
}

// isTableSeparator reports whether a pipe line is the |---|---| divider
// between a table header and its body, which carries no content.
func isTableSeparator(line string) bool {
	inner := strings.Trim(line, "|")
	for _, cell := range strings.Split(inner, "|") {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			return false
		}
		for _, r := range cell {
			if r != '-' && r != ':' {
				return false
			}
		}
	}
	return true
}

func splitTableCells(line string) []string {
	inner := strings.TrimSuffix(strings.TrimPrefix(line, "|"), "|")
	parts := strings.Split(inner, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

// parseRuns splits paragraph text into styled runs on **bold**, *em*/_em_
// and `code` delimiters. Unpaired delimiters are kept as literal text.
func parseRuns(text string) []StyledRun {
	var runs []StyledRun
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			runs = append(runs, StyledRun{Text: plain.String(), Style: StylePlain})
			plain.Reset()
		}
	}

	i := 0
	for i < len(text) {
		switch {
		case strings.HasPrefix(text[i:], "**"):
			end := strings.Index(text[i+2:], "**")
			if end < 0 {
				plain.WriteString(text[i:])
				i = len(text)
				continue
			}
			flush()
			runs = append(runs, StyledRun{Text: text[i+2 : i+2+end], Style: StyleBold})
			i += end + 4

		case text[i] == '*':
			end := strings.IndexByte(text[i+1:], '*')
			if end < 0 {
				plain.WriteByte('*')
				i++
				continue
			}
			flush()
			runs = append(runs, StyledRun{Text: text[i+1 : i+1+end], Style: StyleEmphasis})
			i += end + 2

		case text[i] == '_' && emphasisOpensAt(text, i):
			end := strings.IndexByte(text[i+1:], '_')
			if end < 0 {
				plain.WriteByte('_')
				i++
				continue
			}
			flush()
			runs = append(runs, StyledRun{Text: text[i+1 : i+1+end], Style: StyleEmphasis})
			i += end + 2

		case text[i] == '`':
			end := strings.IndexByte(text[i+1:], '`')
			if end < 0 {
				plain.WriteByte('`')
				i++
				continue
			}
			flush()
			runs = append(runs, StyledRun{Text: text[i+1 : i+1+end], Style: StyleCode})
			i += end + 2

		default:
			plain.WriteByte(text[i])
			i++
		}
	}
	flush()

	return runs
}

// emphasisOpensAt keeps interior underscores (snake_case) as literal text:
// an underscore only opens emphasis at the start of a word.
func emphasisOpensAt(text string, i int) bool {
	if i == 0 {
		return true
	}
	prev := text[i-1]
	return prev == ' ' || prev == '\t' || prev == '(' || prev == '['
}
