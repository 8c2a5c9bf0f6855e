package assemble

// BlockKind tags the variant of a document block.
type BlockKind string

const (
	KindHeading      BlockKind = "heading"
	KindParagraph    BlockKind = "paragraph"
	KindBulletItem   BlockKind = "bullet_item"
	KindNumberedItem BlockKind = "numbered_item"
	KindCodeBlock    BlockKind = "code_block"
	KindTableRow     BlockKind = "table_row"
)

// RunStyle is the inline styling of a paragraph run.
type RunStyle string

const (
	StylePlain    RunStyle = "plain"
	StyleBold     RunStyle = "bold"
	StyleEmphasis RunStyle = "emphasis"
	StyleCode     RunStyle = "code"
)

// StyledRun is one contiguous span of paragraph text with a single style.
type StyledRun struct {
	Text  string   `json:"text"`
	Style RunStyle `json:"style"`
}

// Block is the document assembly unit. Exactly one variant's fields are
// meaningful per kind: Level+Text for headings, Runs for paragraphs, Text for
// list items and code blocks, Cells for table rows.
type Block struct {
	Kind  BlockKind   `json:"kind"`
	Level int         `json:"level,omitempty"`
	Text  string      `json:"text,omitempty"`
	Runs  []StyledRun `json:"runs,omitempty"`
	Cells []string    `json:"cells,omitempty"`
}

// PlainText flattens a block to its readable text, dropping styling.
func (b Block) PlainText() string {
	switch b.Kind {
	case KindParagraph:
		var out string
		for _, r := range b.Runs {
			out += r.Text
		}
		return out
	case KindTableRow:
		out := ""
		for i, c := range b.Cells {
			if i > 0 {
				out += " "
			}
			out += c
		}
		return out
	default:
		return b.Text
	}
}
