package assemble

import (
	"fmt"
)

// Merge replaces the section titled title with the parsed form of newText.
// The section spans from its heading block (inclusive) to the next heading of
// the same or shallower level (exclusive), or the end of the document. The
// block list is always rebuilt as before + new + after, never mutated by
// index, so positions can't shift under the operation.
func (d *Document) Merge(title, newText string) error {
	start, end, err := d.sectionSpan(title)
	if err != nil {
		return err
	}
	d.Blocks = spliceBlocks(d.Blocks, start, end, ParseBlocks(newText))
	return nil
}

// AppendToSection inserts the parsed form of newText at the end of the named
// section, keeping the existing section content in place.
func (d *Document) AppendToSection(title, newText string) error {
	_, end, err := d.sectionSpan(title)
	if err != nil {
		return err
	}
	d.Blocks = spliceBlocks(d.Blocks, end, end, ParseBlocks(newText))
	return nil
}

// sectionSpan locates the half-open block range [start, end) of the first
// section whose heading text exactly matches title.
func (d *Document) sectionSpan(title string) (int, int, error) {
	start := -1
	level := 0
	for i, b := range d.Blocks {
		if b.Kind == KindHeading && b.Text == title {
			start = i
			level = b.Level
			break
		}
	}
	if start < 0 {
		return 0, 0, fmt.Errorf("no section with heading %q", title)
	}

	end := len(d.Blocks)
	for i := start + 1; i < len(d.Blocks); i++ {
		b := d.Blocks[i]
		if b.Kind == KindHeading && b.Level <= level {
			end = i
			break
		}
	}
	return start, end, nil
}

func spliceBlocks(blocks []Block, start, end int, insert []Block) []Block {
	out := make([]Block, 0, len(blocks)-(end-start)+len(insert))
	out = append(out, blocks[:start]...)
	out = append(out, insert...)
	out = append(out, blocks[end:]...)
	return out
}
