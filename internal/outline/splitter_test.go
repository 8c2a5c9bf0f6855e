package outline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_ThreeSections(t *testing.T) {
	input := "# Intro\nSome text.\n## Sub\nMore text.\n# Conclusion\nEnd.\n"

	sections := Split(input)

	require.Len(t, sections, 3)
	assert.Equal(t, "# Intro\nSome text.\n", sections[0].Content)
	assert.Equal(t, "## Sub\nMore text.\n", sections[1].Content)
	assert.Equal(t, "# Conclusion\nEnd.\n", sections[2].Content)

	assert.Equal(t, "Intro", sections[0].Title)
	assert.Equal(t, 1, sections[0].Level)
	assert.Equal(t, "Sub", sections[1].Title)
	assert.Equal(t, 2, sections[1].Level)
	assert.Equal(t, "Conclusion", sections[2].Title)
}

func TestSplit_RoundTripIsLossless(t *testing.T) {
	inputs := []string{
		"# A\n",
		"# A\nbody\n## B\nmore\n### C\nend",
		"# Solo heading without trailing newline",
		"# A\n\n\n# B\n  indented body\n#NoSpace absorbed into B\n# C\n",
	}
	for _, input := range inputs {
		sections := Split(input)
		require.NotEmpty(t, sections, "input %q", input)

		var sb strings.Builder
		for i, s := range sections {
			assert.Equal(t, i, s.Index)
			sb.WriteString(s.Content)
		}
		assert.Equal(t, input, sb.String(), "concatenation must reproduce input")
	}
}

func TestSplit_NoHeadingsYieldsEmpty(t *testing.T) {
	assert.Empty(t, Split(""))
	assert.Empty(t, Split("just prose\nwith lines\n"))
	assert.Empty(t, Split("#NoSpace is not a heading\n"))
}

func TestSplit_HashWithoutSpaceIsNotABoundary(t *testing.T) {
	input := "#NoSpace\nText\n# Real Heading\nBody\n"

	sections := Split(input)

	// The pseudo-heading precedes the first real heading, so its text is
	// dropped rather than emitted as a section.
	require.Len(t, sections, 1)
	assert.Equal(t, "# Real Heading\nBody\n", sections[0].Content)
	assert.Equal(t, "Real Heading", sections[0].Title)
}

func TestSplit_PseudoHeadingAbsorbedByPrecedingSection(t *testing.T) {
	input := "# A\nbody\n#NoSpace\nmore\n# B\nend\n"

	sections := Split(input)

	require.Len(t, sections, 2)
	assert.Equal(t, "# A\nbody\n#NoSpace\nmore\n", sections[0].Content)
	assert.Equal(t, "# B\nend\n", sections[1].Content)
}

func TestRenderPlainText_StripsMarkup(t *testing.T) {
	md := "## Sub\nMore **bold** and *emphatic* text with `code` and _edges_."

	got := RenderPlainText(md)

	assert.Equal(t, "Sub\nMore bold and emphatic text with code and edges.", got)
}

func TestRenderPlainText_PreservesNonMarkupCharacters(t *testing.T) {
	md := "# T\nsnake_case stays, math 2*3 loses the star, 100% kept."

	got := RenderPlainText(md)

	assert.Contains(t, got, "snake_case stays")
	assert.Contains(t, got, "100% kept")
	assert.NotContains(t, got, "#")
}
