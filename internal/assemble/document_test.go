package assemble

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schemaTempDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	_, currentFile, _, ok := runtime.Caller(0)
	require.True(t, ok)
	schemaSrc := filepath.Join(filepath.Dir(currentFile), "..", "..", "docs", "memo_model.schema.json")
	b, err := os.ReadFile(schemaSrc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "memo_model.schema.json"), b, 0644))
	return tmp
}

func TestDocument_SaveLoadRoundTrip(t *testing.T) {
	tmp := schemaTempDir(t)
	d := NewDocument("Quarterly Memo")
	d.Meta.Audience = "Healthcare Professionals"
	d.Meta.Topic = "new EHR rollout"
	d.Rebuild([]string{"# Intro\n\nHello **world**.\n"})

	path := filepath.Join(tmp, "memo.json")
	require.NoError(t, d.Save(path))

	loaded, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, d.Title, loaded.Title)
	assert.Equal(t, d.Blocks, loaded.Blocks)
	assert.Equal(t, d.Meta.Audience, loaded.Meta.Audience)
	assert.Equal(t, path, loaded.Path)
}

func TestDocument_SaveRejectsInvalidBlocks(t *testing.T) {
	tmp := schemaTempDir(t)
	d := NewDocument("Memo")
	d.Blocks = []Block{{Kind: KindHeading, Level: 9, Text: "too deep"}}

	err := d.Save(filepath.Join(tmp, "memo.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "heading level")
}

func TestDocument_SaveRejectsUnknownKindViaSchema(t *testing.T) {
	tmp := schemaTempDir(t)
	d := NewDocument("Memo")
	d.Blocks = []Block{{Kind: BlockKind("mystery")}}

	err := d.Save(filepath.Join(tmp, "memo.json"))
	require.Error(t, err)
}

func TestDocument_RenderMarkdown(t *testing.T) {
	d := NewDocument("Memo")
	d.Rebuild([]string{
		"# Intro\n\nplain **bold** `code`\n\n- one\n- two\n\n1. first\n2. second\n",
	})

	md := d.RenderMarkdown()
	assert.Equal(t, "# Intro\n\nplain **bold** `code`\n\n- one\n- two\n\n1. first\n2. second\n", md)
}

func TestDocument_RebuildReplacesBlocks(t *testing.T) {
	d := NewDocument("Memo")
	d.Rebuild([]string{"# One\n\nfirst\n"})
	require.Equal(t, []string{"One"}, d.Headings())

	d.Rebuild([]string{"# Two\n\nsecond\n", "# Three\n\nthird\n"})
	assert.Equal(t, []string{"Two", "Three"}, d.Headings())
}
