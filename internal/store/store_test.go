package store

import (
	"os"
	"path/filepath"
	"testing"

	"memogen/internal/outline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, contents ...string) *SectionStore {
	t.Helper()
	s, err := NewSectionStore(t.TempDir())
	require.NoError(t, err)

	sections := make([]outline.Section, 0, len(contents))
	for i, c := range contents {
		sections = append(sections, outline.Section{Index: i, Content: c})
	}
	require.NoError(t, s.Init(sections))
	return s
}

func TestSectionStore_InitReadWrite(t *testing.T) {
	s := newTestStore(t, "# A\none\n", "# B\ntwo\n")

	assert.Equal(t, 2, s.Len())

	got, err := s.Read(0)
	require.NoError(t, err)
	assert.Equal(t, "# A\none\n", got)

	require.NoError(t, s.Write(1, "# B\nrewritten\n"))
	got, err = s.Read(1)
	require.NoError(t, err)
	assert.Equal(t, "# B\nrewritten\n", got)
}

func TestSectionStore_ListOrdered(t *testing.T) {
	s := newTestStore(t, "# A\n", "# B\n", "# C\n")

	list, err := s.ListOrdered()
	require.NoError(t, err)
	assert.Equal(t, []string{"# A\n", "# B\n", "# C\n"}, list)
}

func TestSectionStore_FileNamesAreOneBased(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSectionStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Init([]outline.Section{{Index: 0, Content: "# A\n"}}))

	_, err = os.Stat(filepath.Join(dir, "section_1.md"))
	assert.NoError(t, err)
}

func TestSectionStore_IndexOutOfRange(t *testing.T) {
	s := newTestStore(t, "# A\n")

	_, err := s.Read(1)
	assert.Error(t, err)
	assert.Error(t, s.Write(-1, "x"))
}

func TestSectionStore_MissingFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSectionStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Init([]outline.Section{{Index: 0, Content: "# A\n"}}))
	require.NoError(t, os.Remove(filepath.Join(dir, "section_1.md")))

	_, err = s.Read(0)
	assert.Error(t, err)
}

func TestSectionStore_ClearRemovesPreviousResults(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSectionStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Init([]outline.Section{{Index: 0, Content: "# A\n"}}))

	require.NoError(t, s.Clear())
	assert.Equal(t, 0, s.Len())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSectionStore_RestoreRecoversCount(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSectionStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Init([]outline.Section{
		{Index: 0, Content: "# A\n"},
		{Index: 1, Content: "# B\n"},
	}))

	reopened, err := NewSectionStore(dir)
	require.NoError(t, err)
	require.NoError(t, reopened.Restore())
	assert.Equal(t, 2, reopened.Len())

	list, err := reopened.ListOrdered()
	require.NoError(t, err)
	assert.Equal(t, []string{"# A\n", "# B\n"}, list)
}

func TestNewSectionStore_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "sections")
	_, err := NewSectionStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
