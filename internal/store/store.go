package store

import (
	"fmt"
	"os"
	"path/filepath"

	"memogen/internal/outline"
)

// SectionStore keeps one file per section inside a directory. File names are
// derived from the 1-based ordinal, and the canonical order is the ordinal
// recorded at creation time, never directory iteration order. Access is
// strictly sequential, so no locking is needed.
type SectionStore struct {
	dir   string
	count int
}

// NewSectionStore opens (and creates if missing) the backing directory.
func NewSectionStore(dir string) (*SectionStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create section directory: %w", err)
	}
	return &SectionStore{dir: dir}, nil
}

// Init persists the outline skeleton, one file per section, and records the
// section count as the canonical ordering.
func (s *SectionStore) Init(sections []outline.Section) error {
	for _, sec := range sections {
		if err := s.writeFile(sec.Index, sec.Content); err != nil {
			return err
		}
	}
	s.count = len(sections)
	return nil
}

// Restore recovers the section count from a directory written by a previous
// run by probing the sequential file names.
func (s *SectionStore) Restore() error {
	n := 0
	for {
		if _, err := os.Stat(filepath.Join(s.dir, fmt.Sprintf("section_%d.md", n+1))); err != nil {
			if os.IsNotExist(err) {
				break
			}
			return fmt.Errorf("failed to probe section files: %w", err)
		}
		n++
	}
	s.count = n
	return nil
}

// Len returns the number of sections recorded at creation time.
func (s *SectionStore) Len() int {
	return s.count
}

// Read returns the full text of the section at the 0-based index.
func (s *SectionStore) Read(index int) (string, error) {
	if err := s.checkIndex(index); err != nil {
		return "", err
	}
	b, err := os.ReadFile(s.path(index))
	if err != nil {
		return "", fmt.Errorf("failed to read section %d: %w", index, err)
	}
	return string(b), nil
}

// Write replaces the content of the section at the 0-based index.
func (s *SectionStore) Write(index int, content string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	return s.writeFile(index, content)
}

// ListOrdered returns all section contents in ordinal order.
func (s *SectionStore) ListOrdered() ([]string, error) {
	out := make([]string, 0, s.count)
	for i := 0; i < s.count; i++ {
		content, err := s.Read(i)
		if err != nil {
			return nil, err
		}
		out = append(out, content)
	}
	return out, nil
}

// Clear removes the section files of a previous run and resets the count.
func (s *SectionStore) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to list section directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", e.Name(), err)
		}
	}
	s.count = 0
	return nil
}

func (s *SectionStore) writeFile(index int, content string) error {
	if err := os.WriteFile(s.path(index), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write section %d: %w", index, err)
	}
	return nil
}

func (s *SectionStore) path(index int) string {
	// File names are 1-based to match the section numbering users see.
	return filepath.Join(s.dir, fmt.Sprintf("section_%d.md", index+1))
}

func (s *SectionStore) checkIndex(index int) error {
	if index < 0 || index >= s.count {
		return fmt.Errorf("section index %d out of range (have %d sections)", index, s.count)
	}
	return nil
}
