package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Engine is the reviewer-guidance memory: it embeds notes, stores them, and
// recalls the most relevant ones for a query. It satisfies the pipeline's
// Memory boundary.
type Engine struct {
	embedder Embedder
	store    *NoteStore
}

func NewEngine(embedder Embedder, store *NoteStore) *Engine {
	return &Engine{embedder: embedder, store: store}
}

// Memorize embeds and stores one note. The note ID is derived from the text
// so re-memorizing identical guidance upserts instead of duplicating.
func (e *Engine) Memorize(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	embedding, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed note: %w", err)
	}

	sum := sha256.Sum256([]byte(text))
	note := NewNote(hex.EncodeToString(sum[:8]), text)
	if err := e.store.Save(ctx, note, embedding); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	return nil
}

// Recall returns the texts of the topK notes most similar to the query.
func (e *Engine) Recall(ctx context.Context, query string, topK int) ([]string, error) {
	embedding, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	notes, err := e.store.SearchSimilar(ctx, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}

	texts := make([]string, 0, len(notes))
	for _, n := range notes {
		texts = append(texts, n.Text)
	}
	return texts, nil
}
