package memory

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Note is one memorized piece of reviewer guidance.
type Note struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

func NewNote(id, text string) Note {
	return Note{
		ID:        id,
		Text:      text,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// NoteStore persists notes with their embeddings in a SQLite database.
type NoteStore struct {
	db *sql.DB
}

// NewNoteStore creates or opens the backing database.
func NewNoteStore(path string) (*NoteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &NoteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *NoteStore) Close() error {
	return s.db.Close()
}

func (s *NoteStore) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		content JSON,
		embedding BLOB
	);`)
	return err
}

// Save upserts a note together with its embedding.
func (s *NoteStore) Save(ctx context.Context, note Note, embedding []float32) error {
	contentJSON, err := json.Marshal(note)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, embedding); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notes (id, content, embedding) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET content=excluded.content, embedding=excluded.embedding
	`, note.ID, contentJSON, buf.Bytes())
	return err
}

// SearchSimilar returns the topK notes closest to the query vector by cosine
// similarity. The scan is brute force over all rows, which is fine for the
// note counts one memo run produces.
func (s *NoteStore) SearchSimilar(ctx context.Context, queryVector []float32, topK int) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT content, embedding FROM notes")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type candidate struct {
		note  Note
		score float32
	}
	var candidates []candidate

	for rows.Next() {
		var contentJSON []byte
		var embeddingBlob []byte
		if err := rows.Scan(&contentJSON, &embeddingBlob); err != nil {
			return nil, err
		}

		var note Note
		if err := json.Unmarshal(contentJSON, &note); err != nil {
			continue
		}

		embedding := make([]float32, len(embeddingBlob)/4)
		if err := binary.Read(bytes.NewReader(embeddingBlob), binary.LittleEndian, &embedding); err != nil {
			continue
		}

		candidates = append(candidates, candidate{
			note:  note,
			score: cosineSimilarity(queryVector, embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			if candidates[i].score < candidates[j].score {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			}
		}
	}
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	result := make([]Note, len(candidates))
	for i, c := range candidates {
		result[i] = c.note
	}
	return result, nil
}

// Count returns the number of stored notes.
func (s *NoteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&n)
	return n, err
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, magA, magB float32
	for i := 0; i < len(a); i++ {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(magA))) * float32(math.Sqrt(float64(magB))))
}
