package assemble

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const documentSchemaVersion = "v1.0.0"

var (
	schemaCacheMu sync.Mutex
	schemaCache   = make(map[string]*jsonschema.Schema)
)

// Document is the assembled memo: an ordered block sequence plus metadata,
// persisted as a JSON model. Path remembers where the document was loaded
// from; it is not part of the persisted form.
type Document struct {
	SchemaVersion string       `json:"schema_version"`
	Title         string       `json:"title"`
	Blocks        []Block      `json:"blocks"`
	Meta          DocumentMeta `json:"meta"`

	Path string `json:"-"`
}

type DocumentMeta struct {
	Audience    string `json:"audience,omitempty"`
	MemoType    string `json:"memo_type,omitempty"`
	Topic       string `json:"topic,omitempty"`
	GeneratedAt string `json:"generated_at"`
}

func NewDocument(title string) *Document {
	return &Document{
		SchemaVersion: documentSchemaVersion,
		Title:         title,
		Blocks:        []Block{},
		Meta: DocumentMeta{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}
}

// Rebuild replaces the block sequence with the parsed form of the given
// section texts, in section order.
func (d *Document) Rebuild(sections []string) {
	blocks := make([]Block, 0, len(sections)*4)
	for _, s := range sections {
		blocks = append(blocks, ParseBlocks(s)...)
	}
	d.Blocks = blocks
}

// Headings returns the texts of all heading blocks in document order.
func (d *Document) Headings() []string {
	var out []string
	for _, b := range d.Blocks {
		if b.Kind == KindHeading {
			out = append(out, b.Text)
		}
	}
	return out
}

func LoadDocument(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("failed to parse document model: %w", err)
	}
	d.Path = path
	return &d, nil
}

// Save validates the document against the JSON schema and writes the model.
func (d *Document) Save(path string) error {
	if err := d.validateWithSchema(path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if err := os.WriteFile(path, b, 0644); err != nil {
		return err
	}
	d.Path = path
	return nil
}

func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("document is nil")
	}
	if d.SchemaVersion == "" {
		return fmt.Errorf("schema_version is required")
	}
	for i, b := range d.Blocks {
		switch b.Kind {
		case KindHeading:
			if b.Level < 1 || b.Level > 6 {
				return fmt.Errorf("block %d: heading level %d out of range", i, b.Level)
			}
		case KindParagraph, KindBulletItem, KindNumberedItem, KindCodeBlock, KindTableRow:
		default:
			return fmt.Errorf("block %d: unknown kind %q", i, b.Kind)
		}
	}
	return nil
}

func (d *Document) validateWithSchema(modelPath string) error {
	if err := d.Validate(); err != nil {
		return err
	}

	schemaPath := resolveSchemaPath(modelPath)
	if schemaPath == "" {
		return fmt.Errorf("memo model schema file not found")
	}

	schema, err := loadCompiledSchema(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to compile memo model schema: %w", err)
	}

	var v any
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal document for schema validation: %w", err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("failed to normalize document for schema validation: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("memo model schema validation failed: %w", err)
	}
	return nil
}

func resolveSchemaPath(modelPath string) string {
	candidates := []string{
		filepath.Join(filepath.Dir(modelPath), "memo_model.schema.json"),
		filepath.Join("docs", "memo_model.schema.json"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func loadCompiledSchema(schemaPath string) (*jsonschema.Schema, error) {
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, err
	}

	schemaCacheMu.Lock()
	if cached, ok := schemaCache[abs]; ok {
		schemaCacheMu.Unlock()
		return cached, nil
	}
	schemaCacheMu.Unlock()

	compiler := jsonschema.NewCompiler()
	compiled, err := compiler.Compile("file://" + filepath.ToSlash(abs))
	if err != nil {
		return nil, err
	}

	schemaCacheMu.Lock()
	schemaCache[abs] = compiled
	schemaCacheMu.Unlock()
	return compiled, nil
}

// RenderMarkdown renders the block sequence back to a markdown string, the
// human-readable companion of the JSON model.
func (d *Document) RenderMarkdown() string {
	var sb strings.Builder
	number := 0

	for i, b := range d.Blocks {
		if b.Kind != KindNumberedItem {
			number = 0
		}
		switch b.Kind {
		case KindHeading:
			sb.WriteString(strings.Repeat("#", b.Level))
			sb.WriteString(" ")
			sb.WriteString(b.Text)
			sb.WriteString("\n\n")
		case KindParagraph:
			for _, r := range b.Runs {
				switch r.Style {
				case StyleBold:
					sb.WriteString("**" + r.Text + "**")
				case StyleEmphasis:
					sb.WriteString("*" + r.Text + "*")
				case StyleCode:
					sb.WriteString("`" + r.Text + "`")
				default:
					sb.WriteString(r.Text)
				}
			}
			sb.WriteString("\n\n")
		case KindBulletItem:
			sb.WriteString("- " + b.Text + "\n")
			if !nextBlockIs(d.Blocks, i, KindBulletItem) {
				sb.WriteString("\n")
			}
		case KindNumberedItem:
			number++
			fmt.Fprintf(&sb, "%d. %s\n", number, b.Text)
			if !nextBlockIs(d.Blocks, i, KindNumberedItem) {
				sb.WriteString("\n")
			}
		case KindCodeBlock:
			sb.WriteString("```\n" + b.Text + "\n```\n\n")
		case KindTableRow:
			sb.WriteString("| " + strings.Join(b.Cells, " | ") + " |\n")
			if !nextBlockIs(d.Blocks, i, KindTableRow) {
				sb.WriteString("\n")
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func nextBlockIs(blocks []Block, i int, kind BlockKind) bool {
	return i+1 < len(blocks) && blocks[i+1].Kind == kind
}
