package chat

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient produces Agents backed by Gemini text generation. One client
// is shared by every participant; each agent binds a participant's fixed
// instruction to the shared model.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: modelName}, nil
}

// Agent binds a participant to the shared client.
func (c *GeminiClient) Agent(p Participant) Agent {
	return &geminiAgent{client: c, participant: p}
}

type geminiAgent struct {
	client      *GeminiClient
	participant Participant
}

func (a *geminiAgent) Generate(ctx context.Context, prompt string) (string, error) {
	full := prompt
	if instr := strings.TrimSpace(a.participant.Instruction); instr != "" {
		full = instr + "\n\n" + prompt
	}
	contents := genai.Text(full)
	resp, err := a.client.client.Models.GenerateContent(ctx, a.client.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%s generation failed: %w", a.participant.Role, err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s returned no usable content", a.participant.Role)
	}
	return cleanMarkdownOutput(text), nil
}

func cleanMarkdownOutput(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```markdown") {
		text = strings.TrimPrefix(text, "```markdown")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
