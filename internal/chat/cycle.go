package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// reviewSummaryPrompt mirrors the summarization step of the review contract:
// the reviewer's free text is condensed into a structured JSON pair.
const reviewSummaryPrompt = `Return the review as a JSON object only: {"reviewer": "", "review": ""}. Here reviewer should be your role.`

// CycleRunner drives one section's review cycle: it asks the state machine
// who speaks next, builds that participant's message from the log, performs
// the blocking generation call, and appends the turn. Turns are strictly
// sequential; there is no timeout or retry anywhere in the loop.
type CycleRunner struct {
	machine *Machine
	cast    Cast
	agents  map[Role]Agent
}

func NewCycleRunner(cast Cast, agents map[Role]Agent, threshold int, chooser Chooser) *CycleRunner {
	return &CycleRunner{
		machine: NewMachine(cast, threshold, chooser),
		cast:    cast,
		agents:  agents,
	}
}

// Run executes turns until the turn budget is exhausted and returns the
// complete log. The first turn is always the writer speaking the seed prompt
// through its agent. Budgets smaller than a full cycle truncate the cycle;
// the caller extracts the last writer turn regardless.
func (r *CycleRunner) Run(ctx context.Context, seed string, budget int) (Log, error) {
	var log Log
	round := 0

	for log.Len() < budget {
		role := r.machine.Next(log)
		agent, ok := r.agents[role]
		if !ok {
			return log, fmt.Errorf("no agent configured for role %q", role)
		}

		if role == r.cast.Writer.Role {
			round++
		}

		prompt := r.buildPrompt(role, log, seed)
		content, err := agent.Generate(ctx, prompt)
		if err != nil {
			return log, fmt.Errorf("turn %d (%s): %w", log.Len()+1, role, err)
		}

		if r.cast.IsReviewer(role) {
			content = r.summarizeReview(ctx, agent, role, content)
		}

		log = log.Append(Turn{Role: role, Content: content, Round: round})
	}

	return log, nil
}

// FinalDraft extracts the section content from a finished cycle: the last
// turn attributed to the writer. The seed turn guarantees one exists unless
// the budget was zero.
func (r *CycleRunner) FinalDraft(log Log) (string, error) {
	turn, ok := log.LastByRole(r.cast.Writer.Role)
	if !ok {
		return "", fmt.Errorf("conversation log contains no %s turn", r.cast.Writer.Role)
	}
	return turn.Content, nil
}

func (r *CycleRunner) buildPrompt(role Role, log Log, seed string) string {
	switch {
	case role == r.cast.Writer.Role:
		if log.Len() == 0 {
			return seed
		}
		// Redraft: previous draft plus the latest aggregated suggestion.
		draft, _ := log.LastByRole(r.cast.Writer.Role)
		feedback, _ := log.Last()
		var sb strings.Builder
		sb.WriteString("Your previous version of the FOCUS section:\n\n")
		sb.WriteString(draft.Content)
		sb.WriteString("\n\nFeedback to address:\n\n")
		sb.WriteString(feedback.Content)
		sb.WriteString("\n\nReturn the refined section in markdown format.")
		return sb.String()

	case role == r.cast.Meta.Role:
		var sb strings.Builder
		sb.WriteString("Aggregate feedback from all reviewers and give final suggestions on the writing.\n\n")
		for _, t := range log.Turns() {
			if r.cast.IsReviewer(t.Role) {
				sb.WriteString(t.Content)
				sb.WriteString("\n")
			}
		}
		return sb.String()

	default:
		// Critic and specialist reviewers all reflect on the latest draft.
		draft, ok := log.LastByRole(r.cast.Writer.Role)
		if !ok {
			return "Review the following content.\n\n" + seed
		}
		return "Review the following content.\n\n" + draft.Content
	}
}

// summarizeReview performs the follow-up summarization call that converts a
// reviewer's free text into a JSON {reviewer, review} pair. Malformed output
// degrades to the raw review text rather than failing the cycle.
func (r *CycleRunner) summarizeReview(ctx context.Context, agent Agent, role Role, raw string) string {
	summary, err := agent.Generate(ctx, reviewSummaryPrompt+"\n\n"+raw)
	if err != nil {
		return raw
	}
	var review Review
	if err := json.Unmarshal([]byte(strings.TrimSpace(summary)), &review); err != nil || review.Review == "" {
		return raw
	}
	if review.Reviewer == "" {
		review.Reviewer = string(role)
	}
	encoded, err := json.Marshal(review)
	if err != nil {
		return raw
	}
	return string(encoded)
}
