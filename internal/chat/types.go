package chat

import (
	"context"
)

// Role identifies a participant in a section's review cycle.
type Role string

const (
	RoleWriter    Role = "Writer"
	RoleCritic    Role = "Critic"
	RoleLayman    Role = "Layman Reviewer"
	RoleFinancial Role = "Financial Reviewer"
	RoleQuality   Role = "Quality Assurance Reviewer"
	RoleMeta      Role = "Meta Reviewer"
	RoleOutliner  Role = "Outliner"
)

// Participant is an immutable configuration record for one speaker: its role
// name and the fixed instruction it operates under. Participants carry no
// hidden state; everything else flows through the conversation log.
type Participant struct {
	Role        Role
	Instruction string
}

// Cast groups the participants of one review cycle.
type Cast struct {
	Writer    Participant
	Critic    Participant
	Reviewers []Participant
	Meta      Participant
}

// IsReviewer reports whether the role belongs to one of the specialist
// reviewers (not the critic, not the meta reviewer).
func (c Cast) IsReviewer(role Role) bool {
	for _, r := range c.Reviewers {
		if r.Role == role {
			return true
		}
	}
	return false
}

// Agent is the collaborator boundary: a single text prompt in, a single text
// response out. The underlying generation has unbounded latency and no retry
// policy; a failing call fails the current run.
type Agent interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Review is the structured reviewer verdict produced by the summarization
// step that follows each specialist reviewer's turn.
type Review struct {
	Reviewer string `json:"reviewer"`
	Review   string `json:"review"`
}
