package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAgent answers with canned content and records prompts.
type fakeAgent struct {
	role    Role
	prompts []string
	fail    bool
}

func (a *fakeAgent) Generate(_ context.Context, prompt string) (string, error) {
	a.prompts = append(a.prompts, prompt)
	if a.fail {
		return "", fmt.Errorf("collaborator unavailable")
	}
	if strings.HasPrefix(prompt, reviewSummaryPrompt) {
		return fmt.Sprintf(`{"reviewer": %q, "review": "tighten the second paragraph"}`, a.role), nil
	}
	return fmt.Sprintf("%s says: response %d", a.role, len(a.prompts)), nil
}

func fakeAgents(cast Cast) map[Role]*fakeAgent {
	agents := map[Role]*fakeAgent{
		cast.Writer.Role: {role: cast.Writer.Role},
		cast.Critic.Role: {role: cast.Critic.Role},
		cast.Meta.Role:   {role: cast.Meta.Role},
	}
	for _, r := range cast.Reviewers {
		agents[r.Role] = &fakeAgent{role: r.Role}
	}
	return agents
}

func asAgents(fakes map[Role]*fakeAgent) map[Role]Agent {
	out := make(map[Role]Agent, len(fakes))
	for role, a := range fakes {
		out[role] = a
	}
	return out
}

func TestCycleRunner_FullCycleOrder(t *testing.T) {
	cast := testCast()
	fakes := fakeAgents(cast)
	runner := NewCycleRunner(cast, asAgents(fakes), 3, &scriptedChooser{picks: []int{0}})

	log, err := runner.Run(context.Background(), "seed prompt", 6)
	require.NoError(t, err)
	require.Equal(t, 6, log.Len())

	turns := log.Turns()
	assert.Equal(t, RoleWriter, turns[0].Role)
	assert.Equal(t, RoleCritic, turns[1].Role)
	assert.Equal(t, RoleLayman, turns[2].Role)
	assert.Equal(t, RoleCritic, turns[3].Role)
	assert.Equal(t, RoleMeta, turns[4].Role)
	assert.Equal(t, RoleWriter, turns[5].Role)

	// The first writer turn speaks the seed through its agent.
	assert.Equal(t, "seed prompt", fakes[RoleWriter].prompts[0])
	// The redraft prompt carries the previous draft and the meta feedback.
	redraft := fakes[RoleWriter].prompts[1]
	assert.Contains(t, redraft, turns[0].Content)
	assert.Contains(t, redraft, turns[4].Content)
}

func TestCycleRunner_ReviewerTurnsAreSummarizedJSON(t *testing.T) {
	cast := testCast()
	fakes := fakeAgents(cast)
	runner := NewCycleRunner(cast, asAgents(fakes), 3, &scriptedChooser{picks: []int{2}})

	log, err := runner.Run(context.Background(), "seed", 3)
	require.NoError(t, err)

	turns := log.Turns()
	require.Equal(t, RoleQuality, turns[2].Role)

	var review Review
	require.NoError(t, json.Unmarshal([]byte(turns[2].Content), &review))
	assert.Equal(t, string(RoleQuality), review.Reviewer)
	assert.Equal(t, "tighten the second paragraph", review.Review)

	// Two calls to the reviewer agent: the reflection and the summary.
	require.Len(t, fakes[RoleQuality].prompts, 2)
	assert.Contains(t, fakes[RoleQuality].prompts[0], "Review the following content.")
	assert.True(t, strings.HasPrefix(fakes[RoleQuality].prompts[1], reviewSummaryPrompt))
}

func TestCycleRunner_TruncatedBudgetStillYieldsDraft(t *testing.T) {
	// Budget 2 cuts the cycle before any reviewer or the meta reviewer can
	// speak; extraction must still succeed from the seed writer turn.
	cast := testCast()
	runner := NewCycleRunner(cast, asAgents(fakeAgents(cast)), 3, &scriptedChooser{})

	log, err := runner.Run(context.Background(), "seed", 2)
	require.NoError(t, err)
	require.Equal(t, 2, log.Len())

	draft, err := runner.FinalDraft(log)
	require.NoError(t, err)
	assert.Contains(t, draft, string(RoleWriter))

	_, hasMeta := log.LastByRole(RoleMeta)
	assert.False(t, hasMeta, "truncated cycle never reaches the meta reviewer")
}

func TestCycleRunner_FinalDraftRequiresWriterTurn(t *testing.T) {
	cast := testCast()
	runner := NewCycleRunner(cast, asAgents(fakeAgents(cast)), 3, &scriptedChooser{})

	_, err := runner.FinalDraft(Log{})
	assert.Error(t, err)
}

func TestCycleRunner_CollaboratorFailureAborts(t *testing.T) {
	cast := testCast()
	fakes := fakeAgents(cast)
	fakes[RoleCritic].fail = true
	runner := NewCycleRunner(cast, asAgents(fakes), 3, &scriptedChooser{})

	_, err := runner.Run(context.Background(), "seed", 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(RoleCritic))
}

func TestCycleRunner_MissingAgentIsAnError(t *testing.T) {
	cast := testCast()
	fakes := fakeAgents(cast)
	delete(fakes, RoleCritic)
	runner := NewCycleRunner(cast, asAgents(fakes), 3, &scriptedChooser{})

	_, err := runner.Run(context.Background(), "seed", 4)
	assert.Error(t, err)
}
