package pipeline

import (
	"context"
	"fmt"
	"strings"

	"memogen/internal/chat"
	"memogen/internal/outline"
	"memogen/internal/store"
)

// AgentFactory binds a participant configuration record to a live
// collaborator. The Gemini client satisfies this; tests supply fakes.
type AgentFactory interface {
	Agent(p chat.Participant) chat.Agent
}

// Memory is the optional reviewer-guidance memory consulted before each
// section cycle and fed after it. It is advisory: recall failures degrade to
// no guidance and never abort a run.
type Memory interface {
	Recall(ctx context.Context, query string, topK int) ([]string, error)
	Memorize(ctx context.Context, text string) error
}

// Options carries the configuration surface of a run. Budgets and the
// threshold are inputs, never internal state.
type Options struct {
	Audience        string
	MemoType        string
	Topic           string
	TurnBudget      int
	ReviewThreshold int
	Chooser         chat.Chooser
	Memory          Memory
	RecallTopK      int
}

// Driver runs the two passes over the section store: a draft pass and a
// refine pass, always in section order, strictly sequentially. Every turn is
// a blocking generation call with no timeout or retry; a failure aborts the
// run naming the section and step that failed.
type Driver struct {
	store   *store.SectionStore
	cast    chat.Cast
	factory AgentFactory
	prompts *PromptBuilder
	opts    Options
}

func NewDriver(s *store.SectionStore, cast chat.Cast, factory AgentFactory, opts Options) *Driver {
	if opts.TurnBudget <= 0 {
		opts.TurnBudget = 6
	}
	if opts.RecallTopK <= 0 {
		opts.RecallTopK = 3
	}
	return &Driver{
		store:   s,
		cast:    cast,
		factory: factory,
		prompts: &PromptBuilder{
			Audience: opts.Audience,
			MemoType: opts.MemoType,
			Topic:    opts.Topic,
		},
		opts: opts,
	}
}

// CreateOutline asks the outliner collaborator for the memo outline.
func (d *Driver) CreateOutline(ctx context.Context) (string, error) {
	outliner := d.factory.Agent(chat.OutlinerParticipant(d.opts.Audience, d.opts.MemoType))
	text, err := outliner.Generate(ctx, d.prompts.BuildOutlineTask())
	if err != nil {
		return "", fmt.Errorf("outline creation failed: %w", err)
	}
	return text, nil
}

// Run executes the draft pass followed by the refine pass over every
// section currently in the store.
func (d *Driver) Run(ctx context.Context) error {
	for _, pass := range []Pass{PassDraft, PassRefine} {
		if err := d.runPass(ctx, pass); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) runPass(ctx context.Context, pass Pass) error {
	total := d.store.Len()
	for i := 0; i < total; i++ {
		// Re-read the store each section so rewrites made earlier in this
		// same pass are visible to later sections.
		sections, err := d.store.ListOrdered()
		if err != nil {
			return fmt.Errorf("%s pass: %w", pass, err)
		}

		focus := sections[i]
		title, _ := outline.ParseHeading(focus)
		fmt.Printf("  ✍️  %s pass: section %d/%d (%s)\n", pass, i+1, total, title)

		draft, err := d.runSection(ctx, pass, sections, i)
		if err != nil {
			return fmt.Errorf("%s pass, section %d (%s): %w", pass, i+1, title, err)
		}
		if err := d.store.Write(i, draft); err != nil {
			return fmt.Errorf("%s pass, section %d (%s): %w", pass, i+1, title, err)
		}
	}
	return nil
}

func (d *Driver) runSection(ctx context.Context, pass Pass, sections []string, i int) (string, error) {
	prevText, nextText := buildContext(sections, i)
	class := ClassifyPosition(i, len(sections))
	seed := d.prompts.BuildSectionPrompt(pass, class, prevText, nextText, sections[i])

	cast := d.castWithGuidance(ctx, sections[i])
	agents := buildAgents(d.factory, cast)
	runner := chat.NewCycleRunner(cast, agents, d.opts.ReviewThreshold, d.opts.Chooser)

	log, err := runner.Run(ctx, seed, d.opts.TurnBudget)
	if err != nil {
		return "", err
	}

	d.memorizeMeta(ctx, sections[i], log)

	return runner.FinalDraft(log)
}

// buildContext renders the plain-text digests of everything before and after
// the focus section, joined by a blank line. The digests are informational
// context only and are never written back to the store.
func buildContext(sections []string, i int) (string, string) {
	prev := make([]string, 0, i)
	for _, s := range sections[:i] {
		prev = append(prev, outline.RenderPlainText(s))
	}
	next := make([]string, 0, len(sections)-i-1)
	for _, s := range sections[i+1:] {
		next = append(next, outline.RenderPlainText(s))
	}
	return strings.Join(prev, "\n\n"), strings.Join(next, "\n\n")
}

// castWithGuidance appends recalled reviewer guidance to the critic and meta
// reviewer instructions, mirroring how the original attached its memory
// capability to exactly those two participants.
func (d *Driver) castWithGuidance(ctx context.Context, focus string) chat.Cast {
	cast := d.cast
	if d.opts.Memory == nil {
		return cast
	}
	notes, err := d.opts.Memory.Recall(ctx, outline.RenderPlainText(focus), d.opts.RecallTopK)
	if err != nil {
		fmt.Printf("  ⚠️  Memory recall unavailable: %v\n", err)
		return cast
	}
	if len(notes) == 0 {
		return cast
	}
	guidance := "\n\nGuidance from earlier reviews:\n- " + strings.Join(notes, "\n- ")
	cast.Critic.Instruction += guidance
	cast.Meta.Instruction += guidance
	return cast
}

func (d *Driver) memorizeMeta(ctx context.Context, focus string, log chat.Log) {
	if d.opts.Memory == nil {
		return
	}
	meta, ok := log.LastByRole(d.cast.Meta.Role)
	if !ok {
		return
	}
	title, _ := outline.ParseHeading(focus)
	note := fmt.Sprintf("Section %q: %s", title, meta.Content)
	if err := d.opts.Memory.Memorize(ctx, note); err != nil {
		fmt.Printf("  ⚠️  Memory write failed: %v\n", err)
	}
}

func buildAgents(factory AgentFactory, cast chat.Cast) map[chat.Role]chat.Agent {
	agents := map[chat.Role]chat.Agent{
		cast.Writer.Role: factory.Agent(cast.Writer),
		cast.Critic.Role: factory.Agent(cast.Critic),
		cast.Meta.Role:   factory.Agent(cast.Meta),
	}
	for _, r := range cast.Reviewers {
		agents[r.Role] = factory.Agent(r)
	}
	return agents
}
