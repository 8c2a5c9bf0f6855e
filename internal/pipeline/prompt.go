package pipeline

import (
	"fmt"
	"strings"
)

// Pass identifies which of the two sequential passes is running.
type Pass int

const (
	PassDraft Pass = iota
	PassRefine
)

func (p Pass) String() string {
	if p == PassRefine {
		return "refine"
	}
	return "draft"
}

// PositionClass classifies a section by its place in the document, which
// decides both the context fields present and the instruction sentence.
type PositionClass int

const (
	ClassFirst PositionClass = iota
	ClassMiddle
	ClassLast
)

// ClassifyPosition maps a section index to its position class. A single
// section document counts as first: it gets the introduction treatment.
func ClassifyPosition(index, total int) PositionClass {
	switch {
	case index == 0:
		return ClassFirst
	case index == total-1:
		return ClassLast
	default:
		return ClassMiddle
	}
}

// PromptBuilder constructs the drafting and refining prompts. The field
// order is a contract: AUDIENCE, then PREVIOUS SECTION when present, then
// NEXT SECTION when present, then FOCUS SECTION, then the instruction
// sentence for the pass and position class.
type PromptBuilder struct {
	Audience string
	MemoType string
	Topic    string
}

// BuildSectionPrompt renders the seed prompt for one section's cycle.
func (pb *PromptBuilder) BuildSectionPrompt(pass Pass, class PositionClass, prevText, nextText, focus string) string {
	var sb strings.Builder

	sb.WriteString("AUDIENCE:\n\n")
	sb.WriteString(pb.Audience)
	sb.WriteString("\n\n---\n\n")

	if class != ClassFirst {
		sb.WriteString("PREVIOUS SECTION:\n\n")
		sb.WriteString(prevText)
		sb.WriteString("\n\n---\n\n")
	}
	if class != ClassLast {
		sb.WriteString("NEXT SECTION:\n\n")
		sb.WriteString(nextText)
		sb.WriteString("\n\n---\n\n")
	}

	sb.WriteString("FOCUS SECTION:\n\n")
	sb.WriteString(focus)
	sb.WriteString("\n\n---\n\n")

	sb.WriteString(pb.instruction(pass, class))
	return sb.String()
}

// BuildOutlineTask renders the task handed to the outliner before any
// section exists.
func (pb *PromptBuilder) BuildOutlineTask() string {
	return fmt.Sprintf("Create an outline for a %s memo on the topic %s optimized for the audience: %s.",
		strings.ToLower(pb.MemoType), pb.Topic, pb.Audience)
}

func (pb *PromptBuilder) instruction(pass Pass, class PositionClass) string {
	mt := strings.ToLower(pb.MemoType)
	if pass == PassRefine {
		if class == ClassFirst {
			return fmt.Sprintf("Refine the introduction for this %s memo optimized for the AUDIENCE provided above. "+
				"Return your section with titles and subtitles or bullet points in markdown format when appropriate. "+
				"ALWAYS deduplicate your content based on the sections provided:", mt)
		}
		return fmt.Sprintf("Refine the detailed section of this %s memo optimized for the AUDIENCE provided above. "+
			"Return your section with titles and subtitles or bullet points in markdown format when appropriate. "+
			"ALWAYS deduplicate your content based on the sections provided:", mt)
	}
	if class == ClassFirst {
		return fmt.Sprintf("Produce a simple and short introduction for this %s memo on the topic of %s optimized for the AUDIENCE provided above. "+
			"ALWAYS deduplicate your content based on the sections provided:", mt, pb.Topic)
	}
	return fmt.Sprintf("Produce a detailed section of this %s memo on the topic of %s optimized for the AUDIENCE provided above. "+
		"ALWAYS deduplicate your content based on the sections provided:", mt, pb.Topic)
}
