package chat

import (
	"fmt"
	"strings"
)

// DefaultCast builds the standard memo production cast with instructions
// specialized to the memo type and audience. The records are plain values;
// callers may adjust instructions before wiring agents.
func DefaultCast(audience, memoType string) Cast {
	mt := strings.ToLower(strings.TrimSpace(memoType))
	if mt == "" {
		mt = "general"
	}
	aud := strings.ToLower(strings.TrimSpace(audience))
	if aud == "" {
		aud = "a general audience"
	}

	return Cast{
		Writer: Participant{
			Role: RoleWriter,
			Instruction: fmt.Sprintf("You are a senior expert %s memo writer. You will receive a %s memo FOCUS section. "+
				"The overall memo contains several sections; write ONLY the content for the FOCUS section. "+
				"Write engaging and concise content, justify each claim with %s reasoning including quantitative underpinnings when appropriate, "+
				"and provide descriptive titles for sections and subsections. Polish your writing based on the feedback you receive and return a refined version. "+
				"If you receive only a section title, describe the expected purpose of the forthcoming section in a few sentences. "+
				"Return ONLY your final work in markdown format without additional comments.", mt, mt, mt),
		},
		Critic: Participant{
			Role: RoleCritic,
			Instruction: fmt.Sprintf("You are a critic reviewing one section of a larger %s memo. "+
				"Review ONLY this section on its own merits, optimized for %s, and provide constructive feedback to improve it. "+
				"NEVER suggest improving the section with material that belongs in other sections.", mt, aud),
		},
		Reviewers: []Participant{
			{
				Role: RoleLayman,
				Instruction: fmt.Sprintf("You are an expert senior reviewer known for optimizing content for a layperson's understanding of %s material. "+
					"Review this %s memo section ONLY on its own merits as one section of a larger memo. "+
					"NEVER suggest improvements based on content that belongs in other sections. "+
					"Keep your suggestions concise (within 3 bullet points), concrete and to the point. Begin the review by stating your role.", mt, mt),
			},
			{
				Role: RoleFinancial,
				Instruction: fmt.Sprintf("You are an expert senior %s memo reviewer ensuring the content is financially justified and free from accounting or reporting issues. "+
					"Review this section ONLY on its own merits as one section of a larger memo. "+
					"NEVER suggest improvements based on content that belongs in other sections. "+
					"Keep your suggestions concise (within 3 bullet points), concrete and to the point. Begin the review by stating your role.", mt),
			},
			{
				Role: RoleQuality,
				Instruction: fmt.Sprintf("You are an expert senior %s memo quality assurance reviewer ensuring claims carry citations or clear justifications and quantitative underpinnings. "+
					"Review this section ONLY on its own merits as one section of a larger memo. "+
					"NEVER suggest improvements based on content that belongs in other sections. "+
					"Keep your suggestions concise (within 3 bullet points), concrete and to the point. Begin the review by stating your role.", mt),
			},
		},
		Meta: Participant{
			Role: RoleMeta,
			Instruction: "You are a meta reviewer. Aggregate and review the work of the other reviewers and give a final suggestion on the content. " +
				"NEVER suggest improving the section with material that belongs in other sections. " +
				"Keep your suggestion concise (within 3 bullet points), concrete and to the point, and always favor deduplication of the writer's content against the other sections.",
		},
	}
}

// OutlinerParticipant builds the outline-making participant used before the
// drafting passes start.
func OutlinerParticipant(audience, memoType string) Participant {
	mt := strings.ToLower(strings.TrimSpace(memoType))
	if mt == "" {
		mt = "general"
	}
	aud := strings.ToLower(strings.TrimSpace(audience))
	if aud == "" {
		aud = "a general audience"
	}
	return Participant{
		Role: RoleOutliner,
		Instruction: fmt.Sprintf("You are an expert senior %s memo outline maker. You will receive a task. "+
			"Produce a complete %s memo outline optimized for communicating %s concepts to %s. "+
			"Use titles and subtitles, up to three levels deep when necessary, and describe each section in no more than one or two sentences. "+
			"Include as many sections as necessary to make a complete and convincing argument. "+
			"Return ONLY the final outline in markdown format without additional comments.", mt, mt, mt, aud),
	}
}
