package usecase

import (
	"fmt"
	"strings"

	"taste-orchestrator/internal/domain"
)

// NarrativeStyle selects the voice and structure of the synthesized answer.
// The style is a property of the pipeline configuration, not of the data.
type NarrativeStyle string

const (
	// StylePlain is a concise plain-paragraph answer bounded to ~120 words.
	StylePlain NarrativeStyle = "plain"
	// StyleItinerary is a markdown trip plan with fixed required sections.
	StyleItinerary NarrativeStyle = "itinerary"
	// StyleFriendly is a short friendly paragraph with no structural requirement.
	StyleFriendly NarrativeStyle = "friendly"
)

const intentPromptTemplate = `You are a JSON extractor for a cultural-recommendation API.
Read the conversation below and return ONLY a JSON object or the literal null.

{
  "domain": ["place|movie|book|artist|podcast|brand"],
  "moodTags": ["..."],
  "location": "",
  "timeRange": { "start": "YYYY-MM-DD", "end": "YYYY-MM-DD" },
  "take": 8
}

Resolve vague phrasing into concrete fields:
- "I love Wes Anderson movies and I'm in Italy next week" -> {"domain":["place"],"moodTags":["quirky","artistic"],"location":"Italy","take":8}
- "scary movies to watch tonight" -> {"domain":["movie"],"moodTags":["horror"],"take":8}
- "beach trip with my girlfriend next weekend" -> {"domain":["place"],"moodTags":["relaxing","beach","romantic"],"take":6}

Omit any field you cannot infer. If the conversation contains no cultural or
travel request at all, return null. No prose, no code fences.

Conversation:
%s`

// BuildIntentPrompt renders the extraction instruction around the transcript.
func BuildIntentPrompt(transcript string) string {
	return fmt.Sprintf(intentPromptTemplate, transcript)
}

// SynthesisPromptInput carries everything the synthesis prompt needs.
type SynthesisPromptInput struct {
	UserContext string
	Entities    []domain.RankedEntity
	Style       NarrativeStyle
	Location    string
	Budget      float64
}

// BuildSynthesisPrompt renders the final generation prompt. An empty entity
// list produces the degraded wording that tells the model to answer from
// general knowledge — that is the designed fallback, not an error path.
func BuildSynthesisPrompt(in SynthesisPromptInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The user asked:\n%s\n\n", in.UserContext)

	if len(in.Entities) > 0 {
		b.WriteString("The cultural graph returned these ranked entities:\n")
		for _, e := range in.Entities {
			b.WriteString(e.Render())
			b.WriteByte('\n')
		}
	} else {
		b.WriteString("No ranked entities were returned. Answer from general knowledge instead.\n")
	}
	b.WriteByte('\n')

	switch in.Style {
	case StyleItinerary:
		writeItineraryDirective(&b, in)
	case StyleFriendly:
		b.WriteString("Write a short, friendly paragraph that reflects the user's taste. Keep it warm and personal.\n")
	default:
		b.WriteString("Reply with a helpful, concise paragraph (max 120 words). Weave the entities in naturally; do not output a bare list.\n")
	}

	return b.String()
}

func writeItineraryDirective(b *strings.Builder, in SynthesisPromptInput) {
	if in.Location != "" {
		fmt.Fprintf(b, "The user is planning a trip to %s.\n", in.Location)
	}
	if in.Budget > 0 {
		fmt.Fprintf(b, "Total budget: $%.0f. Stay within it.\n", in.Budget)
	}
	b.WriteString(`Plan a complete, realistic, budget-constrained trip. Include:
- Flight options with approximate cost and timing
- Hotel or rental options with estimated price and location
- Tourist spots to visit, noting entry fees and free spots
- Suggested daily meal budget
- Local transport (ride-sharing, public transport, taxis)
Use markdown with bold, italic and bullet points.
Do not assume the user wants anything outside this trip; wait for new
preferences before suggesting more. Keep it realistic; where data is missing,
assume practical estimates. Start with a warm one-paragraph summary, then lay
out each day or a general itinerary.
`)
}
