package prompts

import (
	"fmt"
	"strings"
)

// ============================================================================
// Caption Prompts (Generative caption source)
// ============================================================================

// CaptionSystemPrompt sets the tone for every caption request.
const CaptionSystemPrompt = `You write captions for the "Virgin vs Chad" meme format.
The virgin is awkward, insecure and overcomplicated. The chad is effortlessly confident and absurdly superior.
Captions are short, punchy sentence fragments. No hashtags, no emoji, no numbering.`

// JSONPrefill is sent as the start of the assistant turn when the backend supports it.
const JSONPrefill = "I will respond with only valid JSON."

// captionJSONTemplate asks for both lists in one JSON object.
// 1: count, 2: virgin label, 3: chad label, 4: char limit, 5: emphasis
const captionJSONTemplate = `Generate funny Virgin vs Chad meme points comparing "%[2]s" (the virgin) and "%[3]s" (the chad).
Return exactly %[1]d points for each side.
Each point must be under %[4]d characters.
%[5]s

Respond with a single JSON object and nothing else, in exactly this shape:
{"virgin_points": ["point 1", "point 2"], "chad_points": ["point 1", "point 2"]}`

// captionLinesTemplate asks for one role as a bullet list.
// 1: count, 2: role, 3: label, 4: other label, 5: char limit, 6: emphasis
const captionLinesTemplate = `Generate exactly %[1]d %[2]s points about "%[3]s" for a Virgin vs Chad meme against "%[4]s".
Each point must be under %[5]d characters.
%[6]s

Output one point per line as a bullet list. No introduction, no headings, no closing remarks.`

// DefaultVirginEmphasis steers the virgin side toward mockery.
const DefaultVirginEmphasis = "Make the virgin points especially pathetic and the chad points over the top."

// CaptionJSONPrompt builds the JSON-format instruction for both roles.
func CaptionJSONPrompt(count int, virgin, chad string, charLimit int, emphasis string) string {
	return fmt.Sprintf(captionJSONTemplate, count, virgin, chad, charLimit, emphasisOrDefault(emphasis))
}

// CaptionLinesPrompt builds the bullet-line instruction for a single role.
func CaptionLinesPrompt(count int, role, label, other string, charLimit int, emphasis string) string {
	return fmt.Sprintf(captionLinesTemplate, count, role, label, other, charLimit, emphasisOrDefault(emphasis))
}

func emphasisOrDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return DefaultVirginEmphasis
	}
	return s
}
