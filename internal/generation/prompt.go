package generation

import (
	"fmt"
	"strings"

	"newsdesk/internal/content"
)

const baseInstructions = `You are an expert Telugu news content creator specializing in short-form video content for social media (YouTube Shorts, Instagram Reels).

INPUT STORY:
%s

INPUT TYPE: %s

TASK: Generate Telugu short-form news content optimized for 15-second videos.`

const fullStructure = `Generate complete Telugu news content with this EXACT structure:

{
  "headlines": [
    {"id": "h1", "text": "Engaging Telugu headline 1 (10-15 words)", "selected": true},
    {"id": "h2", "text": "Engaging Telugu headline 2 (10-15 words)", "selected": false},
    {"id": "h3", "text": "Engaging Telugu headline 3 (10-15 words)", "selected": false}
  ],
  "script": {
    "text": "Complete 15-second Telugu script (40-50 words, conversational, engaging)",
    "duration": "14 సెకన్లు",
    "wordCount": 45
  },
  "hashtags": [
    "#తెలుగువార్తలు", "#TeluguNews", "#ట్రెండింగ్", "#BreakingNews",
    "4 more relevant hashtags (mix Telugu and English)"
  ],
  "thumbnailChecklist": [
    {"id": "bg", "label": "బ్యాక్‌గ్రౌండ్ ఇమేజ్ ఎంపిక చేయండి", "checked": false},
    {"id": "headline", "label": "హెడ్‌లైన్ టెక్స్ట్ ఓవర్‌లే", "checked": false},
    {"id": "logo", "label": "చానెల్ లోగో పొజిషన్", "checked": false},
    {"id": "colors", "label": "కలర్ స్కీమ్ వర్తింపజేయండి", "checked": false},
    {"id": "preview", "label": "ప్రివ్యూ మరియు రివ్యూ", "checked": false}
  ]
}

REQUIREMENTS:
- Headlines: Telugu script, engaging, 10-15 words, suitable for video thumbnails
- Script: Conversational Telugu, exactly 40-50 words (15 seconds when spoken), start with greeting like "నమస్కారం" or "హలో వ్యూయర్స్", end with "థాంక్యూ!"
- Hashtags: 8 total, mix Telugu (#తెలుగువార్తలు) and English (#TeluguNews), relevant to story
- Duration: Always "14 సెకన్లు" or "15 సెకన్లు"
- Make content viral-worthy and shareable

CRITICAL FORMATTING RULES:
1. Return ONLY valid JSON - no markdown code blocks, no explanations
2. Ensure all strings are properly quoted with double quotes "
3. No trailing commas in arrays or objects
4. All Telugu text must use proper Unicode characters
5. Verify JSON is valid before returning

Return the JSON object directly:`

var sectionStructure = map[content.Section]string{
	content.SectionHeadlines: `Return JSON with this structure:
{
  "headlines": [
    {"id": "h1", "text": "Telugu headline 1", "selected": true},
    {"id": "h2", "text": "Telugu headline 2", "selected": false},
    {"id": "h3", "text": "Telugu headline 3", "selected": false}
  ]
}`,
	content.SectionScript: `Return JSON with this structure:
{
  "script": {
    "text": "Complete Telugu script (40-50 words)",
    "duration": "14 సెకన్లు",
    "wordCount": 45
  }
}`,
	content.SectionHashtags: `Return JSON with this structure:
{
  "hashtags": ["#tag1", "#tag2", "#tag3", "#tag4", "#tag5", "#tag6", "#tag7", "#tag8"]
}`,
}

var sectionRule = map[content.Section]string{
	content.SectionHeadlines: "Headlines must be catchy, 10-15 words each",
	content.SectionScript:    "Script must be exactly 40-50 words for 15 seconds",
	content.SectionHashtags:  "Mix Telugu and English hashtags, 8 total",
}

// BuildPrompt returns the full prompt, or a section-scoped one when section
// is non-empty.
func BuildPrompt(input string, typ content.InputType, section content.Section) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, baseInstructions, input, typ)
	sb.WriteString("\n\n")
	if section == "" {
		sb.WriteString(fullStructure)
		return sb.String()
	}
	fmt.Fprintf(&sb, "REGENERATE ONLY: %s\n\n", section)
	fmt.Fprintf(&sb, "Generate ONLY the %q section with fresh, different content. Keep the same JSON structure.\n\n", section)
	sb.WriteString(sectionStructure[section])
	sb.WriteString("\n\nIMPORTANT:\n- Return ONLY valid JSON\n- Use Telugu script (తెలుగు) for all content\n- Make content engaging and suitable for social media\n")
	if rule := sectionRule[section]; rule != "" {
		sb.WriteString("- " + rule + "\n")
	}
	return sb.String()
}
