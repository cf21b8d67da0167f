package generation

import (
	"context"
	"errors"
	"fmt"

	"newsdesk/internal/content"
	"newsdesk/internal/llm"
)

// ModelGenerator asks a language model for content and accepts only output
// that passes the bundle schema.
type ModelGenerator struct {
	client llm.LLMClient
}

func NewModelGenerator(client llm.LLMClient) *ModelGenerator {
	return &ModelGenerator{client: client}
}

func (g *ModelGenerator) Generate(ctx context.Context, input string, typ content.InputType, section content.Section) (content.Bundle, error) {
	phase := "generate"
	if section != "" {
		phase = "regenerate:" + string(section)
	}
	raw, err := g.client.GenerateJSON(llm.WithPhase(ctx, phase), BuildPrompt(input, typ, section), nil)
	if err != nil {
		if errors.Is(err, llm.ErrInvalidJSON) {
			return content.Bundle{}, invalid(err)
		}
		return content.Bundle{}, transport(fmt.Errorf("%s: %w", g.client.Name(), err))
	}

	b, err := decodeBundle(extractJSON(string(raw)), section)
	if err != nil {
		return content.Bundle{}, err
	}
	normalize(&b)
	b.OriginalInput = input
	b.Type = typ
	return b, nil
}

// normalize fills ids, selection and word count the model may omit.
func normalize(b *content.Bundle) {
	selected := -1
	for i := range b.Headlines {
		if b.Headlines[i].ID == "" {
			b.Headlines[i].ID = fmt.Sprintf("h%d", i+1)
		}
		if b.Headlines[i].Selected {
			if selected >= 0 {
				b.Headlines[i].Selected = false
			} else {
				selected = i
			}
		}
	}
	if selected < 0 && len(b.Headlines) > 0 {
		b.Headlines[0].Selected = true
	}
	if b.Script != nil && b.Script.WordCount == 0 {
		b.Script.WordCount = content.WordCount(b.Script.Text)
	}
	for i := range b.ThumbnailChecklist {
		if b.ThumbnailChecklist[i].ID == "" {
			b.ThumbnailChecklist[i].ID = fmt.Sprintf("item-%d", i+1)
		}
	}
}
