package generation

import (
	"context"
	"errors"

	"newsdesk/internal/content"
	"newsdesk/internal/platform/logger"
)

// FallbackGenerator serves the primary's result when it succeeds and the
// local generator's otherwise. A nil primary always uses the fallback.
type FallbackGenerator struct {
	primary  Generator
	fallback Generator
	log      *logger.Logger
}

func NewFallbackGenerator(primary, fallback Generator, log *logger.Logger) *FallbackGenerator {
	return &FallbackGenerator{primary: primary, fallback: fallback, log: log}
}

func (g *FallbackGenerator) Generate(ctx context.Context, input string, typ content.InputType, section content.Section) (content.Bundle, error) {
	if g.primary != nil {
		b, err := g.primary.Generate(ctx, input, typ, section)
		if err == nil {
			return b, nil
		}
		if ctx.Err() != nil {
			return content.Bundle{}, ctx.Err()
		}
		g.log.Warn("primary generation failed, using local content",
			"section", section, "class", classify(err), "error", err)
	}
	return g.fallback.Generate(ctx, input, typ, section)
}

func classify(err error) string {
	switch {
	case errors.Is(err, ErrInvalidContent):
		return "invalid_content"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "other"
	}
}
