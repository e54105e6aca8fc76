// Package extraction turns free-text Korean user messages into profile
// attribute deltas for the matching engine.
package extraction

import (
	"context"

	"policy-matching-be/internal/pkg/logger"
	"policy-matching-be/pkg/matching"
)

// ChainedExtractor tries the LLM extractor first and falls back to the
// rule-based keyword extractor when the model call or its output parsing
// fails. The fallback keeps the dialogue useful when the model backend is
// down.
type ChainedExtractor struct {
	primary  matching.ConditionExtractor
	fallback matching.ConditionExtractor
	logger   logger.ILogger
}

var _ matching.ConditionExtractor = &ChainedExtractor{}

func NewChainedExtractor(primary, fallback matching.ConditionExtractor, log logger.ILogger) *ChainedExtractor {
	return &ChainedExtractor{
		primary:  primary,
		fallback: fallback,
		logger:   log,
	}
}

func (c *ChainedExtractor) Extract(ctx context.Context, message string, profile matching.Profile) (*matching.Extraction, error) {
	result, err := c.primary.Extract(ctx, message, profile)
	if err == nil {
		return result, nil
	}

	c.logger.Warn("extraction", "llm extraction failed, falling back to keyword rules", map[string]interface{}{
		"error": err.Error(),
	})
	return c.fallback.Extract(ctx, message, profile)
}
