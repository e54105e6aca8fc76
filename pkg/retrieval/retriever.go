// Package retrieval produces the per-turn candidate set for the matching
// engine: a hybrid of rule-based narrowing over policy conditions and
// vector similarity over policy embeddings.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"policy-matching-be/internal/pkg/logger"
	"policy-matching-be/internal/repository/unitofwork"
	"policy-matching-be/pkg/embedding"
	"policy-matching-be/pkg/matching"
)

const (
	defaultCandidateLimit = 50

	// neutralSimilarity applies when no query embedding is available.
	neutralSimilarity = 0.5
	// neutralPopularity applies when the whole batch has zero applications.
	neutralPopularity = 0.5
)

type Retriever struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.EmbeddingProvider
	logger     logger.ILogger
	limit      int
}

var _ matching.CandidateRetriever = &Retriever{}

func NewRetriever(
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.EmbeddingProvider,
	log logger.ILogger,
) *Retriever {
	return &Retriever{
		uowFactory: uowFactory,
		embedder:   embedder,
		logger:     log,
		limit:      defaultCandidateLimit,
	}
}

// Retrieve embeds a query built from the known profile, searches policy
// embeddings by cosine similarity, then drops candidates whose hard
// conditions the profile already contradicts. An embedding failure degrades
// to a similarity-neutral search; a database failure is an error for the
// caller to absorb.
func (r *Retriever) Retrieve(ctx context.Context, profile matching.Profile) ([]matching.Candidate, error) {
	uow := r.uowFactory.NewUnitOfWork(ctx)

	queryText := BuildQueryText(profile)

	var queryVector []float32
	res, err := r.embedder.Generate(queryText, "RETRIEVAL_QUERY")
	if err != nil {
		r.logger.Warn("retrieval", "query embedding failed, falling back to neutral similarity", map[string]interface{}{
			"error": err.Error(),
			"query": queryText,
		})
	} else {
		queryVector = res.Embedding.Values
	}

	var candidates []matching.Candidate
	if queryVector != nil {
		scored, err := uow.PolicyEmbeddingRepository().SearchSimilarPolicies(ctx, queryVector, r.limit)
		if err != nil {
			return nil, fmt.Errorf("similarity search: %w", err)
		}
		candidates = make([]matching.Candidate, 0, len(scored))
		for _, sp := range scored {
			candidates = append(candidates, matching.Candidate{
				ID:         sp.Policy.Id,
				Title:      sp.Policy.Title,
				Conditions: sp.Policy.Conditions,
				Similarity: clampUnit(sp.Similarity),
				Popularity: float64(sp.Policy.ApplyCount),
				CreatedAt:  sp.Policy.CreatedAt,
			})
		}
	} else {
		policies, err := uow.PolicyRepository().FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("list policies: %w", err)
		}
		candidates = make([]matching.Candidate, 0, len(policies))
		for _, p := range policies {
			candidates = append(candidates, matching.Candidate{
				ID:         p.Id,
				Title:      p.Title,
				Conditions: p.Conditions,
				Similarity: neutralSimilarity,
				Popularity: float64(p.ApplyCount),
				CreatedAt:  p.CreatedAt,
			})
		}
	}

	candidates = applyHardFilters(candidates, profile)
	normalizePopularity(candidates)

	r.logger.Debug("retrieval", "candidate set retrieved", map[string]interface{}{
		"query":      queryText,
		"candidates": len(candidates),
	})
	return candidates, nil
}

// BuildQueryText summarizes the known profile for the vector search. With
// an empty profile the generic query still pulls a broad candidate set.
func BuildQueryText(profile matching.Profile) string {
	var parts []string

	if v, ok := profile["support_type"]; ok {
		parts = append(parts, fmt.Sprintf("%v", v))
	}
	if v, ok := profile["employment_status"]; ok {
		parts = append(parts, fmt.Sprintf("%v", v))
	}
	if v, ok := profile["region"]; ok {
		parts = append(parts, fmt.Sprintf("%v 지역", v))
	}

	if len(parts) == 0 {
		return "정부 지원사업"
	}
	return strings.Join(parts, " ")
}

// hardFilterAttributes are the attributes a contradiction on which removes
// a candidate outright. Softer attributes (income, employment, interest)
// only lower its filter score.
var hardFilterAttributes = []string{"age", "region", "business_status"}

func applyHardFilters(candidates []matching.Candidate, profile matching.Profile) []matching.Candidate {
	kept := candidates[:0]
	for _, c := range candidates {
		if passesHardFilters(c, profile) {
			kept = append(kept, c)
		}
	}
	return kept
}

func passesHardFilters(c matching.Candidate, profile matching.Profile) bool {
	for _, attribute := range hardFilterAttributes {
		value, known := profile[attribute]
		if !known {
			continue
		}
		condition, constrained := c.Conditions[attribute]
		if !constrained {
			continue
		}
		if !condition.Matches(value) {
			return false
		}
	}
	return true
}

// normalizePopularity converts raw application counts to [0,1] relative to
// the batch maximum.
func normalizePopularity(candidates []matching.Candidate) {
	var max float64
	for _, c := range candidates {
		if c.Popularity > max {
			max = c.Popularity
		}
	}
	for i := range candidates {
		if max > 0 {
			candidates[i].Popularity = candidates[i].Popularity / max
		} else {
			candidates[i].Popularity = neutralPopularity
		}
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
