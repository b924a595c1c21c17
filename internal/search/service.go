// Package search answers free-text queries over stored profiles, preferring a
// model ranking and degrading to keyword scoring when it is unavailable.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talent-discovery/internal/ai"
	"github.com/spigell/talent-discovery/internal/logger"
	"github.com/spigell/talent-discovery/internal/profile"
	"github.com/spigell/talent-discovery/internal/scorer"
)

// Method names the path that produced a Ranking.
type Method string

const (
	RankedByModel    Method = "model"
	RankedByFallback Method = "fallback"
)

const reasonDisabled = "model ranking disabled"

// Ranking is the result of a search. Matches come from exactly one Method.
type Ranking struct {
	Matches  []profile.Match `json:"matches"`
	RankedBy Method          `json:"ranked_by"`
	// FallbackReason explains why the model path was not used.
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// Lister is the part of the profile store search needs.
type Lister interface {
	List(ctx context.Context) ([]profile.Profile, error)
}

type Service struct {
	store  Lister
	ranker ai.Ranker
	scorer *scorer.Scorer
	logger *zap.Logger
}

// NewService wires a search service. A nil ranker disables model ranking and
// a nil scorer uses the default vocabulary.
func NewService(store Lister, ranker ai.Ranker, sc *scorer.Scorer, log *zap.Logger) *Service {
	if sc == nil {
		sc = scorer.NewDefault()
	}
	return &Service{
		store:  store,
		ranker: ranker,
		scorer: sc,
		logger: logger.OrNop(log),
	}
}

// ModelEnabled reports whether a ranker is configured.
func (s *Service) ModelEnabled() bool {
	return s.ranker != nil
}

// Search ranks every stored profile against query. Only a store failure is
// returned as an error; ranker failures fall back to keyword scoring.
func (s *Service) Search(ctx context.Context, query string) (*Ranking, error) {
	profiles, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	if len(profiles) == 0 {
		return &Ranking{Matches: []profile.Match{}, RankedBy: RankedByFallback, FallbackReason: "no profiles stored"}, nil
	}

	if s.ranker == nil {
		return s.fallback(query, profiles, reasonDisabled), nil
	}

	start := time.Now()
	matches, err := s.ranker.Rank(ctx, query, profiles)
	if err != nil {
		s.logger.Warn("model ranking failed, using keyword scoring",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		return s.fallback(query, profiles, err.Error()), nil
	}

	if matches == nil {
		matches = []profile.Match{}
	}

	s.logger.Debug("search ranked",
		zap.String(logger.FieldRankedBy, string(RankedByModel)),
		zap.Int("matches", len(matches)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Ranking{Matches: matches, RankedBy: RankedByModel}, nil
}

func (s *Service) fallback(query string, profiles []profile.Profile, reason string) *Ranking {
	matches := s.scorer.Score(query, profiles)

	s.logger.Debug("search ranked",
		zap.String(logger.FieldRankedBy, string(RankedByFallback)),
		zap.String("reason", reason),
		zap.Int("matches", len(matches)),
	)

	return &Ranking{Matches: matches, RankedBy: RankedByFallback, FallbackReason: reason}
}
