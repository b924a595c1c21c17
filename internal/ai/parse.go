package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/talent-discovery/internal/profile"
)

type rankedEntry struct {
	ProfileIndex int     `mapstructure:"profile_index"`
	Score        float64 `mapstructure:"score"`
	Reasoning    string  `mapstructure:"reasoning"`
	Reason       string  `mapstructure:"reason"`
}

// resultKeys are the object keys models use for the ranking array.
var resultKeys = []string{"results", "matches", "profiles"}

// ParseRanking maps a model reply onto profiles. Entries pointing outside the
// profile list or scoring zero are dropped; scores are clamped to [0, 100].
func ParseRanking(raw string, profiles []profile.Profile) ([]profile.Match, error) {
	cleaned := extractJSON(raw)

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse ranking response: %w", err)
	}

	items, err := rankingItems(data)
	if err != nil {
		return nil, err
	}

	var entries []rankedEntry
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &entries,
	})
	if err != nil {
		return nil, fmt.Errorf("build ranking decoder: %w", err)
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode ranking entries: %w", err)
	}

	matches := make([]profile.Match, 0, len(entries))
	seen := make(map[int]struct{}, len(entries))
	for _, entry := range entries {
		idx := entry.ProfileIndex - 1
		if idx < 0 || idx >= len(profiles) {
			continue
		}
		if _, ok := seen[idx]; ok {
			continue
		}

		score := clampScore(entry.Score)
		if score <= 0 {
			continue
		}
		seen[idx] = struct{}{}

		p := profiles[idx]
		p.Normalize()

		reason := strings.TrimSpace(entry.Reasoning)
		if reason == "" {
			reason = strings.TrimSpace(entry.Reason)
		}

		matches = append(matches, profile.Match{Profile: p, Score: score, MatchReason: reason})
	}

	slices.SortStableFunc(matches, func(a, b profile.Match) int {
		return b.Score - a.Score
	})

	return matches, nil
}

func rankingItems(data any) ([]any, error) {
	switch val := data.(type) {
	case []any:
		return val, nil
	case map[string]any:
		for _, key := range resultKeys {
			raw, ok := val[key]
			if !ok {
				continue
			}
			items, ok := raw.([]any)
			if !ok {
				return nil, fmt.Errorf("ranking response field %q is not an array", key)
			}
			return items, nil
		}
		return nil, errors.New("ranking response has no results array")
	default:
		return nil, fmt.Errorf("unexpected ranking response type %T", data)
	}
}

func clampScore(score float64) int {
	if math.IsNaN(score) || score <= 0 {
		return 0
	}
	return int(math.Min(math.Round(score), 100))
}

// extractJSON strips markdown code fences and any prose around the payload.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	start := strings.IndexAny(raw, "{[")
	if start > 0 {
		raw = raw[start:]
	}
	if end := strings.LastIndexAny(raw, "}]"); end != -1 && end < len(raw)-1 {
		raw = raw[:end+1]
	}
	return raw
}
