// Package scorer ranks profiles against a free-text query with a fixed
// keyword heuristic. It is used whenever model ranking is unavailable.
package scorer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spigell/talent-discovery/internal/profile"
)

const (
	nameWeight       = 10
	bioTermWeight    = 5
	skillWeight      = 20
	interestWeight   = 15
	roleWeight       = 25
	synonymWeight    = 15
	experienceWeight = 20

	maxScore        = 100
	maxListedItems  = 2
	maxReasonClause = 3
	reasonSeparator = "; "
)

// Scorer is safe for concurrent use; it never mutates its vocabulary.
type Scorer struct {
	vocab Vocabulary
}

// New returns a scorer over a private copy of vocab.
func New(vocab Vocabulary) *Scorer {
	return &Scorer{vocab: vocab.clone()}
}

// NewDefault returns a scorer using DefaultVocabulary.
func NewDefault() *Scorer {
	return New(DefaultVocabulary())
}

// Score returns the profiles with a positive score, highest first. Ties keep
// the input order.
func (s *Scorer) Score(query string, profiles []profile.Profile) []profile.Match {
	lowered := strings.ToLower(query)
	terms := queryTerms(lowered)
	matches := make([]profile.Match, 0)
	if len(terms) == 0 || len(profiles) == 0 {
		return matches
	}

	for _, p := range profiles {
		score, reasons := s.scoreOne(lowered, terms, p)
		if score <= 0 {
			continue
		}

		p.Normalize()
		if len(reasons) > maxReasonClause {
			reasons = reasons[:maxReasonClause]
		}
		matches = append(matches, profile.Match{
			Profile:     p,
			Score:       min(score, maxScore),
			MatchReason: strings.Join(reasons, reasonSeparator),
		})
	}

	slices.SortStableFunc(matches, func(a, b profile.Match) int {
		return b.Score - a.Score
	})

	return matches
}

func (s *Scorer) scoreOne(query string, terms []string, p profile.Profile) (int, []string) {
	score := 0
	var reasons []string

	name := strings.ToLower(p.Name)
	bio := strings.ToLower(p.Bio)

	if containsAny(name, terms) {
		score += nameWeight
		reasons = append(reasons, "Name matches search terms")
	}

	bioHits := 0
	for _, term := range terms {
		if strings.Contains(bio, term) {
			bioHits++
		}
	}
	if bioHits > 0 {
		score += bioHits * bioTermWeight
		reasons = append(reasons, "Bio contains relevant terms")
	}

	if hits := matchItems(p.Skills, terms); len(hits) > 0 {
		score += len(hits) * skillWeight
		reasons = append(reasons, "Skills match: "+listed(hits))
	}

	if hits := matchItems(p.Interests, terms); len(hits) > 0 {
		score += len(hits) * interestWeight
		reasons = append(reasons, "Interests match: "+listed(hits))
	}

	for _, role := range s.vocab.Roles {
		if strings.Contains(query, role) && strings.Contains(bio, role) {
			score += roleWeight
			reasons = append(reasons, fmt.Sprintf("Role '%s' matches", role))
		}
	}

	skills := lowerAll(p.Skills)
	for _, syn := range s.vocab.Synonyms {
		if !strings.Contains(query, syn.Term) {
			continue
		}
		for _, related := range syn.Related {
			if strings.Contains(bio, related) || containedInAny(skills, related) {
				score += synonymWeight
				reasons = append(reasons, fmt.Sprintf("Term '%s' relates to '%s'", syn.Term, related))
				break
			}
		}
	}

	if containsAny(query, s.vocab.ExperienceQuery) && containsAny(bio, s.vocab.ExperienceBio) {
		score += experienceWeight
		reasons = append(reasons, "Experience level matches")
	}

	return score, reasons
}

// queryTerms splits an already lower-cased query on whitespace, dropping
// repeated terms.
func queryTerms(query string) []string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

// matchItems returns the items that contain at least one term. Each item is
// reported once.
func matchItems(items, terms []string) []string {
	var hits []string
	for _, item := range items {
		if containsAny(strings.ToLower(item), terms) {
			hits = append(hits, item)
		}
	}
	return hits
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func containedInAny(items []string, word string) bool {
	for _, item := range items {
		if strings.Contains(item, word) {
			return true
		}
	}
	return false
}

func listed(items []string) string {
	if len(items) > maxListedItems {
		items = items[:maxListedItems]
	}
	return strings.Join(items, ", ")
}
